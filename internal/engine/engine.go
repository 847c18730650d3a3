package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kafumanto/simplelock/internal/errors"
	"github.com/kafumanto/simplelock/internal/ledger"
)

// Acquire claims the given key for user. If the key already holds a record,
// it fails with a lock conflict naming the current holder and nothing is
// mutated. An empty purpose defaults to ledger.DefaultPurpose.
func Acquire(l *ledger.Ledger, key ledger.Key, user, purpose string) (ledger.Record, error) {
	if purpose == "" {
		purpose = ledger.DefaultPurpose
	}

	if existing, held := l.Lookup(key); held {
		return ledger.Record{}, errors.NewLockConflictError(existing.File, existing.User, existing.Purpose)
	}

	rec := ledger.Record{
		RepoID:  key.RepoID,
		Branch:  key.Branch,
		User:    user,
		File:    key.File,
		Purpose: purpose,
	}
	if err := l.Append(rec); err != nil {
		return ledger.Record{}, err
	}
	return rec, nil
}

// AcquireAll claims every key in one batch. All keys are validated free
// before any record is appended, so a conflict on any file leaves the
// snapshot unchanged.
func AcquireAll(l *ledger.Ledger, keys []ledger.Key, user, purpose string) ([]ledger.Record, error) {
	for _, key := range keys {
		if existing, held := l.Lookup(key); held {
			return nil, errors.NewLockConflictError(existing.File, existing.User, existing.Purpose)
		}
	}

	records := make([]ledger.Record, 0, len(keys))
	for _, key := range keys {
		rec, err := Acquire(l, key, user, purpose)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Release removes the record for the given key. It fails with ErrNotLocked
// when the key is free, and with a permission error when the record belongs
// to a different user and force is false. Failure never mutates the snapshot.
func Release(l *ledger.Ledger, key ledger.Key, user string, force bool) error {
	rec, held := l.Lookup(key)
	if !held {
		return errors.Wrapf(errors.ErrNotLocked, "%s", key.File)
	}
	if rec.User != user && !force {
		return errors.NewPermissionDeniedError(rec.File, rec.User)
	}

	l.Remove(key)
	return nil
}

// ReleaseAll removes the records for every key in one batch, all-or-nothing:
// each key must hold a record releasable by user (or force), otherwise the
// snapshot is left unchanged. When some keys are simply free, the error
// reports how many of the requested files were actually locked.
func ReleaseAll(l *ledger.Ledger, keys []ledger.Key, user string, force bool) error {
	var missing []string
	for _, key := range keys {
		rec, held := l.Lookup(key)
		if !held {
			missing = append(missing, key.File)
			continue
		}
		if rec.User != user && !force {
			return errors.NewPermissionDeniedError(rec.File, rec.User)
		}
	}

	if len(missing) > 0 {
		if len(keys) == 1 {
			return errors.Wrapf(errors.ErrNotLocked, "%s", missing[0])
		}
		return errors.Wrapf(errors.ErrNotLocked,
			"only %d of %d files were locked (missing: %s)",
			len(keys)-len(missing), len(keys), strings.Join(missing, ", "))
	}

	for _, key := range keys {
		l.Remove(key)
	}
	return nil
}

// Filter narrows List output. Zero-valued fields match everything.
type Filter struct {
	RepoID string
	Branch string
	User   string
}

func (f Filter) matches(rec ledger.Record) bool {
	if f.RepoID != "" && rec.RepoID != f.RepoID {
		return false
	}
	if f.Branch != "" && rec.Branch != f.Branch {
		return false
	}
	if f.User != "" && rec.User != f.User {
		return false
	}
	return true
}

// List returns the records matching the filter, ordered by
// (repoID, branch, file). It is a pure read over the snapshot.
func List(l *ledger.Ledger, f Filter) []ledger.Record {
	var out []ledger.Record
	for _, rec := range l.Records() {
		if f.matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Entry is one row of a combined locked/unlocked listing. Record is only
// meaningful when Locked is true.
type Entry struct {
	Path   string
	Locked bool
	Record ledger.Record
}

// String renders the entry the way the list command prints it.
func (e Entry) String() string {
	if e.Locked {
		return fmt.Sprintf("%s is locked by %s for %s", e.Path, e.Record.User, e.Record.Purpose)
	}
	return fmt.Sprintf("%s is unlocked", e.Path)
}

// ListWithLockables unions the filtered records with lockable paths that hold
// no record, each annotated as unlocked. Lockable paths are advisory hints
// from the pattern matcher; they are scoped to the filter's repoID and branch
// and never affect what may be locked. The result is sorted by path with a
// secondary order of (repoID, branch) for locked rows, so output is stable
// whether or not unlocked rows are requested.
func ListWithLockables(l *ledger.Ledger, f Filter, lockables []string) []Entry {
	entries := make([]Entry, 0, l.Len()+len(lockables))
	seen := make(map[string]bool)

	for _, rec := range List(l, f) {
		entries = append(entries, Entry{Path: rec.File, Locked: true, Record: rec})
		if rec.RepoID == f.RepoID && rec.Branch == f.Branch {
			seen[rec.File] = true
		}
	}

	for _, path := range lockables {
		if !seen[path] {
			entries = append(entries, Entry{Path: path})
			seen[path] = true
		}
	}

	sortEntries(entries)
	return entries
}

// sortEntries orders listing rows by path, then repoID, then branch.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Record.RepoID != b.Record.RepoID {
			return a.Record.RepoID < b.Record.RepoID
		}
		return a.Record.Branch < b.Record.Branch
	})
}

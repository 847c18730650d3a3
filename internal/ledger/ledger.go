package ledger

import (
	"sort"
	"strings"

	"github.com/kafumanto/simplelock/internal/errors"
)

// Ledger is an in-memory snapshot of the lock ledger, parsed from the pulled
// content of the shared ledger repository. Mutations mark the snapshot dirty
// so the coordinator knows a publish is needed; a snapshot is never shared
// between command invocations and needs no internal locking.
type Ledger struct {
	records map[Key]Record
	dirty   bool
}

// New returns an empty ledger snapshot.
func New() *Ledger {
	return &Ledger{records: make(map[Key]Record)}
}

// Parse builds a ledger snapshot from serialized content. A missing ledger
// file parses as empty content and yields an empty snapshot.
//
// Parsing is strict: any non-empty line with a field count other than five,
// and any duplicate key, fails the whole snapshot as a malformed ledger.
// Nothing is ever silently dropped or partially applied.
func Parse(data []byte) (*Ledger, error) {
	l := New()

	for i, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue // blank separators and the trailing newline
		}
		rec, err := unmarshalRecord(line, i+1)
		if err != nil {
			return nil, err
		}
		if _, exists := l.records[rec.Key()]; exists {
			return nil, errors.NewLedgerError("duplicate record for "+rec.Key().String(), i+1)
		}
		l.records[rec.Key()] = rec
	}

	return l, nil
}

// Serialize renders the ledger as file content, one record per line,
// ordered by (repoID, branch, file) so equivalent ledgers are byte-identical.
func (l *Ledger) Serialize() []byte {
	recs := l.Records()

	var b strings.Builder
	for _, rec := range recs {
		b.WriteString(rec.marshal())
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// Lookup returns the record for the given key, if one exists.
func (l *Ledger) Lookup(k Key) (Record, bool) {
	rec, ok := l.records[k]
	return rec, ok
}

// Append adds a new record to the snapshot and marks it dirty.
// The record must validate and its key must be free.
func (l *Ledger) Append(rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if existing, ok := l.records[rec.Key()]; ok {
		return errors.NewLockConflictError(existing.File, existing.User, existing.Purpose)
	}
	l.records[rec.Key()] = rec
	l.dirty = true
	return nil
}

// Remove deletes the record for the given key and marks the snapshot dirty.
// Returns false, without mutating anything, if the key holds no record.
func (l *Ledger) Remove(k Key) bool {
	if _, ok := l.records[k]; !ok {
		return false
	}
	delete(l.records, k)
	l.dirty = true
	return true
}

// Records returns all records ordered by (repoID, branch, file).
func (l *Ledger) Records() []Record {
	recs := make([]Record, 0, len(l.records))
	for _, rec := range l.records {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return less(recs[i], recs[j]) })
	return recs
}

// Len returns the number of outstanding records.
func (l *Ledger) Len() int {
	return len(l.records)
}

// Dirty reports whether the snapshot has unpublished mutations.
func (l *Ledger) Dirty() bool {
	return l.dirty
}

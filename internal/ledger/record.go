package ledger

import (
	"fmt"
	"strings"

	"github.com/kafumanto/simplelock/internal/errors"
)

// DefaultPurpose is recorded when the claimant gives no reason for a lock.
const DefaultPurpose = "editing"

// Delimiter separates the fields of a serialized record.
const Delimiter = "\t"

// fieldCount is the exact number of fields in a serialized record.
const fieldCount = 5

// Key identifies what a lock protects: one file on one branch of one work
// repository. Many work repositories may share a single ledger, so the
// repository identifier is part of the key.
type Key struct {
	RepoID string
	Branch string
	File   string
}

// String renders the key for log and commit messages.
func (k Key) String() string {
	return fmt.Sprintf("%s@%s:%s", k.RepoID, k.Branch, k.File)
}

// Record is one outstanding lock claim. Records are immutable once created;
// a claim ends only by removal of the exact record.
type Record struct {
	RepoID  string // identifier of the work repository
	Branch  string // named branch the claim applies to
	User    string // identity of the claimant
	File    string // path within the work repository, relative
	Purpose string // free-text reason, DefaultPurpose when omitted
}

// Key returns the uniqueness key of the record.
func (r Record) Key() Key {
	return Key{RepoID: r.RepoID, Branch: r.Branch, File: r.File}
}

// Validate checks that the record can be serialized without ambiguity:
// all key fields and the user must be non-empty, and no field may contain
// the delimiter or a line break.
func (r Record) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"repoID", r.RepoID},
		{"branch", r.Branch},
		{"user", r.User},
		{"file", r.File},
		{"purpose", r.Purpose},
	}

	for _, f := range fields {
		if f.value == "" && f.name != "purpose" {
			return errors.NewValidationError("field must not be empty").WithField(f.name)
		}
		if strings.ContainsAny(f.value, Delimiter+"\n\r") {
			return errors.NewValidationError("field must not contain tabs or line breaks").
				WithField(f.name).
				WithValue(f.value)
		}
	}
	return nil
}

// marshal renders the record as one ledger line, without trailing newline.
func (r Record) marshal() string {
	return strings.Join([]string{r.RepoID, r.Branch, r.User, r.File, r.Purpose}, Delimiter)
}

// unmarshalRecord parses one non-empty ledger line. The line number is used
// for error context only.
func unmarshalRecord(line string, lineno int) (Record, error) {
	fields := strings.Split(line, Delimiter)
	if len(fields) != fieldCount {
		return Record{}, errors.NewLedgerError(
			fmt.Sprintf("expected %d fields, got %d", fieldCount, len(fields)), lineno)
	}

	rec := Record{
		RepoID:  fields[0],
		Branch:  fields[1],
		User:    fields[2],
		File:    fields[3],
		Purpose: fields[4],
	}
	if rec.RepoID == "" || rec.Branch == "" || rec.User == "" || rec.File == "" {
		return Record{}, errors.NewLedgerError("record has empty key or user field", lineno)
	}
	return rec, nil
}

// less orders records by (repoID, branch, file) for deterministic output.
func less(a, b Record) bool {
	if a.RepoID != b.RepoID {
		return a.RepoID < b.RepoID
	}
	if a.Branch != b.Branch {
		return a.Branch < b.Branch
	}
	return a.File < b.File
}

// Package ledger defines the lock ledger data model and its line-based codec.
//
// The ledger is the full set of outstanding lock records, persisted as the
// content of a single file inside the shared ledger repository. Each record
// is one line of five TAB-separated fields in fixed order:
//
//	repoID <TAB> branch <TAB> user <TAB> file <TAB> purpose
//
// A record is identified by its [Key] (repoID, branch, file); at most one
// record may exist per key in any committed ledger state. Records are
// immutable: a lock is changed only by removing its record and, separately,
// appending a new one.
//
// # Schema strictness
//
// The parser rejects, as a malformed ledger, any non-empty line whose field
// count differs from five and any pair of records sharing a key. The writer
// refuses field values containing the delimiter or a newline before anything
// reaches the ledger file, so no escaping mechanism exists or is needed.
//
// # Basic Usage
//
//	led, err := ledger.Parse(data)
//
//	rec, ok := led.Lookup(ledger.Key{RepoID: id, Branch: "main", File: "a.bin"})
//
//	err = led.Append(ledger.Record{...})
//	removed := led.Remove(key)
//
//	data = led.Serialize() // stable order by (repoID, branch, file)
package ledger

// Package gitstore reads and publishes the lock ledger through a local clone
// of the shared ledger repository, driving the git CLI behind a small
// executor interface so tests can substitute a mock.
//
// The store deliberately knows nothing about lock semantics. It offers four
// primitives to the coordination layer:
//
//   - Pull: force the local replica to the remote's published tip, throwing
//     away any local commits or uncommitted residue from a previously lost
//     race. Failure to reach the remote is ErrRepositoryUnavailable.
//   - ReadLedger / WriteLedger: raw ledger file content; a missing file reads
//     as empty.
//   - Publish: commit the staged content and push it. An accepted push means
//     the local revision fast-forwarded the remote and the mutation is now
//     canonical. A rejected push means another writer advanced the remote
//     first; that outcome is classified as ErrSyncConflict and the store
//     never merges or retries on its own.
//
// The push/reject-unless-fast-forward rule of the remote is the only
// compare-and-swap primitive in the whole system.
package gitstore

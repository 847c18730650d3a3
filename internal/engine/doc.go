// Package engine implements the lock operations over an in-memory ledger
// snapshot: acquire, release, and list.
//
// The engine never touches the shared ledger repository itself. It is handed
// a snapshot already pulled to the latest known revision, validates the
// requested mutation against the ownership and uniqueness rules, and applies
// it locally. Publishing the mutated snapshot, and classifying the outcome of
// the publish race, is the coordination layer's job.
//
// # State machine
//
// Each key moves between exactly two states:
//
//	Free -> Locked(user, purpose)   via Acquire
//	Locked(user, purpose) -> Free   via Release, subject to ownership
//
// There is no Locked -> Locked transition: acquiring a held key always fails
// with a lock conflict rather than overwriting the claim, and a second user
// can only take over by releasing with the force override first.
//
// # Multi-file operations
//
// AcquireAll and ReleaseAll extend the single-key contract to several files in
// one publish, all-or-nothing: every key is checked before any is mutated, so
// a failed batch leaves the snapshot byte-identical to the pulled state.
package engine

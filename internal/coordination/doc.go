// Package coordination runs the optimistic pull -> mutate -> publish cycle
// that makes lock mutations safe without a central lock server.
//
// Every mutating command follows the same discipline:
//
//  1. Pull the ledger replica to the latest published revision.
//  2. Parse the pulled content into an in-memory snapshot.
//  3. Apply the engine operation to the snapshot.
//  4. Serialize, commit, and push the snapshot as a new revision.
//
// Only step 4 can race: two writers that pulled the same revision both
// attempt to publish, and the remote's fast-forward rule accepts exactly one.
// The loser receives ErrSyncConflict and nothing it did is visible anywhere;
// the caller re-runs the whole command, which pulls the winner's revision and
// re-validates against it. The coordinator never auto-retries and never
// merges divergent ledger histories: repeated silent retries would mask
// starvation under sustained contention, and a line-based union of two
// ledger edits is not assumed safe to resolve mechanically.
//
// An engine failure in step 3 aborts the cycle before anything is committed,
// so no error path ever publishes a partial mutation.
package coordination

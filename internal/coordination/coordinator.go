package coordination

import (
	"fmt"

	"github.com/kafumanto/simplelock/internal/engine"
	"github.com/kafumanto/simplelock/internal/ledger"
	"github.com/kafumanto/simplelock/internal/logging"
	"github.com/kafumanto/simplelock/internal/resolver"
)

// Store is the slice of the git-backed ledger store the coordinator needs.
// gitstore.Store satisfies it; tests substitute in-memory fakes.
type Store interface {
	// Pull fast-forwards the replica to the latest published revision.
	Pull() error

	// ReadLedger returns the raw ledger content at the pulled revision.
	ReadLedger() ([]byte, error)

	// WriteLedger stages new ledger content locally.
	WriteLedger(data []byte) error

	// Publish commits staged content and pushes it, classifying a rejected
	// push as a sync conflict.
	Publish(message string) error
}

// Coordinator drives the pull -> mutate -> publish cycle for one command
// invocation. It holds no state between operations; every call starts from
// a fresh pull.
type Coordinator struct {
	store Store
	log   *logging.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger used for cycle diagnostics.
func WithLogger(log *logging.Logger) Option {
	return func(c *Coordinator) { c.log = log }
}

// New creates a Coordinator over the given store.
func New(store Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		store: store,
		log:   logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot pulls the ledger to the latest published revision and parses it.
// List reads use the snapshot directly; mutations go through Acquire and
// Release, which pull their own.
func (c *Coordinator) Snapshot() (*ledger.Ledger, error) {
	if err := c.store.Pull(); err != nil {
		return nil, err
	}
	data, err := c.store.ReadLedger()
	if err != nil {
		return nil, err
	}
	return ledger.Parse(data)
}

// Acquire locks the named files for the scope's user in one published
// revision. All files must be free; a conflict on any of them aborts the
// cycle before anything is committed. Returns the records created.
func (c *Coordinator) Acquire(scope resolver.Scope, files []string, purpose string) ([]ledger.Record, error) {
	snap, err := c.Snapshot()
	if err != nil {
		return nil, err
	}

	records, err := engine.AcquireAll(snap, keysFor(scope, files), scope.User, purpose)
	if err != nil {
		return nil, err
	}

	if err := c.publish(snap, lockMessage(records)); err != nil {
		return nil, err
	}

	c.log.Info("locks acquired", "user", scope.User, "branch", scope.Branch, "files", len(records))
	return records, nil
}

// Release unlocks the named files for the scope's user in one published
// revision. Every file must hold a releasable record; otherwise the cycle
// aborts before anything is committed. With force, records owned by other
// users are removed as well.
func (c *Coordinator) Release(scope resolver.Scope, files []string, force bool) error {
	snap, err := c.Snapshot()
	if err != nil {
		return err
	}

	if err := engine.ReleaseAll(snap, keysFor(scope, files), scope.User, force); err != nil {
		return err
	}

	if err := c.publish(snap, unlockMessage(scope.User, files, force)); err != nil {
		return err
	}

	c.log.Info("locks released", "user", scope.User, "branch", scope.Branch, "files", len(files), "force", force)
	return nil
}

// publish serializes the mutated snapshot and pushes it as one revision.
// A clean snapshot publishes nothing.
func (c *Coordinator) publish(snap *ledger.Ledger, message string) error {
	if !snap.Dirty() {
		return nil
	}
	if err := c.store.WriteLedger(snap.Serialize()); err != nil {
		return err
	}
	return c.store.Publish(message)
}

// keysFor scopes the given file paths to the resolved repository and branch.
func keysFor(scope resolver.Scope, files []string) []ledger.Key {
	keys := make([]ledger.Key, 0, len(files))
	for _, file := range files {
		keys = append(keys, ledger.Key{RepoID: scope.RepoID, Branch: scope.Branch, File: file})
	}
	return keys
}

// lockMessage builds the descriptive commit message for an acquire.
func lockMessage(records []ledger.Record) string {
	if len(records) == 1 {
		r := records[0]
		return fmt.Sprintf("lock %s by %s (%s)", r.File, r.User, r.Purpose)
	}
	return fmt.Sprintf("lock %d files by %s (%s)", len(records), records[0].User, records[0].Purpose)
}

// unlockMessage builds the descriptive commit message for a release.
func unlockMessage(user string, files []string, force bool) string {
	action := "unlock"
	if force {
		action = "force unlock"
	}
	if len(files) == 1 {
		return fmt.Sprintf("%s %s by %s", action, files[0], user)
	}
	return fmt.Sprintf("%s %d files by %s", action, len(files), user)
}

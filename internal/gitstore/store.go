package gitstore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kafumanto/simplelock/internal/errors"
	"github.com/kafumanto/simplelock/internal/logging"
)

// DefaultLedgerFile is the ledger file name inside the ledger repository.
const DefaultLedgerFile = "locked"

// DefaultRemote is the remote the ledger is pulled from and published to.
const DefaultRemote = "origin"

// Store is a git-CLI backed handle on the local replica of the shared
// ledger repository.
type Store struct {
	repoDir    string
	remote     string
	ledgerFile string
	executor   CommandExecutor
	log        *logging.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithExecutor substitutes the command executor, primarily for tests.
func WithExecutor(executor CommandExecutor) Option {
	return func(s *Store) { s.executor = executor }
}

// WithRemote sets the remote name the ledger syncs against.
func WithRemote(remote string) Option {
	return func(s *Store) { s.remote = remote }
}

// WithLedgerFile sets the ledger file name inside the repository.
func WithLedgerFile(name string) Option {
	return func(s *Store) { s.ledgerFile = name }
}

// WithLogger sets the logger used for sync diagnostics.
func WithLogger(log *logging.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New creates a Store for the ledger replica at repoDir.
func New(repoDir string, opts ...Option) *Store {
	s := &Store{
		repoDir:    repoDir,
		remote:     DefaultRemote,
		ledgerFile: DefaultLedgerFile,
		executor:   NewCLICommandExecutor(),
		log:        logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LedgerPath returns the path of the ledger file inside the replica.
func (s *Store) LedgerPath() string {
	return filepath.Join(s.repoDir, s.ledgerFile)
}

// Pull fast-forwards the replica to the remote's published tip. Any local
// residue is discarded first: uncommitted changes, and commits that never
// made it to the remote because an earlier publish lost its race. After a
// successful Pull the replica is byte-identical to the remote's history.
func (s *Store) Pull() error {
	if err := s.executor.RunQuiet(s.repoDir, "git", "rev-parse", "--git-dir"); err != nil {
		return errors.NewSyncError("ledger replica is not a git repository", errors.ErrRepositoryUnavailable).
			WithRepository(s.repoDir)
	}

	output, err := s.executor.Run(s.repoDir, "git", "fetch", s.remote)
	if err != nil {
		return errors.NewSyncError("failed to fetch ledger", errors.ErrRepositoryUnavailable).
			WithRepository(s.repoDir).
			WithRemote(s.remote).
			WithGitOutput(string(output))
	}

	branch := s.remoteHead()

	// A freshly created remote has no published revision yet; an empty
	// replica over an empty ledger is already in sync.
	if err := s.executor.RunQuiet(s.repoDir, "git", "rev-parse", "--verify", "--quiet", s.remote+"/"+branch); err != nil {
		s.log.Debug("ledger remote has no published revision", "remote", s.remote, "branch", branch)
		return nil
	}

	output, err = s.executor.Run(s.repoDir, "git", "reset", "--hard", s.remote+"/"+branch)
	if err != nil {
		return errors.NewSyncError("failed to reset replica to remote tip", errors.ErrRepositoryUnavailable).
			WithRepository(s.repoDir).
			WithRemote(s.remote).
			WithGitOutput(string(output))
	}

	s.log.Debug("pulled ledger", "remote", s.remote, "branch", branch)
	return nil
}

// ReadLedger returns the raw ledger file content. A missing ledger file is
// an empty ledger; the first publish creates it.
func (s *Store) ReadLedger() ([]byte, error) {
	data, err := os.ReadFile(s.LedgerPath())
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debug("ledger file absent, treating as empty", "path", s.LedgerPath())
			return nil, nil
		}
		return nil, errors.NewSyncError("failed to read ledger file", errors.ErrRepositoryUnavailable).
			WithRepository(s.repoDir)
	}
	return data, nil
}

// WriteLedger stages new ledger content in the replica's working tree.
// Nothing is shared until Publish succeeds.
func (s *Store) WriteLedger(data []byte) error {
	if err := os.WriteFile(s.LedgerPath(), data, 0644); err != nil {
		return errors.NewSyncError("failed to write ledger file", errors.ErrRepositoryUnavailable).
			WithRepository(s.repoDir)
	}
	return nil
}

// Publish commits the staged ledger content and pushes it to the remote.
// A rejected push means another writer advanced the remote after our Pull;
// that is reported as ErrSyncConflict and the stranded local commit is left
// for the next Pull to discard. With nothing to commit, Publish is a no-op.
func (s *Store) Publish(message string) error {
	output, err := s.executor.Run(s.repoDir, "git", "add", "-A")
	if err != nil {
		return errors.NewSyncError("failed to stage ledger", errors.ErrRepositoryUnavailable).
			WithRepository(s.repoDir).
			WithGitOutput(string(output))
	}

	output, err = s.executor.Run(s.repoDir, "git", "commit", "-m", message)
	if err != nil {
		if strings.Contains(string(output), "nothing to commit") {
			return nil
		}
		return errors.NewSyncError("failed to commit ledger", errors.ErrRepositoryUnavailable).
			WithRepository(s.repoDir).
			WithGitOutput(string(output))
	}

	output, err = s.executor.Run(s.repoDir, "git", "push", s.remote, "HEAD")
	if err != nil {
		if isPushRejection(string(output)) {
			s.log.Info("ledger push rejected", "remote", s.remote)
			return errors.NewSyncError("publish lost the race, re-run the command", errors.ErrSyncConflict).
				WithRepository(s.repoDir).
				WithRemote(s.remote)
		}
		return errors.NewSyncError("failed to push ledger", errors.ErrRepositoryUnavailable).
			WithRepository(s.repoDir).
			WithRemote(s.remote).
			WithGitOutput(string(output))
	}

	s.log.Debug("published ledger", "remote", s.remote, "message", message)
	return nil
}

// remoteHead returns the branch the remote publishes on, falling back to the
// replica's current branch when the remote HEAD reference is not tracked.
func (s *Store) remoteHead() string {
	output, err := s.executor.Run(s.repoDir, "git", "symbolic-ref", "--short", "refs/remotes/"+s.remote+"/HEAD")
	if err == nil {
		ref := strings.TrimSpace(string(output))
		if branch, ok := strings.CutPrefix(ref, s.remote+"/"); ok && branch != "" {
			return branch
		}
	}

	output, err = s.executor.Run(s.repoDir, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err == nil {
		if branch := strings.TrimSpace(string(output)); branch != "" && branch != "HEAD" {
			return branch
		}
	}
	return "master"
}

// isPushRejection reports whether git push output describes a non-fast-forward
// rejection, as opposed to the remote being unreachable.
func isPushRejection(output string) bool {
	for _, marker := range []string{
		"[rejected]",
		"non-fast-forward",
		"fetch first",
		"failed to push some refs",
	} {
		if strings.Contains(output, marker) {
			return true
		}
	}
	return false
}

// Package resolver supplies the identity and scope a lock operation applies
// to: who is asking, which branch of which work repository.
//
// The engine and coordination layers depend only on the [Resolver] interface,
// so any host environment can inject its own implementation; the git-CLI
// implementation in this package is the production one. Resolver failures are
// fatal preconditions for the command, never retried.
package resolver

import (
	"fmt"
	"strings"

	"github.com/kafumanto/simplelock/internal/errors"
	"github.com/kafumanto/simplelock/internal/gitstore"
)

// Scope bundles the three resolved queries for one command invocation.
type Scope struct {
	User   string // identity of the calling user
	Branch string // current named branch of the work repository
	RepoID string // stable identifier of the work repository
}

// Resolver answers the three read-only queries the lock protocol scopes
// every operation by.
type Resolver interface {
	// User returns the calling user's identity.
	User() (string, error)

	// Branch returns the work repository's current named branch.
	Branch() (string, error)

	// RepoID returns the work repository's stable identifier.
	RepoID() (string, error)
}

// Resolve runs all three queries and bundles the result.
func Resolve(r Resolver) (Scope, error) {
	user, err := r.User()
	if err != nil {
		return Scope{}, err
	}
	branch, err := r.Branch()
	if err != nil {
		return Scope{}, err
	}
	repoID, err := r.RepoID()
	if err != nil {
		return Scope{}, err
	}
	return Scope{User: user, Branch: branch, RepoID: repoID}, nil
}

// GitResolver resolves identity and scope from a work repository using the
// git CLI. The repository identifier is the hash of the root commit, which
// is stable across clones, renames, and remotes.
type GitResolver struct {
	workDir  string
	executor gitstore.CommandExecutor
}

// NewGitResolver creates a GitResolver for the work repository at workDir.
func NewGitResolver(workDir string) *GitResolver {
	return &GitResolver{
		workDir:  workDir,
		executor: gitstore.NewCLICommandExecutor(),
	}
}

// NewGitResolverWithExecutor creates a GitResolver with a custom executor.
// This is primarily useful for testing.
func NewGitResolverWithExecutor(workDir string, executor gitstore.CommandExecutor) *GitResolver {
	return &GitResolver{
		workDir:  workDir,
		executor: executor,
	}
}

// User returns the configured git identity as "Name <email>", or just the
// name when no email is configured. A missing user.name is fatal.
func (r *GitResolver) User() (string, error) {
	output, err := r.executor.Run(r.workDir, "git", "config", "user.name")
	if err != nil || strings.TrimSpace(string(output)) == "" {
		return "", errors.Wrap(errors.ErrNoIdentity, "git config user.name is not set")
	}
	name := strings.TrimSpace(string(output))

	output, err = r.executor.Run(r.workDir, "git", "config", "user.email")
	if err == nil {
		if email := strings.TrimSpace(string(output)); email != "" {
			return fmt.Sprintf("%s <%s>", name, email), nil
		}
	}
	return name, nil
}

// Branch returns the current branch name. A detached HEAD has no named
// branch to scope locks to and is rejected.
func (r *GitResolver) Branch() (string, error) {
	output, err := r.executor.Run(r.workDir, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", errors.Wrap(errors.ErrNotGitRepository, strings.TrimSpace(string(output)))
	}

	branch := strings.TrimSpace(string(output))
	if branch == "" || branch == "HEAD" {
		return "", errors.ErrDetachedHead
	}
	return branch, nil
}

// RepoID returns the hex hash of the repository's root commit.
func (r *GitResolver) RepoID() (string, error) {
	output, err := r.executor.Run(r.workDir, "git", "rev-list", "--max-parents=0", "HEAD")
	if err != nil {
		return "", errors.Wrap(errors.ErrNotGitRepository, strings.TrimSpace(string(output)))
	}

	// A history grafted from multiple roots lists one hash per line; the
	// first line is the canonical root.
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	root := strings.TrimSpace(lines[0])
	if root == "" {
		return "", errors.Wrap(errors.ErrNotGitRepository, "work repository has no commits")
	}
	return root, nil
}

// WorkDir returns the resolver's work repository directory.
func (r *GitResolver) WorkDir() string {
	return r.workDir
}

var _ Resolver = (*GitResolver)(nil)

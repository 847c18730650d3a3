package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kafumanto/simplelock/internal/config"
	"github.com/kafumanto/simplelock/internal/coordination"
	"github.com/kafumanto/simplelock/internal/errors"
	"github.com/kafumanto/simplelock/internal/gitstore"
	"github.com/kafumanto/simplelock/internal/logging"
	"github.com/kafumanto/simplelock/internal/resolver"
)

// cmdContext bundles the collaborators a command invocation needs: effective
// configuration, logger, ledger coordinator, and (when the command operates
// on the current work repository) the resolved identity/scope.
type cmdContext struct {
	cfg     *config.Config
	log     *logging.Logger
	coord   *coordination.Coordinator
	workDir string // work repository root; empty when scope was not resolved
	scope   resolver.Scope
}

// newContext loads config and builds the coordinator. With needScope, the
// current directory must be inside a git work repository with a configured
// identity and a named branch checked out; those are fatal preconditions.
func newContext(needScope bool) (*cmdContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Ledger.Repo == "" {
		return nil, errors.NewValidationError(
			"no ledger repository configured; set ledger.repo in the config file, SIMPLELOCK_LEDGER_REPO, or --ledger").
			WithField("ledger.repo")
	}

	log, err := logging.NewLogger(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	log = log.WithLedgerRepo(cfg.Ledger.Repo)

	ctx := &cmdContext{
		cfg: cfg,
		log: log,
	}

	if needScope {
		workDir, err := findWorkRepo()
		if err != nil {
			return nil, err
		}
		scope, err := resolver.Resolve(resolver.NewGitResolver(workDir))
		if err != nil {
			return nil, err
		}
		ctx.workDir = workDir
		ctx.scope = scope
		ctx.log = log.WithUser(scope.User)
	}

	store := gitstore.New(cfg.Ledger.Repo,
		gitstore.WithRemote(cfg.Ledger.Remote),
		gitstore.WithLedgerFile(cfg.Ledger.File),
		gitstore.WithLogger(ctx.log),
	)
	ctx.coord = coordination.New(store, coordination.WithLogger(ctx.log))

	return ctx, nil
}

// close releases context resources.
func (c *cmdContext) close() {
	_ = c.log.Close()
}

// findWorkRepo returns the root of the work repository containing the
// current directory.
func findWorkRepo() (string, error) {
	executor := gitstore.NewCLICommandExecutor()
	output, err := executor.Run(".", "git", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", errors.Wrap(errors.ErrNotGitRepository, "current directory is not inside a work repository")
	}
	return strings.TrimSpace(string(output)), nil
}

// workFiles normalizes command-line file arguments to work-repository-relative
// slash paths, resolving against the current directory so the command works
// from any subdirectory of the work repository.
func workFiles(workDir string, args []string) ([]string, error) {
	files := make([]string, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot resolve path %s", arg)
		}
		rel, err := filepath.Rel(workDir, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
			return nil, errors.NewValidationError("path is outside the work repository").
				WithField("file").
				WithValue(arg)
		}
		files = append(files, filepath.ToSlash(rel))
	}
	return files, nil
}

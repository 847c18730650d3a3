package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kafumanto/simplelock/internal/engine"
	"github.com/kafumanto/simplelock/internal/lockable"
)

var listLocksCmd = &cobra.Command{
	Use:     "list-locks",
	Aliases: []string{"locks"},
	Short:   "List outstanding locks",
	Long: `List-locks pulls the ledger and prints the outstanding lock records,
ordered by repository, branch, and file.

By default all records in the ledger are shown; --repo and --user narrow the
output. With --unlocked the listing is scoped to the current work repository
and branch, and additionally shows lockable files (matched by the pattern
file, default .gitlocks) that are currently free.`,
	RunE: runListLocks,
}

var (
	listRepoID   string
	listUser     string
	listUnlocked bool
)

func init() {
	rootCmd.AddCommand(listLocksCmd)

	listLocksCmd.Flags().StringVar(&listRepoID, "repo", "", "only show locks for this work repository ID")
	listLocksCmd.Flags().StringVar(&listUser, "user", "", "only show locks held by this user")
	listLocksCmd.Flags().BoolVarP(&listUnlocked, "unlocked", "u", false, "also show lockable files that are not locked")
}

func runListLocks(cmd *cobra.Command, args []string) error {
	// Scope matters only when free lockable files are requested; a plain
	// listing works outside any work repository.
	ctx, err := newContext(listUnlocked)
	if err != nil {
		return exit(1, err)
	}
	defer ctx.close()

	snap, err := ctx.coord.Snapshot()
	if err != nil {
		return exit(1, err)
	}

	filter := engine.Filter{RepoID: listRepoID, User: listUser}

	if !listUnlocked {
		for _, rec := range engine.List(snap, filter) {
			fmt.Fprintln(cmd.OutOrStdout(), renderLocked(rec))
		}
		return nil
	}

	// Unlocked hints only make sense within one work repository and branch.
	if filter.RepoID == "" {
		filter.RepoID = ctx.scope.RepoID
	}
	filter.Branch = ctx.scope.Branch

	matcher, err := lockable.LoadFile(filepath.Join(ctx.workDir, ctx.cfg.Lockable.File))
	if err != nil {
		return exit(1, err)
	}
	lockables, err := matcher.Scan(ctx.workDir)
	if err != nil {
		return exit(1, err)
	}

	for _, entry := range engine.ListWithLockables(snap, filter, lockables) {
		fmt.Fprintln(cmd.OutOrStdout(), renderEntry(entry))
	}
	return nil
}

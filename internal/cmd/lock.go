package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lockCmd = &cobra.Command{
	Use:   "lock FILE...",
	Short: "Lock one or more files for exclusive editing",
	Long: `Lock marks one or more files as locked by you on the current branch.

The lock ledger is pulled, the new records are validated against it, and the
result is committed and pushed in one revision. If any named file is already
locked, nothing is locked. If another writer pushes to the ledger between the
pull and the push, the command fails with a sync conflict and must be re-run.

Exit codes:
  0  all files locked
  1  a file is already locked by someone else
  2  lost the publish race, re-run the command
  3  ledger repository unavailable or ledger malformed`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLock,
}

var (
	lockPurpose string
	lockBranch  string
)

func init() {
	rootCmd.AddCommand(lockCmd)

	lockCmd.Flags().StringVarP(&lockPurpose, "purpose", "p", "", "lock (edit) purpose (default: \"editing\")")
	lockCmd.Flags().StringVar(&lockBranch, "branch", "", "lock on this branch instead of the checked-out one")
}

func runLock(cmd *cobra.Command, args []string) error {
	ctx, err := newContext(true)
	if err != nil {
		return lockExit(err)
	}
	defer ctx.close()

	if lockBranch != "" {
		ctx.scope.Branch = lockBranch
	}

	files, err := workFiles(ctx.workDir, args)
	if err != nil {
		return lockExit(err)
	}

	records, err := ctx.coord.Acquire(ctx.scope, files, lockPurpose)
	if err != nil {
		return lockExit(err)
	}

	for _, rec := range records {
		fmt.Fprintf(cmd.OutOrStdout(), "locked %s (%s)\n", rec.File, rec.Purpose)
	}
	return nil
}

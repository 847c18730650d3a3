package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unlockCmd = &cobra.Command{
	Use:   "unlock FILE...",
	Short: "Release locks you hold on one or more files",
	Long: `Unlock removes the lock records for the named files on the current branch
and publishes the change.

Only your own locks can be released, unless --force is given; force unlock is
an emergency override for removing another user's stale lock. All named files
must actually be locked, otherwise nothing is released.

Exit codes:
  0  all files unlocked
  1  a file was not locked
  2  a lock is owned by another user (use --force)
  3  lost the publish race, re-run the command
  4  ledger repository unavailable or ledger malformed`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUnlock,
}

var (
	unlockForce  bool
	unlockBranch string
)

func init() {
	rootCmd.AddCommand(unlockCmd)

	unlockCmd.Flags().BoolVarP(&unlockForce, "force", "f", false, "release locks owned by other users")
	unlockCmd.Flags().StringVar(&unlockBranch, "branch", "", "unlock on this branch instead of the checked-out one")
}

func runUnlock(cmd *cobra.Command, args []string) error {
	ctx, err := newContext(true)
	if err != nil {
		return unlockExit(err)
	}
	defer ctx.close()

	if unlockBranch != "" {
		ctx.scope.Branch = unlockBranch
	}

	files, err := workFiles(ctx.workDir, args)
	if err != nil {
		return unlockExit(err)
	}

	if err := ctx.coord.Release(ctx.scope, files, unlockForce); err != nil {
		return unlockExit(err)
	}

	for _, file := range files {
		fmt.Fprintf(cmd.OutOrStdout(), "unlocked %s\n", file)
	}
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kafumanto/simplelock/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Config prints the effective simplelock configuration after merging
defaults, the config file, environment variables, and flags.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return exit(1, err)
	}

	out := cmd.OutOrStdout()
	if file := viper.ConfigFileUsed(); file != "" {
		fmt.Fprintf(out, "# config file: %s\n", file)
	} else {
		fmt.Fprintf(out, "# no config file found (looked in %s)\n", config.ConfigDir())
	}

	fmt.Fprintf(out, "ledger.repo: %s\n", cfg.Ledger.Repo)
	fmt.Fprintf(out, "ledger.file: %s\n", cfg.Ledger.File)
	fmt.Fprintf(out, "ledger.remote: %s\n", cfg.Ledger.Remote)
	fmt.Fprintf(out, "lockable.file: %s\n", cfg.Lockable.File)
	fmt.Fprintf(out, "logging.level: %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "logging.file: %s\n", cfg.Logging.File)
	return nil
}

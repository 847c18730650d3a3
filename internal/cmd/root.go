// Package cmd wires the simplelock CLI surface: lock, unlock, list-locks,
// and config, sharing configuration, logging, and scope resolution.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kafumanto/simplelock/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "simplelock",
	Short: "Advisory file locking over a shared git ledger",
	Long: `Simplelock coordinates mutually-exclusive editing rights over unmergeable
files (binaries, documents, assets) across a team, without a lock server.

A shared git repository holds the lock ledger; every lock and unlock pulls
the ledger, applies the change locally, and publishes it with a push. The
remote's fast-forward rule guarantees that of two racing writers exactly
one publish wins; the loser is told to re-run the command.

Locking is voluntary: nothing prevents editing a file without its lock, the
ledger only records intent so conflicts are avoided by discipline.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/simplelock/config.yaml)")
	rootCmd.PersistentFlags().String("ledger", "", "path to the local clone of the shared ledger repository")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("ledger.repo", rootCmd.PersistentFlags().Lookup("ledger"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/simplelock")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SIMPLELOCK")
	// Replace dots with underscores for nested keys in env vars
	// e.g., SIMPLELOCK_LEDGER_REPO for ledger.repo
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

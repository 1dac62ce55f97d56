// Package cli implements the scorewise command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scorewise/scorewise/internal/api"
	"github.com/scorewise/scorewise/internal/daemon"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "scorewise",
	Short: "Credit scoring and growth projection service",
	Long: `Scorewise converts raw per-user financial event logs (bank transactions,
card usage, loans, cross-border remittances) into a bounded credit score,
and projects how the score would evolve under a steady remittance habit.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the service version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "scorewise %s\n", api.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", daemon.ConfigPath(),
		"Path to the TOML config file")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

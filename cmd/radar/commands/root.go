// Package commands implements the radar CLI
package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "radar",
	Short: "Radar - multi-market opportunity scanner",
	Long: `Radar scans global equities, REITs, ETFs and crypto for buying
opportunities using a six-factor scoring model over price history
and company fundamentals.

Usage:
  go run ./cmd/radar [command]

Examples:
  go run ./cmd/radar analyze AAPL
  go run ./cmd/radar scan --categories usa_tech,brazil_stocks
  go run ./cmd/radar compare AAPL MSFT GOOGL
  go run ./cmd/radar api
  go run ./cmd/radar scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

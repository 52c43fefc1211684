package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [symbol]",
	Short: "Analyze a single symbol",
	Long: `Runs the full six-factor analysis for one symbol: price history,
technical indicators, fundamentals, sentiment, price targets and
the final recommendation.

Example:
  go run ./cmd/radar analyze AAPL
  go run ./cmd/radar analyze PETR4.SA --period 2y --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzePeriod string
	analyzeJSON   bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzePeriod, "period", "1y", "lookback period (1mo|3mo|6mo|1y|2y|5y)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the raw JSON report")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	symbol := strings.ToUpper(strings.TrimSpace(args[0]))

	report, err := app.newAnalyzer().Analyze(ctx, symbol, analyzePeriod)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", symbol, err)
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printReport(report)
	return nil
}

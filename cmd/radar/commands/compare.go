package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcavalcanti/radar/internal/comparator"
)

var compareCmd = &cobra.Command{
	Use:   "compare [symbols...]",
	Short: "Compare symbols side by side",
	Long: `Analyzes several symbols and ranks them against each other,
naming a leader per dimension.

Example:
  go run ./cmd/radar compare AAPL MSFT GOOGL
  go run ./cmd/radar compare PETR4.SA VALE3.SA --period 2y`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompare,
}

var (
	comparePeriod string
	compareJSON   bool
)

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&comparePeriod, "period", "1y", "lookback period per symbol")
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "print the raw JSON comparison")
}

func runCompare(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.close()

	symbols := make([]string, 0, len(args))
	for _, s := range args {
		symbols = append(symbols, strings.ToUpper(strings.TrimSpace(s)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	comparison, err := comparator.New(app.newAnalyzer(), app.logger).Compare(ctx, symbols, comparePeriod)
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	if compareJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(comparison)
	}

	printComparison(comparison)
	return nil
}

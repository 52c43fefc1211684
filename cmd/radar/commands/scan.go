package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcavalcanti/radar/internal/contracts"
	"github.com/mcavalcanti/radar/internal/scanner"
	"github.com/mcavalcanti/radar/internal/universe"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan markets for opportunities",
	Long: `Scans a set of symbols or universe categories concurrently and
ranks the survivors by final score.

Categories:
  usa_mega, usa_tech, usa_finance, usa_energy, usa_healthcare,
  brazil_stocks, brazil_reits, europe_stocks, asia_stocks,
  crypto, etfs, commodities, indices

Example:
  go run ./cmd/radar scan --categories usa_tech
  go run ./cmd/radar scan --symbols AAPL,MSFT --min-score 60
  go run ./cmd/radar scan --all --min-drawdown 15 --top 20`,
	RunE: runScan,
}

var (
	scanSymbols    []string
	scanCategories []string
	scanAll        bool
	scanPeriod     string
	scanWorkers    int
	scanTop        int
	scanJSON       bool

	filterMinScore    float64
	filterMinDrawdown float64
	filterMaxPE       float64
	filterMaxVol      float64
	filterMinCap      float64
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringSliceVar(&scanSymbols, "symbols", nil, "explicit symbols to scan")
	scanCmd.Flags().StringSliceVar(&scanCategories, "categories", nil, "universe categories to scan")
	scanCmd.Flags().BoolVar(&scanAll, "all", false, "scan the entire universe catalog")
	scanCmd.Flags().StringVar(&scanPeriod, "period", "1y", "lookback period per symbol")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "concurrent workers (default from config)")
	scanCmd.Flags().IntVar(&scanTop, "top", 0, "print only the top N results")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "print the raw JSON summary")

	scanCmd.Flags().Float64Var(&filterMinScore, "min-score", 0, "minimum final score")
	scanCmd.Flags().Float64Var(&filterMinDrawdown, "min-drawdown", 0, "minimum absolute drawdown percent")
	scanCmd.Flags().Float64Var(&filterMaxPE, "max-pe", 0, "maximum P/E ratio (0 = no cap)")
	scanCmd.Flags().Float64Var(&filterMaxVol, "max-volatility", 0, "maximum annualized volatility percent (0 = no cap)")
	scanCmd.Flags().Float64Var(&filterMinCap, "min-market-cap", 0, "minimum market capitalization")
}

func runScan(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.close()

	symbols := resolveScanSymbols()
	if len(symbols) == 0 {
		return fmt.Errorf("nothing to scan: pass --symbols, --categories or --all")
	}

	workers := app.cfg.Scanner.Concurrency
	if scanWorkers > 0 {
		workers = scanWorkers
	}

	progress := func(completed, total int) {
		if !scanJSON {
			fmt.Fprintf(os.Stderr, "\r  scanning %d/%d", completed, total)
			if completed == total {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	scanOpts := []scanner.Option{
		scanner.WithConcurrency(workers),
		scanner.WithPeriod(scanPeriod),
		scanner.WithProgress(progress),
	}
	if app.metrics != nil {
		scanOpts = append(scanOpts, scanner.WithMetrics(app.metrics))
	}
	scan := scanner.New(app.newAnalyzer(), app.logger, scanOpts...)

	filters := contracts.FilterSpec{
		MinScore:          filterMinScore,
		MinAbsDrawdownPct: filterMinDrawdown,
		MaxPE:             filterMaxPE,
		MaxVolatilityPct:  filterMaxVol,
		MinMarketCap:      filterMinCap,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	summary, err := scan.Scan(ctx, symbols, filters)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	if scanJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	printScanSummary(summary, scanTop)
	return nil
}

// resolveScanSymbols merges the symbol flags, deduplicated, uppercased
func resolveScanSymbols() []string {
	if scanAll {
		return universe.All()
	}

	seen := make(map[string]bool)
	var symbols []string

	for _, s := range scanSymbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" && !seen[s] {
			seen[s] = true
			symbols = append(symbols, s)
		}
	}
	for _, s := range universe.Symbols(scanCategories...) {
		if !seen[s] {
			seen[s] = true
			symbols = append(symbols, s)
		}
	}
	return symbols
}

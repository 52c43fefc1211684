package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/mcavalcanti/radar/internal/comparator"
	"github.com/mcavalcanti/radar/internal/contracts"
)

const rule = "═══════════════════════════════════════════════════════════"
const thinRule = "───────────────────────────────────────────────────────────"

// printReport renders a full single-symbol analysis to stdout
func printReport(r *contracts.AnalysisReport) {
	fmt.Println()
	fmt.Println(rule)
	fmt.Printf("  %s  —  %.2f\n", r.Symbol, r.Price)
	fmt.Println(thinRule)

	fmt.Printf("  Recommendation : %s (%s confidence)\n",
		strings.ToUpper(string(r.Recommendation.Action)), r.Recommendation.Confidence)
	fmt.Printf("  Final Score    : %.1f / 100\n", r.Scores.Final)
	fmt.Printf("  Risk Level     : %s\n", r.Recommendation.RiskLevel)
	fmt.Printf("  Horizon        : %s\n", r.Recommendation.Horizon)

	fmt.Println(thinRule)
	fmt.Printf("  Technical   %6.1f   Fundamental %6.1f\n", r.Scores.Technical, r.Scores.Fundamental)
	fmt.Printf("  Momentum    %6.1f   Value       %6.1f\n", r.Scores.Momentum, r.Scores.Value)
	fmt.Printf("  Quality     %6.1f   Risk        %6.1f\n", r.Scores.Quality, r.Scores.Risk)

	fmt.Println(thinRule)
	fmt.Printf("  RSI %.1f | MA20 %.2f | MA50 %.2f | MA200 %.2f\n",
		r.Indicators.RSI, r.Indicators.MA20, r.Indicators.MA50, r.Indicators.MA200)
	fmt.Printf("  Volatility %.1f%% | Drawdown %.1f%% (max %.1f%%)\n",
		r.Indicators.Volatility, r.Indicators.CurrentDrawdown, r.Indicators.MaxDrawdown)
	fmt.Printf("  Returns: 1m %+.1f%% | 3m %+.1f%% | 1y %+.1f%%\n",
		r.Indicators.Return(contracts.Horizon1M),
		r.Indicators.Return(contracts.Horizon3M),
		r.Indicators.Return(contracts.Horizon1Y))

	if r.Fundamentals.HasUsablePE() {
		fmt.Printf("  P/E %.1f | P/B %.2f | ROE %.1f%% | D/E %.2f | Sector %s\n",
			r.Fundamentals.PERatio, r.Fundamentals.PBRatio,
			r.Fundamentals.ROE*100, r.Fundamentals.DebtToEquity, r.Fundamentals.Sector)
	}

	if r.Targets != nil {
		fmt.Println(thinRule)
		fmt.Printf("  Targets: support %.2f | resistance %.2f | stop %.2f\n",
			r.Targets.Support, r.Targets.Resistance, r.Targets.StopLoss)
		fmt.Printf("  Upside:  conservative %.2f | moderate %.2f | optimistic %.2f\n",
			r.Targets.Conservative, r.Targets.Moderate, r.Targets.Optimistic)
	}

	if r.Growth != nil {
		fmt.Printf("  Growth (%s): %+.1f%% / %+.1f%% / %+.1f%%\n",
			r.Growth.Timeframe, r.Growth.Conservative, r.Growth.Moderate, r.Growth.Optimistic)
	}

	if r.Sentiment != nil {
		fmt.Printf("  Sentiment: %s (%.2f over %d headlines)\n",
			r.Sentiment.Trend, r.Sentiment.Score, r.Sentiment.Headlines)
	}

	fmt.Println(rule)
}

// printScanSummary renders a ranked scan table to stdout
func printScanSummary(summary *contracts.ScanSummary, top int) {
	fmt.Println()
	fmt.Println(rule)
	fmt.Printf("  Scan %s\n", summary.RunID)
	fmt.Printf("  %d requested | %d succeeded | %d failed | %s\n",
		summary.TotalRequested, summary.TotalSucceeded, summary.TotalFailed,
		summary.Duration.Round(10*time.Millisecond))
	fmt.Println(thinRule)

	if len(summary.Results) == 0 {
		fmt.Println("  No symbols passed the filters")
		fmt.Println(rule)
		return
	}

	fmt.Printf("  %-4s %-10s %8s %7s %6s %8s %8s  %s\n",
		"#", "SYMBOL", "PRICE", "SCORE", "RSI", "DD%", "1Y%", "ACTION")

	if top <= 0 || top > len(summary.Results) {
		top = len(summary.Results)
	}
	for i, r := range summary.Results[:top] {
		fmt.Printf("  %-4d %-10s %8.2f %7.1f %6.1f %8.1f %8.1f  %s\n",
			i+1, r.Symbol, r.Price, r.Scores.Final, r.RSI,
			r.Drawdown, r.Return1Y, r.Recommendation)
	}

	if len(summary.Failures) > 0 {
		fmt.Println(thinRule)
		fmt.Printf("  Failed: ")
		for i, f := range summary.Failures {
			if i > 0 {
				fmt.Print(", ")
			}
			fmt.Printf("%s (%s)", f.Symbol, f.Kind)
		}
		fmt.Println()
	}
	fmt.Println(rule)
}

// printComparison renders a side-by-side comparison table
func printComparison(c *comparator.Comparison) {
	fmt.Println()
	fmt.Println(rule)
	fmt.Printf("  %-10s %8s %7s %7s %7s %7s %7s  %s\n",
		"SYMBOL", "PRICE", "FINAL", "MOM", "VALUE", "QUAL", "RISK", "ACTION")
	fmt.Println(thinRule)

	for _, e := range c.Entries {
		r := e.Report
		fmt.Printf("  %-10s %8.2f %7.1f %7.1f %7.1f %7.1f %7.1f  %s\n",
			e.Symbol, r.Price, r.Scores.Final, r.Scores.Momentum,
			r.Scores.Value, r.Scores.Quality, r.Scores.Risk,
			r.Recommendation.Action)
	}

	if len(c.Leaders) > 0 {
		fmt.Println(thinRule)
		for _, dim := range []string{"overall", "performance_1y", "momentum", "value", "quality", "fundamental", "lowest_risk", "lowest_volatility"} {
			if symbol, ok := c.Leaders[dim]; ok {
				fmt.Printf("  %-18s: %s\n", dim, symbol)
			}
		}
	}

	for _, f := range c.Failures {
		fmt.Printf("  failed: %s (%s)\n", f.Symbol, f.Kind)
	}
	fmt.Println(rule)
}

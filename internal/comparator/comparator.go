// Package comparator runs the analyzer over a small set of symbols and
// lines the reports up side by side, naming a leader per dimension.
package comparator

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/mcavalcanti/radar/internal/analyzer"
	"github.com/mcavalcanti/radar/internal/contracts"
	"github.com/mcavalcanti/radar/pkg/logger"
)

// ErrNoSymbols is returned for an empty comparison set
var ErrNoSymbols = errors.New("compare requires at least one symbol")

// maxParallel bounds the comparison fan-out; comparison sets are small
const maxParallel = 5

// Entry is one compared symbol with its full report
type Entry struct {
	Symbol string                    `json:"symbol"`
	Report *contracts.AnalysisReport `json:"report"`
}

// Comparison is the side-by-side result. Entries are ranked by final score
// descending; Leaders names the best symbol per dimension. Correlations is a
// symmetric matrix of pairwise correlation over the horizon return profiles.
type Comparison struct {
	Entries      []Entry                       `json:"entries"`
	Failures     []contracts.FailedSymbol      `json:"failures,omitempty"`
	Leaders      map[string]string             `json:"leaders"`
	Correlations map[string]map[string]float64 `json:"correlations,omitempty"`
}

// Comparator compares symbols using one analyzer
type Comparator struct {
	analyzer *analyzer.Analyzer
	logger   *logger.Logger
}

// New creates a Comparator
func New(a *analyzer.Analyzer, log *logger.Logger) *Comparator {
	return &Comparator{analyzer: a, logger: log}
}

// Compare analyzes every symbol and assembles the comparison. Per-symbol
// failures are recorded and skipped, mirroring scan semantics.
func (c *Comparator) Compare(ctx context.Context, symbols []string, period string) (*Comparison, error) {
	if len(symbols) == 0 {
		return nil, ErrNoSymbols
	}

	type slot struct {
		entry  *Entry
		failed *contracts.FailedSymbol
	}
	slots := make([]slot, len(symbols))

	sem := make(chan struct{}, maxParallel)
	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			report, err := c.analyzer.Analyze(ctx, symbol, period)
			if err != nil {
				c.logger.WithError(err).WithField("symbol", symbol).Debug("Comparison symbol failed")
				slots[i] = slot{failed: &contracts.FailedSymbol{
					Symbol: symbol,
					Kind:   string(analyzer.KindOf(err)),
				}}
				return
			}
			slots[i] = slot{entry: &Entry{Symbol: symbol, Report: report}}
		}(i, symbol)
	}
	wg.Wait()

	cmp := &Comparison{Leaders: map[string]string{}}
	for _, s := range slots {
		if s.entry != nil {
			cmp.Entries = append(cmp.Entries, *s.entry)
		} else if s.failed != nil {
			cmp.Failures = append(cmp.Failures, *s.failed)
		}
	}

	sort.Slice(cmp.Entries, func(i, j int) bool {
		a, b := cmp.Entries[i], cmp.Entries[j]
		if a.Report.Scores.Final != b.Report.Scores.Final {
			return a.Report.Scores.Final > b.Report.Scores.Final
		}
		return a.Symbol < b.Symbol
	})

	if len(cmp.Entries) > 0 {
		cmp.Leaders = leaders(cmp.Entries)
	}
	if len(cmp.Entries) > 1 {
		cmp.Correlations = correlations(cmp.Entries)
	}
	return cmp, nil
}

// returnProfile is the per-horizon return vector used for correlation
func returnProfile(e *Entry) []float64 {
	profile := make([]float64, len(contracts.Horizons))
	for i, h := range contracts.Horizons {
		profile[i] = e.Report.Indicators.Return(h)
	}
	return profile
}

// correlations builds the symmetric pairwise correlation matrix over the
// entries' horizon return profiles
func correlations(entries []Entry) map[string]map[string]float64 {
	profiles := make([][]float64, len(entries))
	for i := range entries {
		profiles[i] = returnProfile(&entries[i])
	}

	matrix := make(map[string]map[string]float64, len(entries))
	for i := range entries {
		row := make(map[string]float64, len(entries))
		for j := range entries {
			if i == j {
				row[entries[j].Symbol] = 1
				continue
			}
			row[entries[j].Symbol] = correlate(profiles[i], profiles[j])
		}
		matrix[entries[i].Symbol] = row
	}
	return matrix
}

// correlate is the Pearson correlation of two equal-length vectors.
// A constant vector has no direction, so its correlations are 0.
func correlate(a, b []float64) float64 {
	n := float64(len(a))
	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= n
	meanB /= n

	var cov, varA, varB float64
	for i := range a {
		da, db := a[i]-meanA, b[i]-meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}

// leaders picks the best symbol per dimension. Ties go to the
// lexically-smaller symbol via the stable ranked order.
func leaders(entries []Entry) map[string]string {
	best := map[string]string{
		"overall": entries[0].Symbol,
	}

	pick := func(dimension string, value func(e *Entry) float64, higherWins bool) {
		winner := &entries[0]
		for i := 1; i < len(entries); i++ {
			v, w := value(&entries[i]), value(winner)
			if (higherWins && v > w) || (!higherWins && v < w) {
				winner = &entries[i]
			}
		}
		best[dimension] = winner.Symbol
	}

	pick("performance_1y", func(e *Entry) float64 { return e.Report.Indicators.Return(contracts.Horizon1Y) }, true)
	pick("momentum", func(e *Entry) float64 { return e.Report.Scores.Momentum }, true)
	pick("value", func(e *Entry) float64 { return e.Report.Scores.Value }, true)
	pick("quality", func(e *Entry) float64 { return e.Report.Scores.Quality }, true)
	pick("fundamental", func(e *Entry) float64 { return e.Report.Scores.Fundamental }, true)
	pick("lowest_risk", func(e *Entry) float64 { return e.Report.Scores.Risk }, false)
	pick("lowest_volatility", func(e *Entry) float64 { return e.Report.Indicators.Volatility }, false)

	return best
}

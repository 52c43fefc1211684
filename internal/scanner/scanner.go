// Package scanner fans the symbol analyzer out across a bounded worker
// pool and collects the results into one ranked summary. Individual symbol
// failures are counted, never propagated: a scan of 200 symbols where 30
// fail still returns the other 170.
package scanner

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mcavalcanti/radar/internal/analyzer"
	"github.com/mcavalcanti/radar/internal/contracts"
	"github.com/mcavalcanti/radar/pkg/logger"
	"github.com/mcavalcanti/radar/pkg/metrics"
)

// Defaults for pool size and the mandatory per-symbol fetch deadline
const (
	DefaultConcurrency  = 20
	DefaultFetchTimeout = 15 * time.Second
	DefaultPeriod       = "1y"
)

// Caller invariant violations: these fail synchronously before any work
// is dispatched
var (
	ErrNoSymbols       = errors.New("scan requires at least one symbol")
	ErrZeroConcurrency = errors.New("concurrency must be at least 1")
)

// ProgressFunc receives the monotonically increasing completed count.
// It is called from the collector goroutine, one call per settled symbol.
type ProgressFunc func(completed, total int)

// Scanner orchestrates batch scans over one analyzer
type Scanner struct {
	analyzer     *analyzer.Analyzer
	logger       *logger.Logger
	metrics      *metrics.Metrics
	concurrency  int
	fetchTimeout time.Duration
	period       string
	onProgress   ProgressFunc
}

// Option configures a Scanner
type Option func(*Scanner)

// WithConcurrency sets the worker pool size
func WithConcurrency(n int) Option {
	return func(s *Scanner) { s.concurrency = n }
}

// WithFetchTimeout sets the per-symbol deadline
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Scanner) { s.fetchTimeout = d }
}

// WithPeriod sets the lookback period passed to the provider
func WithPeriod(period string) Option {
	return func(s *Scanner) { s.period = period }
}

// WithProgress registers a progress callback
func WithProgress(fn ProgressFunc) Option {
	return func(s *Scanner) { s.onProgress = fn }
}

// WithMetrics attaches Prometheus metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scanner) { s.metrics = m }
}

// New creates a Scanner
func New(a *analyzer.Analyzer, log *logger.Logger, opts ...Option) *Scanner {
	s := &Scanner{
		analyzer:     a,
		logger:       log,
		concurrency:  DefaultConcurrency,
		fetchTimeout: DefaultFetchTimeout,
		period:       DefaultPeriod,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// outcome is one settled worker task
type outcome struct {
	result *contracts.ScanResult
	failed *contracts.FailedSymbol
}

// Scan analyzes every symbol concurrently, applies the filters and returns
// the ranked summary. Cancelling the context stops new work; symbols not
// yet analyzed when the scan stops are recorded as failed fetches.
func (s *Scanner) Scan(ctx context.Context, symbols []string, filters contracts.FilterSpec) (*contracts.ScanSummary, error) {
	if len(symbols) == 0 {
		return nil, ErrNoSymbols
	}
	if s.concurrency < 1 {
		return nil, ErrZeroConcurrency
	}

	start := time.Now()
	runID := uuid.NewString()
	total := len(symbols)

	s.logger.WithFields(map[string]interface{}{
		"run_id":      runID,
		"symbols":     total,
		"concurrency": s.concurrency,
	}).Info("Scan started")

	if s.metrics != nil {
		s.metrics.ScanInFlight.Inc()
		defer s.metrics.ScanInFlight.Dec()
	}

	jobs := make(chan string)
	outcomes := make(chan outcome)

	var wg sync.WaitGroup
	workers := s.concurrency
	if workers > total {
		workers = total
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				outcomes <- s.analyzeOne(ctx, symbol)
			}
		}()
	}

	// Feeder: stops handing out work once the context is cancelled;
	// undistributed symbols settle as failures below.
	var dispatched atomic.Int64
	go func() {
		defer close(jobs)
		for _, symbol := range symbols {
			select {
			case jobs <- symbol:
				dispatched.Add(1)
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	// Single collector: the only writer to the accumulators
	summary := &contracts.ScanSummary{
		RunID:          runID,
		TotalRequested: total,
		StartedAt:      start,
	}
	completed := 0
	for oc := range outcomes {
		if oc.result != nil {
			summary.Results = append(summary.Results, *oc.result)
		} else if oc.failed != nil {
			summary.Failures = append(summary.Failures, *oc.failed)
		}
		completed++
		if s.onProgress != nil {
			s.onProgress(completed, total)
		}
	}

	// Symbols never dispatched because of cancellation count as failures
	for i := int(dispatched.Load()); i < total; i++ {
		summary.Failures = append(summary.Failures, contracts.FailedSymbol{
			Symbol: symbols[i],
			Kind:   string(analyzer.KindTimeout),
		})
	}

	// Succeeded counts every analyzed symbol, including ones the filters
	// drop: requested always equals succeeded plus failed
	summary.TotalSucceeded = len(summary.Results)
	summary.TotalFailed = len(summary.Failures)

	summary.Results = applyFilters(summary.Results, filters)
	sortResults(summary.Results)
	summary.Duration = time.Since(start)

	if s.metrics != nil {
		s.metrics.ScanRunsTotal.WithLabelValues(scanStatus(ctx)).Inc()
		s.metrics.ScanDuration.Observe(summary.Duration.Seconds())
		s.metrics.ScanSymbolsTotal.WithLabelValues("succeeded").Add(float64(summary.TotalSucceeded))
		s.metrics.ScanSymbolsTotal.WithLabelValues("failed").Add(float64(summary.TotalFailed))
	}

	s.logger.WithFields(map[string]interface{}{
		"run_id":    runID,
		"succeeded": summary.TotalSucceeded,
		"failed":    summary.TotalFailed,
		"duration":  summary.Duration,
	}).Info("Scan completed")

	return summary, nil
}

// analyzeOne runs a single symbol under the per-symbol deadline
func (s *Scanner) analyzeOne(ctx context.Context, symbol string) outcome {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	started := time.Now()
	report, err := s.analyzer.Analyze(fetchCtx, symbol, s.period)
	if s.metrics != nil {
		s.metrics.ObserveAnalysis(symbol, time.Since(started), err)
	}
	if err != nil {
		kind := analyzer.KindOf(err)
		if s.metrics != nil {
			s.metrics.AnalysisErrorsTotal.WithLabelValues(string(kind)).Inc()
		}
		s.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"kind":   string(kind),
		}).Debug("Symbol failed, continuing scan")
		return outcome{failed: &contracts.FailedSymbol{Symbol: symbol, Kind: string(kind)}}
	}

	if s.metrics != nil {
		s.metrics.CompositeScores.Observe(report.Scores.Final)
		s.metrics.Recommendations.WithLabelValues(string(report.Recommendation.Action)).Inc()
	}

	return outcome{result: toScanResult(report)}
}

// toScanResult flattens a full report into the compact scan row
func toScanResult(r *contracts.AnalysisReport) *contracts.ScanResult {
	dd := r.Indicators.CurrentDrawdown

	// Distance back up to the period peak, derived from the drawdown:
	// a 20% drawdown leaves 25% of upside to the prior high
	upside := 0.0
	if dd < 0 && dd > -100 {
		upside = -dd * 100 / (100 + dd)
	}

	return &contracts.ScanResult{
		Symbol:         r.Symbol,
		Price:          r.Price,
		Scores:         r.Scores,
		Recommendation: r.Recommendation.Action,
		Drawdown:       dd,
		UpsidePct:      upside,
		Return1M:       r.Indicators.Return(contracts.Horizon1M),
		Return3M:       r.Indicators.Return(contracts.Horizon3M),
		Return1Y:       r.Indicators.Return(contracts.Horizon1Y),
		RSI:            r.Indicators.RSI,
		PERatio:        r.Fundamentals.PERatio,
		MarketCap:      r.Fundamentals.MarketCap,
		Sector:         r.Fundamentals.Sector,
		Volatility:     r.Indicators.Volatility,
	}
}

// applyFilters keeps only the results matching every configured filter
func applyFilters(results []contracts.ScanResult, filters contracts.FilterSpec) []contracts.ScanResult {
	filtered := results[:0]
	for i := range results {
		if filters.Matches(&results[i]) {
			filtered = append(filtered, results[i])
		}
	}
	return filtered
}

// sortResults ranks by final score descending. Ties break on symbol
// lexical order so the ranking never depends on completion order.
func sortResults(results []contracts.ScanResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Scores.Final != results[j].Scores.Final {
			return results[i].Scores.Final > results[j].Scores.Final
		}
		return results[i].Symbol < results[j].Symbol
	})
}

func scanStatus(ctx context.Context) string {
	if ctx.Err() != nil {
		return "cancelled"
	}
	return "completed"
}

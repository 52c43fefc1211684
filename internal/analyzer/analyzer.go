// Package analyzer produces the full single-symbol analysis: indicators,
// normalized fundamentals, composite score and recommendation.
package analyzer

import (
	"context"
	"errors"
	"time"

	"github.com/mcavalcanti/radar/internal/contracts"
	"github.com/mcavalcanti/radar/internal/fundamentals"
	"github.com/mcavalcanti/radar/internal/indicators"
	"github.com/mcavalcanti/radar/internal/scoring"
	"github.com/mcavalcanti/radar/internal/sentiment"
	"github.com/mcavalcanti/radar/pkg/logger"
)

// ErrEmptySymbol is a caller invariant violation, not a per-symbol failure
var ErrEmptySymbol = errors.New("symbol must not be empty")

// DefaultMinHistory is the minimum number of bars a series needs before
// scoring makes sense
const DefaultMinHistory = 30

// Analyzer runs the per-symbol pipeline: fetch, indicators, normalize,
// score, classify. It holds no mutable state and is safe for concurrent
// use by scanner workers.
type Analyzer struct {
	provider   contracts.MarketDataProvider
	news       contracts.SentimentProvider // optional
	policy     *scoring.Policy
	logger     *logger.Logger
	minHistory int
	clock      func() time.Time
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithSentiment attaches a best-effort headline sentiment provider
func WithSentiment(p contracts.SentimentProvider) Option {
	return func(a *Analyzer) { a.news = p }
}

// WithMinHistory overrides the minimum series length
func WithMinHistory(n int) Option {
	return func(a *Analyzer) { a.minHistory = n }
}

// WithClock overrides the report timestamp source
func WithClock(clock func() time.Time) Option {
	return func(a *Analyzer) { a.clock = clock }
}

// New creates an Analyzer
func New(provider contracts.MarketDataProvider, policy *scoring.Policy, log *logger.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{
		provider:   provider,
		policy:     policy,
		logger:     log,
		minHistory: DefaultMinHistory,
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the full pipeline for one symbol. Failures come back as a
// typed *AnalysisError; only an empty symbol fails before any work starts.
func (a *Analyzer) Analyze(ctx context.Context, symbol, period string) (*contracts.AnalysisReport, error) {
	if symbol == "" {
		return nil, ErrEmptySymbol
	}

	series, err := a.provider.FetchSeries(ctx, symbol, period)
	if err != nil {
		return nil, newError(KindDataUnavailable, symbol, err)
	}
	if series == nil || series.Len() == 0 {
		return nil, &AnalysisError{Kind: KindDataUnavailable, Symbol: symbol}
	}
	if series.Len() < a.minHistory {
		return nil, &AnalysisError{Kind: KindInsufficientHistory, Symbol: symbol}
	}

	// Attributes are optional: a symbol with no fundamentals still gets
	// technical and momentum scoring
	raw, err := a.provider.FetchAttributes(ctx, symbol)
	if err != nil {
		a.logger.WithError(err).WithField("symbol", symbol).Debug("Attributes unavailable, scoring without fundamentals")
		raw = nil
	}

	price := series.LastClose()
	snap := indicators.Snapshot(series)
	rec := fundamentals.Normalize(raw)

	scores := a.policy.Score(price, &snap, &rec)
	recommendation := a.policy.Recommend(scores, snap.Volatility)

	report := &contracts.AnalysisReport{
		Symbol:         symbol,
		Price:          price,
		AsOf:           a.clock(),
		Indicators:     snap,
		Fundamentals:   rec,
		Scores:         scores,
		Recommendation: recommendation,
	}

	report.Growth = growthScenarios(series, &rec)
	report.Targets = priceTargets(series, &snap)

	if a.news != nil {
		report.Sentiment = a.fetchSentiment(ctx, symbol)
	}

	a.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"score":  scores.Final,
		"action": recommendation.Action,
	}).Debug("Analysis completed")

	return report, nil
}

// fetchSentiment is best effort: any failure or empty headline list is
// the neutral report
func (a *Analyzer) fetchSentiment(ctx context.Context, symbol string) *contracts.SentimentReport {
	headlines, err := a.news.FetchHeadlines(ctx, symbol)
	if err != nil {
		a.logger.WithError(err).WithField("symbol", symbol).Debug("Headline fetch failed, sentiment neutral")
		headlines = nil
	}
	report := sentiment.Analyze(headlines)
	return &report
}

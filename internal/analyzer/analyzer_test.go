package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcavalcanti/radar/internal/contracts"
	"github.com/mcavalcanti/radar/internal/scoring"
	"github.com/mcavalcanti/radar/pkg/logger"
)

// fakeProvider serves canned series and attributes per symbol
type fakeProvider struct {
	series     map[string]*contracts.PriceSeries
	attributes map[string]*contracts.RawAttributes
	seriesErr  error
	attrErr    error
}

func (f *fakeProvider) FetchSeries(_ context.Context, symbol, _ string) (*contracts.PriceSeries, error) {
	if f.seriesErr != nil {
		return nil, f.seriesErr
	}
	return f.series[symbol], nil
}

func (f *fakeProvider) FetchAttributes(_ context.Context, symbol string) (*contracts.RawAttributes, error) {
	if f.attrErr != nil {
		return nil, f.attrErr
	}
	return f.attributes[symbol], nil
}

type fakeNews struct {
	headlines []contracts.Headline
	err       error
}

func (f *fakeNews) FetchHeadlines(context.Context, string) ([]contracts.Headline, error) {
	return f.headlines, f.err
}

// risingSeries builds n bars climbing steadily from 100
func risingSeries(symbol string, n int) *contracts.PriceSeries {
	s := &contracts.PriceSeries{Symbol: symbol}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		price := 100 + 0.3*float64(i)
		s.Candles = append(s.Candles, contracts.Candle{
			Timestamp: base.AddDate(0, 0, i),
			Open:      price,
			High:      price * 1.01,
			Low:       price * 0.99,
			Close:     price,
			Volume:    1000,
		})
	}
	return s
}

func ptr(v float64) *float64 { return &v }

func newTestAnalyzer(p contracts.MarketDataProvider, opts ...Option) *Analyzer {
	return New(p, scoring.Default(), logger.NewNop(), opts...)
}

func TestAnalyze_EmptySymbolFailsFast(t *testing.T) {
	a := newTestAnalyzer(&fakeProvider{})
	_, err := a.Analyze(context.Background(), "", "1y")
	assert.ErrorIs(t, err, ErrEmptySymbol)
}

func TestAnalyze_ProviderFailureIsDataUnavailable(t *testing.T) {
	a := newTestAnalyzer(&fakeProvider{seriesErr: errors.New("boom")})

	_, err := a.Analyze(context.Background(), "AAPL", "1y")
	require.Error(t, err)
	assert.Equal(t, KindDataUnavailable, KindOf(err))

	var ae *AnalysisError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "AAPL", ae.Symbol)
}

func TestAnalyze_EmptySeriesIsDataUnavailable(t *testing.T) {
	a := newTestAnalyzer(&fakeProvider{series: map[string]*contracts.PriceSeries{}})

	_, err := a.Analyze(context.Background(), "GHOST", "1y")
	assert.Equal(t, KindDataUnavailable, KindOf(err))
}

func TestAnalyze_ShortSeriesIsInsufficientHistory(t *testing.T) {
	p := &fakeProvider{series: map[string]*contracts.PriceSeries{
		"NEW": risingSeries("NEW", 10),
	}}
	a := newTestAnalyzer(p)

	_, err := a.Analyze(context.Background(), "NEW", "1y")
	assert.Equal(t, KindInsufficientHistory, KindOf(err))
}

func TestAnalyze_DeadlineBecomesTimeout(t *testing.T) {
	a := newTestAnalyzer(&fakeProvider{seriesErr: context.DeadlineExceeded})

	_, err := a.Analyze(context.Background(), "SLOW", "1y")
	assert.Equal(t, KindTimeout, KindOf(err))
}

func TestAnalyze_MissingAttributesStillScores(t *testing.T) {
	p := &fakeProvider{
		series:  map[string]*contracts.PriceSeries{"AAPL": risingSeries("AAPL", 300)},
		attrErr: errors.New("attributes down"),
	}
	a := newTestAnalyzer(p)

	report, err := a.Analyze(context.Background(), "AAPL", "1y")
	require.NoError(t, err)

	// Fundamentals normalize to the all-zero record
	assert.Equal(t, "unknown", report.Fundamentals.Sector)
	assert.Zero(t, report.Fundamentals.ROE)
	assert.Greater(t, report.Scores.Final, 0.0)
}

func TestAnalyze_RisingQualityCompanyEndToEnd(t *testing.T) {
	p := &fakeProvider{
		series: map[string]*contracts.PriceSeries{"QLT": risingSeries("QLT", 300)},
		attributes: map[string]*contracts.RawAttributes{
			"QLT": {
				TrailingPE:     ptr(10.0),
				ReturnOnEquity: ptr(0.25),
				DebtToEquity:   ptr(0.1),
			},
		},
	}
	a := newTestAnalyzer(p)

	report, err := a.Analyze(context.Background(), "QLT", "1y")
	require.NoError(t, err)

	// A monotonic rise maxes out RSI: the overbought penalty applies
	assert.Greater(t, report.Indicators.RSI, 70.0)
	assert.Zero(t, report.Indicators.CurrentDrawdown)

	assert.Greater(t, report.Scores.Fundamental, 90.0)
	assert.Greater(t, report.Scores.Momentum, 60.0)
	assert.Less(t, report.Scores.Technical, 90.0)

	// Buy or moderate buy, held off strong buy by the overbought reading
	assert.Contains(t,
		[]contracts.Action{contracts.ActionBuy, contracts.ActionModerateBuy},
		report.Recommendation.Action)

	// No drawdown means no upside to the period high
	require.NotNil(t, report.Targets)
	assert.InDelta(t, report.Price, report.Targets.Current, 1e-9)
	require.NotNil(t, report.Growth)
}

func TestAnalyze_IsDeterministic(t *testing.T) {
	p := &fakeProvider{
		series: map[string]*contracts.PriceSeries{"DET": risingSeries("DET", 120)},
		attributes: map[string]*contracts.RawAttributes{
			"DET": {TrailingPE: ptr(15.0)},
		},
	}
	fixed := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a := newTestAnalyzer(p, WithClock(func() time.Time { return fixed }))

	first, err := a.Analyze(context.Background(), "DET", "1y")
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), "DET", "1y")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyze_SentimentIsBestEffort(t *testing.T) {
	p := &fakeProvider{
		series: map[string]*contracts.PriceSeries{"NWS": risingSeries("NWS", 100)},
	}

	// Failing news provider yields the neutral report, not an error
	a := newTestAnalyzer(p, WithSentiment(&fakeNews{err: errors.New("scrape failed")}))
	report, err := a.Analyze(context.Background(), "NWS", "1y")
	require.NoError(t, err)
	require.NotNil(t, report.Sentiment)
	assert.Zero(t, report.Sentiment.Score)

	// Working provider moves the score
	a = newTestAnalyzer(p, WithSentiment(&fakeNews{headlines: []contracts.Headline{
		{Title: "Record profit, strong growth"},
	}}))
	report, err = a.Analyze(context.Background(), "NWS", "1y")
	require.NoError(t, err)
	assert.Greater(t, report.Sentiment.Score, 0.0)

	// No provider configured: no sentiment block at all
	a = newTestAnalyzer(p)
	report, err = a.Analyze(context.Background(), "NWS", "1y")
	require.NoError(t, err)
	assert.Nil(t, report.Sentiment)
}

func TestAnalyze_CustomMinHistory(t *testing.T) {
	p := &fakeProvider{series: map[string]*contracts.PriceSeries{
		"X": risingSeries("X", 40),
	}}

	a := newTestAnalyzer(p, WithMinHistory(50))
	_, err := a.Analyze(context.Background(), "X", "1y")
	assert.Equal(t, KindInsufficientHistory, KindOf(err))

	a = newTestAnalyzer(p, WithMinHistory(30))
	_, err = a.Analyze(context.Background(), "X", "1y")
	assert.NoError(t, err)
}

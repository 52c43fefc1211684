package comparator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcavalcanti/radar/internal/analyzer"
	"github.com/mcavalcanti/radar/internal/contracts"
	"github.com/mcavalcanti/radar/internal/scoring"
	"github.com/mcavalcanti/radar/pkg/logger"
)

type fakeProvider struct {
	series map[string]*contracts.PriceSeries
	attrs  map[string]*contracts.RawAttributes
}

func (f *fakeProvider) FetchSeries(_ context.Context, symbol, _ string) (*contracts.PriceSeries, error) {
	s, ok := f.series[symbol]
	if !ok {
		return nil, errors.New("unknown symbol")
	}
	return s, nil
}

func (f *fakeProvider) FetchAttributes(_ context.Context, symbol string) (*contracts.RawAttributes, error) {
	return f.attrs[symbol], nil
}

// trendSeries walks n bars with a fixed per-bar growth factor
func trendSeries(symbol string, n int, growth float64) *contracts.PriceSeries {
	s := &contracts.PriceSeries{Symbol: symbol}
	price := 100.0
	for i := 0; i < n; i++ {
		price *= growth
		s.Candles = append(s.Candles, contracts.Candle{Close: price})
	}
	return s
}

func ptr(v float64) *float64 { return &v }

func newComparator(p contracts.MarketDataProvider) *Comparator {
	log := logger.NewNop()
	return New(analyzer.New(p, scoring.Default(), log), log)
}

func TestCompare_EmptyInput(t *testing.T) {
	c := newComparator(&fakeProvider{})
	_, err := c.Compare(context.Background(), nil, "1y")
	assert.ErrorIs(t, err, ErrNoSymbols)
}

func TestCompare_RanksByFinalScore(t *testing.T) {
	p := &fakeProvider{
		series: map[string]*contracts.PriceSeries{
			"UP":   trendSeries("UP", 300, 1.002),
			"DOWN": trendSeries("DOWN", 300, 0.997),
		},
		attrs: map[string]*contracts.RawAttributes{
			"UP":   {TrailingPE: ptr(10.0), ReturnOnEquity: ptr(0.25)},
			"DOWN": {TrailingPE: ptr(60.0), ReturnOnEquity: ptr(-0.10)},
		},
	}

	cmp, err := newComparator(p).Compare(context.Background(), []string{"DOWN", "UP"}, "1y")
	require.NoError(t, err)
	require.Len(t, cmp.Entries, 2)

	assert.Equal(t, "UP", cmp.Entries[0].Symbol)
	assert.Greater(t,
		cmp.Entries[0].Report.Scores.Final,
		cmp.Entries[1].Report.Scores.Final)

	assert.Equal(t, "UP", cmp.Leaders["overall"])
	assert.Equal(t, "UP", cmp.Leaders["performance_1y"])
	assert.Equal(t, "UP", cmp.Leaders["momentum"])
}

func TestCompare_FailuresAreRecorded(t *testing.T) {
	p := &fakeProvider{
		series: map[string]*contracts.PriceSeries{
			"OK": trendSeries("OK", 200, 1.001),
		},
	}

	cmp, err := newComparator(p).Compare(context.Background(), []string{"OK", "MISSING"}, "1y")
	require.NoError(t, err)

	require.Len(t, cmp.Entries, 1)
	assert.Equal(t, "OK", cmp.Entries[0].Symbol)
	require.Len(t, cmp.Failures, 1)
	assert.Equal(t, "MISSING", cmp.Failures[0].Symbol)
	assert.Equal(t, string(analyzer.KindDataUnavailable), cmp.Failures[0].Kind)
}

func TestCompare_CorrelationMatrix(t *testing.T) {
	p := &fakeProvider{
		series: map[string]*contracts.PriceSeries{
			"UP":   trendSeries("UP", 300, 1.002),
			"UP2":  trendSeries("UP2", 300, 1.003),
			"DOWN": trendSeries("DOWN", 300, 0.997),
		},
	}

	cmp, err := newComparator(p).Compare(context.Background(), []string{"UP", "UP2", "DOWN"}, "1y")
	require.NoError(t, err)
	require.Len(t, cmp.Correlations, 3)

	assert.Equal(t, 1.0, cmp.Correlations["UP"]["UP"])
	// symmetric
	assert.InDelta(t, cmp.Correlations["UP"]["DOWN"], cmp.Correlations["DOWN"]["UP"], 1e-12)
	// two rising exponential walks have identically-shaped return profiles
	assert.Greater(t, cmp.Correlations["UP"]["UP2"], 0.9)
	// bounded
	for _, row := range cmp.Correlations {
		for _, v := range row {
			assert.GreaterOrEqual(t, v, -1.0000001)
			assert.LessOrEqual(t, v, 1.0000001)
		}
	}
}

func TestCorrelate_ConstantVectorIsZero(t *testing.T) {
	assert.Equal(t, 0.0, correlate([]float64{1, 1, 1}, []float64{1, 2, 3}))
	assert.InDelta(t, 1.0, correlate([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-12)
	assert.InDelta(t, -1.0, correlate([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-12)
}

func TestCompare_AllSymbolsFail(t *testing.T) {
	cmp, err := newComparator(&fakeProvider{}).Compare(context.Background(), []string{"A", "B"}, "1y")
	require.NoError(t, err)

	assert.Empty(t, cmp.Entries)
	assert.Len(t, cmp.Failures, 2)
	assert.Empty(t, cmp.Leaders)
}

package scoring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcavalcanti/radar/internal/contracts"
)

func neutralSnapshot() *contracts.IndicatorSnapshot {
	return &contracts.IndicatorSnapshot{
		RSI:       50,
		MA20:      100,
		MA50:      100,
		MA200:     100,
		Bollinger: contracts.BollingerBands{Upper: 110, Middle: 100, Lower: 90},
		Returns:   map[string]float64{},
	}
}

func TestTechnicalScore_Bands(t *testing.T) {
	p := Default()

	tests := []struct {
		name     string
		price    float64
		mutate   func(s *contracts.IndicatorSnapshot)
		expected float64
	}{
		{
			// RSI in range +15, price below all MAs, mid-band, no drawdown
			"neutral rsi below averages",
			95,
			nil,
			50 + 15,
		},
		{
			// Oversold +25 instead of +15
			"oversold is an opportunity",
			95,
			func(s *contracts.IndicatorSnapshot) { s.RSI = 25 },
			50 + 25,
		},
		{
			// Overbought -10
			"overbought penalized",
			95,
			func(s *contracts.IndicatorSnapshot) { s.RSI = 75 },
			50 - 10,
		},
		{
			// +15 RSI, +8+12+15 above MAs, price 105 inside band (0.75)
			"above all moving averages",
			105,
			nil,
			50 + 15 + 8 + 12 + 15,
		},
		{
			// +15 RSI, near lower band +15, deep drawdown +20
			"deep discount near lower band",
			91,
			func(s *contracts.IndicatorSnapshot) { s.CurrentDrawdown = -35 },
			50 + 15 + 15 + 20,
		},
		{
			// +15 RSI, bullish MACD +10 +5, price below MAs, mid-band
			"bullish macd",
			95,
			func(s *contracts.IndicatorSnapshot) {
				s.MACD = contracts.MACDValue{Line: 2, Signal: 1, Histogram: 1}
			},
			50 + 15 + 10 + 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := neutralSnapshot()
			if tt.mutate != nil {
				tt.mutate(snap)
			}
			assert.InDelta(t, tt.expected, p.TechnicalScore(tt.price, snap), 1e-9)
		})
	}
}

func TestFundamentalScore_Bands(t *testing.T) {
	p := Default()

	// All-zero record scores the neutral base plus the low-debt bonus
	neutral := &contracts.FundamentalsRecord{}
	assert.InDelta(t, 70, p.FundamentalScore(neutral), 1e-9)

	strong := &contracts.FundamentalsRecord{
		PERatio:       10,   // +25
		ROE:           0.28, // +20
		DebtToEquity:  0.1,  // +20
		RevenueGrowth: 0.25, // +20
		ProfitMargin:  0.22, // +15
	}
	assert.Equal(t, 100.0, p.FundamentalScore(strong)) // 150 clamped

	weak := &contracts.FundamentalsRecord{
		PERatio:       55,    // -15
		ROE:           -0.05, // -25
		DebtToEquity:  4,     // -25
		RevenueGrowth: -0.20, // -20
		ProfitMargin:  -0.10, // -20
	}
	assert.Equal(t, 0.0, p.FundamentalScore(weak)) // -55 clamped
}

func TestMomentumScore(t *testing.T) {
	p := Default()

	// Missing horizons contribute nothing
	snap := neutralSnapshot()
	assert.InDelta(t, 50, p.MomentumScore(snap), 1e-9)

	// Uniform strong rally: +20 scaled by each weight, weights sum to 1
	snap.Returns = map[string]float64{
		"1w": 25, "1m": 25, "3m": 25, "6m": 25, "1y": 25,
	}
	assert.InDelta(t, 70, p.MomentumScore(snap), 1e-9)

	// Uniform selloff
	snap.Returns = map[string]float64{
		"1w": -20, "1m": -20, "3m": -20, "6m": -20, "1y": -20,
	}
	assert.InDelta(t, 35, p.MomentumScore(snap), 1e-9)

	// Mixed: only the 3m horizon moves
	snap.Returns = map[string]float64{"3m": 12}
	assert.InDelta(t, 50+10*0.30, p.MomentumScore(snap), 1e-9)
}

func TestValueScore(t *testing.T) {
	p := Default()

	// Unknown multiples are neutral
	assert.InDelta(t, 50, p.ValueScore(&contracts.FundamentalsRecord{}), 1e-9)

	deepValue := &contracts.FundamentalsRecord{
		PBRatio:       0.8,  // +25
		PSRatio:       0.9,  // +20
		PEGRatio:      0.4,  // +25
		DividendYield: 0.06, // +15
	}
	assert.Equal(t, 100.0, p.ValueScore(deepValue))

	expensive := &contracts.FundamentalsRecord{
		PBRatio:  8,  // -15
		PSRatio:  15, // -15
		PEGRatio: 3,  // -10
	}
	assert.InDelta(t, 10, p.ValueScore(expensive), 1e-9)
}

func TestQualityScore(t *testing.T) {
	p := Default()

	// Unknown fundamentals are neutral, including a zero current ratio
	assert.InDelta(t, 50, p.QualityScore(&contracts.FundamentalsRecord{}), 1e-9)

	high := &contracts.FundamentalsRecord{
		ROA:             0.18, // +25
		CurrentRatio:    2.0,  // +15
		OperatingMargin: 0.25, // +20
		EarningsGrowth:  0.30, // +15
	}
	assert.InDelta(t, 100, p.QualityScore(high), 1e-9)

	low := &contracts.FundamentalsRecord{
		ROA:             -0.05, // -20
		CurrentRatio:    0.7,   // -15
		OperatingMargin: -0.02, // -15
		EarningsGrowth:  -0.30, // -15
	}
	assert.InDelta(t, 0, p.QualityScore(low), 1e-9)
}

func TestRiskScore(t *testing.T) {
	p := Default()

	// Calm profile accumulates nothing
	snap := neutralSnapshot()
	assert.Zero(t, p.RiskScore(snap, &contracts.FundamentalsRecord{}))

	// Everything wrong at once clamps at 100
	snap.Volatility = 90
	snap.MaxDrawdown = -85
	f := &contracts.FundamentalsRecord{
		Beta:         2.5,
		DebtToEquity: 6,
		ROE:          -0.1,
		ProfitMargin: -0.1,
	}
	assert.Equal(t, 100.0, p.RiskScore(snap, f))

	// Moderate volatility alone
	snap = neutralSnapshot()
	snap.Volatility = 30
	assert.Equal(t, 10.0, p.RiskScore(snap, &contracts.FundamentalsRecord{}))
}

func TestScore_SubScoresAlwaysBounded(t *testing.T) {
	p := Default()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		snap := &contracts.IndicatorSnapshot{
			RSI:             rng.Float64()*200 - 50,
			MA20:            rng.Float64() * 500,
			MA50:            rng.Float64() * 500,
			MA200:           rng.Float64() * 500,
			MACD:            contracts.MACDValue{Line: rng.NormFloat64() * 10, Signal: rng.NormFloat64() * 10, Histogram: rng.NormFloat64() * 5},
			Bollinger:       contracts.BollingerBands{Upper: 120, Middle: 100, Lower: 80},
			Volatility:      rng.Float64() * 150,
			CurrentDrawdown: -rng.Float64() * 100,
			MaxDrawdown:     -rng.Float64() * 100,
			Returns: map[string]float64{
				"1w": rng.NormFloat64() * 30,
				"1m": rng.NormFloat64() * 30,
				"3m": rng.NormFloat64() * 30,
				"6m": rng.NormFloat64() * 30,
				"1y": rng.NormFloat64() * 30,
			},
		}
		f := &contracts.FundamentalsRecord{
			PERatio:         rng.NormFloat64() * 50,
			PBRatio:         rng.NormFloat64() * 10,
			PSRatio:         rng.NormFloat64() * 10,
			PEGRatio:        rng.NormFloat64() * 3,
			ROE:             rng.NormFloat64(),
			ROA:             rng.NormFloat64(),
			DebtToEquity:    rng.Float64() * 8,
			CurrentRatio:    rng.Float64() * 5,
			ProfitMargin:    rng.NormFloat64(),
			OperatingMargin: rng.NormFloat64(),
			RevenueGrowth:   rng.NormFloat64(),
			EarningsGrowth:  rng.NormFloat64(),
			DividendYield:   rng.Float64() * 0.1,
			Beta:            rng.Float64() * 3,
		}

		s := p.Score(rng.Float64()*500, snap, f)
		for name, v := range map[string]float64{
			"technical":   s.Technical,
			"fundamental": s.Fundamental,
			"momentum":    s.Momentum,
			"value":       s.Value,
			"quality":     s.Quality,
			"risk":        s.Risk,
			"final":       s.Final,
		} {
			assert.GreaterOrEqual(t, v, 0.0, "%s at iteration %d", name, i)
			assert.LessOrEqual(t, v, 100.0, "%s at iteration %d", name, i)
		}
	}
}

func TestScore_IsDeterministic(t *testing.T) {
	p := Default()
	snap := neutralSnapshot()
	snap.Returns = map[string]float64{"1m": 8, "3m": 17}
	f := &contracts.FundamentalsRecord{PERatio: 14, ROE: 0.18}

	a := p.Score(120, snap, f)
	b := p.Score(120, snap, f)
	assert.Equal(t, a, b)
}

func TestScore_RisingQualityCompany(t *testing.T) {
	p := Default()

	// Overbought rising series: RSI past the cutoff, price above every
	// moving average and near the upper band, strong momentum everywhere,
	// no drawdown, calm volatility.
	snap := &contracts.IndicatorSnapshot{
		RSI:        72,
		MA20:       95,
		MA50:       90,
		MA200:      80,
		MACD:       contracts.MACDValue{Line: 2, Signal: 1, Histogram: 1},
		Bollinger:  contracts.BollingerBands{Upper: 101, Middle: 97, Lower: 93},
		Volatility: 12,
		Returns: map[string]float64{
			"1w": 3, "1m": 22, "3m": 30, "6m": 45, "1y": 60,
		},
	}
	f := &contracts.FundamentalsRecord{
		PERatio:      10,
		ROE:          0.25,
		DebtToEquity: 0.1,
	}

	s := p.Score(100, snap, f)

	// Overbought penalty keeps technical off its ceiling
	assert.InDelta(t, 80, s.Technical, 1e-9) // 50-10+8+12+15+10+5-10
	assert.Greater(t, s.Fundamental, 90.0)
	assert.Greater(t, s.Momentum, 60.0)
	assert.Zero(t, s.Risk)

	// Lands in the buy/moderate-buy band, not strong buy
	rec := p.Recommend(s, snap.Volatility)
	assert.Contains(t, []contracts.Action{contracts.ActionBuy, contracts.ActionModerateBuy}, rec.Action)
}

package scoring

import (
	"math"

	"github.com/mcavalcanti/radar/internal/contracts"
)

// TechnicalScore rates the technical picture from a neutral base of 50.
// Oversold RSI and deep drawdowns score as buying opportunities; price
// above the long moving averages and a bullish MACD add trend confirmation.
func (p *Policy) TechnicalScore(price float64, snap *contracts.IndicatorSnapshot) float64 {
	score := 50.0

	switch {
	case snap.RSI < p.RSI.Oversold:
		score += 25 // oversold = opportunity
	case snap.RSI <= p.RSI.Overbought:
		score += 15
	default:
		score -= 10 // overbought
	}

	if price > snap.MA20 {
		score += 8
	}
	if price > snap.MA50 {
		score += 12
	}
	if price > snap.MA200 {
		score += 15
	}

	if snap.MACD.Line > snap.MACD.Signal {
		score += 10
	}
	if snap.MACD.Histogram > 0 {
		score += 5
	}

	pos := snap.BollingerPosition(price)
	if pos < 0.2 {
		score += 15 // near the lower band
	} else if pos > 0.8 {
		score -= 10
	}

	dd := math.Abs(snap.CurrentDrawdown)
	switch {
	case dd > 30:
		score += 20
	case dd > 20:
		score += 15
	case dd > 10:
		score += 10
	}

	return clamp(score)
}

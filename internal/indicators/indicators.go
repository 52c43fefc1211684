// Package indicators computes technical indicators from close-price series.
// Every function is pure and degrades to a neutral value on insufficient
// data: a short history contributes no signal instead of failing, so a
// newly-listed instrument stays analyzable.
package indicators

import (
	"math"

	"github.com/mcavalcanti/radar/internal/contracts"
)

// Default indicator parameters
const (
	RSIPeriod       = 14
	MACDFast        = 12
	MACDSlow        = 26
	MACDSignal      = 9
	BollingerWindow = 20
	BollingerK      = 2.0
	TradingDaysYear = 252
)

// Trading-day offsets per return horizon
var horizonDays = map[string]int{
	contracts.Horizon1W: 5,
	contracts.Horizon1M: 21,
	contracts.Horizon3M: 63,
	contracts.Horizon6M: 126,
	contracts.Horizon1Y: 252,
}

// RSI computes the relative strength index over the trailing period.
// Fewer than period+1 points yields the neutral 50. A series with no
// losses in the window yields 100.
func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 {
		return 50
	}

	var avgGain, avgLoss float64
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// MovingAverage computes the simple mean of the trailing window.
// Fewer points than the window falls back to the latest price, which acts
// as a no-signal identity rather than an error.
func MovingAverage(closes []float64, window int) float64 {
	if len(closes) == 0 {
		return 0
	}
	if len(closes) < window {
		return closes[len(closes)-1]
	}

	sum := 0.0
	for _, c := range closes[len(closes)-window:] {
		sum += c
	}
	return sum / float64(window)
}

// ema computes the exponential moving average sequence with alpha 2/(span+1)
func ema(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// MACD computes the MACD line, signal line and histogram. Fewer than
// slow+signal points yields all zeros (neutral).
func MACD(closes []float64, fast, slow, signal int) contracts.MACDValue {
	if len(closes) < slow+signal {
		return contracts.MACDValue{}
	}

	fastEMA := ema(closes, fast)
	slowEMA := ema(closes, slow)

	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fastEMA[i] - slowEMA[i]
	}
	signalLine := ema(line, signal)

	last := len(closes) - 1
	return contracts.MACDValue{
		Line:      line[last],
		Signal:    signalLine[last],
		Histogram: line[last] - signalLine[last],
	}
}

// Bollinger computes mean +/- k standard deviations over the trailing
// window. A degenerate series yields bands at +/-2% around the last price.
func Bollinger(closes []float64, window int, k float64) contracts.BollingerBands {
	if len(closes) == 0 {
		return contracts.BollingerBands{}
	}
	if len(closes) < window {
		last := closes[len(closes)-1]
		return contracts.BollingerBands{
			Upper:  last * 1.02,
			Middle: last,
			Lower:  last * 0.98,
		}
	}

	tail := closes[len(closes)-window:]
	mean := 0.0
	for _, c := range tail {
		mean += c
	}
	mean /= float64(window)

	variance := 0.0
	for _, c := range tail {
		d := c - mean
		variance += d * d
	}
	// Sample standard deviation
	std := math.Sqrt(variance / float64(window-1))

	return contracts.BollingerBands{
		Upper:  mean + k*std,
		Middle: mean,
		Lower:  mean - k*std,
	}
}

// Volatility computes annualized volatility as the sample standard
// deviation of simple daily returns, scaled to percent. Fewer than three
// points yields 0.
func Volatility(closes []float64) float64 {
	if len(closes) < 3 {
		return 0
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(len(returns)-1))

	return std * math.Sqrt(TradingDaysYear) * 100
}

// Drawdown computes the current and maximum drawdown in percent, both <= 0.
// Current is the distance of the last price from the running peak; max is
// the deepest such distance anywhere in the series.
func Drawdown(closes []float64) (current, max float64) {
	if len(closes) == 0 {
		return 0, 0
	}

	peak := closes[0]
	for _, c := range closes {
		if c > peak {
			peak = c
		}
		if peak > 0 {
			dd := (c - peak) / peak * 100
			if dd < max {
				max = dd
			}
			current = dd
		}
	}
	return current, max
}

// ReturnOverN computes the percent return against the price n points back.
// A series shorter than n yields 0, contributing no momentum signal.
func ReturnOverN(closes []float64, n int) float64 {
	if len(closes) < n || n <= 0 {
		return 0
	}
	past := closes[len(closes)-n]
	if past == 0 {
		return 0
	}
	last := closes[len(closes)-1]
	return (last - past) / past * 100
}

// Returns computes the percent return for every canonical horizon
func Returns(closes []float64) map[string]float64 {
	out := make(map[string]float64, len(horizonDays))
	for horizon, days := range horizonDays {
		out[horizon] = ReturnOverN(closes, days)
	}
	return out
}

// Snapshot computes the full indicator set for one series in a single pass
func Snapshot(series *contracts.PriceSeries) contracts.IndicatorSnapshot {
	closes := series.Closes()
	current, max := Drawdown(closes)

	return contracts.IndicatorSnapshot{
		RSI:             RSI(closes, RSIPeriod),
		MA20:            MovingAverage(closes, 20),
		MA50:            MovingAverage(closes, 50),
		MA200:           MovingAverage(closes, 200),
		MACD:            MACD(closes, MACDFast, MACDSlow, MACDSignal),
		Bollinger:       Bollinger(closes, BollingerWindow, BollingerK),
		Volatility:      Volatility(closes),
		CurrentDrawdown: current,
		MaxDrawdown:     max,
		Returns:         Returns(closes),
	}
}

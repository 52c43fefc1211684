package analyzer

import (
	"math"
	"sort"

	"github.com/mcavalcanti/radar/internal/contracts"
)

// marketAveragePE anchors the multiple-expansion upside estimate
const marketAveragePE = 18

// growthScenarios estimates bounded upside per scenario: technical distance
// to the period high, multiple expansion toward the market average P/E, and
// organic growth from revenue plus earnings growth.
func growthScenarios(series *contracts.PriceSeries, f *contracts.FundamentalsRecord) *contracts.GrowthScenarios {
	price := series.LastClose()
	if price <= 0 {
		return nil
	}

	technicalUpside := UpsideToHigh(series)

	multipleUpside := 0.0
	if f.PERatio > 0 && f.PERatio < marketAveragePE {
		multipleUpside = (marketAveragePE - f.PERatio) / f.PERatio * 100
	}

	organic := (f.RevenueGrowth + f.EarningsGrowth) * 100

	return &contracts.GrowthScenarios{
		Conservative: math.Max(0, math.Min(technicalUpside*0.4, 20)),
		Moderate:     math.Max(0, math.Min((technicalUpside+multipleUpside)*0.6, 40)),
		Optimistic:   math.Max(0, math.Min(technicalUpside+multipleUpside+organic, 80)),
		Timeframe:    "12-24m",
	}
}

// priceTargets derives support/resistance percentiles, three price targets
// and a stop loss from the series and the Bollinger bands
func priceTargets(series *contracts.PriceSeries, snap *contracts.IndicatorSnapshot) *contracts.PriceTargets {
	price := series.LastClose()
	if price <= 0 || series.Len() == 0 {
		return nil
	}

	closes := series.Closes()
	support := percentile(closes, 0.20)
	resistance := percentile(closes, 0.80)
	high := series.HighestClose()

	return &contracts.PriceTargets{
		Current:      price,
		Support:      support,
		Resistance:   resistance,
		Conservative: math.Min(resistance, price*1.15),
		Moderate:     math.Min(snap.Bollinger.Upper, price*1.25),
		Optimistic:   math.Min(high*1.05, price*1.40),
		StopLoss:     math.Max(math.Max(snap.Bollinger.Lower, support*0.95), price*0.85),
	}
}

// percentile computes the p-th percentile by linear interpolation over the
// sorted values
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// UpsideToHigh is the percent distance from the current price to the
// period high, used by scan results for display and filtering
func UpsideToHigh(series *contracts.PriceSeries) float64 {
	price := series.LastClose()
	if price <= 0 {
		return 0
	}
	return (series.HighestClose() - price) / price * 100
}

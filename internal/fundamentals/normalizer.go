// Package fundamentals maps provider-shaped attribute records into the
// canonical FundamentalsRecord. Nothing is ever rejected: a company with no
// known fundamentals still normalizes to a valid all-zero record so that
// technical and momentum scoring can proceed on its own.
package fundamentals

import (
	"math"

	"github.com/mcavalcanti/radar/internal/contracts"
)

const (
	// UnknownCategory replaces absent categorical fields
	UnknownCategory = "unknown"

	// maxUsablePE is the ceiling above which a P/E carries no signal and
	// is treated as unknown
	maxUsablePE = 1000
)

// Normalize converts raw provider attributes into a canonical record.
// Missing numeric fields coalesce to 0, missing categorical fields to
// "unknown". Rates come out as decimal fractions and every value is finite.
func Normalize(raw *contracts.RawAttributes) contracts.FundamentalsRecord {
	if raw == nil {
		return contracts.FundamentalsRecord{
			Sector:  UnknownCategory,
			Country: UnknownCategory,
		}
	}

	rec := contracts.FundamentalsRecord{
		PERatio:         coalesce(raw.TrailingPE),
		PBRatio:         coalesce(raw.PriceToBook),
		PSRatio:         coalesce(raw.PriceToSales),
		PEGRatio:        coalesce(raw.PEGRatio),
		ROE:             asFraction(coalesce(raw.ReturnOnEquity)),
		ROA:             asFraction(coalesce(raw.ReturnOnAssets)),
		DebtToEquity:    normalizeDebtToEquity(coalesce(raw.DebtToEquity)),
		CurrentRatio:    coalesce(raw.CurrentRatio),
		ProfitMargin:    asFraction(coalesce(raw.ProfitMargin)),
		OperatingMargin: asFraction(coalesce(raw.OperatingMargin)),
		RevenueGrowth:   asFraction(coalesce(raw.RevenueGrowth)),
		EarningsGrowth:  asFraction(coalesce(raw.EarningsGrowth)),
		DividendYield:   asFraction(coalesce(raw.DividendYield)),
		Beta:            coalesce(raw.Beta),
		MarketCap:       coalesce(raw.MarketCap),
		Sector:          coalesceString(raw.Sector),
		Country:         coalesceString(raw.Country),
	}

	// An absurd multiple carries no signal; treat it as unknown
	if rec.PERatio > maxUsablePE {
		rec.PERatio = 0
	}

	return rec
}

// coalesce dereferences an optional float, mapping nil and non-finite
// values to 0
func coalesce(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return *v
}

func coalesceString(s string) string {
	if s == "" {
		return UnknownCategory
	}
	return s
}

// asFraction converts percent-shaped rates into decimal fractions. Rates
// above 5 in absolute value are assumed to be percentages: no real margin,
// growth rate or yield exceeds 500%.
func asFraction(v float64) float64 {
	if math.Abs(v) > 5 {
		return v / 100
	}
	return v
}

// normalizeDebtToEquity converts the percent-shaped provider value
// (e.g. 150.5 meaning 1.505x) into a ratio. Values at or below the highest
// plausible raw ratio pass through untouched.
func normalizeDebtToEquity(v float64) float64 {
	if v > 20 {
		return v / 100
	}
	return v
}

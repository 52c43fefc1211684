package scoring

import "github.com/mcavalcanti/radar/internal/contracts"

// QualityScore rates operational quality: asset efficiency, liquidity,
// operating margin and earnings growth, through the policy band tables.
// A zero current ratio means "unknown" and contributes nothing.
func (p *Policy) QualityScore(f *contracts.FundamentalsRecord) float64 {
	score := 50.0

	score += p.Quality.ROA.Adjust(f.ROA)
	if f.CurrentRatio > 0 {
		score += p.Quality.CurrentRatio.Adjust(f.CurrentRatio)
	}
	score += p.Quality.OperatingMargin.Adjust(f.OperatingMargin)
	score += p.Quality.EarningsGrowth.Adjust(f.EarningsGrowth)

	return clamp(score)
}

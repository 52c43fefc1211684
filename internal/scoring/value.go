package scoring

import "github.com/mcavalcanti/radar/internal/contracts"

// ValueScore rates how cheap the instrument trades relative to book value,
// sales, expected growth and dividend yield through the policy band tables.
// Zero multiples mean "unknown" and contribute nothing.
func (p *Policy) ValueScore(f *contracts.FundamentalsRecord) float64 {
	score := 50.0

	if f.PBRatio > 0 {
		score += p.Value.PB.Adjust(f.PBRatio)
	}
	if f.PSRatio > 0 {
		score += p.Value.PS.Adjust(f.PSRatio)
	}
	if f.PEGRatio > 0 {
		score += p.Value.PEG.Adjust(f.PEGRatio)
	}
	score += p.Value.Yield.Adjust(f.DividendYield)

	return clamp(score)
}

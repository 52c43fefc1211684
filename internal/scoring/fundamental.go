package scoring

import "github.com/mcavalcanti/radar/internal/contracts"

// FundamentalScore rates profitability, leverage and growth from a neutral
// base of 50 through the policy band tables. A P/E of zero or below means
// "unknown or loss-making" and contributes nothing.
func (p *Policy) FundamentalScore(f *contracts.FundamentalsRecord) float64 {
	score := 50.0

	if f.PERatio > 0 {
		score += p.Fundamental.PE.Adjust(f.PERatio)
	}
	score += p.Fundamental.ROE.Adjust(f.ROE)
	score += p.Fundamental.Debt.Adjust(f.DebtToEquity)
	score += p.Fundamental.Growth.Adjust(f.RevenueGrowth)
	score += p.Fundamental.Margin.Adjust(f.ProfitMargin)

	return clamp(score)
}

package scoring

import (
	"math"

	"github.com/mcavalcanti/radar/internal/contracts"
)

// RiskScore accumulates risk points from zero through the policy risk
// buckets: higher means riskier. It is used as a penalty against the
// composite, never blended like the other five sub-scores.
func (p *Policy) RiskScore(snap *contracts.IndicatorSnapshot, f *contracts.FundamentalsRecord) float64 {
	risk := p.Risk.Volatility.Adjust(snap.Volatility)
	risk += p.Risk.Beta.Adjust(f.Beta)
	risk += p.Risk.Debt.Adjust(f.DebtToEquity)

	if f.ROE < 0 {
		risk += p.Risk.NegativeROE
	}
	if f.ProfitMargin < 0 {
		risk += p.Risk.NegativeMargin
	}

	risk += p.Risk.Drawdown.Adjust(math.Abs(snap.MaxDrawdown))

	return clamp(risk)
}

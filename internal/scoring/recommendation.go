package scoring

import "github.com/mcavalcanti/radar/internal/contracts"

// Recommend classifies a composite score into a discrete recommendation.
// The ladder operates on the risk-adjusted score: the final score minus a
// fraction of the risk sub-score.
func (p *Policy) Recommend(scores contracts.CompositeScore, volatility float64) contracts.Recommendation {
	adjusted := scores.Final - scores.Risk*p.RiskAdjustFactor

	var action contracts.Action
	var confidence string
	switch {
	case adjusted >= p.Ladder.StrongBuy:
		action = contracts.ActionStrongBuy
		confidence = "very_high"
	case adjusted >= p.Ladder.Buy:
		action = contracts.ActionBuy
		confidence = "high"
	case adjusted >= p.Ladder.ModerateBuy:
		action = contracts.ActionModerateBuy
		confidence = "good"
	case adjusted >= p.Ladder.Hold:
		action = contracts.ActionHold
		confidence = "moderate"
	case adjusted >= p.Ladder.Avoid:
		action = contracts.ActionAvoid
		confidence = "low"
	default:
		action = contracts.ActionSell
		confidence = "high"
	}

	return contracts.Recommendation{
		Action:     action,
		Confidence: confidence,
		Score:      adjusted,
		RiskLevel:  p.riskLevel(scores.Risk),
		Horizon:    p.horizon(volatility),
	}
}

// riskLevel buckets the risk sub-score into a qualitative tier
func (p *Policy) riskLevel(risk float64) contracts.RiskLevel {
	switch {
	case risk > p.RiskLevels.VeryHigh:
		return contracts.RiskVeryHigh
	case risk > p.RiskLevels.High:
		return contracts.RiskHigh
	case risk > p.RiskLevels.Medium:
		return contracts.RiskMedium
	default:
		return contracts.RiskLow
	}
}

// horizon suggests a holding period: volatile instruments need more time
// to realize the thesis
func (p *Policy) horizon(volatility float64) string {
	switch {
	case volatility > p.Horizon.LongTerm:
		return "long_term"
	case volatility > p.Horizon.MediumTerm:
		return "medium_term"
	default:
		return "short_medium_term"
	}
}

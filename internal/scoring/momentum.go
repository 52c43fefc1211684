package scoring

import "github.com/mcavalcanti/radar/internal/contracts"

// MomentumScore blends the horizon returns into one momentum rating using
// the policy's horizon weights. Each horizon contributes a small banded
// adjustment scaled by its weight; a missing horizon contributes nothing.
func (p *Policy) MomentumScore(snap *contracts.IndicatorSnapshot) float64 {
	score := 50.0

	for horizon, weight := range p.Momentum.HorizonWeights {
		ret := snap.Return(horizon)
		switch {
		case ret > 20:
			score += 20 * weight
		case ret > 15:
			score += 15 * weight
		case ret > 10:
			score += 10 * weight
		case ret > 5:
			score += 5 * weight
		case ret < -15:
			score -= 15 * weight
		case ret < -10:
			score -= 10 * weight
		}
	}

	return clamp(score)
}

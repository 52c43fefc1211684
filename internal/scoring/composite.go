package scoring

import "github.com/mcavalcanti/radar/internal/contracts"

// Score computes all six sub-scores and the weighted composite. The final
// score is a pure function of the inputs and the policy table; identical
// inputs always produce an identical CompositeScore.
func (p *Policy) Score(price float64, snap *contracts.IndicatorSnapshot, f *contracts.FundamentalsRecord) contracts.CompositeScore {
	s := contracts.CompositeScore{
		Technical:   p.TechnicalScore(price, snap),
		Fundamental: p.FundamentalScore(f),
		Momentum:    p.MomentumScore(snap),
		Value:       p.ValueScore(f),
		Quality:     p.QualityScore(f),
		Risk:        p.RiskScore(snap, f),
	}

	w := p.Weights
	final := s.Technical*w.Technical +
		s.Fundamental*w.Fundamental +
		s.Momentum*w.Momentum +
		s.Value*w.Value +
		s.Quality*w.Quality -
		s.Risk*w.RiskPenalty

	s.Final = clamp(final)
	return s
}

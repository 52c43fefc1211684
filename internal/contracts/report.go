package contracts

import "time"

// SentimentReport summarizes wordlist sentiment over recent headlines.
// Score is in [-1, 1]; an empty headline list yields the neutral zero.
type SentimentReport struct {
	Score     float64 `json:"score"`
	Trend     string  `json:"trend"`
	Headlines int     `json:"headlines"`
}

// GrowthScenarios are bounded upside estimates per scenario, in percent
type GrowthScenarios struct {
	Conservative float64 `json:"conservative"`
	Moderate     float64 `json:"moderate"`
	Optimistic   float64 `json:"optimistic"`
	Timeframe    string  `json:"timeframe"`
}

// PriceTargets are derived price levels for display
type PriceTargets struct {
	Current      float64 `json:"current"`
	Support      float64 `json:"support"`
	Resistance   float64 `json:"resistance"`
	Conservative float64 `json:"conservative"`
	Moderate     float64 `json:"moderate"`
	Optimistic   float64 `json:"optimistic"`
	StopLoss     float64 `json:"stop_loss"`
}

// AnalysisReport is the full single-symbol analysis output
type AnalysisReport struct {
	Symbol         string             `json:"symbol"`
	Price          float64            `json:"price"`
	AsOf           time.Time          `json:"as_of"`
	Indicators     IndicatorSnapshot  `json:"indicators"`
	Fundamentals   FundamentalsRecord `json:"fundamentals"`
	Scores         CompositeScore     `json:"scores"`
	Recommendation Recommendation     `json:"recommendation"`
	Sentiment      *SentimentReport   `json:"sentiment,omitempty"`
	Growth         *GrowthScenarios   `json:"growth,omitempty"`
	Targets        *PriceTargets      `json:"targets,omitempty"`
}

package contracts

// CompositeScore holds the six bounded sub-scores and the weighted final
// score. Final is a pure function of the sub-scores and the active policy
// weights, with no hidden state.
type CompositeScore struct {
	Technical   float64 `json:"technical"`
	Fundamental float64 `json:"fundamental"`
	Momentum    float64 `json:"momentum"`
	Value       float64 `json:"value"`
	Quality     float64 `json:"quality"`
	Risk        float64 `json:"risk"` // higher = riskier, used as a penalty
	Final       float64 `json:"final"`
}

// Action is a discrete recommendation label
type Action string

const (
	ActionStrongBuy   Action = "strong_buy"
	ActionBuy         Action = "buy"
	ActionModerateBuy Action = "moderate_buy"
	ActionHold        Action = "hold"
	ActionAvoid       Action = "avoid"
	ActionSell        Action = "sell"
)

// RiskLevel buckets the risk sub-score into a qualitative tier
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very_high"
)

// Recommendation is the classification derived from the risk-adjusted score
type Recommendation struct {
	Action     Action    `json:"action"`
	Confidence string    `json:"confidence"`
	Score      float64   `json:"score"` // risk-adjusted final score
	RiskLevel  RiskLevel `json:"risk_level"`
	Horizon    string    `json:"horizon"`
}

// IsBuySignal reports whether the recommendation is any buy tier
func (r *Recommendation) IsBuySignal() bool {
	switch r.Action {
	case ActionStrongBuy, ActionBuy, ActionModerateBuy:
		return true
	}
	return false
}

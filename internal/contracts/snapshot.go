package contracts

// Canonical return horizon keys used by IndicatorSnapshot.Returns and the
// momentum weight tables.
const (
	Horizon1W = "1w"
	Horizon1M = "1m"
	Horizon3M = "3m"
	Horizon6M = "6m"
	Horizon1Y = "1y"
)

// Horizons lists the return horizons in ascending order
var Horizons = []string{Horizon1W, Horizon1M, Horizon3M, Horizon6M, Horizon1Y}

// MACDValue holds the MACD line, signal line and histogram
type MACDValue struct {
	Line      float64 `json:"line"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// BollingerBands holds the upper, middle and lower bands
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// IndicatorSnapshot is the full set of technical indicators derived from one
// price series. Computed once per analysis, never mutated afterwards.
type IndicatorSnapshot struct {
	RSI             float64            `json:"rsi"`
	MA20            float64            `json:"ma20"`
	MA50            float64            `json:"ma50"`
	MA200           float64            `json:"ma200"`
	MACD            MACDValue          `json:"macd"`
	Bollinger       BollingerBands     `json:"bollinger"`
	Volatility      float64            `json:"volatility"`       // annualized, percent
	CurrentDrawdown float64            `json:"current_drawdown"` // percent, <= 0
	MaxDrawdown     float64            `json:"max_drawdown"`     // percent, <= 0
	Returns         map[string]float64 `json:"returns"`          // percent, keyed by horizon
}

// Return reads a horizon return, defaulting to 0 when the horizon is absent
func (s *IndicatorSnapshot) Return(horizon string) float64 {
	if s.Returns == nil {
		return 0
	}
	return s.Returns[horizon]
}

// BollingerPosition locates price inside the bands: 0 at the lower band,
// 1 at the upper band. Degenerate bands yield 0.5 (mid-band, no signal).
func (s *IndicatorSnapshot) BollingerPosition(price float64) float64 {
	width := s.Bollinger.Upper - s.Bollinger.Lower
	if width <= 0 {
		return 0.5
	}
	return (price - s.Bollinger.Lower) / width
}

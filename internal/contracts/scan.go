package contracts

import (
	"math"
	"time"
)

// FilterSpec holds the post-scan filters. Every field is optional; the zero
// value of each means "no filter". A zero MaxPE also skips symbols with an
// unknown P/E rather than excluding them.
type FilterSpec struct {
	MinScore          float64 `json:"min_score"`
	MinAbsDrawdownPct float64 `json:"min_abs_drawdown_pct"`
	MaxPE             float64 `json:"max_pe"`
	MaxVolatilityPct  float64 `json:"max_volatility_pct"`
	MinMarketCap      float64 `json:"min_market_cap"`
}

// Matches reports whether a scan result passes every configured filter
func (f FilterSpec) Matches(r *ScanResult) bool {
	if r.Scores.Final < f.MinScore {
		return false
	}
	if math.Abs(r.Drawdown) < f.MinAbsDrawdownPct {
		return false
	}
	// P/E of zero or below means "unknown", which the cap never excludes
	if f.MaxPE > 0 && r.PERatio > 0 && r.PERatio > f.MaxPE {
		return false
	}
	if f.MaxVolatilityPct > 0 && r.Volatility > f.MaxVolatilityPct {
		return false
	}
	if r.MarketCap < f.MinMarketCap {
		return false
	}
	return true
}

// ScanResult is one successfully analyzed symbol inside a scan batch
type ScanResult struct {
	Symbol         string         `json:"symbol"`
	Price          float64        `json:"price"`
	Scores         CompositeScore `json:"scores"`
	Recommendation Action         `json:"recommendation"`
	Drawdown       float64        `json:"drawdown"`        // current drawdown, percent
	UpsidePct      float64        `json:"upside_pct"`      // distance to series high, percent
	Return1M       float64        `json:"return_1m"`
	Return3M       float64        `json:"return_3m"`
	Return1Y       float64        `json:"return_1y"`
	RSI            float64        `json:"rsi"`
	PERatio        float64        `json:"pe_ratio"`
	MarketCap      float64        `json:"market_cap"`
	Sector         string         `json:"sector"`
	Volatility     float64        `json:"volatility"`
}

// FailedSymbol records one terminal per-symbol failure inside a scan
type FailedSymbol struct {
	Symbol string `json:"symbol"`
	Kind   string `json:"kind"`
}

// ScanSummary is the aggregate result of one scan run
type ScanSummary struct {
	RunID          string         `json:"run_id"`
	Results        []ScanResult   `json:"results"`
	Failures       []FailedSymbol `json:"failures,omitempty"`
	TotalRequested int            `json:"total_requested"`
	TotalSucceeded int            `json:"total_succeeded"`
	TotalFailed    int            `json:"total_failed"`
	StartedAt      time.Time      `json:"started_at"`
	Duration       time.Duration  `json:"duration"`
}

// FailureCounts tallies failures by kind
func (s *ScanSummary) FailureCounts() map[string]int {
	counts := make(map[string]int, len(s.Failures))
	for _, f := range s.Failures {
		counts[f.Kind]++
	}
	return counts
}

// Package scoring turns an indicator snapshot and a fundamentals record
// into six bounded sub-scores, a weighted composite and a recommendation.
// The weights and thresholds are a hand-tuned policy, not a law: they are
// loaded from a versioned table and can be swapped without touching the
// band logic.
package scoring

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mcavalcanti/radar/internal/contracts"
)

// Policy is the versioned scoring policy
type Policy struct {
	Meta        Meta              `yaml:"meta" json:"meta"`
	Weights     Weights           `yaml:"weights" json:"weights"`
	Momentum    MomentumPolicy    `yaml:"momentum" json:"momentum"`
	RSI         RSIPolicy         `yaml:"rsi" json:"rsi"`
	Fundamental FundamentalPolicy `yaml:"fundamental" json:"fundamental"`
	Value       ValuePolicy       `yaml:"value" json:"value"`
	Quality     QualityPolicy     `yaml:"quality" json:"quality"`
	Risk        RiskPolicy        `yaml:"risk" json:"risk"`
	RiskLevels  RiskTiers         `yaml:"risk_levels" json:"risk_levels"`
	Horizon     HorizonPolicy     `yaml:"horizon" json:"horizon"`
	Ladder      Ladder            `yaml:"ladder" json:"ladder"`

	// RiskAdjustFactor scales the risk deduction applied to the final
	// score before classification
	RiskAdjustFactor float64 `yaml:"risk_adjust_factor" json:"risk_adjust_factor"`
}

// Meta identifies a policy revision
type Meta struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`
}

// Weights blends the five positive sub-scores and deducts the risk score.
// The five positive weights sum to roughly 1; risk is a deduction, not a
// sixth additive component.
type Weights struct {
	Technical   float64 `yaml:"technical" json:"technical"`
	Fundamental float64 `yaml:"fundamental" json:"fundamental"`
	Momentum    float64 `yaml:"momentum" json:"momentum"`
	Value       float64 `yaml:"value" json:"value"`
	Quality     float64 `yaml:"quality" json:"quality"`
	RiskPenalty float64 `yaml:"risk_penalty" json:"risk_penalty"`
}

// MomentumPolicy weights the return horizons inside the momentum score
type MomentumPolicy struct {
	HorizonWeights map[string]float64 `yaml:"horizon_weights" json:"horizon_weights"`
}

// RSIPolicy sets the oversold/overbought cutoffs
type RSIPolicy struct {
	Oversold   float64 `yaml:"oversold" json:"oversold"`
	Overbought float64 `yaml:"overbought" json:"overbought"`
}

// Band is one step in a banded table: values with Min <= v < Max
// (either bound optional) contribute Add points
type Band struct {
	Min *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty" json:"max,omitempty"`
	Add float64  `yaml:"add" json:"add"`
}

// Bands is an ordered band table; the first matching band wins
type Bands []Band

// Adjust returns the adjustment of the first band matching v, or 0
func (bs Bands) Adjust(v float64) float64 {
	for _, b := range bs {
		if b.Min != nil && v < *b.Min {
			continue
		}
		if b.Max != nil && v >= *b.Max {
			continue
		}
		return b.Add
	}
	return 0
}

func below(max, add float64) Band        { return Band{Max: &max, Add: add} }
func above(min, add float64) Band        { return Band{Min: &min, Add: add} }
func between(min, max, add float64) Band { return Band{Min: &min, Max: &max, Add: add} }

// FundamentalPolicy holds the band tables behind the fundamental score
type FundamentalPolicy struct {
	PE     Bands `yaml:"pe" json:"pe"`
	ROE    Bands `yaml:"roe" json:"roe"`
	Debt   Bands `yaml:"debt" json:"debt"`
	Growth Bands `yaml:"growth" json:"growth"`
	Margin Bands `yaml:"margin" json:"margin"`
}

// ValuePolicy holds the band tables behind the value score
type ValuePolicy struct {
	PB    Bands `yaml:"pb" json:"pb"`
	PS    Bands `yaml:"ps" json:"ps"`
	PEG   Bands `yaml:"peg" json:"peg"`
	Yield Bands `yaml:"yield" json:"yield"`
}

// QualityPolicy holds the band tables behind the quality score
type QualityPolicy struct {
	ROA             Bands `yaml:"roa" json:"roa"`
	CurrentRatio    Bands `yaml:"current_ratio" json:"current_ratio"`
	OperatingMargin Bands `yaml:"operating_margin" json:"operating_margin"`
	EarningsGrowth  Bands `yaml:"earnings_growth" json:"earnings_growth"`
}

// RiskPolicy holds the risk buckets; adjustments accumulate from zero
type RiskPolicy struct {
	Volatility Bands `yaml:"volatility" json:"volatility"`
	Beta       Bands `yaml:"beta" json:"beta"`
	Debt       Bands `yaml:"debt" json:"debt"`
	Drawdown   Bands `yaml:"drawdown" json:"drawdown"`

	NegativeROE    float64 `yaml:"negative_roe" json:"negative_roe"`
	NegativeMargin float64 `yaml:"negative_margin" json:"negative_margin"`
}

// RiskTiers buckets the risk sub-score into qualitative levels; a score
// strictly above a tier threshold lands in that tier
type RiskTiers struct {
	VeryHigh float64 `yaml:"very_high" json:"very_high"`
	High     float64 `yaml:"high" json:"high"`
	Medium   float64 `yaml:"medium" json:"medium"`
}

// HorizonPolicy maps volatility to a suggested holding period
type HorizonPolicy struct {
	LongTerm   float64 `yaml:"long_term" json:"long_term"`
	MediumTerm float64 `yaml:"medium_term" json:"medium_term"`
}

// Ladder holds the recommendation thresholds on the risk-adjusted score,
// strictly descending
type Ladder struct {
	StrongBuy   float64 `yaml:"strong_buy" json:"strong_buy"`
	Buy         float64 `yaml:"buy" json:"buy"`
	ModerateBuy float64 `yaml:"moderate_buy" json:"moderate_buy"`
	Hold        float64 `yaml:"hold" json:"hold"`
	Avoid       float64 `yaml:"avoid" json:"avoid"`
}

// Default returns the baseline policy
func Default() *Policy {
	return &Policy{
		Meta: Meta{
			Name:    "baseline",
			Version: "1.0.0",
		},
		Weights: Weights{
			Technical:   0.20,
			Fundamental: 0.25,
			Momentum:    0.15,
			Value:       0.20,
			Quality:     0.15,
			RiskPenalty: 0.05,
		},
		Momentum: MomentumPolicy{
			HorizonWeights: map[string]float64{
				contracts.Horizon1W: 0.10,
				contracts.Horizon1M: 0.20,
				contracts.Horizon3M: 0.30,
				contracts.Horizon6M: 0.25,
				contracts.Horizon1Y: 0.15,
			},
		},
		RSI: RSIPolicy{
			Oversold:   30,
			Overbought: 70,
		},
		Fundamental: FundamentalPolicy{
			PE: Bands{
				below(8, 30), between(8, 12, 25), between(12, 15, 20),
				between(15, 18, 15), between(18, 22, 10), between(22, 30, 5),
				above(40, -15),
			},
			ROE: Bands{
				above(0.30, 25), above(0.25, 20), above(0.20, 15),
				above(0.15, 10), above(0.10, 5), below(0, -25),
			},
			Debt: Bands{
				below(0.2, 20), between(0.2, 0.4, 15), between(0.4, 0.6, 10),
				between(0.6, 1.0, 5), above(3.0, -25),
			},
			Growth: Bands{
				above(0.30, 25), above(0.20, 20), above(0.15, 15),
				above(0.10, 10), above(0.05, 5), below(-0.10, -20),
			},
			Margin: Bands{
				above(0.25, 20), above(0.20, 15), above(0.15, 10),
				above(0.10, 5), below(0, -20),
			},
		},
		Value: ValuePolicy{
			PB: Bands{
				below(1, 25), between(1, 1.5, 20), between(1.5, 2, 15),
				between(2, 3, 10), above(5, -15),
			},
			PS: Bands{
				below(1, 20), between(1, 2, 15), between(2, 3, 10),
				above(10, -15),
			},
			PEG: Bands{
				below(0.5, 25), between(0.5, 1, 20), between(1, 1.5, 10),
				above(2, -10),
			},
			Yield: Bands{above(0.05, 15), above(0.03, 10), above(0.02, 5)},
		},
		Quality: QualityPolicy{
			ROA: Bands{
				above(0.15, 25), above(0.10, 20), above(0.08, 15),
				above(0.05, 10), below(0, -20),
			},
			CurrentRatio: Bands{
				between(1.5, 3, 15), between(1.2, 1.5, 10), below(1, -15),
			},
			OperatingMargin: Bands{
				above(0.20, 20), above(0.15, 15), above(0.10, 10), below(0, -15),
			},
			EarningsGrowth: Bands{
				above(0.25, 15), above(0.15, 10), above(0.10, 5), below(-0.15, -15),
			},
		},
		Risk: RiskPolicy{
			Volatility:     Bands{above(80, 40), above(60, 30), above(40, 20), above(25, 10)},
			Beta:           Bands{above(2, 20), above(1.5, 15), above(1.2, 10)},
			Debt:           Bands{above(5, 30), above(3, 20), above(2, 15), above(1, 10)},
			Drawdown:       Bands{above(80, 25), above(60, 20), above(40, 15)},
			NegativeROE:    25,
			NegativeMargin: 20,
		},
		RiskLevels: RiskTiers{VeryHigh: 70, High: 50, Medium: 30},
		Horizon:    HorizonPolicy{LongTerm: 60, MediumTerm: 35},
		Ladder: Ladder{
			StrongBuy:   80,
			Buy:         70,
			ModerateBuy: 60,
			Hold:        50,
			Avoid:       40,
		},
		RiskAdjustFactor: 0.15,
	}
}

// Load reads a policy from a YAML file. Unknown fields fail immediately so
// a typo cannot silently change scoring behavior; band tables and tiers the
// file omits keep the baseline defaults.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Policy
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("policy decode failed: %w", err)
	}

	p.fillDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// fillDefaults backfills band tables and tiers a policy file omits
func (p *Policy) fillDefaults() {
	d := Default()
	fill := func(dst *Bands, src Bands) {
		if len(*dst) == 0 {
			*dst = src
		}
	}
	fill(&p.Fundamental.PE, d.Fundamental.PE)
	fill(&p.Fundamental.ROE, d.Fundamental.ROE)
	fill(&p.Fundamental.Debt, d.Fundamental.Debt)
	fill(&p.Fundamental.Growth, d.Fundamental.Growth)
	fill(&p.Fundamental.Margin, d.Fundamental.Margin)
	fill(&p.Value.PB, d.Value.PB)
	fill(&p.Value.PS, d.Value.PS)
	fill(&p.Value.PEG, d.Value.PEG)
	fill(&p.Value.Yield, d.Value.Yield)
	fill(&p.Quality.ROA, d.Quality.ROA)
	fill(&p.Quality.CurrentRatio, d.Quality.CurrentRatio)
	fill(&p.Quality.OperatingMargin, d.Quality.OperatingMargin)
	fill(&p.Quality.EarningsGrowth, d.Quality.EarningsGrowth)
	fill(&p.Risk.Volatility, d.Risk.Volatility)
	fill(&p.Risk.Beta, d.Risk.Beta)
	fill(&p.Risk.Debt, d.Risk.Debt)
	fill(&p.Risk.Drawdown, d.Risk.Drawdown)
	if p.Risk.NegativeROE == 0 {
		p.Risk.NegativeROE = d.Risk.NegativeROE
	}
	if p.Risk.NegativeMargin == 0 {
		p.Risk.NegativeMargin = d.Risk.NegativeMargin
	}
	if p.RiskLevels == (RiskTiers{}) {
		p.RiskLevels = d.RiskLevels
	}
	if p.Horizon == (HorizonPolicy{}) {
		p.Horizon = d.Horizon
	}
}

// ValidationError reports an invalid policy field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the policy invariants
func (p *Policy) Validate() error {
	w := p.Weights
	for field, v := range map[string]float64{
		"weights.technical":    w.Technical,
		"weights.fundamental":  w.Fundamental,
		"weights.momentum":     w.Momentum,
		"weights.value":        w.Value,
		"weights.quality":      w.Quality,
		"weights.risk_penalty": w.RiskPenalty,
	} {
		if v < 0 || v > 1 {
			return ValidationError{field, "must be in [0, 1]"}
		}
	}

	positive := w.Technical + w.Fundamental + w.Momentum + w.Value + w.Quality
	if math.Abs(positive-1.0) > 0.05 {
		return ValidationError{"weights", fmt.Sprintf("positive weights sum to %.3f, want ~1.0", positive)}
	}

	if len(p.Momentum.HorizonWeights) == 0 {
		return ValidationError{"momentum.horizon_weights", "required"}
	}
	sum := 0.0
	for horizon, v := range p.Momentum.HorizonWeights {
		if v < 0 {
			return ValidationError{"momentum.horizon_weights." + horizon, "must be >= 0"}
		}
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-6 {
		return ValidationError{"momentum.horizon_weights", fmt.Sprintf("weights sum to %.3f, want 1.0", sum)}
	}

	if p.RSI.Oversold <= 0 || p.RSI.Overbought >= 100 || p.RSI.Oversold >= p.RSI.Overbought {
		return ValidationError{"rsi", "need 0 < oversold < overbought < 100"}
	}

	for field, bands := range map[string]Bands{
		"fundamental.pe":           p.Fundamental.PE,
		"fundamental.roe":          p.Fundamental.ROE,
		"fundamental.debt":         p.Fundamental.Debt,
		"fundamental.growth":       p.Fundamental.Growth,
		"fundamental.margin":       p.Fundamental.Margin,
		"value.pb":                 p.Value.PB,
		"value.ps":                 p.Value.PS,
		"value.peg":                p.Value.PEG,
		"value.yield":              p.Value.Yield,
		"quality.roa":              p.Quality.ROA,
		"quality.current_ratio":    p.Quality.CurrentRatio,
		"quality.operating_margin": p.Quality.OperatingMargin,
		"quality.earnings_growth":  p.Quality.EarningsGrowth,
		"risk.volatility":          p.Risk.Volatility,
		"risk.beta":                p.Risk.Beta,
		"risk.debt":                p.Risk.Debt,
		"risk.drawdown":            p.Risk.Drawdown,
	} {
		if len(bands) == 0 {
			return ValidationError{field, "band table required"}
		}
	}

	t := p.RiskLevels
	if !(t.VeryHigh > t.High && t.High > t.Medium && t.Medium > 0) {
		return ValidationError{"risk_levels", "tiers must be strictly descending and positive"}
	}
	if !(p.Horizon.LongTerm > p.Horizon.MediumTerm && p.Horizon.MediumTerm > 0) {
		return ValidationError{"horizon", "tiers must be strictly descending and positive"}
	}

	l := p.Ladder
	if !(l.StrongBuy > l.Buy && l.Buy > l.ModerateBuy && l.ModerateBuy > l.Hold && l.Hold > l.Avoid && l.Avoid > 0) {
		return ValidationError{"ladder", "thresholds must be strictly descending and positive"}
	}

	if p.RiskAdjustFactor < 0 || p.RiskAdjustFactor > 1 {
		return ValidationError{"risk_adjust_factor", "must be in [0, 1]"}
	}

	return nil
}

// Hash generates a SHA256 fingerprint of the policy for audit trails.
// Struct marshaling keeps field order deterministic.
func (p *Policy) Hash() (string, error) {
	jsonBytes, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// clamp bounds a score to [0, 100]
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

package contracts

import "time"

// Candle is a single OHLCV bar
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// PriceSeries is an ordered price history for one symbol, ascending by time.
// Missing days are simply absent, never null-filled. Every retained bar has
// a positive close.
type PriceSeries struct {
	Symbol  string   `json:"symbol"`
	Candles []Candle `json:"candles"`
}

// Len returns the number of bars in the series
func (s *PriceSeries) Len() int {
	return len(s.Candles)
}

// Closes returns the close prices in time order
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		closes[i] = c.Close
	}
	return closes
}

// LastClose returns the most recent close, or 0 for an empty series
func (s *PriceSeries) LastClose() float64 {
	if len(s.Candles) == 0 {
		return 0
	}
	return s.Candles[len(s.Candles)-1].Close
}

// HighestClose returns the maximum close over the whole series, or 0 when empty
func (s *PriceSeries) HighestClose() float64 {
	max := 0.0
	for _, c := range s.Candles {
		if c.Close > max {
			max = c.Close
		}
	}
	return max
}

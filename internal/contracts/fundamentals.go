package contracts

// RawAttributes is the provider-shaped company attribute record. Any field
// may be absent; nil means the provider did not report it. Ratios arrive in
// whatever unit the provider uses and are normalized downstream.
type RawAttributes struct {
	TrailingPE      *float64 `json:"trailing_pe,omitempty"`
	PriceToBook     *float64 `json:"price_to_book,omitempty"`
	PriceToSales    *float64 `json:"price_to_sales,omitempty"`
	PEGRatio        *float64 `json:"peg_ratio,omitempty"`
	ReturnOnEquity  *float64 `json:"return_on_equity,omitempty"`
	ReturnOnAssets  *float64 `json:"return_on_assets,omitempty"`
	DebtToEquity    *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio    *float64 `json:"current_ratio,omitempty"`
	ProfitMargin    *float64 `json:"profit_margin,omitempty"`
	OperatingMargin *float64 `json:"operating_margin,omitempty"`
	RevenueGrowth   *float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth  *float64 `json:"earnings_growth,omitempty"`
	DividendYield   *float64 `json:"dividend_yield,omitempty"`
	Beta            *float64 `json:"beta,omitempty"`
	MarketCap       *float64 `json:"market_cap,omitempty"`
	Sector          string   `json:"sector,omitempty"`
	Country         string   `json:"country,omitempty"`
}

// FundamentalsRecord is the canonical, unit-consistent fundamentals view.
// Rates are decimal fractions (0.15 = 15%), currency amounts are raw numbers.
// Missing numeric fields normalize to 0, missing categorical fields to
// "unknown". All values are finite.
type FundamentalsRecord struct {
	PERatio         float64 `json:"pe_ratio"`
	PBRatio         float64 `json:"pb_ratio"`
	PSRatio         float64 `json:"ps_ratio"`
	PEGRatio        float64 `json:"peg_ratio"`
	ROE             float64 `json:"roe"`
	ROA             float64 `json:"roa"`
	DebtToEquity    float64 `json:"debt_to_equity"`
	CurrentRatio    float64 `json:"current_ratio"`
	ProfitMargin    float64 `json:"profit_margin"`
	OperatingMargin float64 `json:"operating_margin"`
	RevenueGrowth   float64 `json:"revenue_growth"`
	EarningsGrowth  float64 `json:"earnings_growth"`
	DividendYield   float64 `json:"dividend_yield"`
	Beta            float64 `json:"beta"`
	MarketCap       float64 `json:"market_cap"`
	Sector          string  `json:"sector"`
	Country         string  `json:"country"`
}

// HasUsablePE reports whether the P/E ratio carries signal.
// Zero and negative values mean "unknown or loss-making", not "free".
func (f *FundamentalsRecord) HasUsablePE() bool {
	return f.PERatio > 0
}

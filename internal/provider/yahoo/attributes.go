package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/mcavalcanti/radar/internal/contracts"
	"github.com/mcavalcanti/radar/pkg/redis"
)

// summaryModules selects the quoteSummary sections the scoring model reads
const summaryModules = "summaryDetail,financialData,defaultKeyStatistics,assetProfile"

// yahooValue is the {raw, fmt} wrapper Yahoo uses for numeric fields.
// Raw stays nil when the field is absent or reported as an empty object.
type yahooValue struct {
	Raw *float64 `json:"raw"`
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail struct {
				TrailingPE           yahooValue `json:"trailingPE"`
				PriceToSalesTrailing yahooValue `json:"priceToSalesTrailing12Months"`
				DividendYield        yahooValue `json:"dividendYield"`
				Beta                 yahooValue `json:"beta"`
				MarketCap            yahooValue `json:"marketCap"`
			} `json:"summaryDetail"`
			FinancialData struct {
				ReturnOnEquity  yahooValue `json:"returnOnEquity"`
				ReturnOnAssets  yahooValue `json:"returnOnAssets"`
				DebtToEquity    yahooValue `json:"debtToEquity"`
				CurrentRatio    yahooValue `json:"currentRatio"`
				ProfitMargins   yahooValue `json:"profitMargins"`
				OperatingMargin yahooValue `json:"operatingMargins"`
				RevenueGrowth   yahooValue `json:"revenueGrowth"`
				EarningsGrowth  yahooValue `json:"earningsGrowth"`
			} `json:"financialData"`
			DefaultKeyStatistics struct {
				PriceToBook yahooValue `json:"priceToBook"`
				PEGRatio    yahooValue `json:"pegRatio"`
			} `json:"defaultKeyStatistics"`
			AssetProfile struct {
				Sector  string `json:"sector"`
				Country string `json:"country"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// FetchAttributes returns the raw company attributes for a symbol
func (c *Client) FetchAttributes(ctx context.Context, symbol string) (*contracts.RawAttributes, error) {
	if c.cache != nil {
		var cached contracts.RawAttributes
		if hit, _ := c.cache.Get(ctx, redis.AttributesKey(symbol), &cached); hit {
			if c.metrics != nil {
				c.metrics.ObserveCache("attributes", true)
			}
			return &cached, nil
		}
	}

	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.cfg.QuoteBaseURL, url.PathEscape(symbol), summaryModules)

	body, err := c.getJSON(ctx, "attributes", u)
	if err != nil {
		return nil, err
	}

	attrs, err := parseAttributes(symbol, body)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, redis.AttributesKey(symbol), attrs, redis.TTLLong)
	}
	return attrs, nil
}

// parseAttributes decodes a quoteSummary payload into raw attributes
func parseAttributes(symbol string, body []byte) (*contracts.RawAttributes, error) {
	var sr summaryResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("decode summary for %s: %w", symbol, err)
	}
	if sr.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("summary error for %s: %s (%s)",
			symbol, sr.QuoteSummary.Error.Description, sr.QuoteSummary.Error.Code)
	}
	if len(sr.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no summary result for %s", symbol)
	}

	r := sr.QuoteSummary.Result[0]
	return &contracts.RawAttributes{
		TrailingPE:      r.SummaryDetail.TrailingPE.Raw,
		PriceToBook:     r.DefaultKeyStatistics.PriceToBook.Raw,
		PriceToSales:    r.SummaryDetail.PriceToSalesTrailing.Raw,
		PEGRatio:        r.DefaultKeyStatistics.PEGRatio.Raw,
		ReturnOnEquity:  r.FinancialData.ReturnOnEquity.Raw,
		ReturnOnAssets:  r.FinancialData.ReturnOnAssets.Raw,
		DebtToEquity:    r.FinancialData.DebtToEquity.Raw,
		CurrentRatio:    r.FinancialData.CurrentRatio.Raw,
		ProfitMargin:    r.FinancialData.ProfitMargins.Raw,
		OperatingMargin: r.FinancialData.OperatingMargin.Raw,
		RevenueGrowth:   r.FinancialData.RevenueGrowth.Raw,
		EarningsGrowth:  r.FinancialData.EarningsGrowth.Raw,
		DividendYield:   r.SummaryDetail.DividendYield.Raw,
		Beta:            r.SummaryDetail.Beta.Raw,
		MarketCap:       r.SummaryDetail.MarketCap.Raw,
		Sector:          r.AssetProfile.Sector,
		Country:         r.AssetProfile.Country,
	}, nil
}

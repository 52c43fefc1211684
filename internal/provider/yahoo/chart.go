package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/mcavalcanti/radar/internal/contracts"
	"github.com/mcavalcanti/radar/pkg/redis"
)

// chartResponse mirrors the v8 finance/chart payload. OHLCV arrays carry
// nulls for holidays, so they decode as []interface{} and go through toFloat.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchSeries returns daily candles for the given symbol and period.
// Results are cached when a cache is attached.
func (c *Client) FetchSeries(ctx context.Context, symbol, period string) (*contracts.PriceSeries, error) {
	rng := resolvePeriod(period)

	if c.cache != nil {
		var cached contracts.PriceSeries
		if hit, _ := c.cache.Get(ctx, redis.ChartKey(symbol, rng), &cached); hit {
			if c.metrics != nil {
				c.metrics.ObserveCache("chart", true)
			}
			return &cached, nil
		}
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		c.cfg.ChartBaseURL, url.PathEscape(symbol), rng)

	body, err := c.getJSON(ctx, "chart", u)
	if err != nil {
		return nil, err
	}

	series, err := parseChart(symbol, body)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, redis.ChartKey(symbol, rng), series, c.cfg.CacheTTL)
	}
	return series, nil
}

// parseChart decodes a v8 chart payload into a price series
func parseChart(symbol string, body []byte) (*contracts.PriceSeries, error) {
	var cr chartResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("decode chart for %s: %w", symbol, err)
	}
	if cr.Chart.Error != nil {
		return nil, fmt.Errorf("chart error for %s: %s (%s)",
			symbol, cr.Chart.Error.Description, cr.Chart.Error.Code)
	}
	if len(cr.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart result for %s", symbol)
	}

	result := cr.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}
	quote := result.Indicators.Quote[0]

	candles := make([]contracts.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		candle := contracts.Candle{
			Timestamp: time.Unix(ts, 0),
			Open:      toFloat(quote.Open, i),
			High:      toFloat(quote.High, i),
			Low:       toFloat(quote.Low, i),
			Close:     toFloat(quote.Close, i),
			Volume:    int64(toFloat(quote.Volume, i)),
		}

		// skip null bars (holidays etc.)
		if candle.Close == 0 && candle.Open == 0 && candle.High == 0 && candle.Low == 0 {
			continue
		}
		candles = append(candles, candle)
	}

	if len(candles) == 0 {
		return nil, fmt.Errorf("empty series for %s", symbol)
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})

	return &contracts.PriceSeries{Symbol: symbol, Candles: candles}, nil
}

// toFloat extracts a float from a possibly-null JSON array slot
func toFloat(arr []interface{}, i int) float64 {
	if i >= len(arr) || arr[i] == nil {
		return 0
	}
	if f, ok := arr[i].(float64); ok {
		return f
	}
	return 0
}

// Package yahoo implements the market data and sentiment providers against
// the public Yahoo Finance endpoints: v8 chart for price history, v10
// quoteSummary for company attributes and the quote page for headlines.
package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/mcavalcanti/radar/pkg/config"
	"github.com/mcavalcanti/radar/pkg/httputil"
	"github.com/mcavalcanti/radar/pkg/logger"
	"github.com/mcavalcanti/radar/pkg/metrics"
	"github.com/mcavalcanti/radar/pkg/redis"
)

// userAgent is required: Yahoo rejects requests without a browser-like UA
const userAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/119.0"

// validPeriods maps accepted lookback periods to Yahoo range parameters
var validPeriods = map[string]string{
	"1mo": "1mo",
	"3mo": "3mo",
	"6mo": "6mo",
	"1y":  "1y",
	"2y":  "2y",
	"5y":  "5y",
}

// Client talks to Yahoo Finance through the shared retrying HTTP client,
// a circuit breaker and an optional Redis cache
type Client struct {
	http    *httputil.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	cache   *redis.Cache
	shared  *redis.RateLimiter
	metrics *metrics.Metrics
	cfg     config.ProviderConfig
	logger  *logger.Logger
}

// Option configures a Client
type Option func(*Client)

// WithCache attaches a response cache
func WithCache(cache *redis.Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithMetrics attaches Prometheus metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithSharedRateLimit attaches a Redis sliding-window limiter so the
// provider quota is shared across processes
func WithSharedRateLimit(rl *redis.RateLimiter) Option {
	return func(c *Client) { c.shared = rl }
}

// New creates a Yahoo Finance client
func New(cfg config.ProviderConfig, log *logger.Logger, opts ...Option) *Client {
	httpClient := httputil.New(log, cfg.FetchTimeout).
		WithRetry(3, 500*time.Millisecond).
		WithRateLimit(cfg.RateLimit, cfg.RateBurst)

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "yahoo",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	c := &Client{
		http:    httpClient,
		breaker: breaker,
		cfg:     cfg,
		logger:  log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// rateLimitFor maps an endpoint label onto its shared quota bucket
func rateLimitFor(endpoint string) redis.RateLimitConfig {
	if endpoint == "chart" {
		return redis.ChartRateLimit
	}
	return redis.QuoteRateLimit
}

// getJSON fetches a URL through the breaker, recording provider metrics
func (c *Client) getJSON(ctx context.Context, endpoint, url string) ([]byte, error) {
	if c.shared != nil {
		if err := c.shared.Wait(ctx, rateLimitFor(endpoint)); err != nil {
			return nil, fmt.Errorf("yahoo %s: rate limit: %w", endpoint, err)
		}
	}

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		}
		return data, nil
	})

	if c.metrics != nil {
		c.metrics.ObserveProvider(endpoint, time.Since(start), err)
	}
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", endpoint, err)
	}
	return body, nil
}

// resolvePeriod maps a caller period onto a Yahoo range, defaulting to 1y
func resolvePeriod(period string) string {
	if rng, ok := validPeriods[period]; ok {
		return rng
	}
	return "1y"
}

package contracts

import (
	"context"
	"time"
)

// MarketDataProvider fetches price history and company attributes from an
// external source. Both calls are potentially slow, rate-limited network
// calls; callers must treat every attribute field as optional.
type MarketDataProvider interface {
	FetchSeries(ctx context.Context, symbol, period string) (*PriceSeries, error)
	FetchAttributes(ctx context.Context, symbol string) (*RawAttributes, error)
}

// Headline is one news item about a symbol
type Headline struct {
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// SentimentProvider fetches recent headlines for a symbol. An empty list is
// a valid answer meaning "no recent news", never an error condition.
type SentimentProvider interface {
	FetchHeadlines(ctx context.Context, symbol string) ([]Headline, error)
}

// ScanStore persists completed scan summaries for later review
type ScanStore interface {
	SaveScan(ctx context.Context, summary *ScanSummary) error
	ListScans(ctx context.Context, limit int) ([]ScanSummary, error)
	GetScan(ctx context.Context, runID string) (*ScanSummary, error)
}

package yahoo

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mcavalcanti/radar/internal/contracts"
	"github.com/mcavalcanti/radar/pkg/redis"
)

// maxScrapedHeadlines bounds how much of the news page we keep
const maxScrapedHeadlines = 10

// FetchHeadlines scrapes recent headlines from the symbol's quote page.
// The page carries no machine-readable timestamps, so PublishedAt stays zero.
func (c *Client) FetchHeadlines(ctx context.Context, symbol string) ([]contracts.Headline, error) {
	if c.cache != nil {
		var cached []contracts.Headline
		if hit, _ := c.cache.Get(ctx, redis.NewsKey(symbol), &cached); hit {
			if c.metrics != nil {
				c.metrics.ObserveCache("news", true)
			}
			return cached, nil
		}
	}

	u := fmt.Sprintf("%s/quote/%s/news", c.cfg.NewsBaseURL, url.PathEscape(symbol))

	body, err := c.getJSON(ctx, "news", u)
	if err != nil {
		return nil, err
	}

	headlines, err := parseHeadlines(body, c.cfg.NewsBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse news for %s: %w", symbol, err)
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, redis.NewsKey(symbol), headlines, redis.TTLMedium)
	}
	return headlines, nil
}

// parseHeadlines pulls headline anchors out of the news page HTML
func parseHeadlines(body []byte, baseURL string) ([]contracts.Headline, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var headlines []contracts.Headline
	seen := make(map[string]bool)

	doc.Find("h3 a, h2 a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title := strings.TrimSpace(s.Text())
		if len(title) < 15 || seen[title] {
			return true
		}
		seen[title] = true

		h := contracts.Headline{Title: title}
		if href, ok := s.Attr("href"); ok {
			h.URL = absoluteURL(baseURL, href)
		}
		// summaries sit in a sibling paragraph when present
		if p := s.Parent().Parent().Find("p").First(); p.Length() > 0 {
			h.Summary = strings.TrimSpace(p.Text())
		}

		headlines = append(headlines, h)
		return len(headlines) < maxScrapedHeadlines
	})

	return headlines, nil
}

// absoluteURL resolves site-relative article links
func absoluteURL(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(href, "/")
}

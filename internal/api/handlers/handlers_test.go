package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcavalcanti/radar/internal/analyzer"
	"github.com/mcavalcanti/radar/internal/comparator"
	"github.com/mcavalcanti/radar/internal/contracts"
	"github.com/mcavalcanti/radar/internal/scanner"
	"github.com/mcavalcanti/radar/internal/scoring"
	"github.com/mcavalcanti/radar/internal/storage"
	"github.com/mcavalcanti/radar/pkg/logger"
)

// fakeProvider serves a deterministic rising series for any symbol
type fakeProvider struct {
	failing map[string]bool
}

func (p *fakeProvider) FetchSeries(_ context.Context, symbol, _ string) (*contracts.PriceSeries, error) {
	if p.failing[symbol] {
		return nil, fmt.Errorf("upstream unavailable")
	}
	candles := make([]contracts.Candle, 260)
	price := 100.0
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range candles {
		price *= 1.001
		candles[i] = contracts.Candle{
			Timestamp: base.AddDate(0, 0, i),
			Open:      price * 0.999,
			High:      price * 1.01,
			Low:       price * 0.99,
			Close:     price,
			Volume:    1000,
		}
	}
	return &contracts.PriceSeries{Symbol: symbol, Candles: candles}, nil
}

func (p *fakeProvider) FetchAttributes(_ context.Context, _ string) (*contracts.RawAttributes, error) {
	pe := 12.0
	return &contracts.RawAttributes{TrailingPE: &pe, Sector: "Technology"}, nil
}

// fakeStore is an in-memory scan history
type fakeStore struct {
	saved []contracts.ScanSummary
}

func (s *fakeStore) SaveScan(_ context.Context, summary *contracts.ScanSummary) error {
	s.saved = append(s.saved, *summary)
	return nil
}

func (s *fakeStore) ListScans(_ context.Context, limit int) ([]contracts.ScanSummary, error) {
	if len(s.saved) < limit {
		limit = len(s.saved)
	}
	return s.saved[:limit], nil
}

func (s *fakeStore) GetScan(_ context.Context, runID string) (*contracts.ScanSummary, error) {
	for i := range s.saved {
		if s.saved[i].RunID == runID {
			return &s.saved[i], nil
		}
	}
	return nil, storage.ErrScanNotFound
}

func newAnalyzer(p contracts.MarketDataProvider) *analyzer.Analyzer {
	return analyzer.New(p, scoring.Default(), logger.NewNop())
}

func TestAnalyze_Success(t *testing.T) {
	h := NewAnalysisHandler(newAnalyzer(&fakeProvider{}), nil, logger.NewNop())

	req := httptest.NewRequest("GET", "/api/analyze/aapl?period=1y", nil)
	req = mux.SetURLVars(req, map[string]string{"symbol": "aapl"})
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var report contracts.AnalysisReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "AAPL", report.Symbol)
	assert.Greater(t, report.Scores.Final, 0.0)
	assert.NotEmpty(t, report.Recommendation.Action)
}

func TestAnalyze_ProviderFailureIs404(t *testing.T) {
	p := &fakeProvider{failing: map[string]bool{"GONE": true}}
	h := NewAnalysisHandler(newAnalyzer(p), nil, logger.NewNop())

	req := httptest.NewRequest("GET", "/api/analyze/GONE", nil)
	req = mux.SetURLVars(req, map[string]string{"symbol": "GONE"})
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyze_EmptySymbolIs400(t *testing.T) {
	h := NewAnalysisHandler(newAnalyzer(&fakeProvider{}), nil, logger.NewNop())

	req := httptest.NewRequest("GET", "/api/analyze/%20", nil)
	req = mux.SetURLVars(req, map[string]string{"symbol": " "})
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompare_Success(t *testing.T) {
	a := newAnalyzer(&fakeProvider{})
	h := NewAnalysisHandler(a, comparator.New(a, logger.NewNop()), logger.NewNop())

	body, _ := json.Marshal(CompareRequest{Symbols: []string{"AAPL", "MSFT"}})
	req := httptest.NewRequest("POST", "/api/compare", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Compare(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var comparison comparator.Comparison
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comparison))
	assert.Len(t, comparison.Entries, 2)
	assert.NotEmpty(t, comparison.Leaders)
}

func TestCompare_EmptySymbolsIs400(t *testing.T) {
	a := newAnalyzer(&fakeProvider{})
	h := NewAnalysisHandler(a, comparator.New(a, logger.NewNop()), logger.NewNop())

	req := httptest.NewRequest("POST", "/api/compare", bytes.NewReader([]byte(`{"symbols": []}`)))
	rec := httptest.NewRecorder()

	h.Compare(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScan_SuccessAndPersisted(t *testing.T) {
	store := &fakeStore{}
	s := scanner.New(newAnalyzer(&fakeProvider{}), logger.NewNop(), scanner.WithConcurrency(4))
	h := NewScanHandler(s, store, logger.NewNop())

	body, _ := json.Marshal(ScanRequest{Symbols: []string{"AAPL", "MSFT", "GOOGL"}})
	req := httptest.NewRequest("POST", "/api/scan", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Scan(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var summary contracts.ScanSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 3, summary.TotalRequested)
	assert.Equal(t, 3, summary.TotalSucceeded)
	require.Len(t, store.saved, 1)
	assert.Equal(t, summary.RunID, store.saved[0].RunID)
}

func TestScan_EmptyRequestIs400(t *testing.T) {
	s := scanner.New(newAnalyzer(&fakeProvider{}), logger.NewNop())
	h := NewScanHandler(s, nil, logger.NewNop())

	req := httptest.NewRequest("POST", "/api/scan", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	h.Scan(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScanRequest_ResolveSymbolsMergesAndDeduplicates(t *testing.T) {
	req := ScanRequest{
		Symbols:    []string{"AAPL", "ZZZZ"},
		Categories: []string{"usa_mega"},
	}

	symbols := req.ResolveSymbols()

	counts := make(map[string]int)
	for _, s := range symbols {
		counts[s]++
	}
	assert.Equal(t, 1, counts["AAPL"], "explicit symbol also in category must appear once")
	assert.Equal(t, 1, counts["ZZZZ"])
	assert.Greater(t, len(symbols), 2)
}

func TestHistory_ReturnsStoredScans(t *testing.T) {
	store := &fakeStore{saved: []contracts.ScanSummary{{RunID: "run-1"}, {RunID: "run-2"}}}
	h := NewScanHandler(nil, store, logger.NewNop())

	req := httptest.NewRequest("GET", "/api/scan/history?limit=1", nil)
	rec := httptest.NewRecorder()

	h.History(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []contracts.ScanSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	assert.Len(t, summaries, 1)
}

func TestHistory_NoStoreIs503(t *testing.T) {
	h := NewScanHandler(nil, nil, logger.NewNop())

	req := httptest.NewRequest("GET", "/api/scan/history", nil)
	rec := httptest.NewRecorder()

	h.History(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetRun_NotFound(t *testing.T) {
	h := NewScanHandler(nil, &fakeStore{}, logger.NewNop())

	req := httptest.NewRequest("GET", "/api/scan/runs/missing", nil)
	req = mux.SetURLVars(req, map[string]string{"run_id": "missing"})
	rec := httptest.NewRecorder()

	h.GetRun(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUniverse_Categories(t *testing.T) {
	h := NewUniverseHandler()

	rec := httptest.NewRecorder()
	h.Categories(rec, httptest.NewRequest("GET", "/api/universe", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "usa_mega")
}

func TestUniverse_UnknownCategoryIs404(t *testing.T) {
	h := NewUniverseHandler()

	req := httptest.NewRequest("GET", "/api/universe/nope", nil)
	req = mux.SetURLVars(req, map[string]string{"category": "nope"})
	rec := httptest.NewRecorder()

	h.Symbols(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUniverse_SearchRequiresQuery(t *testing.T) {
	h := NewUniverseHandler()

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest("GET", "/api/universe/search", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

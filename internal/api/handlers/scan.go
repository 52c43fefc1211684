package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcavalcanti/radar/internal/contracts"
	"github.com/mcavalcanti/radar/internal/scanner"
	"github.com/mcavalcanti/radar/internal/storage"
	"github.com/mcavalcanti/radar/internal/universe"
	"github.com/mcavalcanti/radar/pkg/logger"
)

// maxScanSymbols bounds a single synchronous scan request
const maxScanSymbols = 500

// ScanHandler handles multi-symbol scan endpoints
type ScanHandler struct {
	scanner *scanner.Scanner
	store   contracts.ScanStore
	logger  *logger.Logger
}

// NewScanHandler creates a new scan handler. store may be nil when no
// database is configured; scans then run without history.
func NewScanHandler(s *scanner.Scanner, store contracts.ScanStore, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		scanner: s,
		store:   store,
		logger:  log,
	}
}

// ScanRequest represents a scan request. Symbols and Categories are
// combined; an empty request scans nothing and is rejected.
type ScanRequest struct {
	Symbols    []string             `json:"symbols"`
	Categories []string             `json:"categories"`
	Filters    contracts.FilterSpec `json:"filters"`
}

// ResolveSymbols merges explicit symbols with category members, deduplicated
func (req *ScanRequest) ResolveSymbols() []string {
	seen := make(map[string]bool)
	symbols := make([]string, 0, len(req.Symbols))

	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			symbols = append(symbols, s)
		}
	}

	for _, s := range req.Symbols {
		add(s)
	}
	for _, s := range universe.Symbols(req.Categories...) {
		add(s)
	}
	return symbols
}

// Scan runs a synchronous scan over the requested symbols
// POST /api/scan
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	symbols := req.ResolveSymbols()
	if len(symbols) == 0 {
		respondError(w, http.StatusBadRequest, "No symbols to scan")
		return
	}
	if len(symbols) > maxScanSymbols {
		respondError(w, http.StatusBadRequest, "Too many symbols in one scan")
		return
	}

	summary, err := h.scanner.Scan(ctx, symbols, req.Filters)
	if err != nil {
		h.logger.WithError(err).Error("Scan failed")
		respondError(w, http.StatusInternalServerError, "Scan failed")
		return
	}

	if h.store != nil {
		if err := h.store.SaveScan(ctx, summary); err != nil {
			// history is best effort, the scan result is still valid
			h.logger.WithError(err).Warn("Failed to persist scan summary")
		}
	}

	respondJSON(w, http.StatusOK, summary)
}

// History lists recent scan runs
// GET /api/scan/history?limit=20
func (h *ScanHandler) History(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondError(w, http.StatusServiceUnavailable, "Scan history is not configured")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = parsed
	}

	summaries, err := h.store.ListScans(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list scans")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve scan history")
		return
	}

	respondJSON(w, http.StatusOK, summaries)
}

// GetRun retrieves one stored scan run
// GET /api/scan/runs/{run_id}
func (h *ScanHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondError(w, http.StatusServiceUnavailable, "Scan history is not configured")
		return
	}

	runID := mux.Vars(r)["run_id"]

	summary, err := h.store.GetScan(r.Context(), runID)
	if err != nil {
		if err == storage.ErrScanNotFound {
			respondError(w, http.StatusNotFound, "Scan not found")
			return
		}
		h.logger.WithError(err).Error("Failed to get scan")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve scan")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

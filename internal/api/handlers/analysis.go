package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcavalcanti/radar/internal/analyzer"
	"github.com/mcavalcanti/radar/internal/comparator"
	"github.com/mcavalcanti/radar/pkg/logger"
)

// AnalysisHandler handles single-symbol analysis and comparison endpoints
type AnalysisHandler struct {
	analyzer   *analyzer.Analyzer
	comparator *comparator.Comparator
	logger     *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(a *analyzer.Analyzer, c *comparator.Comparator, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer:   a,
		comparator: c,
		logger:     log,
	}
}

// Analyze runs a full analysis for one symbol
// GET /api/analyze/{symbol}?period=1y
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	symbol := strings.ToUpper(strings.TrimSpace(mux.Vars(r)["symbol"]))
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "1y"
	}

	report, err := h.analyzer.Analyze(ctx, symbol, period)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Warn("Analysis failed")
		respondError(w, statusForAnalysisError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// CompareRequest represents a multi-symbol comparison request
type CompareRequest struct {
	Symbols []string `json:"symbols"`
	Period  string   `json:"period"`
}

// Compare analyzes several symbols side by side
// POST /api/compare
func (h *AnalysisHandler) Compare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Period == "" {
		req.Period = "1y"
	}

	comparison, err := h.comparator.Compare(ctx, req.Symbols, req.Period)
	if err != nil {
		if err == comparator.ErrNoSymbols {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.WithError(err).Error("Comparison failed")
		respondError(w, http.StatusInternalServerError, "Comparison failed")
		return
	}

	respondJSON(w, http.StatusOK, comparison)
}

// statusForAnalysisError maps analysis failure kinds onto HTTP statuses
func statusForAnalysisError(err error) int {
	if err == analyzer.ErrEmptySymbol {
		return http.StatusBadRequest
	}
	switch analyzer.KindOf(err) {
	case analyzer.KindInsufficientHistory:
		return http.StatusUnprocessableEntity
	case analyzer.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusNotFound
	}
}

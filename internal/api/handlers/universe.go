package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcavalcanti/radar/internal/universe"
)

// UniverseHandler serves the built-in asset catalog
type UniverseHandler struct{}

// NewUniverseHandler creates a new universe handler
func NewUniverseHandler() *UniverseHandler {
	return &UniverseHandler{}
}

// Categories lists all catalog categories
// GET /api/universe
func (h *UniverseHandler) Categories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": universe.Categories(),
	})
}

// Symbols lists the symbols in one category
// GET /api/universe/{category}
func (h *UniverseHandler) Symbols(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	symbols := universe.Symbols(category)
	if len(symbols) == 0 {
		respondError(w, http.StatusNotFound, "Unknown category")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"category": category,
		"symbols":  symbols,
	})
}

// Search finds assets by symbol or name fragment
// GET /api/universe/search?q=petro
func (h *UniverseHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "Missing query parameter q")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": universe.Search(query),
	})
}

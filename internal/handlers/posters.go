package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/liamwears/moviecards/internal/services"
)

// PosterHandler answers poster lookups for clients that render cards themselves
type PosterHandler struct {
	posters *services.PosterService
	logger  *log.Logger
}

// NewPosterHandler creates a new poster handler. posters may be nil, in which case
// every lookup comes back empty.
func NewPosterHandler(posters *services.PosterService, logger *log.Logger) *PosterHandler {
	return &PosterHandler{
		posters: posters,
		logger:  logger,
	}
}

// PosterResponse is the body of GET /api/poster
type PosterResponse struct {
	Title     string `json:"title"`
	Year      int    `json:"year,omitempty"`
	PosterURL string `json:"poster_url"`
}

// Get handles GET /api/poster?title=...&year=...
func (h *PosterHandler) Get(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		http.Error(w, `{"error":"Query parameter title is required"}`, http.StatusBadRequest)
		return
	}

	var year int
	if y := r.URL.Query().Get("year"); y != "" {
		var err error
		year, err = strconv.Atoi(y)
		if err != nil {
			http.Error(w, `{"error":"Invalid year"}`, http.StatusBadRequest)
			return
		}
	}

	resp := PosterResponse{
		Title:     title,
		Year:      year,
		PosterURL: h.posters.Lookup(r.Context(), title, year),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Printf("Failed to encode poster response: %v", err)
	}
}

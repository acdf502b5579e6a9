package models

import (
	"fmt"
	"strings"
	"time"
)

// Movie represents a single recommended movie as returned by the backend
type Movie struct {
	Title       string   `json:"title" validate:"required"`
	TitleEn     string   `json:"title_en,omitempty"`
	Year        int      `json:"year"`
	Rating      float64  `json:"rating"`
	Genres      []string `json:"genres"`
	Description string   `json:"description"`
	PosterURL   string   `json:"poster_url,omitempty"`
	Reason      string   `json:"reason"`
}

// RecommendRequest represents the body sent to POST /api/recommend
type RecommendRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	Count  int    `json:"count" validate:"min=1"`
}

// RecommendationResult represents the response of POST /api/recommend
type RecommendationResult struct {
	Success bool    `json:"success"`
	Movies  []Movie `json:"movies" validate:"dive"`
	Query   string  `json:"query"`
}

// HistoryItem represents a past query and the movies it produced
type HistoryItem struct {
	ID        int       `json:"id"`
	Query     string    `json:"query"`
	Movies    []Movie   `json:"movies"`
	CreatedAt Timestamp `json:"created_at"`
}

// timestampLayouts are tried in order; the backend may emit timestamps without a zone
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Timestamp is a time.Time that also accepts zone-less ISO 8601 values
type Timestamp struct {
	time.Time
}

// UnmarshalJSON parses RFC 3339 and naive ISO 8601 timestamps (naive values are read as UTC)
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}

	return fmt.Errorf("invalid timestamp %q", s)
}

// MarshalJSON writes the timestamp as RFC 3339
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339Nano) + `"`), nil
}

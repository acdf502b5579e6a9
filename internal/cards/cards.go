// Package cards builds the two-faced movie card shown for each recommendation.
//
// The front face carries the movie metadata and the back face the rationale.
// Everything here is a pure function of the movie; which face is showing is
// view-local state kept on the Card value, never on the session.
package cards

import (
	"strconv"
	"unicode/utf8"

	"github.com/liamwears/moviecards/internal/models"
)

const (
	// MaxGenres is the number of genre tags shown on the front face
	MaxGenres = 3
	// DescriptionLimit is the number of runes of description shown on the front face
	DescriptionLimit = 60
)

// FallbackGenreColor is used for genres missing from the color table
const FallbackGenreColor = "#64748B"

var genreColors = map[string]string{
	"喜剧": "#EAB308",
	"动作": "#EF4444",
	"爱情": "#EC4899",
	"科幻": "#3B82F6",
	"恐怖": "#581C87",
	"剧情": "#22C55E",
	"悬疑": "#6366F1",
	"动画": "#FB923C",
	"犯罪": "#4B5563",
	"冒险": "#14B8A6",
}

// Accent is the two-stop gradient drawn where a poster would be
type Accent struct {
	From string
	To   string
}

// Palette is the fixed set of poster accents
var Palette = []Accent{
	{From: "#A855F7", To: "#EC4899"},
	{From: "#3B82F6", To: "#14B8A6"},
	{From: "#F97316", To: "#EF4444"},
	{From: "#22C55E", To: "#3B82F6"},
}

// GenreColor returns the tag color for a genre label
func GenreColor(genre string) string {
	if c, ok := genreColors[genre]; ok {
		return c
	}
	return FallbackGenreColor
}

// PosterAccent picks a palette entry from the title length.
// It is decorative only: equal-length titles share an accent.
func PosterAccent(title string) Accent {
	return Palette[utf8.RuneCountInString(title)%len(Palette)]
}

// GenreTag is a colored genre label
type GenreTag struct {
	Label string
	Color string
}

// Card is the view model of one movie card
type Card struct {
	Title       string
	TitleEn     string
	Year        int
	Rating      string
	Genres      []GenreTag
	Description string
	PosterURL   string
	Accent      Accent
	Reason      string

	// FaceUp is true while the front face is showing
	FaceUp bool
}

// New builds a card showing its front face
func New(movie models.Movie) Card {
	genres := movie.Genres
	if len(genres) > MaxGenres {
		genres = genres[:MaxGenres]
	}
	tags := make([]GenreTag, 0, len(genres))
	for _, g := range genres {
		tags = append(tags, GenreTag{Label: g, Color: GenreColor(g)})
	}

	return Card{
		Title:       movie.Title,
		TitleEn:     movie.TitleEn,
		Year:        movie.Year,
		Rating:      FormatRating(movie.Rating),
		Genres:      tags,
		Description: Truncate(movie.Description, DescriptionLimit),
		PosterURL:   movie.PosterURL,
		Accent:      PosterAccent(movie.Title),
		Reason:      movie.Reason,
		FaceUp:      true,
	}
}

// FromMovies builds one card per movie, in order
func FromMovies(movies []models.Movie) []Card {
	out := make([]Card, len(movies))
	for i, m := range movies {
		out[i] = New(m)
	}
	return out
}

// Flip turns the card over
func (c *Card) Flip() {
	c.FaceUp = !c.FaceUp
}

// ShowFront turns the metadata face up
func (c *Card) ShowFront() {
	c.FaceUp = true
}

// ShowBack turns the rationale face up
func (c *Card) ShowBack() {
	c.FaceUp = false
}

// FormatRating prints a rating without trailing zeros (9.70 -> "9.7", 8 -> "8")
func FormatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Truncate shortens s to at most limit runes, ending with an ellipsis when cut
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}

package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/liamwears/moviecards/internal/models"
)

// PosterFinder resolves a poster URL for a movie title
type PosterFinder interface {
	FindPoster(ctx context.Context, title string, year int) (string, error)
}

// PosterCache stores resolved poster URLs. An empty URL is a cached miss.
type PosterCache interface {
	GetPoster(ctx context.Context, key string) (url string, found bool, err error)
	SetPoster(ctx context.Context, key, url string) error
}

// PosterService fills in missing poster URLs on recommended movies
type PosterService struct {
	finder PosterFinder
	cache  PosterCache
	logger *log.Logger
}

// NewPosterService creates a new poster service. cache may be nil.
func NewPosterService(finder PosterFinder, cache PosterCache, logger *log.Logger) *PosterService {
	return &PosterService{
		finder: finder,
		cache:  cache,
		logger: logger,
	}
}

// Resolve returns a copy of movies where every movie without a poster URL has one looked up.
// Lookup failures leave the poster empty; the card then falls back to its accent gradient.
func (s *PosterService) Resolve(ctx context.Context, movies []models.Movie) []models.Movie {
	if s == nil || s.finder == nil || len(movies) == 0 {
		return movies
	}

	out := make([]models.Movie, len(movies))
	copy(out, movies)

	for i := range out {
		if out[i].PosterURL != "" {
			continue
		}
		title := out[i].TitleEn
		if title == "" {
			title = out[i].Title
		}
		out[i].PosterURL = s.lookup(ctx, title, out[i].Year)
	}

	return out
}

// Lookup returns the poster URL for one title, or "" when none is known
func (s *PosterService) Lookup(ctx context.Context, title string, year int) string {
	if s == nil || s.finder == nil || strings.TrimSpace(title) == "" {
		return ""
	}
	return s.lookup(ctx, title, year)
}

func (s *PosterService) lookup(ctx context.Context, title string, year int) string {
	key := posterKey(title, year)

	if s.cache != nil {
		url, found, err := s.cache.GetPoster(ctx, key)
		if err != nil {
			s.logger.Printf("Failed to read poster cache for %q: %v", title, err)
		} else if found {
			return url
		}
	}

	url, err := s.finder.FindPoster(ctx, title, year)
	if err != nil {
		s.logger.Printf("Failed to look up poster for %q: %v", title, err)
		return ""
	}

	if s.cache != nil {
		if err := s.cache.SetPoster(ctx, key, url); err != nil {
			s.logger.Printf("Failed to cache poster for %q: %v", title, err)
		}
	}

	return url
}

func posterKey(title string, year int) string {
	return fmt.Sprintf("%s:%d", strings.ToLower(strings.TrimSpace(title)), year)
}

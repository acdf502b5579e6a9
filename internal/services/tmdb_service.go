package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// TMDBService looks up poster artwork on The Movie Database API
type TMDBService struct {
	client       *http.Client
	apiKey       string
	baseURL      string
	imageBaseURL string
}

// TMDBConfig holds TMDB service configuration
type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
}

// NewTMDBService creates a new TMDB service
func NewTMDBService(cfg TMDBConfig) *TMDBService {
	return &TMDBService{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// TMDBMovie represents a movie from TMDB API
type TMDBMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  *string `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

// TMDBMovieResponse represents a movie search response
type TMDBMovieResponse struct {
	Page         int         `json:"page"`
	Results      []TMDBMovie `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// Enabled reports whether an API key is configured
func (s *TMDBService) Enabled() bool {
	return s != nil && s.apiKey != ""
}

// doRequest performs an HTTP request to TMDB API
func (s *TMDBService) doRequest(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	url := fmt.Sprintf("%s%s", s.baseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))
	req.Header.Set("Content-Type", "application/json")

	q := req.URL.Query()
	q.Add("include_adult", "false")
	for key, value := range params {
		q.Add(key, value)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TMDB API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// SearchMovies searches for movies, optionally narrowed to a release year
func (s *TMDBService) SearchMovies(ctx context.Context, query string, year int) (*TMDBMovieResponse, error) {
	params := map[string]string{
		"query": query,
		"page":  "1",
	}
	if year > 0 {
		params["year"] = strconv.Itoa(year)
	}

	body, err := s.doRequest(ctx, "/search/movie", params)
	if err != nil {
		return nil, err
	}

	var response TMDBMovieResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal search results: %w", err)
	}

	return &response, nil
}

// FindPoster returns the poster URL of the best match for title and year, or "" when none has artwork
func (s *TMDBService) FindPoster(ctx context.Context, title string, year int) (string, error) {
	result, err := s.SearchMovies(ctx, title, year)
	if err != nil {
		return "", err
	}

	for _, movie := range result.Results {
		if movie.PosterPath != nil && *movie.PosterPath != "" {
			return s.GetImageURL(*movie.PosterPath), nil
		}
	}

	return "", nil
}

// GetImageURL returns the full URL for an image path
func (s *TMDBService) GetImageURL(path string) string {
	if path == "" {
		return ""
	}
	return s.imageBaseURL + path
}

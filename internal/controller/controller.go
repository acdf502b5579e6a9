// Package controller owns the view state of one recommendation session.
//
// Every front end drives the same Controller. Network calls are split into a
// Begin step that mutates state and hands out a generation-tagged Ticket, the
// call itself (which never touches state), and a Complete step that applies the
// outcome only if the ticket is still current. Front ends with their own event
// loop run the call asynchronously; the web handlers use Submit and ShowHistory,
// which chain the three steps.
package controller

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/liamwears/moviecards/internal/models"
)

// ErrorMessage is shown when a recommendation request fails
const ErrorMessage = "获取推荐失败，请稍后重试"

var errUnsuccessful = errors.New("backend reported an unsuccessful recommendation")

// Recommender is the backend the controller talks to
type Recommender interface {
	Recommend(ctx context.Context, prompt string, count int) (*models.RecommendationResult, error)
	History(ctx context.Context) ([]models.HistoryItem, error)
}

// Logger receives diagnostics that are never shown to the user
type Logger interface {
	Printf(format string, v ...any)
}

// ViewState is everything the user can see
type ViewState struct {
	Prompt      string               `json:"prompt"`
	Movies      []models.Movie       `json:"movies"`
	Query       string               `json:"query"`
	Loading     bool                 `json:"loading"`
	Error       string               `json:"error"`
	History     []models.HistoryItem `json:"history"`
	ShowHistory bool                 `json:"show_history"`
}

// Ticket identifies one outstanding recommendation request
type Ticket struct {
	seq    uint64
	Prompt string
}

// HistoryTicket identifies one outstanding history request
type HistoryTicket struct {
	seq uint64
}

// Controller sequences user actions and backend outcomes over a ViewState
type Controller struct {
	client Recommender
	count  int
	logger Logger

	mu         sync.Mutex
	state      ViewState
	submitSeq  uint64
	historySeq uint64
}

// New creates a controller that asks for count movies per prompt
func New(client Recommender, count int, logger Logger) *Controller {
	return &Controller{
		client: client,
		count:  count,
		logger: logger,
	}
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Movies = cloneMovies(c.state.Movies)
	if c.state.History != nil {
		s.History = make([]models.HistoryItem, len(c.state.History))
		copy(s.History, c.state.History)
	}
	return s
}

// SetPrompt records the text currently in the prompt input
func (c *Controller) SetPrompt(prompt string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Prompt = prompt
}

// BeginSubmit starts a recommendation request.
// It returns false, leaving state untouched, for a blank prompt or while a request is loading.
func (c *Controller) BeginSubmit(prompt string) (Ticket, bool) {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return Ticket{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Loading {
		return Ticket{}, false
	}

	c.submitSeq++
	c.state.Prompt = prompt
	c.state.Loading = true
	c.state.Error = ""
	c.state.Movies = nil
	c.state.Query = ""

	return Ticket{seq: c.submitSeq, Prompt: trimmed}, true
}

// FetchRecommendations performs the backend call for a ticket. It does not touch state.
func (c *Controller) FetchRecommendations(ctx context.Context, t Ticket) (*models.RecommendationResult, error) {
	return c.client.Recommend(ctx, t.Prompt, c.count)
}

// CompleteSubmit applies the outcome of a request. Outcomes of superseded tickets are
// dropped and reported with false.
func (c *Controller) CompleteSubmit(t Ticket, result *models.RecommendationResult, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.seq != c.submitSeq || !c.state.Loading {
		return false
	}

	c.state.Loading = false

	if err == nil && (result == nil || !result.Success) {
		err = errUnsuccessful
	}
	if err != nil {
		c.logf("Recommendation for %q failed: %v", t.Prompt, err)
		c.state.Movies = nil
		c.state.Error = ErrorMessage
		return true
	}

	c.state.Movies = cloneMovies(result.Movies)
	c.state.Query = result.Query
	if c.state.Query == "" {
		c.state.Query = t.Prompt
	}
	c.state.Error = ""
	return true
}

// Submit runs a whole recommendation request and reports whether one was issued
func (c *Controller) Submit(ctx context.Context, prompt string) bool {
	t, ok := c.BeginSubmit(prompt)
	if !ok {
		return false
	}

	result, err := c.FetchRecommendations(ctx, t)
	c.CompleteSubmit(t, result, err)
	return true
}

// BeginHistory starts a history request
func (c *Controller) BeginHistory() HistoryTicket {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.historySeq++
	return HistoryTicket{seq: c.historySeq}
}

// FetchHistory performs the backend call for a history request. It does not touch state.
func (c *Controller) FetchHistory(ctx context.Context) ([]models.HistoryItem, error) {
	return c.client.History(ctx)
}

// CompleteHistory opens the history view with items. A failure only gets logged and the
// view stays closed. Superseded tickets are dropped and reported with false.
func (c *Controller) CompleteHistory(t HistoryTicket, items []models.HistoryItem, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.seq != c.historySeq {
		return false
	}

	if err != nil {
		c.logf("Failed to fetch history: %v", err)
		return true
	}

	c.state.History = items
	c.state.ShowHistory = true
	return true
}

// ShowHistory fetches history and opens the history view on success
func (c *Controller) ShowHistory(ctx context.Context) bool {
	t := c.BeginHistory()
	items, err := c.FetchHistory(ctx)
	c.CompleteHistory(t, items, err)
	return err == nil
}

// SelectHistory replays a past query locally: its movies become the results and its
// query the prompt. Any outstanding recommendation request is superseded.
func (c *Controller) SelectHistory(item models.HistoryItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.selectLocked(item)
}

// SelectHistoryByID replays the listed history item with the given id
func (c *Controller) SelectHistoryByID(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range c.state.History {
		if item.ID == id {
			c.selectLocked(item)
			return true
		}
	}
	return false
}

func (c *Controller) selectLocked(item models.HistoryItem) {
	c.submitSeq++
	c.state.Loading = false
	c.state.Movies = cloneMovies(item.Movies)
	c.state.Prompt = item.Query
	c.state.Query = item.Query
	c.state.Error = ""
	c.state.ShowHistory = false
}

// CloseHistory hides the history view
func (c *Controller) CloseHistory() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.ShowHistory = false
}

// Reset discards all state and supersedes every outstanding request
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.submitSeq++
	c.historySeq++
	c.state = ViewState{}
}

func (c *Controller) logf(format string, v ...any) {
	if c.logger != nil {
		c.logger.Printf(format, v...)
	}
}

func cloneMovies(movies []models.Movie) []models.Movie {
	if movies == nil {
		return nil
	}
	out := make([]models.Movie, len(movies))
	copy(out, movies)
	return out
}

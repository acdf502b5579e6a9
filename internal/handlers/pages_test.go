package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/liamwears/moviecards/internal/controller"
	"github.com/liamwears/moviecards/internal/database"
	"github.com/liamwears/moviecards/internal/middleware"
	"github.com/liamwears/moviecards/internal/models"
	"github.com/liamwears/moviecards/internal/services"
	"github.com/liamwears/moviecards/internal/session"
)

type stubBackend struct {
	result     *models.RecommendationResult
	err        error
	history    []models.HistoryItem
	historyErr error
	prompts    []string
}

func (b *stubBackend) Recommend(ctx context.Context, prompt string, count int) (*models.RecommendationResult, error) {
	b.prompts = append(b.prompts, prompt)
	return b.result, b.err
}

func (b *stubBackend) History(ctx context.Context) ([]models.HistoryItem, error) {
	return b.history, b.historyErr
}

type testServer struct {
	handler http.Handler
	cookie  *http.Cookie
}

func newTestServer(t *testing.T, backend *stubBackend) *testServer {
	t.Helper()
	return newTestServerWithPosters(t, backend, nil)
}

func newTestServerWithPosters(t *testing.T, backend *stubBackend, posters *services.PosterService) *testServer {
	t.Helper()

	logger := log.New(io.Discard, "", 0)
	renderer, err := NewRenderer(logger)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}

	store := session.NewStore(func() *controller.Controller {
		return controller.New(backend, 3, logger)
	}, time.Hour)
	sessions := middleware.NewSessionMiddleware(store, "session", false)
	pages := NewPageHandler(posters, renderer, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", pages.Index)
	mux.HandleFunc("POST /recommend", pages.Recommend)
	mux.HandleFunc("POST /history", pages.ShowHistory)
	mux.HandleFunc("POST /history/close", pages.CloseHistory)
	mux.HandleFunc("POST /history/{id}", pages.SelectHistory)
	mux.HandleFunc("POST /reset", pages.Reset)
	mux.HandleFunc("GET /api/state", pages.State)

	return &testServer{handler: sessions.Attach(mux)}
}

func (s *testServer) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			s.cookie = c
		}
	}
	return rec
}

func (s *testServer) state(t *testing.T) controller.ViewState {
	t.Helper()

	rec := s.do(t, http.MethodGet, "/api/state", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/state: status %d", rec.Code)
	}
	var state controller.ViewState
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return state
}

func sampleMovies() []models.Movie {
	return []models.Movie{
		{Title: "千与千寻", TitleEn: "Spirited Away", Year: 2001, Rating: 9.4, Genres: []string{"动画", "奇幻"}, Description: "少女千寻误入神灵世界。", Reason: "温暖治愈"},
		{Title: "龙猫", TitleEn: "My Neighbor Totoro", Year: 1988, Rating: 9.2, Genres: []string{"动画"}, Description: "姐妹与龙猫的夏天。", Reason: "童年回忆"},
	}
}

func TestIndexEmpty(t *testing.T) {
	s := newTestServer(t, &stubBackend{})

	rec := s.do(t, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "输入你的观影需求，开始探索精彩电影吧！") {
		t.Error("empty page should show the hint")
	}
	if !strings.Contains(body, "获取推荐") {
		t.Error("submit button missing")
	}
	if s.cookie == nil {
		t.Error("first visit should start a session")
	}
}

func TestRecommendRendersCards(t *testing.T) {
	backend := &stubBackend{result: &models.RecommendationResult{Success: true, Movies: sampleMovies(), Query: "治愈系动画"}}
	s := newTestServer(t, backend)

	rec := s.do(t, http.MethodPost, "/recommend", url.Values{"prompt": {"治愈系动画"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
	if len(backend.prompts) != 1 || backend.prompts[0] != "治愈系动画" {
		t.Errorf("backend prompts = %v", backend.prompts)
	}

	body := s.do(t, http.MethodGet, "/", nil).Body.String()
	for _, want := range []string{"千与千寻", "Spirited Away", "龙猫", "推荐理由", "温暖治愈", "#FB923C"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, "输入你的观影需求") {
		t.Error("hint should be hidden once results are shown")
	}
}

func TestRecommendFailureShowsError(t *testing.T) {
	s := newTestServer(t, &stubBackend{err: errors.New("connection refused")})

	s.do(t, http.MethodPost, "/recommend", url.Values{"prompt": {"科幻片"}})

	body := s.do(t, http.MethodGet, "/", nil).Body.String()
	if !strings.Contains(body, controller.ErrorMessage) {
		t.Error("page should show the error message")
	}
	if strings.Contains(body, "connection refused") {
		t.Error("transport details must not reach the page")
	}

	state := s.state(t)
	if state.Loading || state.Error != controller.ErrorMessage || len(state.Movies) != 0 {
		t.Errorf("unexpected state: %+v", state)
	}
}

func TestRecommendBlankPrompt(t *testing.T) {
	backend := &stubBackend{}
	s := newTestServer(t, backend)

	rec := s.do(t, http.MethodPost, "/recommend", url.Values{"prompt": {"   "}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if len(backend.prompts) != 0 {
		t.Error("blank prompt must not reach the backend")
	}
}

func TestHistoryFlow(t *testing.T) {
	backend := &stubBackend{
		history: []models.HistoryItem{
			{ID: 7, Query: "宫崎骏", Movies: sampleMovies(), CreatedAt: models.Timestamp{Time: time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)}},
		},
	}
	s := newTestServer(t, backend)

	s.do(t, http.MethodPost, "/history", nil)
	body := s.do(t, http.MethodGet, "/", nil).Body.String()
	if !strings.Contains(body, "宫崎骏") || !strings.Contains(body, "2 部电影") {
		t.Error("history dialog should list the item")
	}

	rec := s.do(t, http.MethodPost, "/history/99", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown history id: expected 404, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodPost, "/history/abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed history id: expected 400, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/history/7", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("select history: expected redirect, got %d", rec.Code)
	}

	state := s.state(t)
	if state.ShowHistory {
		t.Error("selecting an item should close the dialog")
	}
	if state.Prompt != "宫崎骏" || state.Query != "宫崎骏" || len(state.Movies) != 2 {
		t.Errorf("unexpected state after select: %+v", state)
	}
	if len(backend.prompts) != 0 {
		t.Error("replaying history must not call the backend")
	}
}

func TestHistoryEmptyAndClose(t *testing.T) {
	s := newTestServer(t, &stubBackend{history: []models.HistoryItem{}})

	s.do(t, http.MethodPost, "/history", nil)
	body := s.do(t, http.MethodGet, "/", nil).Body.String()
	if !strings.Contains(body, "暂无历史记录") {
		t.Error("empty history should say so")
	}

	s.do(t, http.MethodPost, "/history/close", nil)
	if s.state(t).ShowHistory {
		t.Error("dialog should be closed")
	}
}

func TestHistoryFailureKeepsDialogClosed(t *testing.T) {
	s := newTestServer(t, &stubBackend{historyErr: errors.New("boom")})

	s.do(t, http.MethodPost, "/history", nil)
	state := s.state(t)
	if state.ShowHistory || state.Error != "" {
		t.Errorf("history failure should be silent, got %+v", state)
	}
}

func TestReset(t *testing.T) {
	backend := &stubBackend{result: &models.RecommendationResult{Success: true, Movies: sampleMovies()}}
	s := newTestServer(t, backend)

	s.do(t, http.MethodPost, "/recommend", url.Values{"prompt": {"动画"}})
	s.do(t, http.MethodPost, "/reset", nil)

	state := s.state(t)
	if state.Prompt != "" || len(state.Movies) != 0 || state.Query != "" {
		t.Errorf("reset should clear state, got %+v", state)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	backend := &stubBackend{result: &models.RecommendationResult{Success: true, Movies: sampleMovies()}}
	a := newTestServer(t, backend)
	b := &testServer{handler: a.handler}

	a.do(t, http.MethodPost, "/recommend", url.Values{"prompt": {"动画"}})

	if len(b.state(t).Movies) != 0 {
		t.Error("a new session must not see another session's results")
	}
	if len(a.state(t).Movies) != 2 {
		t.Error("the first session should keep its results")
	}
}

type countingFinder struct {
	mu    sync.Mutex
	calls map[string]int
}

func (f *countingFinder) FindPoster(ctx context.Context, title string, year int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[title]++
	return "", nil
}

func TestIndexReusesPosterLookups(t *testing.T) {
	finder := &countingFinder{calls: map[string]int{}}
	logger := log.New(io.Discard, "", 0)
	posters := services.NewPosterService(finder, database.NewMemoryPosterCache(time.Hour, 100), logger)

	backend := &stubBackend{result: &models.RecommendationResult{Success: true, Movies: sampleMovies()}}
	s := newTestServerWithPosters(t, backend, posters)

	s.do(t, http.MethodPost, "/recommend", url.Values{"prompt": {"动画"}})
	for i := 0; i < 3; i++ {
		if rec := s.do(t, http.MethodGet, "/", nil); rec.Code != http.StatusOK {
			t.Fatalf("GET /: status %d", rec.Code)
		}
	}

	for _, title := range []string{"Spirited Away", "My Neighbor Totoro"} {
		if n := finder.calls[title]; n != 1 {
			t.Errorf("%s looked up %d times, want 1", title, n)
		}
	}
}

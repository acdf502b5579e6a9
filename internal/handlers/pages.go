package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/liamwears/moviecards/internal/cards"
	"github.com/liamwears/moviecards/internal/controller"
	"github.com/liamwears/moviecards/internal/middleware"
	"github.com/liamwears/moviecards/internal/services"
)

// PageHandler serves the recommendation page and the form actions that drive a session's controller
type PageHandler struct {
	posters  *services.PosterService
	renderer *Renderer
	logger   *log.Logger
}

// NewPageHandler creates a new page handler. posters may be nil.
func NewPageHandler(posters *services.PosterService, renderer *Renderer, logger *log.Logger) *PageHandler {
	return &PageHandler{
		posters:  posters,
		renderer: renderer,
		logger:   logger,
	}
}

// IndexData is what the index template renders
type IndexData struct {
	State         controller.ViewState
	Cards         []cards.Card
	ShowEmptyHint bool
	CanSubmit     bool
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	state := ctrl.Snapshot()
	movies := h.posters.Resolve(r.Context(), state.Movies)

	data := IndexData{
		State:         state,
		Cards:         cards.FromMovies(movies),
		ShowEmptyHint: len(state.Movies) == 0 && !state.Loading && state.Error == "",
		CanSubmit:     !state.Loading,
	}

	h.renderer.RenderPage(w, "index.html", data)
}

// Recommend handles POST /recommend
func (h *PageHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	prompt := r.PostFormValue("prompt")
	ctrl.SetPrompt(prompt)
	if !ctrl.Submit(r.Context(), prompt) && strings.TrimSpace(prompt) != "" {
		h.logger.Printf("Recommendation already in flight, ignoring %q", prompt)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ShowHistory handles POST /history
func (h *PageHandler) ShowHistory(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	ctrl.ShowHistory(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// CloseHistory handles POST /history/close
func (h *PageHandler) CloseHistory(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	ctrl.CloseHistory()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SelectHistory handles POST /history/{id}
func (h *PageHandler) SelectHistory(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid history ID", http.StatusBadRequest)
		return
	}

	if !ctrl.SelectHistoryByID(id) {
		http.Error(w, "History item not found", http.StatusNotFound)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Reset handles POST /reset
func (h *PageHandler) Reset(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	ctrl.Reset()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// State handles GET /api/state
func (h *PageHandler) State(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ctrl.Snapshot()); err != nil {
		h.logger.Printf("Failed to encode state: %v", err)
	}
}

func (h *PageHandler) controller(w http.ResponseWriter, r *http.Request) (*controller.Controller, bool) {
	ctrl, ok := middleware.GetControllerFromContext(r.Context())
	if !ok {
		h.logger.Printf("No session controller on %s %s", r.Method, r.URL.Path)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return ctrl, true
}

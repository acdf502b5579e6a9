// Package tui provides the Bubble Tea terminal front end.
package tui

import (
	"github.com/liamwears/moviecards/internal/controller"
	"github.com/liamwears/moviecards/internal/models"
)

// RecommendationsLoaded is sent when a recommendation request returns.
type RecommendationsLoaded struct {
	Ticket controller.Ticket
	Result *models.RecommendationResult
	Err    error
}

// HistoryLoaded is sent when a history request returns.
type HistoryLoaded struct {
	Ticket controller.HistoryTicket
	Items  []models.HistoryItem
	Err    error
}

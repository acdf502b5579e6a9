package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/liamwears/moviecards/internal/config"
	"github.com/liamwears/moviecards/internal/controller"
	"github.com/liamwears/moviecards/internal/logging"
	"github.com/liamwears/moviecards/internal/services"
	"github.com/liamwears/moviecards/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logging.Init(cfg.TUI.LogPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Close()

	// Setup context for graceful shutdown; cancelling aborts in-flight backend calls
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := services.NewRecommendClient(services.RecommendClientConfig{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.Timeout,
	})
	ctrl := controller.New(client, cfg.Backend.RecommendCount, logging.Printf{})

	logging.Info("Using recommendation backend", "url", cfg.Backend.URL, "count", cfg.Backend.RecommendCount)

	p := tea.NewProgram(tui.NewApp(ctx, ctrl), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logging.Error("TUI exited with error", "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

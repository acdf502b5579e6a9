package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/liamwears/moviecards/internal/config"
	"github.com/liamwears/moviecards/internal/controller"
	"github.com/liamwears/moviecards/internal/database"
	"github.com/liamwears/moviecards/internal/handlers"
	"github.com/liamwears/moviecards/internal/middleware"
	"github.com/liamwears/moviecards/internal/services"
	"github.com/liamwears/moviecards/internal/session"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := log.New(os.Stdout, "[moviecards] ", log.LstdFlags|log.Lshortfile)
	logger.Printf("Starting movie cards server in %s mode", cfg.Server.Env)

	// Initialize Redis connection (optional)
	var redisClient *database.RedisClient
	var rawRedis *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(database.RedisConfig{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       0,
			TLS:      cfg.Redis.TLS,
		})
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		rawRedis = redisClient.Client
	} else {
		logger.Println("REDIS_HOST not set, using in-process rate limiting and poster cache")
	}

	// Initialize services
	recommendClient := services.NewRecommendClient(services.RecommendClientConfig{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.Timeout,
	})

	var posterService *services.PosterService
	tmdbService := services.NewTMDBService(services.TMDBConfig{
		APIKey:       cfg.TMDB.APIKey,
		BaseURL:      cfg.TMDB.BaseURL,
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
	})
	if tmdbService.Enabled() {
		var cache services.PosterCache
		if rawRedis != nil {
			cache = database.NewPosterCache(rawRedis, 7*24*time.Hour)
		} else {
			cache = database.NewMemoryPosterCache(24*time.Hour, 1000)
		}
		posterService = services.NewPosterService(tmdbService, cache, logger)
	}

	// Initialize session store; every session owns a controller
	sessionStore := session.NewStore(func() *controller.Controller {
		return controller.New(recommendClient, cfg.Backend.RecommendCount, logger)
	}, cfg.Session.TTL)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go sessionStore.Run(ctx, time.Minute)

	// Initialize middleware
	sessionMiddleware := middleware.NewSessionMiddleware(sessionStore, "session", cfg.IsProduction())
	rateLimiter := middleware.NewRateLimiter(rawRedis, cfg.RateLimit.PerMinute, time.Minute, cfg.RateLimit.PerMinute > 0, logger)

	// Initialize renderer
	renderer, err := handlers.NewRenderer(logger)
	if err != nil {
		logger.Fatalf("Failed to initialize renderer: %v", err)
	}

	// Initialize handlers
	pageHandler := handlers.NewPageHandler(posterService, renderer, logger)
	posterHandler := handlers.NewPosterHandler(posterService, logger)

	// Set up HTTP router
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", pageHandler.Index)
	mux.Handle("POST /recommend", rateLimiter.Limit(http.HandlerFunc(pageHandler.Recommend)))
	mux.HandleFunc("POST /history", pageHandler.ShowHistory)
	mux.HandleFunc("POST /history/close", pageHandler.CloseHistory)
	mux.HandleFunc("POST /history/{id}", pageHandler.SelectHistory)
	mux.HandleFunc("POST /reset", pageHandler.Reset)
	mux.HandleFunc("GET /api/state", pageHandler.State)
	mux.Handle("GET /api/poster", rateLimiter.Limit(http.HandlerFunc(posterHandler.Get)))

	// Serve static files
	mux.Handle("GET /static/", handlers.StaticHandler())

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		redisStatus := "disabled"
		if redisClient != nil {
			redisStatus = "up"
			if err := redisClient.Health(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				fmt.Fprintf(w, `{"status":"unhealthy","redis":"down"}`)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","redis":"%s"}`, redisStatus)
	})

	// Wrap with session and logging middleware
	handler := middleware.Logger(logger)(sessionMiddleware.Attach(mux))

	// Create HTTP server; WriteTimeout leaves room for a slow backend call
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Backend.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Printf("Server listening on %s, backend %s", addr, cfg.Backend.URL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("Shutting down server...")
	stop()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Println("Server exited")
}

package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Redis     RedisConfig
	TMDB      TMDBConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	TUI       TUIConfig
}

type ServerConfig struct {
	Env  string
	Port string
}

type BackendConfig struct {
	URL            string
	Timeout        time.Duration
	RecommendCount int
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TLS      bool
}

type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
}

type SessionConfig struct {
	TTL time.Duration
}

type RateLimitConfig struct {
	// Requests per minute per session on POST /recommend
	PerMinute int
}

type TUIConfig struct {
	LogPath string
}

// Load reads environment variables and returns a Config struct
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	timeout, err := getEnvInt("BACKEND_TIMEOUT", 60)
	if err != nil {
		return nil, err
	}
	count, err := getEnvInt("RECOMMEND_COUNT", 3)
	if err != nil {
		return nil, err
	}
	ttl, err := getEnvInt("SESSION_TTL", 60)
	if err != nil {
		return nil, err
	}
	perMinute, err := getEnvInt("RATE_LIMIT", 20)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Env:  getEnv("NODE_ENV", "local"),
			Port: getEnv("PORT", "4000"),
		},
		Backend: BackendConfig{
			URL:            getEnv("BACKEND_URL", "http://localhost:8000"),
			Timeout:        time.Duration(timeout) * time.Second,
			RecommendCount: count,
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			TLS:      getEnv("REDIS_TLS", "false") == "true",
		},
		TMDB: TMDBConfig{
			APIKey:       getEnv("TMDB_KEY", ""),
			BaseURL:      getEnv("TMDB_URL", "https://api.themoviedb.org/3"),
			ImageBaseURL: getEnv("TMDB_IMAGE_URL", "https://image.tmdb.org/t/p/w500"),
		},
		Session: SessionConfig{
			TTL: time.Duration(ttl) * time.Minute,
		},
		RateLimit: RateLimitConfig{
			PerMinute: perMinute,
		},
		TUI: TUIConfig{
			LogPath: getEnv("TUI_LOG", ""),
		},
	}

	// Validate required fields
	u, err := url.Parse(cfg.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("BACKEND_URL must be an absolute URL, got %q", cfg.Backend.URL)
	}
	if cfg.Backend.RecommendCount < 1 {
		return nil, fmt.Errorf("RECOMMEND_COUNT must be at least 1")
	}
	if cfg.Backend.Timeout <= 0 {
		return nil, fmt.Errorf("BACKEND_TIMEOUT must be positive")
	}
	if cfg.Session.TTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// IsDevelopment returns true if running in development/local mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "local" || c.Server.Env == "development"
}

// RedisEnabled returns true if a Redis host is configured
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

// RedisAddr returns the Redis address in host:port format
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"NODE_ENV", "PORT", "BACKEND_URL", "BACKEND_TIMEOUT", "RECOMMEND_COUNT", "SESSION_TTL", "RATE_LIMIT", "REDIS_HOST", "TMDB_KEY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "4000" {
		t.Errorf("Port = %q, want 4000", cfg.Server.Port)
	}
	if cfg.Backend.URL != "http://localhost:8000" {
		t.Errorf("Backend.URL = %q", cfg.Backend.URL)
	}
	if cfg.Backend.RecommendCount != 3 {
		t.Errorf("RecommendCount = %d, want 3", cfg.Backend.RecommendCount)
	}
	if cfg.Backend.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Backend.Timeout)
	}
	if cfg.Session.TTL != time.Hour {
		t.Errorf("Session.TTL = %v, want 1h", cfg.Session.TTL)
	}
	if cfg.RedisEnabled() {
		t.Error("Redis should be disabled without REDIS_HOST")
	}
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Error("default env should be local")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("NODE_ENV", "production")
	t.Setenv("BACKEND_URL", "https://recommend.example.com")
	t.Setenv("RECOMMEND_COUNT", "5")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.IsProduction() {
		t.Error("expected production")
	}
	if cfg.Backend.RecommendCount != 5 {
		t.Errorf("RecommendCount = %d, want 5", cfg.Backend.RecommendCount)
	}
	if cfg.RedisAddr() != "cache:6380" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr())
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"BACKEND_URL":     "not a url",
		"RECOMMEND_COUNT": "0",
		"BACKEND_TIMEOUT": "soon",
		"SESSION_TTL":     "-1",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Errorf("expected an error for %s=%q", key, value)
			}
		})
	}
}

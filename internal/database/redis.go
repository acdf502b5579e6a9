package database

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the redis client
type RedisClient struct {
	*redis.Client
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TLS      bool
}

// NewRedisClient creates a new Redis client
func NewRedisClient(cfg RedisConfig) (*RedisClient, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to ping Redis: %w", err)
	}

	log.Println("Successfully connected to Redis")

	return &RedisClient{Client: client}, nil
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	if r.Client != nil {
		log.Println("Closing Redis connection")
		return r.Client.Close()
	}
	return nil
}

// Health checks the Redis connection health
func (r *RedisClient) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return r.Ping(ctx).Err()
}

// PosterCache stores resolved poster URLs in Redis
type PosterCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPosterCache creates a new poster cache
func NewPosterCache(client *redis.Client, ttl time.Duration) *PosterCache {
	if ttl == 0 {
		ttl = 7 * 24 * time.Hour // default 7 days
	}
	return &PosterCache{
		client: client,
		ttl:    ttl,
	}
}

// GetPoster returns a cached poster URL. A cached miss is found with an empty URL.
func (c *PosterCache) GetPoster(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, posterKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get poster: %w", err)
	}

	return val, true, nil
}

// SetPoster caches a poster URL, including an empty URL for titles without artwork
func (c *PosterCache) SetPoster(ctx context.Context, key, url string) error {
	return c.client.Set(ctx, posterKey(key), url, c.ttl).Err()
}

func posterKey(key string) string {
	return fmt.Sprintf("poster:%s", key)
}

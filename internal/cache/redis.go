package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"ricepro-web/internal/config"
)

// ReportPDFKeyFmt keys a rendered report PDF by profile and period.
const ReportPDFKeyFmt = "reports:pdf:%s:%s"

var client *redis.Client

// Init connects to Redis. On failure the client stays nil and every cache
// helper degrades to a miss.
func Init(cfg *config.Config) error {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		client = nil
		return err
	}
	client = c
	return nil
}

// GetClient returns the Redis client, nil when Init failed or was not called
func GetClient() *redis.Client {
	return client
}

// SetClient installs an already connected client (tests, embedded setups)
func SetClient(c *redis.Client) {
	client = c
}

// Close releases the connection pool
func Close() error {
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateReportCaches clears the cached PDFs of one profile.
// Called after any write so the next export reflects it.
func InvalidateReportCaches(ctx context.Context, profile string) {
	InvalidatePattern(ctx, "reports:pdf:"+profile+":*")
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}

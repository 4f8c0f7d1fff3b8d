package cache

import (
	"context"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Client is nil when caching is disabled; callers treat a nil client as
// a miss on every lookup.
var Client *redis.Client

var (
	newRedisClient = func(opts *redis.Options) *redis.Client {
		return redis.NewClient(opts)
	}
	pingRedis = func(ctx context.Context, client *redis.Client) error {
		return client.Ping(ctx).Err()
	}
	parseRedisURL = redis.ParseURL
)

// InitRedis connects the quote cache. An empty addr or an unreachable
// server leaves the cache disabled rather than aborting: quotes are
// simply fetched fresh on every run.
func InitRedis(ctx context.Context, addr string) {
	if addr == "" {
		log.Println("Warning: REDIS_URL not set, quote caching disabled")
		return
	}

	opts := &redis.Options{Addr: addr}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := parseRedisURL(addr)
		if err != nil {
			log.Printf("Warning: failed to parse REDIS_URL, quote caching disabled: %v", err)
			return
		}
		opts = parsed
	}

	client := newRedisClient(opts)
	if err := pingRedis(ctx, client); err != nil {
		log.Printf("Warning: failed to connect to Redis, quote caching disabled: %v", err)
		return
	}

	Client = client
	log.Println("Connected to Redis")
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ref"

// Redis is a Cache backed by a Redis server.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedis wraps an existing client.
func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Connect parses a redis:// URL and checks the server answers.
func Connect(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedis(client, ttl), nil
}

func versionKey(kind string) string {
	return fmt.Sprintf("%s:%s:version", keyPrefix, kind)
}

func (r *Redis) dataKey(ctx context.Context, kind, key string) (string, error) {
	v, err := r.client.Get(ctx, versionKey(kind)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("%s:%s:v%d:%s", keyPrefix, kind, v, key), nil
}

func (r *Redis) Get(ctx context.Context, kind, key string) ([]byte, bool) {
	k, err := r.dataKey(ctx, kind, key)
	if err != nil {
		log.Printf("[WARN] cache version %s: %v", kind, err)
		return nil, false
	}
	raw, err := r.client.Get(ctx, k).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[WARN] cache get %s: %v", k, err)
		}
		return nil, false
	}
	return raw, true
}

func (r *Redis) Set(ctx context.Context, kind, key string, value []byte) {
	k, err := r.dataKey(ctx, kind, key)
	if err != nil {
		log.Printf("[WARN] cache version %s: %v", kind, err)
		return
	}
	if err := r.client.Set(ctx, k, value, r.ttl).Err(); err != nil {
		log.Printf("[WARN] cache set %s: %v", k, err)
	}
}

func (r *Redis) Invalidate(ctx context.Context, kinds ...string) {
	if len(kinds) == 0 {
		return
	}
	pipe := r.client.TxPipeline()
	for _, kind := range kinds {
		pipe.Incr(ctx, versionKey(kind))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[WARN] cache invalidate %v: %v", kinds, err)
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}

package testutils

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"dndbuilder_backend/internals/cache"
)

// CreateTestRedisCache starts an in-memory Redis server for the test and
// returns a cache on it together with the server for inspection.
func CreateTestRedisCache(t *testing.T, ttl time.Duration) (*cache.Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}), ttl)
	t.Cleanup(func() {
		_ = c.Close()
	})
	return c, mr
}

// Package cache is the read-through cache in front of reference data.
//
// Keys are namespaced by kind (races, classes, ...). Every kind carries a
// version counter; invalidating a kind bumps the counter so all of its keys
// become unreachable at once and expire on their own.
package cache

import (
	"context"
	"log"

	"github.com/bytedance/sonic"
)

// Kinds of cached reference data.
const (
	KindAbilityScores = "ability_scores"
	KindProficiencies = "proficiencies"
	KindRaces         = "races"
	KindClasses       = "classes"
	KindBackgrounds   = "backgrounds"
)

// Cache stores encoded values per kind. Failures are logged by the
// implementation and reported as misses so requests never fail on cache.
type Cache interface {
	Get(ctx context.Context, kind, key string) ([]byte, bool)
	Set(ctx context.Context, kind, key string, value []byte)
	Invalidate(ctx context.Context, kinds ...string)
}

// Fetch returns the cached value for kind/key or loads, stores and returns it.
func Fetch[T any](ctx context.Context, c Cache, kind, key string, load func() (T, error)) (T, error) {
	if c != nil {
		if raw, ok := c.Get(ctx, kind, key); ok {
			var v T
			if err := sonic.Unmarshal(raw, &v); err == nil {
				return v, nil
			}
			log.Printf("[WARN] cache decode %s/%s failed, reloading", kind, key)
		}
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if c != nil {
		if raw, err := sonic.Marshal(v); err == nil {
			c.Set(ctx, kind, key, raw)
		}
	}
	return v, nil
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string, string) ([]byte, bool) { return nil, false }
func (Noop) Set(context.Context, string, string, []byte)        {}
func (Noop) Invalidate(context.Context, ...string)              {}

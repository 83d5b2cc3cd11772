package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"dndbuilder_backend/internals/cache"
)

type item struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type RedisCacheTestSuite struct {
	suite.Suite
	mr    *miniredis.Miniredis
	cache *cache.Redis
	ctx   context.Context
}

func TestRedisCacheSuite(t *testing.T) {
	suite.Run(t, new(RedisCacheTestSuite))
}

func (s *RedisCacheTestSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	s.cache = cache.NewRedis(client, time.Minute)
	s.ctx = context.Background()
}

func (s *RedisCacheTestSuite) TearDownTest() {
	s.Require().NoError(s.cache.Close())
}

func (s *RedisCacheTestSuite) TestFetchLoadsOnceThenHits() {
	calls := 0
	load := func() (item, error) {
		calls++
		return item{ID: 1, Name: "Dwarf"}, nil
	}

	got, err := cache.Fetch(s.ctx, s.cache, cache.KindRaces, "1", load)
	s.Require().NoError(err)
	s.Equal("Dwarf", got.Name)

	got, err = cache.Fetch(s.ctx, s.cache, cache.KindRaces, "1", load)
	s.Require().NoError(err)
	s.Equal(item{ID: 1, Name: "Dwarf"}, got)
	s.Equal(1, calls)
}

func (s *RedisCacheTestSuite) TestInvalidateBumpsVersion() {
	calls := 0
	load := func() (item, error) {
		calls++
		return item{ID: 1, Name: "Elf"}, nil
	}

	_, err := cache.Fetch(s.ctx, s.cache, cache.KindRaces, "1", load)
	s.Require().NoError(err)

	s.cache.Invalidate(s.ctx, cache.KindRaces)
	v, err := s.mr.Get("ref:races:version")
	s.Require().NoError(err)
	s.Equal("1", v)

	_, err = cache.Fetch(s.ctx, s.cache, cache.KindRaces, "1", load)
	s.Require().NoError(err)
	s.Equal(2, calls)
}

func (s *RedisCacheTestSuite) TestInvalidateLeavesOtherKinds() {
	calls := 0
	load := func() (item, error) {
		calls++
		return item{ID: 2, Name: "Fighter"}, nil
	}
	_, err := cache.Fetch(s.ctx, s.cache, cache.KindClasses, "2", load)
	s.Require().NoError(err)

	s.cache.Invalidate(s.ctx, cache.KindRaces)

	_, err = cache.Fetch(s.ctx, s.cache, cache.KindClasses, "2", load)
	s.Require().NoError(err)
	s.Equal(1, calls)
}

func (s *RedisCacheTestSuite) TestEntriesExpire() {
	_, err := cache.Fetch(s.ctx, s.cache, cache.KindBackgrounds, "list", func() (item, error) {
		return item{ID: 3}, nil
	})
	s.Require().NoError(err)
	s.Len(s.mr.Keys(), 1)

	s.mr.FastForward(2 * time.Minute)
	s.Empty(s.mr.Keys())
}

func (s *RedisCacheTestSuite) TestLoadErrorIsNotCached() {
	boom := errors.New("boom")
	_, err := cache.Fetch(s.ctx, s.cache, cache.KindRaces, "9", func() (item, error) {
		return item{}, boom
	})
	s.ErrorIs(err, boom)
	s.Empty(s.mr.Keys())
}

func (s *RedisCacheTestSuite) TestServerDownIsAMiss() {
	s.mr.Close()
	calls := 0
	got, err := cache.Fetch(s.ctx, s.cache, cache.KindRaces, "1", func() (item, error) {
		calls++
		return item{ID: 1}, nil
	})
	s.Require().NoError(err)
	s.Equal(uint(1), got.ID)
	s.Equal(1, calls)
}

func TestNoopAlwaysLoads(t *testing.T) {
	calls := 0
	for i := 0; i < 2; i++ {
		_, err := cache.Fetch(context.Background(), cache.Noop{}, cache.KindRaces, "1", func() (item, error) {
			calls++
			return item{}, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls)
}

package geocode

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/pkg/log"
)

// Cache fronts a GeocodeCacheRepository with key normalization, max-age
// expiry and capacity eviction. Storage failures only ever produce misses.
type Cache struct {
	repo core.GeocodeCacheRepository
	cfg  core.CacheConfig
	now  func() time.Time

	evicting atomic.Bool
	pending  atomic.Bool

	// mu orders wg.Add against Shutdown's Wait.
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewCache(repo core.GeocodeCacheRepository, cfg core.CacheConfig) *Cache {
	return &Cache{
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
	}
}

// Key builds the normalized cache key for a query. ok is false when the key
// is too long to be stored.
func (c *Cache) Key(q core.AddressQuery) (key string, ok bool) {
	key = NormalizeKey(q)
	return key, utf8.RuneCountInString(key) <= c.cfg.GetMaxKeyLength()
}

// NormalizeKey lower-cases the address and collapses runs of whitespace.
func NormalizeKey(q core.AddressQuery) string {
	return strings.ToLower(strings.Join(strings.Fields(q.Line1+","+q.Line2), " "))
}

func (c *Cache) Get(ctx context.Context, q core.AddressQuery) (core.Coordinate, bool) {
	key, ok := c.Key(q)
	if !ok {
		return core.Coordinate{}, false
	}

	logger := log.FromCtx(ctx)
	entry, err := c.repo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, core.ErrCacheMiss) {
			logger.Warn().Err(err).Str("key", key).Msg("geocode cache lookup failed")
		}
		return core.Coordinate{}, false
	}

	now := c.now()
	if now.Sub(entry.LastAccess) > c.cfg.GetMaxAge() {
		if err := c.repo.Delete(ctx, key); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("failed to drop stale cache entry")
		}
		return core.Coordinate{}, false
	}

	if err := c.repo.Touch(ctx, key, now, entry.HitCount+1); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("failed to touch cache entry")
	}

	coord := entry.Coordinate
	coord.Service = core.ServiceCache
	return coord, true
}

// Put stores a coordinate and schedules capacity enforcement in the background.
func (c *Cache) Put(ctx context.Context, q core.AddressQuery, coord core.Coordinate) {
	key, ok := c.Key(q)
	if !ok {
		return
	}

	if err := c.repo.Upsert(ctx, key, coord, c.now()); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("key", key).Msg("failed to write geocode cache")
		return
	}

	c.pending.Store(true)
	if c.evicting.CompareAndSwap(false, true) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed {
			c.evicting.Store(false)
			return
		}
		c.wg.Add(1)
		go c.evictLoop(context.WithoutCancel(ctx))
	}
}

// Wait blocks until any running eviction has finished.
func (c *Cache) Wait() {
	c.wg.Wait()
}

func (c *Cache) evictLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		c.pending.Store(false)
		c.enforceCapacity(ctx)
		c.evicting.Store(false)

		// A Put that landed while we were finishing owns no goroutine; pick it up.
		if !c.pending.Load() || !c.evicting.CompareAndSwap(false, true) {
			return
		}
	}
}

func (c *Cache) enforceCapacity(ctx context.Context) {
	logger := log.FromCtx(ctx)
	maxCount := c.cfg.GetMaxCount()

	for {
		n, err := c.repo.Count(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to count cache entries")
			return
		}
		if n <= maxCount {
			return
		}

		removed, err := c.repo.EvictOldest(ctx, maxCount, c.cfg.GetEvictBatch())
		if err != nil {
			logger.Warn().Err(err).Msg("geocode cache eviction failed")
			return
		}
		logger.Info().Int64("removed", removed).Int("count", n).Msg("evicted old geocode cache entries")
		if removed == 0 {
			return
		}
	}
}

func (c *Cache) Start(ctx context.Context) error {
	return nil
}

// Shutdown stops new evictions from starting, then waits for the running one
// or gives up when ctx ends.
func (c *Cache) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

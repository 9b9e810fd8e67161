package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sandevgo/stoptext/internal/core"
)

// GeocodeCache keeps cache entries in a map. It is used for local runs and tests.
type GeocodeCache struct {
	mu      sync.Mutex
	entries map[string]core.CacheEntry
}

func NewGeocodeCache() *GeocodeCache {
	return &GeocodeCache{entries: make(map[string]core.CacheEntry)}
}

func (g *GeocodeCache) Get(_ context.Context, key string) (core.CacheEntry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry, ok := g.entries[key]
	if !ok {
		return core.CacheEntry{}, core.ErrCacheMiss
	}
	entry.Coordinate.Service = core.ServiceCache
	return entry, nil
}

func (g *GeocodeCache) Touch(_ context.Context, key string, at time.Time, hitCount int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry, ok := g.entries[key]
	if !ok {
		return nil
	}
	entry.LastAccess = at
	entry.HitCount = hitCount
	g.entries[key] = entry
	return nil
}

func (g *GeocodeCache) Upsert(_ context.Context, key string, coord core.Coordinate, at time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.entries[key] = core.CacheEntry{
		Key:        key,
		Coordinate: coord,
		LastAccess: at,
		HitCount:   1,
	}
	return nil
}

func (g *GeocodeCache) Delete(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.entries, key)
	return nil
}

func (g *GeocodeCache) Count(_ context.Context) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries), nil
}

func (g *GeocodeCache) EvictOldest(_ context.Context, keep, batch int) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.entries) <= keep {
		return 0, nil
	}

	keys := make([]string, 0, len(g.entries))
	for k := range g.entries {
		keys = append(keys, k)
	}
	// newest first, same order as the SQL backends
	sort.Slice(keys, func(i, j int) bool {
		return g.entries[keys[i]].LastAccess.After(g.entries[keys[j]].LastAccess)
	})

	var removed int64
	for _, k := range keys[keep:] {
		if int(removed) == batch {
			break
		}
		delete(g.entries, k)
		removed++
	}
	return removed, nil
}

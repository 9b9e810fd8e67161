package geocode

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandevgo/stoptext/internal/core"
)

type fakeGeocoder struct {
	name  string
	calls atomic.Int32
	delay time.Duration
	fn    func(line1, line2 string) (core.Coordinate, error)

	mu         sync.Mutex
	localities []string
}

func newFakeGeocoder(name string, fn func(line1, line2 string) (core.Coordinate, error)) *fakeGeocoder {
	return &fakeGeocoder{name: name, fn: fn}
}

func (f *fakeGeocoder) Name() string {
	return f.name
}

func (f *fakeGeocoder) Geocode(ctx context.Context, line1, line2 string) (core.Coordinate, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.localities = append(f.localities, line2)
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.fn(line1, line2)
}

func returns(name string, quality float64) func(string, string) (core.Coordinate, error) {
	return func(string, string) (core.Coordinate, error) {
		return core.Coordinate{Lat: 42.35, Lon: -83.06, Quality: quality, Service: name}, nil
	}
}

func fails(name string, err error) func(string, string) (core.Coordinate, error) {
	return func(string, string) (core.Coordinate, error) {
		return core.Coordinate{}, core.NewProviderError(name, err)
	}
}

type resolverConfig struct {
	threshold float64
	home      string
	alternate string
}

func (c resolverConfig) GetQualityThreshold() float64 {
	return c.threshold
}

func (c resolverConfig) GetHomeLocality() string {
	return c.home
}

func (c resolverConfig) GetAlternateLocality() string {
	return c.alternate
}

type cacheConfig struct {
	maxCount  int
	maxAge    time.Duration
	maxKeyLen int
	batch     int
}

func (c cacheConfig) GetMaxCount() int {
	return c.maxCount
}

func (c cacheConfig) GetMaxAge() time.Duration {
	return c.maxAge
}

func (c cacheConfig) GetMaxKeyLength() int {
	return c.maxKeyLen
}

func (c cacheConfig) GetEvictBatch() int {
	return c.batch
}

func defaultCacheConfig() cacheConfig {
	return cacheConfig{maxCount: 9500, maxAge: 30 * 24 * time.Hour, maxKeyLen: 50, batch: 1000}
}

// countingRepo wraps a repository and counts calls into it.
type countingRepo struct {
	core.GeocodeCacheRepository
	gets    atomic.Int32
	upserts atomic.Int32
}

func (c *countingRepo) Get(ctx context.Context, key string) (core.CacheEntry, error) {
	c.gets.Add(1)
	return c.GeocodeCacheRepository.Get(ctx, key)
}

func (c *countingRepo) Upsert(ctx context.Context, key string, coord core.Coordinate, at time.Time) error {
	c.upserts.Add(1)
	return c.GeocodeCacheRepository.Upsert(ctx, key, coord, at)
}

type recordingRecorder struct {
	mu     sync.Mutex
	events []core.Event
}

func (r *recordingRecorder) Record(ctx context.Context, e core.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingRecorder) kinds() []core.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.EventKind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

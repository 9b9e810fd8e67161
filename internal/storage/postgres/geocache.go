package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sandevgo/stoptext/internal/core"
)

// GeocodeCache is the Postgres backend of the geocode cache.
type GeocodeCache struct {
	store *Store
}

func NewGeocodeCache(store *Store) *GeocodeCache {
	return &GeocodeCache{store: store}
}

func (g *GeocodeCache) Get(ctx context.Context, key string) (core.CacheEntry, error) {
	row := g.store.pool.QueryRow(ctx, `
		SELECT cache_key, timestamp, lon, lat, count, quality
		FROM geocoder_cache
		WHERE cache_key = $1`,
		key,
	)

	var (
		entry   core.CacheEntry
		quality float32
	)
	err := row.Scan(&entry.Key, &entry.LastAccess, &entry.Coordinate.Lon, &entry.Coordinate.Lat, &entry.HitCount, &quality)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.CacheEntry{}, core.ErrCacheMiss
	}
	if err != nil {
		return core.CacheEntry{}, fmt.Errorf("get cache entry: %w", err)
	}

	entry.Coordinate.Quality = float64(quality)
	entry.Coordinate.Service = core.ServiceCache
	return entry, nil
}

func (g *GeocodeCache) Touch(ctx context.Context, key string, at time.Time, hitCount int) error {
	_, err := g.store.pool.Exec(ctx, `
		UPDATE geocoder_cache SET timestamp = $2, count = $3 WHERE cache_key = $1`,
		key, at, hitCount,
	)
	if err != nil {
		return fmt.Errorf("touch cache entry: %w", err)
	}
	return nil
}

func (g *GeocodeCache) Upsert(ctx context.Context, key string, coord core.Coordinate, at time.Time) error {
	_, err := g.store.pool.Exec(ctx, `
		INSERT INTO geocoder_cache (cache_key, timestamp, lon, lat, count, quality)
		VALUES ($1, $2, $3, $4, 1, $5)
		ON CONFLICT (cache_key)
		DO UPDATE SET
			timestamp = $2,
			lon = $3,
			lat = $4,
			count = 1,
			quality = $5`,
		key, at, coord.Lon, coord.Lat, float32(coord.Quality),
	)
	if err != nil {
		return fmt.Errorf("upsert cache entry: %w", err)
	}
	return nil
}

func (g *GeocodeCache) Delete(ctx context.Context, key string) error {
	if _, err := g.store.pool.Exec(ctx, `DELETE FROM geocoder_cache WHERE cache_key = $1`, key); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

func (g *GeocodeCache) Count(ctx context.Context) (int, error) {
	var n int
	if err := g.store.pool.QueryRow(ctx, `SELECT COUNT(*) FROM geocoder_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cache entries: %w", err)
	}
	return n, nil
}

func (g *GeocodeCache) EvictOldest(ctx context.Context, keep, batch int) (int64, error) {
	tag, err := g.store.pool.Exec(ctx, `
		DELETE FROM geocoder_cache WHERE cache_key IN (
			SELECT cache_key FROM geocoder_cache ORDER BY timestamp DESC LIMIT $1 OFFSET $2
		)`,
		batch, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("evict cache entries: %w", err)
	}
	return tag.RowsAffected(), nil
}

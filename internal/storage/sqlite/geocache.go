package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/stoptext/internal/core"
)

// GeocodeCache stores resolved addresses in the geocoder_cache table.
// Timestamps are unix nanoseconds so ordering is numeric.
type GeocodeCache struct {
	db *sql.DB
}

func NewGeocodeCache(db *sql.DB) *GeocodeCache {
	return &GeocodeCache{db: db}
}

func (g *GeocodeCache) Get(ctx context.Context, key string) (core.CacheEntry, error) {
	query := `SELECT cache_key, timestamp, lon, lat, count, quality FROM geocoder_cache WHERE cache_key = ?`

	var (
		entry core.CacheEntry
		ts    int64
	)
	err := g.db.QueryRowContext(ctx, query, key).Scan(
		&entry.Key, &ts, &entry.Coordinate.Lon, &entry.Coordinate.Lat, &entry.HitCount, &entry.Coordinate.Quality,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return core.CacheEntry{}, core.ErrCacheMiss
	}
	if err != nil {
		return core.CacheEntry{}, fmt.Errorf("failed to query cache entry: %w", err)
	}

	entry.LastAccess = time.Unix(0, ts).UTC()
	entry.Coordinate.Service = core.ServiceCache
	return entry, nil
}

func (g *GeocodeCache) Touch(ctx context.Context, key string, at time.Time, hitCount int) error {
	query := `UPDATE geocoder_cache SET timestamp = ?, count = ? WHERE cache_key = ?`
	if _, err := g.db.ExecContext(ctx, query, at.UnixNano(), hitCount, key); err != nil {
		return fmt.Errorf("failed to touch cache entry: %w", err)
	}
	return nil
}

func (g *GeocodeCache) Upsert(ctx context.Context, key string, coord core.Coordinate, at time.Time) error {
	query := `
		INSERT INTO geocoder_cache (cache_key, timestamp, lon, lat, count, quality)
		VALUES (?, ?, ?, ?, 1, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			timestamp = excluded.timestamp,
			lon = excluded.lon,
			lat = excluded.lat,
			count = 1,
			quality = excluded.quality`

	if _, err := g.db.ExecContext(ctx, query, key, at.UnixNano(), coord.Lon, coord.Lat, coord.Quality); err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}
	return nil
}

func (g *GeocodeCache) Delete(ctx context.Context, key string) error {
	if _, err := g.db.ExecContext(ctx, `DELETE FROM geocoder_cache WHERE cache_key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

func (g *GeocodeCache) Count(ctx context.Context) (int, error) {
	var n int
	if err := g.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM geocoder_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}

func (g *GeocodeCache) EvictOldest(ctx context.Context, keep, batch int) (int64, error) {
	query := `
		DELETE FROM geocoder_cache WHERE cache_key IN (
			SELECT cache_key FROM geocoder_cache ORDER BY timestamp DESC LIMIT ? OFFSET ?
		)`

	res, err := g.db.ExecContext(ctx, query, batch, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to evict cache entries: %w", err)
	}
	return res.RowsAffected()
}

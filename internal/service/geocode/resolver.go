package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/pkg/log"
)

// Resolver turns an address into a coordinate. It consults the cache, then
// the primary geocoder, then every secondary geocoder in parallel, keeping
// the best result by quality.
type Resolver struct {
	cache       *Cache
	primary     core.Geocoder
	secondaries []core.Geocoder
	cfg         core.ResolverConfig
	recorder    core.Recorder
}

func NewResolver(cache *Cache, primary core.Geocoder, secondaries []core.Geocoder, cfg core.ResolverConfig, recorder core.Recorder) *Resolver {
	return &Resolver{
		cache:       cache,
		primary:     primary,
		secondaries: secondaries,
		cfg:         cfg,
		recorder:    recorder,
	}
}

type candidate struct {
	coord    core.Coordinate
	priority int
}

func (r *Resolver) Resolve(ctx context.Context, q core.AddressQuery) (core.Coordinate, error) {
	q = q.WithLocality(r.cfg.GetHomeLocality())
	logger := log.FromCtx(ctx).With().Str("address", q.Line1).Logger()
	threshold := r.cfg.GetQualityThreshold()

	if r.cache != nil {
		if coord, ok := r.cache.Get(ctx, q); ok {
			logger.Debug().Msg("geocode cache hit")
			return coord, nil
		}
	}
	r.record(ctx, core.EventCacheMiss)

	var (
		candidates []candidate
		errs       error
	)

	coord, err := r.primary.Geocode(ctx, q.Line1, q.Line2)
	if errors.Is(err, core.ErrDefaultLocation) {
		alt := r.cfg.GetAlternateLocality()
		if alt == "" || strings.EqualFold(alt, q.Line2) {
			return core.Coordinate{}, fmt.Errorf("%w: %w", core.ErrBadLocation, err)
		}
		logger.Debug().Str("locality", alt).Msg("primary returned a default pin, retrying")

		coord, err = r.primary.Geocode(core.WithFollowUp(ctx), q.Line1, alt)
		if errors.Is(err, core.ErrDefaultLocation) {
			return core.Coordinate{}, fmt.Errorf("%w: %w", core.ErrBadLocation, err)
		}
	}

	switch {
	case err == nil && coord.Quality >= threshold:
		r.store(ctx, q, coord)
		return coord, nil
	case err == nil:
		candidates = append(candidates, candidate{coord: coord, priority: 0})
	default:
		logger.Debug().Err(err).Msg("primary geocoder failed")
		errs = multierr.Append(errs, err)
	}

	found, fallbackErrs := r.fallback(ctx, q)
	candidates = append(candidates, found...)
	errs = multierr.Append(errs, fallbackErrs)

	best, ok := pickBest(candidates)
	if !ok {
		return core.Coordinate{}, fmt.Errorf("%w: %w", core.ErrAllProvidersFailed, errs)
	}

	if best.Quality >= threshold {
		r.store(ctx, q, best)
	} else {
		logger.Info().Str("service", best.Service).Float64("quality", best.Quality).Msg("using low quality geocode")
	}
	return best, nil
}

// fallback calls every secondary concurrently and waits for all of them.
// Failures are collected and never cancel the other calls.
func (r *Resolver) fallback(ctx context.Context, q core.AddressQuery) ([]candidate, error) {
	type outcome struct {
		coord core.Coordinate
		err   error
	}
	outcomes := make([]outcome, len(r.secondaries))

	var g errgroup.Group
	for i, geocoder := range r.secondaries {
		g.Go(func() error {
			coord, err := geocoder.Geocode(ctx, q.Line1, q.Line2)
			outcomes[i] = outcome{coord: coord, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var (
		found []candidate
		errs  error
	)
	for i, o := range outcomes {
		if o.err != nil {
			errs = multierr.Append(errs, o.err)
			continue
		}
		found = append(found, candidate{coord: o.coord, priority: i + 1})
	}
	return found, errs
}

// pickBest returns the highest quality candidate, preferring higher priority on ties.
func pickBest(candidates []candidate) (core.Coordinate, bool) {
	if len(candidates) == 0 {
		return core.Coordinate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.coord.Quality > best.coord.Quality ||
			(c.coord.Quality == best.coord.Quality && c.priority < best.priority) {
			best = c
		}
	}
	return best.coord, true
}

func (r *Resolver) store(ctx context.Context, q core.AddressQuery, coord core.Coordinate) {
	log.FromCtx(ctx).Debug().Str("service", coord.Service).Float64("quality", coord.Quality).Msg("geocoded")
	if r.cache != nil {
		r.cache.Put(ctx, q, coord)
	}
}

func (r *Resolver) record(ctx context.Context, kind core.EventKind) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.Record(ctx, core.NewEvent(kind, "")); err != nil {
		log.FromCtx(ctx).Debug().Err(err).Str("kind", string(kind)).Msg("failed to record usage")
	}
}

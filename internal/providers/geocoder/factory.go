package geocoder

import (
	"context"
	"fmt"

	"github.com/sandevgo/stoptext/internal/config"
	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/pkg/log"
)

// NewGeocoders builds the primary and secondary providers from configuration.
// Secondaries missing a credential are skipped with a warning.
func NewGeocoders(ctx context.Context, cfg *config.GeocoderConfig, limiter *RateLimiter) (core.Geocoder, []core.Geocoder, error) {
	logger := log.FromCtx(ctx)

	for _, name := range append([]string{cfg.Primary}, cfg.Secondaries...) {
		if d := cfg.MinInterval(name); d > 0 {
			limiter.SetInterval(name, d)
		}
	}

	primary, err := NewGeocoder(cfg.Primary, cfg, limiter)
	if err != nil {
		return nil, nil, fmt.Errorf("primary geocoder: %w", err)
	}

	secondaries := make([]core.Geocoder, 0, len(cfg.Secondaries))
	for _, name := range cfg.Secondaries {
		if name == cfg.Primary {
			continue
		}
		g, err := NewGeocoder(name, cfg, limiter)
		if err != nil {
			logger.Warn().Err(err).Str("service", name).Msg("skipping secondary geocoder")
			continue
		}
		secondaries = append(secondaries, g)
	}

	logger.Info().
		Str("primary", primary.Name()).
		Int("secondaries", len(secondaries)).
		Msg("geocoders ready")

	return primary, secondaries, nil
}

// NewGeocoder creates a single provider by name.
func NewGeocoder(name string, cfg *config.GeocoderConfig, limiter *RateLimiter) (core.Geocoder, error) {
	switch name {
	case NameArcGIS:
		return NewArcGIS(cfg.ArcGISURL, cfg.Timeout, limiter), nil
	case NamePelias:
		if cfg.PeliasKey == "" {
			return nil, fmt.Errorf("%s: PELIAS_API_KEY is not set", name)
		}
		return NewPelias(cfg.PeliasURL, cfg.PeliasKey, DetroitBounds, cfg.Timeout, limiter), nil
	case NameNominatim:
		return NewNominatim(cfg.NominatimURL, cfg.Timeout, limiter), nil
	case NameGoogle:
		if cfg.GoogleKey == "" {
			return nil, fmt.Errorf("%s: GOOGLE_API_KEY is not set", name)
		}
		return NewGoogle(cfg.GoogleURL, cfg.GoogleKey, cfg.Timeout, limiter), nil
	default:
		return nil, fmt.Errorf("unknown geocoder: %s", name)
	}
}

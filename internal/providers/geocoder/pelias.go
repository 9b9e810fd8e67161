package geocoder

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/stoptext/internal/core"
)

const (
	NamePelias = "pelias"

	peliasMinConfidence = 0.85
)

// BoundingBox restricts search results to the service area.
type BoundingBox struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

// DetroitBounds is roughly Detroit plus some of Dearborn.
var DetroitBounds = BoundingBox{
	MinLat: 42.2549507,
	MinLon: -83.3670043,
	MaxLat: 42.5146262,
	MaxLon: -82.8465270,
}

var peliasDefaultLayers = map[string]bool{
	"locality":   true,
	"localadmin": true,
	"county":     true,
	"region":     true,
	"country":    true,
}

// Pelias queries a Pelias /v1/search endpoint (Mapzen, geocode.earth).
type Pelias struct {
	baseGeocoder
	apiKey string
	bounds BoundingBox
}

func NewPelias(endpoint, apiKey string, bounds BoundingBox, timeout time.Duration, limiter *RateLimiter) *Pelias {
	return &Pelias{
		baseGeocoder: newBaseGeocoder(NamePelias, endpoint, timeout, limiter),
		apiKey:       apiKey,
		bounds:       bounds,
	}
}

func (p *Pelias) Geocode(ctx context.Context, line1, line2 string) (core.Coordinate, error) {
	params := url.Values{}
	params.Set("text", strings.TrimSpace(line1+" "+line2))
	params.Set("size", "1")
	params.Set("boundary.rect.min_lat", formatDegrees(p.bounds.MinLat))
	params.Set("boundary.rect.min_lon", formatDegrees(p.bounds.MinLon))
	params.Set("boundary.rect.max_lat", formatDegrees(p.bounds.MaxLat))
	params.Set("boundary.rect.max_lon", formatDegrees(p.bounds.MaxLon))
	if p.apiKey != "" {
		params.Set("api_key", p.apiKey)
	}

	var resp struct {
		Features []struct {
			Geometry struct {
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties struct {
				Confidence float64 `json:"confidence"`
				Layer      string  `json:"layer"`
				Label      string  `json:"label"`
			} `json:"properties"`
		} `json:"features"`
	}
	if err := p.getJSON(ctx, params, &resp); err != nil {
		return core.Coordinate{}, err
	}

	if len(resp.Features) == 0 || len(resp.Features[0].Geometry.Coordinates) < 2 {
		return core.Coordinate{}, p.fail(core.ErrNoResults)
	}

	top := resp.Features[0]
	if top.Properties.Confidence < peliasMinConfidence {
		return core.Coordinate{}, p.fail(fmt.Errorf("%w: confidence %.2f", core.ErrLowQuality, top.Properties.Confidence))
	}
	if peliasDefaultLayers[top.Properties.Layer] {
		return core.Coordinate{}, p.fail(fmt.Errorf("%w: %s layer", core.ErrDefaultLocation, top.Properties.Layer))
	}

	return core.Coordinate{
		Lat:     top.Geometry.Coordinates[1],
		Lon:     top.Geometry.Coordinates[0],
		Quality: top.Properties.Confidence * 100,
		Service: p.name,
	}, nil
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

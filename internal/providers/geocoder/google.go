package geocoder

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sandevgo/stoptext/internal/core"
)

const NameGoogle = "google"

var googleLocationQuality = map[string]float64{
	"ROOFTOP":            100,
	"RANGE_INTERPOLATED": 80,
	"GEOMETRIC_CENTER":   60,
	"APPROXIMATE":        30,
}

const googlePartialMatchPenalty = 20

// Google queries the Google Maps Geocoding API.
type Google struct {
	baseGeocoder
	apiKey string
}

func NewGoogle(endpoint, apiKey string, timeout time.Duration, limiter *RateLimiter) *Google {
	return &Google{
		baseGeocoder: newBaseGeocoder(NameGoogle, endpoint, timeout, limiter),
		apiKey:       apiKey,
	}
}

func (g *Google) Geocode(ctx context.Context, line1, line2 string) (core.Coordinate, error) {
	params := url.Values{}
	params.Set("address", strings.TrimSpace(line1)+", "+strings.TrimSpace(line2))
	params.Set("key", g.apiKey)

	var resp struct {
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
		Results      []struct {
			Types        []string `json:"types"`
			PartialMatch bool     `json:"partial_match"`
			Geometry     struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
				LocationType string `json:"location_type"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := g.getJSON(ctx, params, &resp); err != nil {
		return core.Coordinate{}, err
	}

	switch resp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return core.Coordinate{}, g.fail(core.ErrNoResults)
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		return core.Coordinate{}, g.fail(core.ErrRateLimited)
	default:
		return core.Coordinate{}, g.fail(fmt.Errorf("%w: status %s: %s", core.ErrTransport, resp.Status, resp.ErrorMessage))
	}

	if len(resp.Results) == 0 {
		return core.Coordinate{}, g.fail(core.ErrNoResults)
	}

	top := resp.Results[0]
	if isLocalityOnly(top.Types) {
		return core.Coordinate{}, g.fail(fmt.Errorf("%w: %s", core.ErrDefaultLocation, strings.Join(top.Types, ",")))
	}

	quality := googleLocationQuality[top.Geometry.LocationType]
	if top.PartialMatch {
		quality -= googlePartialMatchPenalty
	}
	if quality < 0 {
		quality = 0
	}

	return core.Coordinate{
		Lat:     top.Geometry.Location.Lat,
		Lon:     top.Geometry.Location.Lng,
		Quality: quality,
		Service: g.name,
	}, nil
}

func isLocalityOnly(types []string) bool {
	if len(types) == 0 {
		return false
	}
	for _, t := range types {
		if t != "locality" && t != "political" {
			return false
		}
	}
	return true
}

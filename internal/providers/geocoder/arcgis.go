package geocoder

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sandevgo/stoptext/internal/core"
)

const (
	NameArcGIS = "arcgis"

	arcgisMinScore = 50
)

// arcgisDefaultTypes are match types the City of Detroit geocoder returns
// when it could only place the whole city or a zip code.
var arcgisDefaultTypes = map[string]bool{
	"Locality":  true,
	"Postal":    true,
	"PostalLoc": true,
	"Zone":      true,
}

// ArcGIS queries the City of Detroit composite geocoder.
type ArcGIS struct {
	baseGeocoder
}

func NewArcGIS(endpoint string, timeout time.Duration, limiter *RateLimiter) *ArcGIS {
	return &ArcGIS{baseGeocoder: newBaseGeocoder(NameArcGIS, endpoint, timeout, limiter)}
}

func (a *ArcGIS) Geocode(ctx context.Context, line1, line2 string) (core.Coordinate, error) {
	params := url.Values{}
	params.Set("SingleLine", strings.TrimSpace(line1))
	params.Set("f", "pjson")
	params.Set("outSR", "4326")
	params.Set("outFields", "Addr_type")
	params.Set("maxLocations", "1")

	var resp struct {
		Candidates []struct {
			Address  string `json:"address"`
			Location struct {
				X float64 `json:"x"`
				Y float64 `json:"y"`
			} `json:"location"`
			Score      float64 `json:"score"`
			Attributes struct {
				AddrType string `json:"Addr_type"`
			} `json:"attributes"`
		} `json:"candidates"`
	}
	if err := a.getJSON(ctx, params, &resp); err != nil {
		return core.Coordinate{}, err
	}

	if len(resp.Candidates) == 0 {
		return core.Coordinate{}, a.fail(core.ErrNoResults)
	}

	top := resp.Candidates[0]
	if top.Score < arcgisMinScore {
		return core.Coordinate{}, a.fail(fmt.Errorf("%w: score %.0f", core.ErrLowQuality, top.Score))
	}
	if arcgisDefaultTypes[top.Attributes.AddrType] {
		return core.Coordinate{}, a.fail(fmt.Errorf("%w: %s match", core.ErrDefaultLocation, top.Attributes.AddrType))
	}

	return core.Coordinate{
		Lat:     top.Location.Y,
		Lon:     top.Location.X,
		Quality: top.Score,
		Service: a.name,
	}, nil
}

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

const NameNominatim = "nominatim"

// Quality assigned by the kind of OSM object matched.
const (
	nominatimHouseQuality  = 90
	nominatimStreetQuality = 75
	nominatimOtherQuality  = 50
)

var nominatimDefaultTypes = map[string]bool{
	"city":    true,
	"town":    true,
	"village": true,
	"county":  true,
	"state":   true,
}

// Nominatim queries the OpenStreetMap search API. Its usage policy allows at
// most one request per second, which the rate limiter enforces.
type Nominatim struct {
	baseGeocoder
}

func NewNominatim(endpoint string, timeout time.Duration, limiter *RateLimiter) *Nominatim {
	return &Nominatim{baseGeocoder: newBaseGeocoder(NameNominatim, endpoint, timeout, limiter)}
}

func (n *Nominatim) Geocode(ctx context.Context, line1, line2 string) (core.Coordinate, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("limit", "1")
	params.Set("q", fmt.Sprintf("%s, %s, USA", strings.TrimSpace(line1), strings.TrimSpace(line2)))

	var resp []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		Category    string `json:"category"`
		Type        string `json:"type"`
		AddressType string `json:"addresstype"`
	}
	if err := n.getJSON(ctx, params, &resp); err != nil {
		return core.Coordinate{}, err
	}

	if len(resp) == 0 {
		return core.Coordinate{}, n.fail(core.ErrNoResults)
	}

	top := resp[0]
	if nominatimDefaultTypes[top.AddressType] {
		return core.Coordinate{}, n.fail(fmt.Errorf("%w: %s", core.ErrDefaultLocation, top.AddressType))
	}

	lat, err := strconv.ParseFloat(top.Lat, 64)
	if err != nil {
		return core.Coordinate{}, n.fail(fmt.Errorf("%w: bad lat %q", core.ErrTransport, top.Lat))
	}
	lon, err := strconv.ParseFloat(top.Lon, 64)
	if err != nil {
		return core.Coordinate{}, n.fail(fmt.Errorf("%w: bad lon %q", core.ErrTransport, top.Lon))
	}

	return core.Coordinate{
		Lat:     lat,
		Lon:     lon,
		Quality: nominatimQuality(top.Category, top.Type, top.AddressType),
		Service: n.name,
	}, nil
}

func nominatimQuality(category, typ, addressType string) float64 {
	switch {
	case typ == "house" || addressType == "house" || addressType == "building" || category == "building":
		return nominatimHouseQuality
	case category == "highway" || addressType == "road":
		return nominatimStreetQuality
	default:
		return nominatimOtherQuality
	}
}

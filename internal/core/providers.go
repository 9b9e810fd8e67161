package core

import "context"

// Geocoder is implemented by every backing geocoding service.
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, line1, line2 string) (Coordinate, error)
}

type followUpKey struct{}

// WithFollowUp marks ctx as carrying an immediate retry of a geocode call
// that the provider's rate limiter already admitted.
func WithFollowUp(ctx context.Context) context.Context {
	return context.WithValue(ctx, followUpKey{}, true)
}

// IsFollowUp reports whether ctx was marked by WithFollowUp.
func IsFollowUp(ctx context.Context) bool {
	v, _ := ctx.Value(followUpKey{}).(bool)
	return v
}

// TransitDirectory is the read-only source of stops and arrivals.
type TransitDirectory interface {
	StopsNear(ctx context.Context, at Coordinate) ([]Stop, error)
	ArrivalsFor(ctx context.Context, stopID string) (StopArrivals, error)
	HeadsignsFor(ctx context.Context, stopID string) ([]string, error)
	Stop(ctx context.Context, stopID string) (Stop, error)
	Routes(ctx context.Context) ([]Route, error)
}

// Recorder receives usage events. Implementations must not block the caller for long.
type Recorder interface {
	Record(ctx context.Context, event Event) error
}

// AddressResolver turns a free text address into a coordinate.
type AddressResolver interface {
	Resolve(ctx context.Context, q AddressQuery) (Coordinate, error)
}

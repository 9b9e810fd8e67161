package conversation

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandevgo/stoptext/internal/core"
)

var t0 = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

type fakeDirectory struct {
	stops     []core.Stop
	arrivals  map[string][]core.Arrival
	headsigns map[string][]string
	fail      error
	stopFail  error

	nearCalls     atomic.Int32
	arrivalCalls  atomic.Int32
	headsignCalls atomic.Int32
	stopCalls     atomic.Int32
}

func (d *fakeDirectory) StopsNear(context.Context, core.Coordinate) ([]core.Stop, error) {
	d.nearCalls.Add(1)
	if d.fail != nil {
		return nil, d.fail
	}
	if len(d.stops) == 0 {
		return nil, core.ErrNoStopsFound
	}
	return d.stops, nil
}

func (d *fakeDirectory) ArrivalsFor(_ context.Context, stopID string) (core.StopArrivals, error) {
	d.arrivalCalls.Add(1)
	stop, err := d.lookup(stopID)
	if err != nil {
		return core.StopArrivals{}, core.ErrNoArrivalData
	}
	return core.StopArrivals{ServerNow: t0, Stop: stop, Arrivals: d.arrivals[stop.ID]}, nil
}

func (d *fakeDirectory) HeadsignsFor(_ context.Context, stopID string) ([]string, error) {
	d.headsignCalls.Add(1)
	return d.headsigns[stopID], nil
}

func (d *fakeDirectory) Stop(_ context.Context, stopID string) (core.Stop, error) {
	d.stopCalls.Add(1)
	if d.stopFail != nil {
		return core.Stop{}, d.stopFail
	}
	return d.lookup(stopID)
}

func (d *fakeDirectory) Routes(context.Context) ([]core.Route, error) {
	return nil, nil
}

func (d *fakeDirectory) lookup(stopID string) (core.Stop, error) {
	for _, s := range d.stops {
		if s.ID == stopID || s.ID == "DDOT_"+stopID {
			return s, nil
		}
	}
	return core.Stop{}, core.ErrNoStopsFound
}

type fakeGeocoder struct {
	calls atomic.Int32
	err   error
}

func (g *fakeGeocoder) Name() string {
	return "fake"
}

func (g *fakeGeocoder) Geocode(context.Context, string, string) (core.Coordinate, error) {
	g.calls.Add(1)
	if g.err != nil {
		return core.Coordinate{}, g.err
	}
	return core.Coordinate{Lat: 42.3559, Lon: -83.0634, Quality: 90, Service: "fake"}, nil
}

type recordingRecorder struct {
	mu     sync.Mutex
	events []core.Event
}

func (r *recordingRecorder) Record(_ context.Context, e core.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingRecorder) count(kind core.EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

type resolverConfig struct{}

func (resolverConfig) GetQualityThreshold() float64 {
	return 50
}

func (resolverConfig) GetHomeLocality() string {
	return "Detroit, MI"
}

func (resolverConfig) GetAlternateLocality() string {
	return ""
}

type conversationConfig struct {
	nearby   int
	menuSize int
}

func (c conversationConfig) GetNearbyStops() int {
	return c.nearby
}

func (c conversationConfig) GetMenuSize() int {
	return c.menuSize
}

func (c conversationConfig) GetLookahead() time.Duration {
	return time.Hour
}

func predicted(headsign string, in time.Duration) core.Arrival {
	at := t0.Add(in)
	return core.Arrival{Headsign: headsign, ScheduledTime: at, Predicted: true, PredictedTime: at}
}

func scheduled(headsign string, in time.Duration) core.Arrival {
	return core.Arrival{Headsign: headsign, ScheduledTime: t0.Add(in)}
}

package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/internal/service/messages"
)

type stubResolver struct {
	coord core.Coordinate
	err   error
	last  core.AddressQuery
}

func (r *stubResolver) Resolve(_ context.Context, q core.AddressQuery) (core.Coordinate, error) {
	r.last = q
	return r.coord, r.err
}

type stubDirectory struct {
	stops  []core.Stop
	routes []core.Route
	err    error
}

func (d *stubDirectory) StopsNear(context.Context, core.Coordinate) ([]core.Stop, error) {
	return d.stops, d.err
}

func (d *stubDirectory) ArrivalsFor(context.Context, string) (core.StopArrivals, error) {
	return core.StopArrivals{}, d.err
}

func (d *stubDirectory) HeadsignsFor(context.Context, string) ([]string, error) {
	return nil, d.err
}

func (d *stubDirectory) Stop(context.Context, string) (core.Stop, error) {
	return core.Stop{}, d.err
}

func (d *stubDirectory) Routes(context.Context) ([]core.Route, error) {
	return d.routes, d.err
}

func shortID(id string) string {
	if len(id) > 5 && id[:5] == "DDOT_" {
		return id[5:]
	}
	return id
}

func newTestRouter(res *stubResolver, dir *stubDirectory) *Router {
	return NewDiagnostics(res, dir, messages.Default(), shortID)
}

func TestRouter_IgnoresNonDiagnosticInput(t *testing.T) {
	r := newTestRouter(&stubResolver{}, &stubDirectory{})

	for _, input := range []string{"woodward and warren", "testing", "A", "", "/test near x"} {
		_, ok := r.Execute(context.Background(), "caller", input)
		assert.False(t, ok, input)
	}
}

func TestRouter_Near(t *testing.T) {
	res := &stubResolver{coord: core.Coordinate{Lat: 42.35, Lon: -83.06}}
	dir := &stubDirectory{stops: []core.Stop{
		{ID: "DDOT_1", Name: "Woodward & Warren"},
		{ID: "DDOT_2", Name: "Cass & Warren"},
	}}
	r := newTestRouter(res, dir)

	out, ok := r.Execute(context.Background(), "caller", "TEST near woodward and warren")
	require.True(t, ok)
	assert.Equal(t, "nearby stops: 1: Woodward & Warren 2: Cass & Warren", out)
	assert.Equal(t, "woodward and warren", res.last.Line1)
}

func TestRouter_Geocode(t *testing.T) {
	res := &stubResolver{coord: core.Coordinate{Lat: 42.3559, Lon: -83.0634, Quality: 90, Service: "arcgis"}}
	r := newTestRouter(res, &stubDirectory{})

	out, ok := r.Execute(context.Background(), "caller", "  test geocode woodward and warren")
	require.True(t, ok)
	assert.Equal(t, "42.355900, -83.063400 (arcgis, quality 90)", out)
}

func TestRouter_Routes(t *testing.T) {
	dir := &stubDirectory{routes: []core.Route{{ShortName: "4"}, {ShortName: "16"}, {ShortName: "53"}}}
	r := newTestRouter(&stubResolver{}, dir)

	out, ok := r.Execute(context.Background(), "caller", "test routes")
	require.True(t, ok)
	assert.Equal(t, "Routes: 4 16 53", out)
}

func TestRouter_UnknownCommand(t *testing.T) {
	r := newTestRouter(&stubResolver{}, &stubDirectory{})

	for _, input := range []string{"test", "test bogus", "Test   frobnicate now"} {
		out, ok := r.Execute(context.Background(), "caller", input)
		require.True(t, ok, input)
		assert.Equal(t, "Did not understand the command", out)
	}
}

func TestRouter_CommandFailureReturnsGenericReply(t *testing.T) {
	res := &stubResolver{err: errors.New("boom")}
	r := newTestRouter(res, &stubDirectory{})

	out, ok := r.Execute(context.Background(), "caller", "test geocode nowhere")
	require.True(t, ok)
	assert.Equal(t, messages.Default().GenericFail, out)
}

func TestRouter_MissingArgumentsShowUsage(t *testing.T) {
	r := newTestRouter(&stubResolver{}, &stubDirectory{})

	out, ok := r.Execute(context.Background(), "caller", "test near")
	require.True(t, ok)
	assert.Equal(t, "Usage: test near <address>", out)
}

func TestRouter_ListCommands(t *testing.T) {
	r := newTestRouter(&stubResolver{}, &stubDirectory{})

	var names []string
	for _, c := range r.ListCommands() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"near", "geocode", "routes"}, names)
}

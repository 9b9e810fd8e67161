package transit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/stoptext/internal/config"
	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/pkg/geo"
	"github.com/sandevgo/stoptext/pkg/log"
	"github.com/sandevgo/stoptext/pkg/retry"
)

const maxResponseSize = 4 << 20

// OneBusAway reads stops and arrivals from a OneBusAway REST API.
type OneBusAway struct {
	client    *http.Client
	retrier   *retry.Retrier
	baseURL   string
	apiKey    string
	agency    string
	radius    int
	lookahead time.Duration
}

func NewOneBusAway(cfg *config.TransitConfig) *OneBusAway {
	return &OneBusAway{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		retrier:   retry.NewDefaultRetrier(),
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		agency:    cfg.Agency,
		radius:    cfg.Radius,
		lookahead: cfg.Lookahead,
	}
}

// WithRetrier replaces the retry policy.
func (o *OneBusAway) WithRetrier(r *retry.Retrier) *OneBusAway {
	o.retrier = r
	return o
}

// envelope is the common OBA response wrapper.
type envelope struct {
	Code        int             `json:"code"`
	CurrentTime int64           `json:"currentTime"`
	Text        string          `json:"text"`
	Data        json.RawMessage `json:"data"`
}

type obaStop struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// errNotFound marks an OBA 404, mapped to a domain error by each caller.
var errNotFound = errors.New("not found")

func (o *OneBusAway) get(ctx context.Context, endpoint string, params url.Values, data any) (time.Time, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("key", o.apiKey)
	reqURL := fmt.Sprintf("%s/%s.json?%s", o.baseURL, endpoint, params.Encode())

	var env envelope
	err := o.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return retry.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("User-Agent", core.AppUserAgent)

		resp, err := o.client.Do(req)
		if err != nil {
			return fmt.Errorf("request %s: %w", endpoint, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return retry.Permanent(errNotFound)
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return retry.Permanent(fmt.Errorf("http %d: %s", resp.StatusCode, resp.Status))
		case resp.StatusCode >= 500:
			return fmt.Errorf("http %d: %s", resp.StatusCode, resp.Status)
		}

		if err := json.Unmarshal(body, &env); err != nil {
			return retry.Permanent(fmt.Errorf("decode envelope: %w", err))
		}
		if env.Code == http.StatusNotFound {
			return retry.Permanent(errNotFound)
		}
		if env.Code != 0 && env.Code != http.StatusOK {
			return retry.Permanent(fmt.Errorf("oba code %d: %s", env.Code, env.Text))
		}
		return nil
	})
	if err != nil {
		return time.Time{}, err
	}

	if err := json.Unmarshal(env.Data, data); err != nil {
		return time.Time{}, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return time.UnixMilli(env.CurrentTime), nil
}

// FullStopID adds the agency prefix to a bare stop number.
func (o *OneBusAway) FullStopID(id string) string {
	id = strings.TrimSpace(id)
	if _, err := strconv.ParseUint(id, 10, 64); err == nil {
		return o.agency + "_" + id
	}
	return id
}

// ShortStopID strips the agency prefix for display.
func (o *OneBusAway) ShortStopID(id string) string {
	return strings.TrimPrefix(id, o.agency+"_")
}

func (o *OneBusAway) StopsNear(ctx context.Context, at core.Coordinate) ([]core.Stop, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(at.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(at.Lon, 'f', -1, 64))
	params.Set("radius", strconv.Itoa(o.radius))

	var data struct {
		List []obaStop `json:"list"`
	}
	if _, err := o.get(ctx, "stops-for-location", params, &data); err != nil {
		return nil, fmt.Errorf("stops near %.5f,%.5f: %w", at.Lat, at.Lon, err)
	}
	if len(data.List) == 0 {
		return nil, core.ErrNoStopsFound
	}

	stops := make([]core.Stop, 0, len(data.List))
	for _, s := range data.List {
		stops = append(stops, core.Stop{
			ID:       s.ID,
			Name:     s.Name,
			Lat:      s.Lat,
			Lon:      s.Lon,
			Distance: geo.HaversineDistance(at.Lat, at.Lon, s.Lat, s.Lon),
		})
	}
	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].Distance < stops[j].Distance
	})
	return stops, nil
}

func (o *OneBusAway) ArrivalsFor(ctx context.Context, stopID string) (core.StopArrivals, error) {
	stopID = o.FullStopID(stopID)
	params := url.Values{}
	params.Set("minutesBefore", "0")
	params.Set("minutesAfter", strconv.Itoa(int(o.lookahead.Minutes())))

	var data struct {
		Entry struct {
			StopID                string `json:"stopId"`
			ArrivalsAndDepartures []struct {
				RouteShortName       string `json:"routeShortName"`
				TripHeadsign         string `json:"tripHeadsign"`
				ScheduledArrivalTime int64  `json:"scheduledArrivalTime"`
				PredictedArrivalTime int64  `json:"predictedArrivalTime"`
				Predicted            bool   `json:"predicted"`
			} `json:"arrivalsAndDepartures"`
		} `json:"entry"`
		References struct {
			Stops []obaStop `json:"stops"`
		} `json:"references"`
	}

	now, err := o.get(ctx, "arrivals-and-departures-for-stop/"+url.PathEscape(stopID), url.Values{}, &data)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return core.StopArrivals{}, fmt.Errorf("%w: stop %s", core.ErrNoArrivalData, stopID)
		}
		return core.StopArrivals{}, fmt.Errorf("arrivals for %s: %w", stopID, err)
	}

	result := core.StopArrivals{
		ServerNow: now,
		Stop:      core.Stop{ID: stopID},
		Arrivals:  make([]core.Arrival, 0, len(data.Entry.ArrivalsAndDepartures)),
	}
	for _, s := range data.References.Stops {
		if s.ID == stopID {
			result.Stop = core.Stop{ID: s.ID, Name: s.Name, Lat: s.Lat, Lon: s.Lon}
			break
		}
	}

	for _, a := range data.Entry.ArrivalsAndDepartures {
		arrival := core.Arrival{
			Headsign:      a.TripHeadsign,
			Route:         a.RouteShortName,
			ScheduledTime: time.UnixMilli(a.ScheduledArrivalTime),
			Predicted:     a.Predicted && a.PredictedArrivalTime > 0,
		}
		if arrival.Predicted {
			arrival.PredictedTime = time.UnixMilli(a.PredictedArrivalTime)
		}
		result.Arrivals = append(result.Arrivals, arrival)
	}

	log.FromCtx(ctx).Debug().Str("stop", stopID).Int("arrivals", len(result.Arrivals)).Msg("fetched arrivals")
	return result, nil
}

// HeadsignsFor lists the distinct headsigns arriving at a stop within the lookahead window.
func (o *OneBusAway) HeadsignsFor(ctx context.Context, stopID string) ([]string, error) {
	arrivals, err := o.ArrivalsFor(ctx, stopID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var headsigns []string
	for _, a := range arrivals.Arrivals {
		if a.Headsign == "" || seen[a.Headsign] {
			continue
		}
		seen[a.Headsign] = true
		headsigns = append(headsigns, a.Headsign)
	}
	return headsigns, nil
}

func (o *OneBusAway) Stop(ctx context.Context, stopID string) (core.Stop, error) {
	stopID = o.FullStopID(stopID)

	var data struct {
		Entry obaStop `json:"entry"`
	}
	if _, err := o.get(ctx, "stop/"+url.PathEscape(stopID), nil, &data); err != nil {
		if errors.Is(err, errNotFound) {
			return core.Stop{}, fmt.Errorf("%w: stop %s", core.ErrNoStopsFound, stopID)
		}
		return core.Stop{}, fmt.Errorf("stop %s: %w", stopID, err)
	}

	return core.Stop{
		ID:   data.Entry.ID,
		Name: data.Entry.Name,
		Lat:  data.Entry.Lat,
		Lon:  data.Entry.Lon,
	}, nil
}

// Routes lists the agency's routes ordered by numeric short name.
func (o *OneBusAway) Routes(ctx context.Context) ([]core.Route, error) {
	var data struct {
		List []struct {
			ID        string `json:"id"`
			ShortName string `json:"shortName"`
			LongName  string `json:"longName"`
		} `json:"list"`
	}
	if _, err := o.get(ctx, "routes-for-agency/"+url.PathEscape(o.agency), nil, &data); err != nil {
		return nil, fmt.Errorf("routes for %s: %w", o.agency, err)
	}

	routes := make([]core.Route, 0, len(data.List))
	for _, r := range data.List {
		routes = append(routes, core.Route{ID: r.ID, ShortName: r.ShortName, LongName: r.LongName})
	}
	sort.SliceStable(routes, func(i, j int) bool {
		x, errX := strconv.Atoi(routes[i].ShortName)
		y, errY := strconv.Atoi(routes[j].ShortName)
		if errX != nil || errY != nil {
			return errX == nil && errY != nil
		}
		return x < y
	})
	return routes, nil
}

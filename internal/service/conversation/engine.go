package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/internal/service/messages"
	"github.com/sandevgo/stoptext/pkg/log"
)

const helpKeyword = "help"

// Engine turns one inbound message into one reply, keeping per-caller menu
// state between messages.
type Engine struct {
	router    core.CmdRouter
	resolver  core.AddressResolver
	directory core.TransitDirectory
	sessions  core.SessionStore
	recorder  core.Recorder
	msgs      *messages.Messages
	cfg       core.ConversationConfig
	formatter arrivalFormatter
}

func NewEngine(
	router core.CmdRouter,
	resolver core.AddressResolver,
	directory core.TransitDirectory,
	sessions core.SessionStore,
	recorder core.Recorder,
	msgs *messages.Messages,
	cfg core.ConversationConfig,
) *Engine {
	return &Engine{
		router:    router,
		resolver:  resolver,
		directory: directory,
		sessions:  sessions,
		recorder:  recorder,
		msgs:      msgs,
		cfg:       cfg,
		formatter: arrivalFormatter{msgs: msgs, lookahead: cfg.GetLookahead()},
	}
}

// Respond always produces a reply. Failures are logged and answered with the
// generic failure text.
func (e *Engine) Respond(ctx context.Context, callerID, text string) string {
	ctx = log.WithFields(ctx, "caller", callerID)
	logger := log.FromCtx(ctx)

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return e.msgs.Greeting
	}

	if e.router != nil {
		if reply, ok := e.router.Execute(ctx, callerID, trimmed); ok {
			return reply
		}
	}
	if strings.EqualFold(trimmed, helpKeyword) {
		return e.msgs.Help
	}

	if pending := e.sessions.Get(callerID); pending != nil {
		if i, ok := pending.Match(trimmed); ok {
			e.record(ctx, core.EventConversationContinue, callerID)
			reply, err := e.dispatch(ctx, pending.Actions[i], pending.Params[i])
			if err != nil {
				logger.Error().Err(err).Str("action", pending.Actions[i].String()).Msg("failed to continue conversation")
				return e.msgs.GenericFail
			}
			e.sessions.Delete(callerID)
			return reply
		}
	}

	e.record(ctx, core.EventMessage, callerID)
	query := stripSignature(trimmed)

	if isStopID(query) {
		e.record(ctx, core.EventStopID, callerID)
		e.sessions.Delete(callerID)
		reply, err := e.arrivalsForStop(ctx, query, "")
		if err != nil {
			logger.Error().Err(err).Str("stop", query).Msg("failed to look up stop")
			return e.msgs.GenericFail
		}
		return reply
	}

	reply, menu, err := e.locate(ctx, query)
	if err != nil {
		logger.Error().Err(err).Str("query", query).Msg("failed to answer location query")
		return e.msgs.GenericFail
	}
	if menu != nil {
		e.sessions.Save(callerID, menu)
	} else {
		e.sessions.Delete(callerID)
	}
	return reply
}

func (e *Engine) dispatch(ctx context.Context, action core.Action, params core.ActionParams) (string, error) {
	switch action {
	case core.ActionArrivalsForStop:
		return e.arrivalsForStop(ctx, params.StopID, "")
	case core.ActionArrivalsForHeadsign:
		return e.arrivalsForStop(ctx, params.StopID, params.Headsign)
	default:
		return "", fmt.Errorf("unknown action %v", action)
	}
}

// isStopID reports whether query is made of digits only.
func isStopID(query string) bool {
	return query != "" && strings.Trim(query, "0123456789") == ""
}

// arrivalsForStop replies "@ <stop>" followed by its arrivals, optionally
// limited to one headsign. Stop metadata is optional: arrivals carry the
// stop name when the directory knows it.
func (e *Engine) arrivalsForStop(ctx context.Context, stopID, headsign string) (string, error) {
	var (
		stop     core.Stop
		arrivals core.StopArrivals
		g        errgroup.Group
	)
	g.Go(func() error {
		var err error
		stop, err = e.directory.Stop(ctx, stopID)
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("stop", stopID).Msg("failed to fetch stop details")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		arrivals, err = e.directory.ArrivalsFor(ctx, stopID)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	if stop.Name != "" {
		arrivals.Stop.Name = stop.Name
	}
	return fmt.Sprintf(e.msgs.SingleStop, arrivals.Stop.Name, e.formatter.format(arrivals, headsign)), nil
}

type option struct {
	label  string
	action core.Action
	params core.ActionParams
}

// locate answers a free text location with the nearest stop's arrivals and,
// when there is more than one way to go, a lettered menu of other headsigns.
func (e *Engine) locate(ctx context.Context, query string) (string, *core.ConversationContext, error) {
	coord, err := e.resolver.Resolve(ctx, core.AddressQuery{Line1: query})
	if err != nil {
		return "", nil, fmt.Errorf("resolve: %w", err)
	}

	stops, err := e.directory.StopsNear(ctx, coord)
	if err != nil {
		return "", nil, fmt.Errorf("stops near: %w", err)
	}
	if len(stops) == 0 {
		return "", nil, core.ErrNoStopsFound
	}
	if k := e.cfg.GetNearbyStops(); k > 0 && len(stops) > k {
		stops = stops[:k]
	}

	nearest, others := stops[0], stops[1:]
	var (
		arrivals core.StopArrivals
		signs    = make([][]string, len(others))
		g        errgroup.Group
	)
	g.Go(func() error {
		var err error
		arrivals, err = e.directory.ArrivalsFor(ctx, nearest.ID)
		if errors.Is(err, core.ErrNoArrivalData) {
			arrivals, err = core.StopArrivals{Stop: nearest}, nil
		}
		return err
	})
	for i, s := range others {
		g.Go(func() error {
			hs, err := e.directory.HeadsignsFor(ctx, s.ID)
			if err != nil {
				log.FromCtx(ctx).Warn().Err(err).Str("stop", s.ID).Msg("failed to fetch headsigns")
				return nil
			}
			signs[i] = hs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", nil, fmt.Errorf("arrivals for nearest stop: %w", err)
	}
	arrivals.Stop.Name = nearest.Name

	var b strings.Builder
	fmt.Fprintf(&b, e.msgs.ClosestStop, nearest.Name)
	b.WriteString("\n")
	b.WriteString(e.formatter.format(arrivals, ""))

	options, distinct := e.options(headsigns(arrivals), others, signs)
	if distinct == 1 || len(options) == 0 {
		return b.String(), nil, nil
	}
	if n := e.cfg.GetMenuSize(); n > 0 && len(options) > n {
		options = options[:n]
	}

	menu := core.NewMultipleChoice()
	b.WriteString("\n")
	b.WriteString(e.msgs.OtherCloseStops)
	for i, o := range options {
		letter := string(rune('A' + i))
		if err := menu.Add(letter, o.action, o.params); err != nil {
			return "", nil, err
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, e.msgs.Option, letter, o.label)
	}
	return b.String(), menu, nil
}

// options lists headsigns not already shown, each bound to the nearest stop
// serving it. Stops without headsigns are offered as a whole. distinct counts
// every headsign seen across all stops.
func (e *Engine) options(shown []string, stops []core.Stop, signs [][]string) ([]option, int) {
	seen := make(map[string]bool, len(shown))
	for _, h := range shown {
		seen[h] = true
	}
	distinct := len(seen)

	var res []option
	for i, s := range stops {
		if len(signs[i]) == 0 {
			res = append(res, option{
				label:  fmt.Sprintf(e.msgs.StopOption, s.Name),
				action: core.ActionArrivalsForStop,
				params: core.ActionParams{StopID: s.ID},
			})
			continue
		}
		for _, h := range signs[i] {
			if seen[h] {
				continue
			}
			seen[h] = true
			distinct++
			res = append(res, option{
				label:  h,
				action: core.ActionArrivalsForHeadsign,
				params: core.ActionParams{StopID: s.ID, Headsign: h},
			})
		}
	}
	return res, distinct
}

func (e *Engine) record(ctx context.Context, kind core.EventKind, callerID string) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.Record(ctx, core.NewEvent(kind, callerID)); err != nil {
		log.FromCtx(ctx).Debug().Err(err).Str("kind", string(kind)).Msg("failed to record usage")
	}
}

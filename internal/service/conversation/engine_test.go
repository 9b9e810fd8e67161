package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/internal/service/command"
	"github.com/sandevgo/stoptext/internal/service/geocode"
	"github.com/sandevgo/stoptext/internal/service/messages"
	"github.com/sandevgo/stoptext/internal/service/session"
)

const caller = "caller-1"

type harness struct {
	engine   *Engine
	dir      *fakeDirectory
	geo      *fakeGeocoder
	sessions *session.Store
	recorder *recordingRecorder
}

func newHarness(t *testing.T, dir *fakeDirectory, cfg conversationConfig) *harness {
	t.Helper()
	h := &harness{
		dir:      dir,
		geo:      &fakeGeocoder{},
		sessions: session.NewStore(nil),
		recorder: &recordingRecorder{},
	}
	msgs := messages.Default()
	resolver := geocode.NewResolver(nil, h.geo, nil, resolverConfig{}, h.recorder)
	router := command.NewDiagnostics(resolver, dir, msgs, nil)
	h.engine = NewEngine(router, resolver, dir, h.sessions, h.recorder, msgs, cfg)
	return h
}

func warrenDirectory() *fakeDirectory {
	return &fakeDirectory{
		stops: []core.Stop{
			{ID: "DDOT_1", Name: "Woodward & Warren", Distance: 10},
			{ID: "DDOT_2", Name: "Cass & Warren", Distance: 120},
			{ID: "DDOT_3", Name: "Second & Warren", Distance: 300},
			{ID: "DDOT_4", Name: "Third & Warren", Distance: 450},
			{ID: "DDOT_5", Name: "Trumbull & Warren", Distance: 600},
			{ID: "DDOT_6", Name: "Rosa Parks & Warren", Distance: 900},
		},
		arrivals: map[string][]core.Arrival{
			"DDOT_1": {
				predicted("Woodward to Downtown", -2*time.Minute),
				predicted("Woodward to Downtown", 3*time.Minute+30*time.Second),
				scheduled("Woodward to Downtown", 15*time.Minute),
			},
			"DDOT_2": {predicted("Warren to Eastbound", 9*time.Minute)},
			"DDOT_3": {
				predicted("Crosstown", 5*time.Minute),
				predicted("Grand River", 7*time.Minute),
			},
		},
		headsigns: map[string][]string{
			"DDOT_2": {"Woodward to Downtown", "Warren to Eastbound"},
			"DDOT_3": {"Crosstown"},
			"DDOT_5": {"Crosstown", "Grand River"},
			"DDOT_6": {"Rosa Parks"},
		},
	}
}

func defaultConfig() conversationConfig {
	return conversationConfig{nearby: 5, menuSize: 6}
}

const warrenReply = "Closest stop: Woodward & Warren.\n" +
	"Woodward to Downtown: 3, 15* min\n" +
	"*scheduled\n" +
	"Send letter for:\n" +
	"A) Warren to Eastbound\n" +
	"B) Crosstown\n" +
	"C) stop Third & Warren\n" +
	"D) Grand River"

func TestEngine_LocationThenChoice(t *testing.T) {
	h := newHarness(t, warrenDirectory(), defaultConfig())
	ctx := context.Background()

	reply := h.engine.Respond(ctx, caller, "woodward and warren")
	assert.Equal(t, warrenReply, reply)
	assert.Equal(t, int32(1), h.geo.calls.Load())
	assert.Equal(t, int32(4), h.dir.headsignCalls.Load(), "only the nearest five stops are consulted")

	pending := h.sessions.Get(caller)
	require.NotNil(t, pending)
	assert.Equal(t, []string{"A", "B", "C", "D"}, pending.Choices)
	assert.Equal(t, core.ActionArrivalsForHeadsign, pending.Actions[1])
	assert.Equal(t, core.ActionParams{StopID: "DDOT_3", Headsign: "Crosstown"}, pending.Params[1])
	assert.Equal(t, core.ActionArrivalsForStop, pending.Actions[2])

	reply = h.engine.Respond(ctx, caller, "B")
	assert.Equal(t, "@ Second & Warren\nCrosstown: 5 min", reply)
	assert.Equal(t, int32(1), h.geo.calls.Load(), "a menu choice never geocodes")
	assert.Nil(t, h.sessions.Get(caller), "context is cleared after a successful choice")

	assert.Equal(t, 1, h.recorder.count(core.EventMessage))
	assert.Equal(t, 1, h.recorder.count(core.EventConversationContinue))
	assert.Equal(t, 1, h.recorder.count(core.EventCacheMiss))
}

func TestEngine_ChoiceMatching(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"A", "@ Cass & Warren\nWarren to Eastbound: 9 min"},
		{"A)", "@ Cass & Warren\nWarren to Eastbound: 9 min"},
		{"a ", "@ Cass & Warren\nWarren to Eastbound: 9 min"},
		{"c) please", "@ Third & Warren\nSorry, I don't see buses in the next 60 minutes for Third & Warren.\nCall (888) DDOT-BUS for information."},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			h := newHarness(t, warrenDirectory(), defaultConfig())
			ctx := context.Background()

			h.engine.Respond(ctx, caller, "woodward and warren")
			reply := h.engine.Respond(ctx, caller, tt.input)
			assert.Equal(t, tt.want, reply)
			assert.Equal(t, int32(1), h.geo.calls.Load())
		})
	}
}

func TestEngine_UnknownChoiceStartsFreshQuery(t *testing.T) {
	h := newHarness(t, warrenDirectory(), defaultConfig())

	pending := core.NewMultipleChoice()
	require.NoError(t, pending.Add("A", core.ActionArrivalsForStop, core.ActionParams{StopID: "DDOT_2"}))
	require.NoError(t, pending.Add("B", core.ActionArrivalsForStop, core.ActionParams{StopID: "DDOT_3"}))
	h.sessions.Save(caller, pending)

	reply := h.engine.Respond(context.Background(), caller, "C")
	assert.Equal(t, warrenReply, reply)
	assert.Equal(t, int32(1), h.geo.calls.Load())
	assert.Equal(t, int32(0), h.dir.stopCalls.Load())
}

func TestEngine_FailedChoiceKeepsContext(t *testing.T) {
	h := newHarness(t, warrenDirectory(), defaultConfig())

	pending := core.NewMultipleChoice()
	require.NoError(t, pending.Add("A", core.ActionArrivalsForStop, core.ActionParams{StopID: "DDOT_404"}))
	h.sessions.Save(caller, pending)

	reply := h.engine.Respond(context.Background(), caller, "A")
	assert.Equal(t, messages.Default().GenericFail, reply)
	assert.NotNil(t, h.sessions.Get(caller))
}

func TestEngine_SingleHeadsignHasNoMenu(t *testing.T) {
	dir := warrenDirectory()
	dir.stops = dir.stops[:2]
	dir.headsigns = map[string][]string{"DDOT_2": {"Woodward to Downtown"}}
	h := newHarness(t, dir, defaultConfig())

	reply := h.engine.Respond(context.Background(), caller, "woodward and warren")
	assert.Equal(t, "Closest stop: Woodward & Warren.\nWoodward to Downtown: 3, 15* min\n*scheduled", reply)
	assert.Nil(t, h.sessions.Get(caller))
}

func TestEngine_MenuIsCapped(t *testing.T) {
	h := newHarness(t, warrenDirectory(), conversationConfig{nearby: 5, menuSize: 2})

	reply := h.engine.Respond(context.Background(), caller, "woodward and warren")
	assert.Contains(t, reply, "B) Crosstown")
	assert.NotContains(t, reply, "C)")
	assert.Equal(t, 2, h.sessions.Get(caller).Len())
}

func TestEngine_NewQueryReplacesContext(t *testing.T) {
	h := newHarness(t, warrenDirectory(), defaultConfig())
	ctx := context.Background()

	h.engine.Respond(ctx, caller, "woodward and warren")
	require.NotNil(t, h.sessions.Get(caller))

	h.engine.Respond(ctx, caller, "3")
	assert.Nil(t, h.sessions.Get(caller))
}

func TestEngine_StopID(t *testing.T) {
	h := newHarness(t, warrenDirectory(), defaultConfig())

	reply := h.engine.Respond(context.Background(), caller, " 3 ")
	assert.Equal(t, "@ Second & Warren\nCrosstown: 5 min\nGrand River: 7 min", reply)
	assert.Equal(t, int32(0), h.geo.calls.Load())
	assert.Equal(t, 1, h.recorder.count(core.EventStopID))
	assert.Equal(t, 1, h.recorder.count(core.EventMessage))
}

func TestEngine_StopIDWithSignature(t *testing.T) {
	h := newHarness(t, warrenDirectory(), defaultConfig())

	reply := h.engine.Respond(context.Background(), caller, "3\n-- sent from my phone")
	assert.Equal(t, "@ Second & Warren\nCrosstown: 5 min\nGrand River: 7 min", reply)
}

func TestEngine_UnknownStopID(t *testing.T) {
	h := newHarness(t, warrenDirectory(), defaultConfig())

	reply := h.engine.Respond(context.Background(), caller, "9999")
	assert.Equal(t, messages.Default().GenericFail, reply)
}

func TestEngine_Failures(t *testing.T) {
	t.Run("geocoder", func(t *testing.T) {
		h := newHarness(t, warrenDirectory(), defaultConfig())
		h.geo.err = core.NewProviderError("fake", core.ErrNoResults)

		reply := h.engine.Respond(context.Background(), caller, "nowhere at all")
		assert.Equal(t, messages.Default().GenericFail, reply)
		assert.Nil(t, h.sessions.Get(caller))
	})

	t.Run("no stops", func(t *testing.T) {
		dir := warrenDirectory()
		dir.stops = nil
		h := newHarness(t, dir, defaultConfig())

		reply := h.engine.Respond(context.Background(), caller, "8 mile and telegraph")
		assert.Equal(t, messages.Default().GenericFail, reply)
	})

	t.Run("directory", func(t *testing.T) {
		dir := warrenDirectory()
		dir.fail = errors.New("upstream down")
		h := newHarness(t, dir, defaultConfig())

		reply := h.engine.Respond(context.Background(), caller, "woodward and warren")
		assert.Equal(t, messages.Default().GenericFail, reply)
	})
}

func TestEngine_Keywords(t *testing.T) {
	h := newHarness(t, warrenDirectory(), defaultConfig())
	ctx := context.Background()
	msgs := messages.Default()

	assert.Equal(t, msgs.Greeting, h.engine.Respond(ctx, caller, "   "))
	assert.Equal(t, msgs.Help, h.engine.Respond(ctx, caller, "HELP"))
	assert.Equal(t, msgs.UnknownCommand, h.engine.Respond(ctx, caller, "test bogus"))
	assert.Equal(t, "nearby stops: DDOT_1: Woodward & Warren DDOT_2: Cass & Warren DDOT_3: Second & Warren DDOT_4: Third & Warren DDOT_5: Trumbull & Warren DDOT_6: Rosa Parks & Warren",
		h.engine.Respond(ctx, caller, "test near woodward and warren"))
	assert.Equal(t, 0, h.recorder.count(core.EventMessage))
	assert.Nil(t, h.sessions.Get(caller))
}

func TestEngine_DepartedHeadsignStaysInMenu(t *testing.T) {
	dir := warrenDirectory()
	dir.stops = dir.stops[:2]
	dir.arrivals = map[string][]core.Arrival{
		"DDOT_1": {
			predicted("Woodward to Downtown", 3*time.Minute),
			predicted("Crosstown", -time.Minute),
		},
	}
	dir.headsigns = map[string][]string{"DDOT_2": {"Crosstown"}}
	h := newHarness(t, dir, defaultConfig())

	reply := h.engine.Respond(context.Background(), caller, "woodward and warren")
	assert.Equal(t, "Closest stop: Woodward & Warren.\n"+
		"Woodward to Downtown: 3 min\n"+
		"Send letter for:\n"+
		"A) Crosstown", reply)

	pending := h.sessions.Get(caller)
	require.NotNil(t, pending)
	assert.Equal(t, core.ActionParams{StopID: "DDOT_2", Headsign: "Crosstown"}, pending.Params[0])
}

func TestEngine_StopIDWithoutStopDetails(t *testing.T) {
	dir := warrenDirectory()
	dir.stopFail = errors.New("stop endpoint down")
	h := newHarness(t, dir, defaultConfig())

	reply := h.engine.Respond(context.Background(), caller, "3")
	assert.Equal(t, "@ Second & Warren\nCrosstown: 5 min\nGrand River: 7 min", reply)
	assert.Equal(t, int32(1), h.dir.stopCalls.Load())
}

func TestEngine_LongDigitRunIsStopID(t *testing.T) {
	h := newHarness(t, warrenDirectory(), defaultConfig())

	reply := h.engine.Respond(context.Background(), caller, "123456789012345678901234")
	assert.Equal(t, messages.Default().GenericFail, reply)
	assert.Equal(t, int32(0), h.geo.calls.Load())
	assert.Equal(t, 1, h.recorder.count(core.EventStopID))
}

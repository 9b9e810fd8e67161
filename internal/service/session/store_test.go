package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sandevgo/stoptext/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionConfig struct {
	lifetime time.Duration
	sweep    time.Duration
}

func (c sessionConfig) GetLifetime() time.Duration {
	return c.lifetime
}

func (c sessionConfig) GetSweepInterval() time.Duration {
	return c.sweep
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func menu(t *testing.T, letters ...string) *core.ConversationContext {
	t.Helper()
	c := core.NewMultipleChoice()
	for i, l := range letters {
		require.NoError(t, c.Add(l, core.ActionArrivalsForStop, core.ActionParams{StopID: fmt.Sprint(i)}))
	}
	return c
}

func TestStore_SaveGetDelete(t *testing.T) {
	s := NewStore(nil)
	c := menu(t, "A", "B")

	assert.Nil(t, s.Get("caller-1"))

	s.Save("caller-1", c)
	assert.Same(t, c, s.Get("caller-1"))
	assert.Nil(t, s.Get("caller-2"))

	// last write wins
	newer := menu(t, "A")
	s.Save("caller-1", newer)
	assert.Same(t, newer, s.Get("caller-1"))
	assert.Equal(t, 1, s.Len())

	s.Delete("caller-1")
	assert.Nil(t, s.Get("caller-1"))
	assert.Zero(t, s.Len())
}

func TestStore_ExpiredEntryIsNotReturned(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	s := NewStore(sessionConfig{lifetime: 5 * time.Minute, sweep: 30 * time.Second}).WithClock(clk.now)

	s.Save("caller-1", menu(t, "A"))

	clk.advance(5 * time.Minute)
	assert.NotNil(t, s.Get("caller-1"), "exactly at the lifetime is still valid")

	clk.advance(time.Second)
	assert.Nil(t, s.Get("caller-1"))
	assert.Equal(t, 1, s.Len(), "lazy reads do not delete")

	assert.Equal(t, 1, s.Sweep())
	assert.Zero(t, s.Len())
}

func TestStore_SweepRemovesWithoutReads(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	s := NewStore(sessionConfig{lifetime: 50 * time.Millisecond, sweep: 10 * time.Millisecond}).WithClock(clk.now)

	s.Save("old", menu(t, "A"))
	clk.advance(40 * time.Millisecond)
	s.Save("fresh", menu(t, "A"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	clk.advance(20 * time.Millisecond)
	assert.Eventually(t, func() bool { return s.Len() == 1 }, time.Second, 5*time.Millisecond)
	assert.NotNil(t, s.Get("fresh"))

	require.NoError(t, s.Shutdown(context.Background()))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Shutdown")
	}

	// shutdown twice is safe
	assert.NoError(t, s.Shutdown(context.Background()))
}

func TestStore_StartStopsOnContext(t *testing.T) {
	s := NewStore(sessionConfig{lifetime: time.Minute, sweep: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestStore_ConcurrentCallers(t *testing.T) {
	s := NewStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("caller-%d", i)
			s.Save(id, menu(t, "A"))
			_ = s.Get(id)
			if i%2 == 0 {
				s.Delete(id)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 25, s.Len())
}

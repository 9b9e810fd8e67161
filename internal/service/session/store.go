package session

import (
	"context"
	"sync"
	"time"

	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/pkg/log"
)

const (
	defaultLifetime      = 5 * time.Minute
	defaultSweepInterval = 30 * time.Second
)

type entry struct {
	context   *core.ConversationContext
	createdAt time.Time
}

// Store keeps one pending conversation per caller. Entries older than the
// lifetime are dropped by a periodic sweep and are never returned by Get.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]entry

	lifetime time.Duration
	interval time.Duration
	now      func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

func NewStore(cfg core.SessionConfig) *Store {
	s := &Store{
		sessions: make(map[string]entry),
		lifetime: defaultLifetime,
		interval: defaultSweepInterval,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	if cfg != nil {
		if d := cfg.GetLifetime(); d > 0 {
			s.lifetime = d
		}
		if d := cfg.GetSweepInterval(); d > 0 {
			s.interval = d
		}
	}
	return s
}

// WithClock replaces the time source. Used by tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Save(callerID string, c *core.ConversationContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[callerID] = entry{context: c, createdAt: s.now()}
}

func (s *Store) Get(callerID string) *core.ConversationContext {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[callerID]
	if !ok || s.expired(e, s.now()) {
		return nil
	}
	return e.context
}

func (s *Store) Delete(callerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, callerID)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes expired entries and returns how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.sessions {
		if s.expired(e, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Store) expired(e entry, now time.Time) bool {
	return now.Sub(e.createdAt) > s.lifetime
}

// Start runs the sweep until ctx is done or Shutdown is called.
func (s *Store) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Dur("lifetime", s.lifetime).Dur("interval", s.interval).Msg("starting session sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.stop:
			return nil
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logger.Debug().Int("removed", n).Msg("expired sessions")
			}
		}
	}
}

func (s *Store) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

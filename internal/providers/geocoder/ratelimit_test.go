package geocoder

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(map[string]time.Duration{"nominatim": time.Second})
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("nominatim"), "first call passes")
	assert.False(t, rl.Allow("nominatim"), "second call inside the interval is rejected")
	assert.True(t, rl.Allow("arcgis"), "providers are independent")
	assert.True(t, rl.Allow("arcgis"), "no interval means no limit")

	now = now.Add(999 * time.Millisecond)
	assert.False(t, rl.Allow("nominatim"))

	now = now.Add(time.Millisecond)
	assert.True(t, rl.Allow("nominatim"))
}

func TestRateLimiter_DoneRearms(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(map[string]time.Duration{"nominatim": time.Second})
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("nominatim"))

	// the call took 800ms
	now = now.Add(800 * time.Millisecond)
	rl.Done("nominatim")

	now = now.Add(500 * time.Millisecond)
	assert.False(t, rl.Allow("nominatim"), "cooldown counts from completion")

	now = now.Add(500 * time.Millisecond)
	assert.True(t, rl.Allow("nominatim"))
}

func TestRateLimiter_ConcurrentBurst(t *testing.T) {
	rl := NewRateLimiter(map[string]time.Duration{"nominatim": time.Minute})

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("nominatim") {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), allowed.Load())
}

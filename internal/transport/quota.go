package transport

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tiendapocket/nubesync/pkg/constants"
	"github.com/tiendapocket/nubesync/pkg/logging"
)

// QuotaGate throttles requests from the rate-limit headers of the last
// response. It is consulted before a request is sent, not after the quota is
// exhausted.
type QuotaGate struct {
	mu        sync.Mutex
	known     bool
	remaining int
	reset     time.Duration

	LowWater  int           // below this, wait for the reset window
	SoftWater int           // below this, pause SoftWait
	MinWait   time.Duration // lower bound of the reset wait
	SoftWait  time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

// NewQuotaGate returns a gate with the default water marks.
func NewQuotaGate() *QuotaGate {
	return &QuotaGate{
		LowWater:  constants.RateLimitLowWater,
		SoftWater: constants.RateLimitSoftWater,
		MinWait:   constants.RateLimitMinWait,
		SoftWait:  constants.RateLimitSoftWait,
		sleep:     Sleep,
	}
}

// Observe records the quota headers of a response. Responses without a
// parsable remaining count clear the recorded state.
func (g *QuotaGate) Observe(h http.Header) {
	g.mu.Lock()
	defer g.mu.Unlock()

	remaining, err := strconv.Atoi(strings.TrimSpace(h.Get(constants.HeaderRateLimitRemaining)))
	if err != nil {
		g.known = false
		return
	}
	g.known = true
	g.remaining = remaining
	g.reset = 0
	if ms, err := strconv.ParseFloat(strings.TrimSpace(h.Get(constants.HeaderRateLimitReset)), 64); err == nil && ms > 0 {
		g.reset = time.Duration(ms * float64(time.Millisecond))
	}
}

// Delay returns how long the next request should wait.
func (g *QuotaGate) Delay() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.delayLocked()
}

func (g *QuotaGate) delayLocked() time.Duration {
	if !g.known {
		return 0
	}
	switch {
	case g.remaining < g.LowWater:
		return max(g.reset, g.MinWait)
	case g.remaining < g.SoftWater:
		return g.SoftWait
	}
	return 0
}

// Wait blocks until the next request may be sent or ctx is done. A
// completed wait consumes the recorded state; the next response refreshes it.
func (g *QuotaGate) Wait(ctx context.Context) error {
	g.mu.Lock()
	d := g.delayLocked()
	remaining := g.remaining
	if d > 0 {
		g.known = false
	}
	g.mu.Unlock()

	if d <= 0 {
		return nil
	}
	logging.FromContext(ctx).Info().
		Int("remaining", remaining).
		Dur("wait", d).
		Msg("Rate limit quota low, waiting")
	sleep := g.sleep
	if sleep == nil {
		sleep = Sleep
	}
	return sleep(ctx, d)
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

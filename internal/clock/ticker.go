package clock

import (
	"context"
	"time"
)

// Ticker is a DisplayClock backed by time.Ticker, used when no real display
// refresh signal is available (headless rendering).
type Ticker struct {
	interval time.Duration
	subs     subscribers
}

// MaxFPS is the highest tick rate a Ticker runs at.
const MaxFPS = 1000

// NewTicker creates a clock ticking fps times per second. Non-positive fps
// falls back to 60, rates above MaxFPS are capped.
func NewTicker(fps int) *Ticker {
	if fps <= 0 {
		fps = 60
	}
	fps = min(fps, MaxFPS)
	return &Ticker{interval: time.Second / time.Duration(fps)}
}

// Interval returns the tick period.
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

// Subscribe implements surface.DisplayClock.
func (t *Ticker) Subscribe(fn func()) func() {
	return t.subs.add(fn)
}

// Run dispatches ticks until ctx is done.
func (t *Ticker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.subs.dispatch()
		}
	}
}

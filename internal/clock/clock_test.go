package clock

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualDispatchesToSubscribers(t *testing.T) {
	m := NewManual()
	var a, b int
	cancelA := m.Subscribe(func() { a++ })
	m.Subscribe(func() { b++ })

	m.Tick()
	cancelA()
	cancelA()
	m.Tick()

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
	assert.Equal(t, 1, m.Subscribers())
}

func TestCancelFromWithinTick(t *testing.T) {
	m := NewManual()
	var cancelSecond func()
	first, second := 0, 0
	m.Subscribe(func() {
		first++
		cancelSecond()
	})
	cancelSecond = m.Subscribe(func() { second++ })

	m.Tick()
	m.Tick()

	assert.Equal(t, 2, first)
	// Cancelled before its turn in the same dispatch.
	assert.Equal(t, 0, second)
}

func TestTickerRunsAtInterval(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ticker := NewTicker(10)
		assert.Equal(t, 100*time.Millisecond, ticker.Interval())

		ticks := 0
		ticker.Subscribe(func() { ticks++ })

		ctx, cancel := context.WithTimeout(context.Background(), time.Second+50*time.Millisecond)
		defer cancel()
		err := ticker.Run(ctx)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, 10, ticks)
	})
}

func TestTickerStopsDispatchAfterCancel(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ticker := NewTicker(0)
		assert.Equal(t, time.Second/60, ticker.Interval())

		ticks := 0
		var cancelSub func()
		cancelSub = ticker.Subscribe(func() {
			ticks++
			if ticks == 3 {
				cancelSub()
			}
		})

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = ticker.Run(ctx)
		assert.Equal(t, 3, ticks)
	})
}

func TestTickerRateBounds(t *testing.T) {
	assert.Equal(t, time.Second/60, NewTicker(0).Interval())
	assert.Equal(t, time.Second/60, NewTicker(-3).Interval())
	assert.Equal(t, time.Millisecond, NewTicker(2_000_000_000).Interval())
	assert.Equal(t, 40*time.Millisecond, NewTicker(25).Interval())
}

// Package clock provides display clocks that drive surface repaints.
package clock

import (
	"sync"
	"sync/atomic"
)

type subscriber struct {
	fn     func()
	active atomic.Bool
}

// subscribers is the subscription list shared by the clocks. dispatch works on
// a snapshot so a callback may cancel itself or others without deadlock.
// Cancel does not wait for a delivery that already passed the active check.
type subscribers struct {
	mu   sync.Mutex
	subs []*subscriber
}

func (l *subscribers) add(fn func()) func() {
	sub := &subscriber{fn: fn}
	sub.active.Store(true)
	l.mu.Lock()
	l.subs = append(l.subs, sub)
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.active.Store(false)
			l.remove(sub)
		})
	}
}

func (l *subscribers) remove(sub *subscriber) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, s := range l.subs {
		if s == sub {
			l.subs = append(l.subs[:i], l.subs[i+1:]...)
			return
		}
	}
}

func (l *subscribers) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}

func (l *subscribers) dispatch() {
	l.mu.Lock()
	snapshot := make([]*subscriber, len(l.subs))
	copy(snapshot, l.subs)
	l.mu.Unlock()

	for _, s := range snapshot {
		if s.active.Load() {
			s.fn()
		}
	}
}

package surface

import (
	"sync"
	"weak"
)

// Delegate observes surface size changes. The surface does not own it.
//
// Delegate methods run on the goroutine that caused the change. They may
// cancel their own Registration but must not call Destroy synchronously.
type Delegate interface {
	OnSurfaceBoundsChanged(width, height int)
}

// VideoSizeObserver is an optional Delegate extension notified when the size
// of the presented video changes.
type VideoSizeObserver interface {
	OnVideoSizeChanged(width, height int)
}

// Registration ties a delegate to a surface. Cancel detaches the delegate; an
// observer going away calls it so later notifications become no-ops.
type Registration struct {
	ref *delegateRef
	gen uint64
}

// Cancel detaches the delegate if it is still the registered one. It may be
// called from within a notification. A notification already running on
// another goroutine is not waited for. Safe to call more than once.
func (r *Registration) Cancel() {
	if r == nil || r.ref == nil {
		return
	}
	r.ref.mu.Lock()
	defer r.ref.mu.Unlock()
	if r.ref.gen == r.gen {
		r.ref.load = nil
	}
}

// SetWeakDelegate registers d without keeping it reachable. Once the garbage
// collector reclaims d, notifications stop as if the registration had been
// cancelled.
func SetWeakDelegate[T any, P interface {
	*T
	Delegate
}](s *FrameSurface, d P) *Registration {
	ptr := (*T)(d)
	if ptr == nil {
		return s.delegate.set(nil)
	}
	wp := weak.Make(ptr)
	return s.delegate.set(func() Delegate {
		if p := wp.Value(); p != nil {
			return P(p)
		}
		return nil
	})
}

// delegateRef is the non-owning slot holding the current delegate. Callbacks
// run outside the lock; close waits for those already started.
type delegateRef struct {
	mu       sync.RWMutex
	load     func() Delegate
	gen      uint64
	closed   bool
	inflight sync.WaitGroup
}

func strongRef(d Delegate) func() Delegate {
	if d == nil {
		return nil
	}
	return func() Delegate { return d }
}

func (r *delegateRef) set(load func() Delegate) *Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	if !r.closed {
		r.load = load
	}
	return &Registration{ref: r, gen: r.gen}
}

// close detaches the delegate for good and waits for running callbacks.
func (r *delegateRef) close() {
	r.mu.Lock()
	r.closed = true
	r.load = nil
	r.gen++
	r.mu.Unlock()
	r.inflight.Wait()
}

// acquire returns the live delegate and marks a callback in flight. The
// caller must call r.inflight.Done when a non-nil delegate is returned.
func (r *delegateRef) acquire() Delegate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed || r.load == nil {
		return nil
	}
	d := r.load()
	if d == nil {
		return nil
	}
	r.inflight.Add(1)
	return d
}

func (r *delegateRef) boundsChanged(size Size) {
	d := r.acquire()
	if d == nil {
		return
	}
	defer r.inflight.Done()
	d.OnSurfaceBoundsChanged(size.Width, size.Height)
}

func (r *delegateRef) videoSizeChanged(size Size) {
	d := r.acquire()
	if d == nil {
		return
	}
	defer r.inflight.Done()
	if o, ok := d.(VideoSizeObserver); ok {
		o.OnVideoSizeChanged(size.Width, size.Height)
	}
}

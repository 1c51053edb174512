// Package surface presents a live stream of decoded video frames onto a
// display surface.
//
// A FrameSurface decouples the producer's frame rate from the display's
// refresh rate through a single pending-frame slot: SubmitFrame overwrites the
// slot, and each display tick promotes whatever is in it to the current frame
// and presents that frame scaled per the configured Gravity. Only the newest
// frame matters; intermediate frames are released without being shown.
package surface

import (
	"fmt"
	"log/slog"
	"sync"
)

// DisplayClock delivers ticks at the display's refresh rate. The returned
// cancel func removes the subscription; once it returns no new tick is
// started for fn. A tick whose delivery began before cancel may still be
// running or about to run, so fn must tolerate being called after cancel.
type DisplayClock interface {
	Subscribe(fn func()) (cancel func())
}

// Canvas blits a frame onto the display. Present must not retain f after it
// returns; the surface may release the frame right after.
type Canvas interface {
	Present(f *Frame, p Placement) error
}

// State is the surface lifecycle state.
type State int

const (
	StateActive State = iota
	StateDestroyed
)

func (s State) String() string {
	if s == StateDestroyed {
		return "destroyed"
	}
	return "active"
}

// Stats are lifetime counters of a FrameSurface.
type Stats struct {
	Submitted           uint64 // frames accepted into the pending slot
	Superseded          uint64 // pending frames replaced before a tick
	Stale               uint64 // frames dropped for an older timestamp
	Promoted            uint64 // pending frames made current
	Presented           uint64 // successful Canvas.Present calls
	PresentErrors       uint64
	DroppedAfterDestroy uint64
}

// Options configure a FrameSurface.
type Options struct {
	Gravity Gravity
	Bounds  Size
	Logger  *slog.Logger
}

// FrameSurface holds at most one pending and one current frame and presents
// the current one on every display tick.
type FrameSurface struct {
	canvas Canvas
	log    *slog.Logger

	// paintMu serialises a repaint against Destroy.
	paintMu sync.Mutex

	mu         sync.Mutex
	pending    *Frame
	current    *Frame
	gravity    Gravity
	bounds     Size
	videoSize  Size
	lastTS     int64
	haveTS     bool
	destroyed  bool
	failing    bool
	cancelTick func()
	stats      Stats

	delegate    delegateRef
	destroyOnce sync.Once
}

// New creates an active surface and subscribes it to clock.
func New(clock DisplayClock, canvas Canvas, opts Options) (*FrameSurface, error) {
	if clock == nil || canvas == nil {
		return nil, fmt.Errorf("%w: clock and canvas are required", ErrInvalidConfig)
	}
	if !opts.Gravity.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, opts.Gravity)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &FrameSurface{
		canvas:  canvas,
		log:     logger.With("component", "surface"),
		gravity: opts.Gravity,
		bounds:  opts.Bounds,
	}
	cancel := clock.Subscribe(s.OnDisplayTick)
	s.mu.Lock()
	s.cancelTick = cancel
	s.mu.Unlock()
	return s, nil
}

// SetDelegate registers d as the surface's delegate, replacing any previous
// one. Passing nil detaches the current delegate. The surface keeps d
// reachable until the registration is cancelled; use SetWeakDelegate for an
// observer whose lifetime the surface should not extend.
func (s *FrameSurface) SetDelegate(d Delegate) *Registration {
	return s.delegate.set(strongRef(d))
}

// SetGravity changes the scaling mode used from the next repaint on.
func (s *FrameSurface) SetGravity(g Gravity) error {
	if !g.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, g)
	}
	s.mu.Lock()
	s.gravity = g
	s.mu.Unlock()
	return nil
}

// Gravity returns the active scaling mode.
func (s *FrameSurface) Gravity() Gravity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gravity
}

// SetBounds propagates a layout change of the host view. The delegate is
// notified when the size actually changes.
func (s *FrameSurface) SetBounds(width, height int) {
	size := Size{Width: width, Height: height}
	s.mu.Lock()
	if s.destroyed || s.bounds == size {
		s.mu.Unlock()
		return
	}
	s.bounds = size
	s.mu.Unlock()

	s.log.Debug("bounds changed", "width", width, "height", height)
	s.delegate.boundsChanged(size)
}

// Bounds returns the current surface bounds.
func (s *FrameSurface) Bounds() Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds
}

// SetVideoSize lets a producer announce the size of upcoming frames ahead of
// the first frame. Observers are notified when it differs from the known size.
func (s *FrameSurface) SetVideoSize(width, height int) {
	size := Size{Width: width, Height: height}
	s.mu.Lock()
	if s.destroyed || size.Empty() || s.videoSize == size {
		s.mu.Unlock()
		return
	}
	s.videoSize = size
	s.mu.Unlock()

	s.delegate.videoSizeChanged(size)
}

// VideoSize returns the size of the most recently promoted or announced frame.
func (s *FrameSurface) VideoSize() Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.videoSize
}

// SubmitFrame makes f the pending frame, releasing the previous pending one.
// After Destroy the frame is released and dropped. Frames with a timestamp
// older than the newest accepted one are dropped as stale. Only malformed
// frames return an error; those are not taken over by the surface.
func (s *FrameSurface) SubmitFrame(f *Frame) error {
	s.mu.Lock()
	if s.destroyed {
		s.stats.DroppedAfterDestroy++
		s.mu.Unlock()
		f.release()
		return nil
	}
	s.mu.Unlock()

	if err := f.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.destroyed {
		s.stats.DroppedAfterDestroy++
		s.mu.Unlock()
		f.release()
		return nil
	}
	ts := int64(f.Timestamp)
	if s.haveTS && ts < s.lastTS {
		s.stats.Stale++
		s.mu.Unlock()
		f.release()
		return nil
	}
	s.lastTS, s.haveTS = ts, true
	old := s.pending
	s.pending = f
	s.stats.Submitted++
	if old != nil {
		s.stats.Superseded++
	}
	s.mu.Unlock()

	old.release()
	return nil
}

// OnDisplayTick promotes the pending frame, if any, and presents the current
// frame. Without a pending frame the current frame is presented again.
func (s *FrameSurface) OnDisplayTick() {
	size, changed := s.repaint()
	if changed {
		s.delegate.videoSizeChanged(size)
	}
}

func (s *FrameSurface) repaint() (Size, bool) {
	s.paintMu.Lock()
	defer s.paintMu.Unlock()

	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return Size{}, false
	}
	var (
		retired *Frame
		changed bool
	)
	if s.pending != nil {
		retired = s.current
		s.current, s.pending = s.pending, nil
		s.stats.Promoted++
		if sz := s.current.Size(); sz != s.videoSize {
			s.videoSize = sz
			changed = true
		}
	}
	cur, g, bounds, videoSize := s.current, s.gravity, s.bounds, s.videoSize
	s.mu.Unlock()

	// The retired frame was last presented by an earlier tick, which has
	// finished since we hold paintMu.
	retired.release()

	if cur == nil || bounds.Empty() {
		return videoSize, changed
	}
	err := s.canvas.Present(cur, ComputePlacement(g, bounds, cur.Width, cur.Height))

	s.mu.Lock()
	if err != nil {
		s.stats.PresentErrors++
		if !s.failing {
			s.log.Warn("present frame", "error", err)
		}
		s.failing = true
	} else {
		s.stats.Presented++
		if s.failing {
			s.log.Info("present recovered")
		}
		s.failing = false
	}
	s.mu.Unlock()
	return videoSize, changed
}

// Destroy stops tick delivery, detaches the delegate and releases all frames.
// It waits for a repaint in progress, must not be called from within
// Canvas.Present, and is safe to call repeatedly.
func (s *FrameSurface) Destroy() {
	s.destroyOnce.Do(s.destroy)
}

func (s *FrameSurface) destroy() {
	s.mu.Lock()
	s.destroyed = true
	cancel := s.cancelTick
	s.cancelTick = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.delegate.close()

	s.paintMu.Lock()
	s.mu.Lock()
	pending, current := s.pending, s.current
	s.pending, s.current = nil, nil
	s.mu.Unlock()
	s.paintMu.Unlock()

	pending.release()
	current.release()
	s.log.Debug("surface destroyed")
}

// State reports whether the surface has been destroyed.
func (s *FrameSurface) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return StateDestroyed
	}
	return StateActive
}

// Stats returns a snapshot of the surface counters.
func (s *FrameSurface) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

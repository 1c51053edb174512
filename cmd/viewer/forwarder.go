package main

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/junsooki/AirView/internal/transport"
)

// boundsForwarder is the surface delegate. It asks the sender for frames
// matching the surface size so the sender does not stream more pixels than
// the viewer can show.
type boundsForwarder struct {
	sender atomic.Pointer[transport.DataChannelTransport]
	log    *slog.Logger

	mu   sync.Mutex
	last [2]int
}

func (f *boundsForwarder) OnSurfaceBoundsChanged(width, height int) {
	f.mu.Lock()
	f.last = [2]int{width, height}
	f.mu.Unlock()
	f.flush()
}

func (f *boundsForwarder) OnVideoSizeChanged(width, height int) {
	f.log.Info("video size changed", "width", width, "height", height)
}

// attach sets the transport used for requests and sends the latest bounds.
func (f *boundsForwarder) attach(t *transport.DataChannelTransport) {
	f.sender.Store(t)
	f.flush()
}

func (f *boundsForwarder) flush() {
	t := f.sender.Load()
	if t == nil {
		return
	}
	f.mu.Lock()
	w, h := f.last[0], f.last[1]
	f.mu.Unlock()
	if w <= 0 || h <= 0 {
		return
	}
	err := t.SendControl(transport.ControlMessage{
		Type:   transport.ControlResolution,
		Width:  w,
		Height: h,
	})
	if err != nil {
		f.log.Debug("resolution request not sent", "error", err)
	}
}

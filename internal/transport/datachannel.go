package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pion/webrtc/v4"
)

var (
	ErrFramesChannelNotSet  = errors.New("frames data channel not set")
	ErrControlChannelNotSet = errors.New("control data channel not set")
)

// DataChannelTransport implements frame and control transport over WebRTC
// DataChannels.
type DataChannelTransport struct {
	mu        sync.RWMutex
	framesDC  *webrtc.DataChannel
	controlDC *webrtc.DataChannel

	onFrame   func(data []byte)
	onControl func(msg ControlMessage)

	log *slog.Logger
}

// NewDataChannelTransport wraps two DataChannels (frames + control). Either may
// be nil and set later.
func NewDataChannelTransport(framesDC, controlDC *webrtc.DataChannel, logger *slog.Logger) *DataChannelTransport {
	if logger == nil {
		logger = slog.Default()
	}
	t := &DataChannelTransport{log: logger.With("component", "transport")}
	if framesDC != nil {
		t.SetFramesChannel(framesDC)
	}
	if controlDC != nil {
		t.SetControlChannel(controlDC)
	}
	return t
}

func (t *DataChannelTransport) SendFrame(data []byte) error {
	t.mu.RLock()
	dc := t.framesDC
	t.mu.RUnlock()
	if dc == nil {
		return ErrFramesChannelNotSet
	}
	return dc.Send(data)
}

func (t *DataChannelTransport) SendControl(msg ControlMessage) error {
	t.mu.RLock()
	dc := t.controlDC
	t.mu.RUnlock()
	if dc == nil {
		return ErrControlChannelNotSet
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal control: %w", err)
	}
	return dc.Send(data)
}

func (t *DataChannelTransport) OnFrame(cb func(data []byte)) {
	t.mu.Lock()
	t.onFrame = cb
	t.mu.Unlock()
}

func (t *DataChannelTransport) OnControl(cb func(msg ControlMessage)) {
	t.mu.Lock()
	t.onControl = cb
	t.mu.Unlock()
}

// SetFramesChannel sets or replaces the frames DataChannel (used when receiving negotiated channels).
func (t *DataChannelTransport) SetFramesChannel(dc *webrtc.DataChannel) {
	t.mu.Lock()
	t.framesDC = dc
	t.mu.Unlock()
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		t.handleFrame(msg.Data)
	})
}

// SetControlChannel sets or replaces the control DataChannel.
func (t *DataChannelTransport) SetControlChannel(dc *webrtc.DataChannel) {
	t.mu.Lock()
	t.controlDC = dc
	t.mu.Unlock()
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		t.handleControl(msg.Data)
	})
}

func (t *DataChannelTransport) handleFrame(data []byte) {
	t.mu.RLock()
	cb := t.onFrame
	t.mu.RUnlock()
	if cb != nil {
		cb(data)
	}
}

func (t *DataChannelTransport) handleControl(data []byte) {
	msg, err := ParseControl(data)
	if err != nil {
		t.log.Warn("drop control message", "error", err)
		return
	}
	t.mu.RLock()
	cb := t.onControl
	t.mu.RUnlock()
	if cb != nil {
		cb(msg)
	}
}

package peer

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/pion/webrtc/v4"

	"github.com/junsooki/AirView/internal/transport"
)

// Viewer manages the viewing side of the WebRTC connection.
type Viewer struct {
	pc        *webrtc.PeerConnection
	sig       Signaler
	transport *transport.DataChannelTransport
	senderID  string
	log       *slog.Logger

	mu            sync.Mutex
	onControlOpen func()
}

// NewViewer creates a Viewer peer manager connecting to senderID.
func NewViewer(sig Signaler, senderID string, iceServers []string, logger *slog.Logger) (*Viewer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "peer", "role", "viewer")
	pc, err := NewPeerConnection(iceServers, logger)
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		pc:        pc,
		sig:       sig,
		transport: transport.NewDataChannelTransport(nil, nil, logger),
		senderID:  senderID,
		log:       logger,
	}

	// Accept data channels from the sender.
	pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		label := dc.Label()
		logger.Info("data channel received", "label", label)
		switch label {
		case transport.FramesLabel:
			v.transport.SetFramesChannel(dc)
		case transport.ControlLabel:
			v.transport.SetControlChannel(dc)
		default:
			logger.Warn("ignoring unknown data channel", "label", label)
			return
		}
		dc.OnOpen(func() {
			logger.Info("data channel open", "label", label)
			if label != transport.ControlLabel {
				return
			}
			v.mu.Lock()
			cb := v.onControlOpen
			v.mu.Unlock()
			if cb != nil {
				cb()
			}
		})
	})

	pc.OnICECandidate(func(c *webrtc.ICECandidate) {
		if c == nil {
			return
		}
		sendCandidate(sig, senderID, c, logger)
	})

	return v, nil
}

// Transport returns the DataChannelTransport.
func (v *Viewer) Transport() *transport.DataChannelTransport {
	return v.transport
}

// OnControlOpen registers cb to run once the control channel is usable.
func (v *Viewer) OnControlOpen(cb func()) {
	v.mu.Lock()
	v.onControlOpen = cb
	v.mu.Unlock()
}

// Connect initiates the WebRTC connection by creating and sending an offer.
func (v *Viewer) Connect() error {
	// The viewer does not create channels itself; the offer still needs an
	// SCTP section so the sender's channels can be negotiated.
	if _, err := v.pc.CreateDataChannel("bootstrap", nil); err != nil {
		return err
	}

	offer, err := v.pc.CreateOffer(nil)
	if err != nil {
		return err
	}

	if err := v.pc.SetLocalDescription(offer); err != nil {
		return err
	}

	offerJSON, err := json.Marshal(offer)
	if err != nil {
		return err
	}

	return v.sig.SendOffer(v.senderID, offerJSON)
}

// HandleAnswer processes an incoming SDP answer.
func (v *Viewer) HandleAnswer(payload json.RawMessage) error {
	var answer webrtc.SessionDescription
	if err := json.Unmarshal(payload, &answer); err != nil {
		return err
	}
	return v.pc.SetRemoteDescription(answer)
}

// HandleICECandidate adds a remote ICE candidate.
func (v *Viewer) HandleICECandidate(payload json.RawMessage) error {
	return handleICECandidate(v.pc, payload)
}

// Close shuts down the peer connection.
func (v *Viewer) Close() {
	if v.pc != nil {
		v.pc.Close()
	}
}

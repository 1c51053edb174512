package peer

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/pion/webrtc/v4"

	"github.com/junsooki/AirView/internal/transport"
)

// Sender manages the sending side of the WebRTC connection. It answers
// offers from viewers and owns the data channels.
type Sender struct {
	pc        *webrtc.PeerConnection
	sig       Signaler
	transport *transport.DataChannelTransport
	log       *slog.Logger

	mu     sync.Mutex
	peerID string // the viewer we're connected to
}

// NewSender creates a Sender peer manager.
func NewSender(sig Signaler, iceServers []string, logger *slog.Logger) (*Sender, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "peer", "role", "sender")
	pc, err := NewPeerConnection(iceServers, logger)
	if err != nil {
		return nil, err
	}

	s := &Sender{
		pc:  pc,
		sig: sig,
		log: logger,
	}

	// Channels exist before the answer is created so they are negotiated
	// with it. Stale frames are worthless, so the frames channel neither
	// orders nor retransmits.
	framesOrdered := false
	framesMaxRetransmits := uint16(0)
	framesDC, err := pc.CreateDataChannel(transport.FramesLabel, &webrtc.DataChannelInit{
		Ordered:        &framesOrdered,
		MaxRetransmits: &framesMaxRetransmits,
	})
	if err != nil {
		pc.Close()
		return nil, err
	}

	controlOrdered := true
	controlDC, err := pc.CreateDataChannel(transport.ControlLabel, &webrtc.DataChannelInit{
		Ordered: &controlOrdered,
	})
	if err != nil {
		pc.Close()
		return nil, err
	}

	s.transport = transport.NewDataChannelTransport(framesDC, controlDC, logger)

	pc.OnICECandidate(func(c *webrtc.ICECandidate) {
		s.mu.Lock()
		target := s.peerID
		s.mu.Unlock()
		if c == nil || target == "" {
			return
		}
		sendCandidate(sig, target, c, logger)
	})

	return s, nil
}

// Transport returns the DataChannelTransport for sending frames and receiving
// control messages.
func (s *Sender) Transport() *transport.DataChannelTransport {
	return s.transport
}

// HandleOffer processes an incoming offer from a viewer.
func (s *Sender) HandleOffer(from string, payload json.RawMessage) error {
	s.mu.Lock()
	s.peerID = from
	s.mu.Unlock()

	var offer webrtc.SessionDescription
	if err := json.Unmarshal(payload, &offer); err != nil {
		return err
	}

	if err := s.pc.SetRemoteDescription(offer); err != nil {
		return err
	}

	answer, err := s.pc.CreateAnswer(nil)
	if err != nil {
		return err
	}

	if err := s.pc.SetLocalDescription(answer); err != nil {
		return err
	}

	answerJSON, err := json.Marshal(answer)
	if err != nil {
		return err
	}

	return s.sig.SendAnswer(from, answerJSON)
}

// HandleICECandidate adds a remote ICE candidate.
func (s *Sender) HandleICECandidate(payload json.RawMessage) error {
	return handleICECandidate(s.pc, payload)
}

// Close shuts down the peer connection.
func (s *Sender) Close() {
	if s.pc != nil {
		s.pc.Close()
	}
}

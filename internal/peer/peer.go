package peer

import (
	"encoding/json"
	"log/slog"

	"github.com/pion/webrtc/v4"

	"github.com/junsooki/AirView/internal/logging"
)

// DefaultICEServers is the default STUN configuration.
var DefaultICEServers = []string{"stun:stun.l.google.com:19302", "stun:stun1.l.google.com:19302"}

// Signaler relays session descriptions and candidates to the remote peer.
type Signaler interface {
	SendOffer(target string, payload json.RawMessage) error
	SendAnswer(target string, payload json.RawMessage) error
	SendICECandidate(target string, payload json.RawMessage) error
}

// NewPeerConnection creates a configured PeerConnection whose pion logs go to
// logger.
func NewPeerConnection(iceServers []string, logger *slog.Logger) (*webrtc.PeerConnection, error) {
	if len(iceServers) == 0 {
		iceServers = DefaultICEServers
	}
	se := webrtc.SettingEngine{}
	se.LoggerFactory = &logging.PionLoggerFactory{Logger: logger}
	api := webrtc.NewAPI(webrtc.WithSettingEngine(se))

	pc, err := api.NewPeerConnection(webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{{URLs: iceServers}},
	})
	if err != nil {
		return nil, err
	}
	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		logger.Info("peer connection state", "state", state.String())
	})
	return pc, nil
}

func handleICECandidate(pc *webrtc.PeerConnection, payload json.RawMessage) error {
	var candidate webrtc.ICECandidateInit
	if err := json.Unmarshal(payload, &candidate); err != nil {
		return err
	}
	return pc.AddICECandidate(candidate)
}

func sendCandidate(sig Signaler, target string, c *webrtc.ICECandidate, logger *slog.Logger) {
	data, err := json.Marshal(c.ToJSON())
	if err != nil {
		logger.Warn("marshal ICE candidate", "error", err)
		return
	}
	if err := sig.SendICECandidate(target, data); err != nil {
		logger.Warn("send ICE candidate", "error", err)
	}
}

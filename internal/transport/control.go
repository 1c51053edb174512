package transport

import (
	"encoding/json"
	"fmt"
)

// ControlType identifies the kind of control message.
type ControlType string

const (
	// ControlResolution asks the sender to produce frames of the given size.
	ControlResolution ControlType = "resolution"
	// ControlVideoSize tells the viewer the size the sender settled on.
	ControlVideoSize ControlType = "video_size"
)

// ControlMessage is the wire format of the control data channel.
type ControlMessage struct {
	Type   ControlType `json:"type"`
	Width  int         `json:"width,omitempty"`
	Height int         `json:"height,omitempty"`
}

// ParseControl decodes and validates a control message.
func ParseControl(data []byte) (ControlMessage, error) {
	var msg ControlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, fmt.Errorf("unmarshal control: %w", err)
	}
	switch msg.Type {
	case ControlResolution, ControlVideoSize:
		if msg.Width <= 0 || msg.Height <= 0 {
			return msg, fmt.Errorf("control %s: invalid size %dx%d", msg.Type, msg.Width, msg.Height)
		}
	default:
		return msg, fmt.Errorf("unknown control type %q", msg.Type)
	}
	return msg, nil
}

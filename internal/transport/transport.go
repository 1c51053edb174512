package transport

// Data channel labels.
const (
	FramesLabel  = "frames"
	ControlLabel = "control"
)

// FrameSender sends encoded video frames.
type FrameSender interface {
	SendFrame(data []byte) error
}

// FrameReceiver receives encoded video frames.
type FrameReceiver interface {
	OnFrame(callback func(data []byte))
}

// ControlSender sends control messages to the remote peer.
type ControlSender interface {
	SendControl(msg ControlMessage) error
}

// ControlReceiver receives control messages from the remote peer.
type ControlReceiver interface {
	OnControl(callback func(msg ControlMessage))
}

package surface

import "errors"

var (
	// ErrInvalidConfig is returned for an unsupported gravity value.
	ErrInvalidConfig = errors.New("invalid surface config")
	// ErrInvalidFrame is returned by SubmitFrame for malformed frames.
	ErrInvalidFrame = errors.New("invalid frame")
)

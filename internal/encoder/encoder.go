package encoder

import "image"

// Encoder encodes a frame image into a payload for the frames channel.
type Encoder interface {
	Encode(img image.Image) ([]byte, error)
	SetQuality(quality int)
}

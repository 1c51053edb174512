package decoder

import "github.com/junsooki/AirView/internal/surface"

// Decoder decodes an encoded payload into a frame ready for a surface.
type Decoder interface {
	Decode(data []byte) (*surface.Frame, error)
}

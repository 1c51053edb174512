package decoder

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"time"

	"github.com/junsooki/AirView/internal/surface"
)

var ErrEmptyPayload = errors.New("empty payload")

// JPEGDecoder decodes JPEG payloads into RGBA frames stamped with the time
// elapsed since the decoder was created.
type JPEGDecoder struct {
	start time.Time
	now   func() time.Time
}

func NewJPEGDecoder() *JPEGDecoder {
	return &JPEGDecoder{start: time.Now(), now: time.Now}
}

func (d *JPEGDecoder) Decode(data []byte) (*surface.Frame, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode jpeg: %w", err)
	}
	// Convert to RGBA if needed.
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		b := img.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	}
	return &surface.Frame{
		Pix:       rgba.Pix,
		Width:     rgba.Rect.Dx(),
		Height:    rgba.Rect.Dy(),
		Stride:    rgba.Stride,
		Format:    surface.PixelFormatRGBA,
		Timestamp: d.now().Sub(d.start),
	}, nil
}

var _ Decoder = (*JPEGDecoder)(nil)

// Package canvas implements a software surface.Canvas that composites frames
// into an in-memory RGBA buffer.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"sync"

	"golang.org/x/image/draw"

	"github.com/junsooki/AirView/internal/surface"
)

// Options configure an RGBA canvas.
type Options struct {
	// Background fills the letterbox bars. Defaults to opaque black.
	Background color.Color
	// Scaler resamples frames. Defaults to draw.ApproxBiLinear.
	Scaler draw.Scaler
}

// RGBA renders frames into an *image.RGBA sized to the surface bounds.
type RGBA struct {
	bg     *image.Uniform
	scaler draw.Scaler

	mu     sync.Mutex
	buf    *image.RGBA
	frames uint64
	last   surface.Placement
}

// NewRGBA creates a software canvas.
func NewRGBA(opts Options) *RGBA {
	bg := opts.Background
	if bg == nil {
		bg = color.RGBA{A: 0xff}
	}
	scaler := opts.Scaler
	if scaler == nil {
		scaler = draw.ApproxBiLinear
	}
	return &RGBA{bg: image.NewUniform(bg), scaler: scaler}
}

// Present implements surface.Canvas.
func (c *RGBA) Present(f *surface.Frame, p surface.Placement) error {
	src, err := FrameImage(f)
	if err != nil {
		return err
	}
	if p.Bounds.Empty() {
		return fmt.Errorf("present: empty bounds")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.buf == nil || c.buf.Rect.Dx() != p.Bounds.Width || c.buf.Rect.Dy() != p.Bounds.Height {
		c.buf = image.NewRGBA(image.Rect(0, 0, p.Bounds.Width, p.Bounds.Height))
	}
	draw.Draw(c.buf, c.buf.Rect, c.bg, image.Point{}, draw.Src)

	dr := roundRect(p.Dst)
	sr := roundRect(p.Src).Add(src.Bounds().Min).Intersect(src.Bounds())
	if !dr.Empty() && !sr.Empty() {
		c.scaler.Scale(c.buf, dr, src, sr, draw.Src, nil)
	}
	c.frames++
	c.last = p
	return nil
}

// Snapshot returns a copy of the last composited image, or nil before the
// first Present.
func (c *RGBA) Snapshot() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buf == nil {
		return nil
	}
	out := image.NewRGBA(c.buf.Rect)
	copy(out.Pix, c.buf.Pix)
	return out
}

// LastPlacement returns the placement used by the last Present.
func (c *RGBA) LastPlacement() surface.Placement {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Frames returns how many frames were presented.
func (c *RGBA) Frames() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// WritePNG writes the last composited image to path.
func (c *RGBA) WritePNG(path string) error {
	img := c.Snapshot()
	if img == nil {
		return fmt.Errorf("write snapshot: nothing presented yet")
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return file.Close()
}

func roundRect(r surface.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)),
		int(math.Round(r.Y+r.H)),
	)
}

var _ surface.Canvas = (*RGBA)(nil)

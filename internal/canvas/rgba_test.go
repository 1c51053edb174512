package canvas

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsooki/AirView/internal/surface"
)

var red = color.RGBA{R: 0xff, A: 0xff}

func solidFrame(w, h int, c color.RGBA) *surface.Frame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return &surface.Frame{Pix: img.Pix, Width: w, Height: h, Stride: img.Stride, Format: surface.PixelFormatRGBA}
}

func TestPresentFitLetterboxes(t *testing.T) {
	c := NewRGBA(Options{})
	bounds := surface.Size{Width: 400, Height: 300}
	f := solidFrame(192, 108, red)

	err := c.Present(f, surface.ComputePlacement(surface.GravityFit, bounds, f.Width, f.Height))
	require.NoError(t, err)

	img := c.Snapshot()
	require.NotNil(t, img)
	assert.Equal(t, image.Rect(0, 0, 400, 300), img.Rect)
	// 37.5px bars above and below.
	assert.Equal(t, color.RGBA{A: 0xff}, img.RGBAAt(200, 10))
	assert.Equal(t, color.RGBA{A: 0xff}, img.RGBAAt(200, 290))
	assert.Equal(t, red, img.RGBAAt(200, 150))
	assert.Equal(t, red, img.RGBAAt(0, 40))
	assert.Equal(t, red, img.RGBAAt(399, 260))
	assert.EqualValues(t, 1, c.Frames())
}

func TestPresentFillCovers(t *testing.T) {
	c := NewRGBA(Options{Background: color.White})
	bounds := surface.Size{Width: 400, Height: 300}
	f := solidFrame(192, 108, red)

	require.NoError(t, c.Present(f, surface.ComputePlacement(surface.GravityFill, bounds, f.Width, f.Height)))

	img := c.Snapshot()
	for _, pt := range []image.Point{{0, 0}, {399, 0}, {0, 299}, {399, 299}, {200, 150}} {
		assert.Equal(t, red, img.RGBAAt(pt.X, pt.Y), pt)
	}
	assert.Equal(t, surface.GravityFill, c.LastPlacement().Gravity)
}

func TestPresentResizesBuffer(t *testing.T) {
	c := NewRGBA(Options{})
	f := solidFrame(8, 8, red)
	require.NoError(t, c.Present(f, surface.ComputePlacement(surface.GravityFit, surface.Size{Width: 10, Height: 10}, 8, 8)))
	require.NoError(t, c.Present(f, surface.ComputePlacement(surface.GravityFit, surface.Size{Width: 20, Height: 12}, 8, 8)))
	assert.Equal(t, image.Rect(0, 0, 20, 12), c.Snapshot().Rect)
}

func TestPresentRejectsBadInput(t *testing.T) {
	c := NewRGBA(Options{})
	f := solidFrame(8, 8, red)
	assert.Error(t, c.Present(f, surface.Placement{}))

	bad := &surface.Frame{Pix: make([]byte, 3), Width: 8, Height: 8, Format: surface.PixelFormatRGBA}
	assert.ErrorIs(t, c.Present(bad, surface.ComputePlacement(surface.GravityFit, surface.Size{Width: 8, Height: 8}, 8, 8)), surface.ErrInvalidFrame)
}

func TestWritePNG(t *testing.T) {
	c := NewRGBA(Options{})
	path := filepath.Join(t.TempDir(), "snap.png")
	assert.Error(t, c.WritePNG(path))

	f := solidFrame(8, 8, red)
	require.NoError(t, c.Present(f, surface.ComputePlacement(surface.GravityFit, surface.Size{Width: 16, Height: 16}, 8, 8)))
	assert.NoError(t, c.WritePNG(path))
	assert.FileExists(t, path)
}

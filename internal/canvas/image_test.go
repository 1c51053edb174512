package canvas

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsooki/AirView/internal/surface"
)

func TestFrameImageBGRA(t *testing.T) {
	f := &surface.Frame{
		Pix:    []byte{1, 2, 3, 4, 5, 6, 7, 8},
		Width:  2,
		Height: 1,
		Format: surface.PixelFormatBGRA,
	}
	img, err := FrameImage(f)
	require.NoError(t, err)
	rgba := img.(*image.RGBA)
	assert.Equal(t, []byte{3, 2, 1, 4, 7, 6, 5, 8}, rgba.Pix)
}

func TestFrameImageRGBAIsNotCopied(t *testing.T) {
	f := &surface.Frame{Pix: make([]byte, 16), Width: 2, Height: 2, Format: surface.PixelFormatRGBA}
	img, err := FrameImage(f)
	require.NoError(t, err)
	assert.Same(t, &f.Pix[0], &img.(*image.RGBA).Pix[0])
}

func TestFrameImagePlanar(t *testing.T) {
	// 2x2 I420: four luma bytes then one Cb and one Cr.
	i420 := &surface.Frame{Pix: []byte{10, 20, 30, 40, 50, 60}, Width: 2, Height: 2, Format: surface.PixelFormatI420}
	img, err := FrameImage(i420)
	require.NoError(t, err)
	ycc := img.(*image.YCbCr)
	assert.Equal(t, []byte{50}, ycc.Cb)
	assert.Equal(t, []byte{60}, ycc.Cr)

	nv12 := &surface.Frame{Pix: []byte{10, 20, 30, 40, 50, 60}, Width: 2, Height: 2, Format: surface.PixelFormatNV12}
	img, err = FrameImage(nv12)
	require.NoError(t, err)
	assert.Equal(t, color.YCbCr{Y: 10, Cb: 50, Cr: 60}, img.At(0, 0))
}

func TestFrameImageRejectsInvalid(t *testing.T) {
	_, err := FrameImage(&surface.Frame{Width: 2, Height: 2, Format: surface.PixelFormatRGBA})
	assert.ErrorIs(t, err, surface.ErrInvalidFrame)
}

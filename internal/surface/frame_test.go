package surface

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameBufferSize(t *testing.T) {
	cases := []struct {
		name string
		f    *Frame
		want int
	}{
		{"rgba packed", &Frame{Width: 4, Height: 2, Format: PixelFormatRGBA}, 32},
		{"bgra padded", &Frame{Width: 4, Height: 2, Stride: 20, Format: PixelFormatBGRA}, 36},
		{"i420 even", &Frame{Width: 4, Height: 2, Format: PixelFormatI420}, 8 + 2*2},
		{"nv12 odd", &Frame{Width: 3, Height: 3, Format: PixelFormatNV12}, 9 + 2*4},
	}
	for _, tc := range cases {
		got, err := tc.f.bufferSize()
		assert.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestFrameBufferSizeOverflow(t *testing.T) {
	cases := map[string]*Frame{
		"rgba width wraps":   {Width: math.MaxInt/4 + 1, Height: 1, Format: PixelFormatRGBA},
		"rgba width to zero": {Width: 1 << (strconv.IntSize - 2), Height: 1, Format: PixelFormatRGBA},
		"bgra tall":          {Width: 4, Height: math.MaxInt / 8, Format: PixelFormatBGRA},
		"rgba huge stride":   {Width: 4, Height: 3, Stride: math.MaxInt / 2, Format: PixelFormatRGBA},
		"i420 luma":          {Width: math.MaxInt / 2, Height: 4, Format: PixelFormatI420},
		"nv12 chroma":        {Width: math.MaxInt / 3, Height: 3, Stride: math.MaxInt / 3, Format: PixelFormatNV12},
	}
	for name, f := range cases {
		_, err := f.bufferSize()
		assert.ErrorIs(t, err, ErrInvalidFrame, name)
		assert.ErrorIs(t, f.Validate(), ErrInvalidFrame, name)
	}
}

func TestFrameReleaseRunsOnce(t *testing.T) {
	n := 0
	f := &Frame{OnRelease: func() { n++ }}
	f.release()
	f.release()
	assert.Equal(t, 1, n)

	var nilFrame *Frame
	nilFrame.release()
}

package surface

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// PixelFormat tags the layout of a frame's pixel buffer. The surface treats it
// as opaque metadata and only uses it to size-check the buffer.
type PixelFormat int

const (
	PixelFormatUnknown PixelFormat = iota
	PixelFormatRGBA
	PixelFormatBGRA
	PixelFormatI420
	PixelFormatNV12
)

func (p PixelFormat) String() string {
	switch p {
	case PixelFormatRGBA:
		return "rgba"
	case PixelFormatBGRA:
		return "bgra"
	case PixelFormatI420:
		return "i420"
	case PixelFormatNV12:
		return "nv12"
	default:
		return "unknown"
	}
}

// Rotation is orientation metadata carried from the producer to the canvas
// without transformation.
type Rotation int

const (
	Rotation0   Rotation = 0
	Rotation90  Rotation = 90
	Rotation180 Rotation = 180
	Rotation270 Rotation = 270
)

// Frame is a decoded video frame. It must not be modified after SubmitFrame.
type Frame struct {
	Pix    []byte
	Width  int
	Height int
	// Stride is the byte length of one row of the first plane. Zero means
	// tightly packed.
	Stride    int
	Format    PixelFormat
	Rotation  Rotation
	Timestamp time.Duration

	// OnRelease, when set, is called once when the surface drops its last
	// reference to the frame.
	OnRelease func()

	releaseOnce sync.Once
}

// Validate reports whether the frame is well formed. The returned error wraps
// ErrInvalidFrame.
func (f *Frame) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", ErrInvalidFrame)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidFrame, f.Width, f.Height)
	}
	need, err := f.bufferSize()
	if err != nil {
		return err
	}
	if len(f.Pix) < need {
		return fmt.Errorf("%w: %s buffer is %d bytes, need %d", ErrInvalidFrame, f.Format, len(f.Pix), need)
	}
	return nil
}

func (f *Frame) bufferSize() (int, error) {
	w, h := f.Width, f.Height
	switch f.Format {
	case PixelFormatRGBA, PixelFormatBGRA:
		row, ok := mulInt(4, w)
		if !ok {
			return 0, errTooLarge(f)
		}
		stride := f.Stride
		if stride == 0 {
			stride = row
		}
		if stride < row {
			return 0, fmt.Errorf("%w: stride %d shorter than row %d", ErrInvalidFrame, stride, row)
		}
		body, ok := mulInt(stride, h-1)
		if !ok || body > math.MaxInt-row {
			return 0, errTooLarge(f)
		}
		return body + row, nil
	case PixelFormatI420, PixelFormatNV12:
		stride := f.Stride
		if stride == 0 {
			stride = w
		}
		if stride < w {
			return 0, fmt.Errorf("%w: stride %d shorter than row %d", ErrInvalidFrame, stride, w)
		}
		luma, ok := mulInt(stride, h)
		if !ok {
			return 0, errTooLarge(f)
		}
		cw, ch := w/2+w%2, h/2+h%2
		chroma, ok := mulInt(cw, ch)
		if !ok || chroma > (math.MaxInt-luma)/2 {
			return 0, errTooLarge(f)
		}
		return luma + 2*chroma, nil
	default:
		return 0, fmt.Errorf("%w: unsupported pixel format %d", ErrInvalidFrame, int(f.Format))
	}
}

// mulInt multiplies two non-negative ints, reporting false on overflow.
func mulInt(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

func errTooLarge(f *Frame) error {
	return fmt.Errorf("%w: %s frame %dx%d stride %d is too large", ErrInvalidFrame, f.Format, f.Width, f.Height, f.Stride)
}

// RowStride returns the effective stride of the first plane.
func (f *Frame) RowStride() int {
	if f.Stride != 0 {
		return f.Stride
	}
	switch f.Format {
	case PixelFormatRGBA, PixelFormatBGRA:
		return 4 * f.Width
	default:
		return f.Width
	}
}

// Size returns the frame dimensions.
func (f *Frame) Size() Size {
	return Size{Width: f.Width, Height: f.Height}
}

func (f *Frame) release() {
	if f == nil {
		return
	}
	f.releaseOnce.Do(func() {
		if f.OnRelease != nil {
			f.OnRelease()
		}
	})
}

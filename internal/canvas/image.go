package canvas

import (
	"fmt"
	"image"

	"github.com/junsooki/AirView/internal/surface"
)

// FrameImage wraps a frame's pixels as an image.Image. RGBA and I420 frames
// are wrapped without copying; BGRA and NV12 are converted.
func FrameImage(f *surface.Frame) (image.Image, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	r := image.Rect(0, 0, f.Width, f.Height)
	stride := f.RowStride()

	switch f.Format {
	case surface.PixelFormatRGBA:
		return &image.RGBA{Pix: f.Pix, Stride: stride, Rect: r}, nil
	case surface.PixelFormatBGRA:
		img := image.NewRGBA(r)
		for y := 0; y < f.Height; y++ {
			src := f.Pix[y*stride : y*stride+4*f.Width]
			dst := img.Pix[y*img.Stride : y*img.Stride+4*f.Width]
			for x := 0; x < len(src); x += 4 {
				dst[x+0] = src[x+2]
				dst[x+1] = src[x+1]
				dst[x+2] = src[x+0]
				dst[x+3] = src[x+3]
			}
		}
		return img, nil
	case surface.PixelFormatI420:
		cw, ch := (f.Width+1)/2, (f.Height+1)/2
		ySize := stride * f.Height
		return &image.YCbCr{
			Y:              f.Pix[:ySize],
			Cb:             f.Pix[ySize : ySize+cw*ch],
			Cr:             f.Pix[ySize+cw*ch : ySize+2*cw*ch],
			YStride:        stride,
			CStride:        cw,
			SubsampleRatio: image.YCbCrSubsampleRatio420,
			Rect:           r,
		}, nil
	case surface.PixelFormatNV12:
		cw, ch := (f.Width+1)/2, (f.Height+1)/2
		ySize := stride * f.Height
		img := &image.YCbCr{
			Y:              f.Pix[:ySize],
			Cb:             make([]byte, cw*ch),
			Cr:             make([]byte, cw*ch),
			YStride:        stride,
			CStride:        cw,
			SubsampleRatio: image.YCbCrSubsampleRatio420,
			Rect:           r,
		}
		uv := f.Pix[ySize : ySize+2*cw*ch]
		for i := 0; i < cw*ch; i++ {
			img.Cb[i] = uv[2*i]
			img.Cr[i] = uv[2*i+1]
		}
		return img, nil
	}
	return nil, fmt.Errorf("%w: unsupported pixel format %s", surface.ErrInvalidFrame, f.Format)
}

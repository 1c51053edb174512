package surface

import (
	"fmt"
	"math"
	"strings"
)

// Gravity selects how a frame's aspect ratio maps onto the surface bounds.
type Gravity int

const (
	// GravityFit scales the frame to be fully visible, letterboxing the rest.
	GravityFit Gravity = iota
	// GravityFill scales the frame to cover the bounds, cropping the excess.
	GravityFill
	// GravityStretch scales each axis independently, ignoring aspect ratio.
	GravityStretch
)

func (g Gravity) String() string {
	switch g {
	case GravityFit:
		return "fit"
	case GravityFill:
		return "fill"
	case GravityStretch:
		return "stretch"
	default:
		return fmt.Sprintf("gravity(%d)", int(g))
	}
}

// Valid reports whether g is one of the defined modes.
func (g Gravity) Valid() bool {
	return g == GravityFit || g == GravityFill || g == GravityStretch
}

// ParseGravity accepts the short names and the AVLayerVideoGravity names.
func ParseGravity(s string) (Gravity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fit", "aspect", "resizeaspect":
		return GravityFit, nil
	case "fill", "aspectfill", "resizeaspectfill":
		return GravityFill, nil
	case "stretch", "resize":
		return GravityStretch, nil
	}
	return 0, fmt.Errorf("%w: unknown gravity %q", ErrInvalidConfig, s)
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  int
	Height int
}

func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is an axis-aligned rectangle in floating point pixels.
type Rect struct {
	X, Y, W, H float64
}

// Placement describes where a frame lands on the surface.
type Placement struct {
	Gravity Gravity
	Bounds  Size

	// ScaleX/ScaleY and OffsetX/OffsetY map frame coordinates to surface
	// coordinates: sx = x*ScaleX + OffsetX.
	ScaleX, ScaleY   float64
	OffsetX, OffsetY float64

	// Dst is the visible region on the surface, Src the visible region of
	// the frame. They differ from the full frame only for GravityFill.
	Dst Rect
	Src Rect
}

// RenderedSize is the size of the scaled frame before clipping.
func (p Placement) RenderedSize(frame Size) (w, h float64) {
	return float64(frame.Width) * p.ScaleX, float64(frame.Height) * p.ScaleY
}

// ComputePlacement returns the transform that maps a frame of the given size
// onto bounds. Empty bounds or frame sizes yield a zero Placement.
func ComputePlacement(g Gravity, bounds Size, frameW, frameH int) Placement {
	p := Placement{Gravity: g, Bounds: bounds}
	if bounds.Empty() || frameW <= 0 || frameH <= 0 {
		return p
	}
	viewW, viewH := float64(bounds.Width), float64(bounds.Height)
	fw, fh := float64(frameW), float64(frameH)

	switch g {
	case GravityFill:
		s := math.Max(viewW/fw, viewH/fh)
		p.ScaleX, p.ScaleY = s, s
	case GravityStretch:
		p.ScaleX, p.ScaleY = viewW/fw, viewH/fh
	default:
		s := math.Min(viewW/fw, viewH/fh)
		p.ScaleX, p.ScaleY = s, s
	}
	p.OffsetX = (viewW - fw*p.ScaleX) / 2
	p.OffsetY = (viewH - fh*p.ScaleY) / 2

	// Clip the scaled frame to the bounds.
	x0 := math.Max(p.OffsetX, 0)
	y0 := math.Max(p.OffsetY, 0)
	x1 := math.Min(p.OffsetX+fw*p.ScaleX, viewW)
	y1 := math.Min(p.OffsetY+fh*p.ScaleY, viewH)
	p.Dst = Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
	p.Src = Rect{
		X: (x0 - p.OffsetX) / p.ScaleX,
		Y: (y0 - p.OffsetY) / p.ScaleY,
		W: p.Dst.W / p.ScaleX,
		H: p.Dst.H / p.ScaleY,
	}
	return p
}

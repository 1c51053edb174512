// Package pattern draws a moving test pattern used by the sender as its frame
// source.
package pattern

import (
	"fmt"
	"image"
	"sync"

	"github.com/fogleman/gg"
)

// bars are the classic seven colour bars.
var bars = [][3]float64{
	{0.75, 0.75, 0.75},
	{0.75, 0.75, 0},
	{0, 0.75, 0.75},
	{0, 0.75, 0},
	{0.75, 0, 0.75},
	{0.75, 0, 0},
	{0, 0, 0.75},
}

// MinSize is the smallest pattern dimension accepted by Resize.
const MinSize = 16

// Generator produces pattern frames at an adjustable resolution.
type Generator struct {
	mu     sync.Mutex
	width  int
	height int
	maxW   int
	maxH   int
	frame  uint64
}

// NewGenerator creates a generator. Requested sizes are clamped to maxW x maxH.
func NewGenerator(width, height, maxW, maxH int) *Generator {
	g := &Generator{maxW: maxW, maxH: maxH}
	g.Resize(width, height)
	return g
}

// Resize changes the resolution of subsequent frames and returns the size
// actually used: clamped to [MinSize, max] and rounded down to even values.
func (g *Generator) Resize(width, height int) (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.width = clamp(width, g.maxW) &^ 1
	g.height = clamp(height, g.maxH) &^ 1
	return g.width, g.height
}

// Size returns the current resolution.
func (g *Generator) Size() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.width, g.height
}

// Next draws the next frame.
func (g *Generator) Next() image.Image {
	g.mu.Lock()
	w, h, n := g.width, g.height, g.frame
	g.frame++
	g.mu.Unlock()

	dc := gg.NewContext(w, h)
	barW := float64(w) / float64(len(bars))
	for i, c := range bars {
		dc.SetRGB(c[0], c[1], c[2])
		dc.DrawRectangle(float64(i)*barW, 0, barW+1, float64(h))
		dc.Fill()
	}

	// A sweeping line makes dropped or repeated frames visible.
	x := float64(n%uint64(w)) + 0.5
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(2)
	dc.DrawLine(x, 0, x, float64(h))
	dc.Stroke()

	label := fmt.Sprintf("#%d %dx%d", n, w, h)
	dc.SetRGB(0, 0, 0)
	dc.DrawRectangle(0, float64(h)/2-10, float64(w), 20)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(label, float64(w)/2, float64(h)/2, 0.5, 0.5)
	return dc.Image()
}

func clamp(v, max int) int {
	if max > 0 && v > max {
		v = max
	}
	if v < MinSize {
		v = MinSize
	}
	return v
}

package display

import "github.com/junsooki/AirView/internal/surface"

// Display is a window that drives a surface: it is the surface's display
// clock, its canvas, and the source of its bounds.
type Display interface {
	surface.DisplayClock
	surface.Canvas
	Run() error
	Close()
}

// ResizeCallback is called with the new drawable size when the window layout
// changes.
type ResizeCallback func(width, height int)

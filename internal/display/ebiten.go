package display

import (
	"errors"
	"image"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"

	"github.com/junsooki/AirView/internal/canvas"
	"github.com/junsooki/AirView/internal/clock"
	"github.com/junsooki/AirView/internal/surface"
)

var errNoScreen = errors.New("present called outside of Draw")

// EbitenDisplay renders a surface in an Ebitengine window. Every Draw call is
// one display tick.
type EbitenDisplay struct {
	title    string
	width    int
	height   int
	onResize ResizeCallback

	ticks  *clock.Manual
	closed atomic.Bool

	// Only touched on the game loop goroutine.
	screen      *ebiten.Image
	ebitenImage *ebiten.Image
	scratch     *image.RGBA
}

// NewEbitenDisplay creates an Ebitengine-based display with the given initial
// window size.
func NewEbitenDisplay(title string, width, height int, onResize ResizeCallback) *EbitenDisplay {
	if width <= 0 || height <= 0 {
		width, height = 1280, 720
	}
	return &EbitenDisplay{
		title:    title,
		width:    width,
		height:   height,
		onResize: onResize,
		ticks:    clock.NewManual(),
	}
}

// Subscribe implements surface.DisplayClock.
func (d *EbitenDisplay) Subscribe(fn func()) func() {
	return d.ticks.Subscribe(fn)
}

// Run starts the Ebitengine game loop. Must be called from the main goroutine.
func (d *EbitenDisplay) Run() error {
	ebiten.SetWindowSize(d.width, d.height)
	ebiten.SetWindowTitle(d.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	err := ebiten.RunGame(d)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Close ends the game loop at the next update.
func (d *EbitenDisplay) Close() {
	d.closed.Store(true)
}

// --- ebiten.Game interface ---

func (d *EbitenDisplay) Update() error {
	if d.closed.Load() {
		return ebiten.Termination
	}
	return nil
}

func (d *EbitenDisplay) Draw(screen *ebiten.Image) {
	d.screen = screen
	d.ticks.Tick()
	d.screen = nil
}

func (d *EbitenDisplay) Layout(outsideWidth, outsideHeight int) (int, int) {
	if d.onResize != nil {
		d.onResize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Present implements surface.Canvas. It is only valid during Draw, which is
// where the surface's ticks come from.
func (d *EbitenDisplay) Present(f *surface.Frame, p surface.Placement) error {
	if d.screen == nil {
		return errNoScreen
	}
	pix, err := d.rgbaPixels(f)
	if err != nil {
		return err
	}

	if d.ebitenImage == nil ||
		d.ebitenImage.Bounds().Dx() != f.Width ||
		d.ebitenImage.Bounds().Dy() != f.Height {
		if d.ebitenImage != nil {
			d.ebitenImage.Deallocate()
		}
		d.ebitenImage = ebiten.NewImage(f.Width, f.Height)
	}
	d.ebitenImage.WritePixels(pix)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(p.ScaleX, p.ScaleY)
	op.GeoM.Translate(p.OffsetX, p.OffsetY)
	op.Filter = ebiten.FilterLinear
	d.screen.DrawImage(d.ebitenImage, op)
	return nil
}

// rgbaPixels returns tightly packed RGBA pixels for f, converting when the
// frame is in another format or padded.
func (d *EbitenDisplay) rgbaPixels(f *surface.Frame) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.Format == surface.PixelFormatRGBA && f.RowStride() == 4*f.Width {
		return f.Pix[:4*f.Width*f.Height], nil
	}
	src, err := canvas.FrameImage(f)
	if err != nil {
		return nil, err
	}
	r := image.Rect(0, 0, f.Width, f.Height)
	if d.scratch == nil || d.scratch.Rect != r {
		d.scratch = image.NewRGBA(r)
	}
	draw.Draw(d.scratch, r, src, src.Bounds().Min, draw.Src)
	return d.scratch.Pix, nil
}

var _ Display = (*EbitenDisplay)(nil)

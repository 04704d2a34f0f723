//go:build cgo

package app

import (
	"context"
	"errors"
	"image"
	"image/draw"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// WindowConfig controls the desktop window.
type WindowConfig struct {
	Title         string
	Width, Height int // initial window size
	Scale         int // the render size is the window size divided by Scale
}

// RunWindow opens a window that ticks a once per presented frame and
// shows the result. Mouse drags orbit the camera, the wheel zooms and the keyboard
// drives the light panel. It blocks until the window closes.
func RunWindow(a *Animator, cfg WindowConfig) error {
	if cfg.Scale <= 0 {
		cfg.Scale = 2
	}
	if cfg.Title == "" {
		cfg.Title = "Orrery"
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = a.Size()
		cfg.Width *= cfg.Scale
		cfg.Height *= cfg.Scale
	}

	g := &hostGame{a: a, scale: cfg.Scale}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(ebiten.SyncWithFPS)
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type hostGame struct {
	a     *Animator
	scale int

	dragging     bool
	lastX, lastY int

	img     *ebiten.Image
	scratch *image.RGBA
}

func (g *hostGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.pointer()
	g.keys()
	return nil
}

func (g *hostGame) pointer() {
	x, y := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if g.dragging {
			_, h := g.a.Size()
			g.a.Controls().Rotate(float64(x-g.lastX), float64(y-g.lastY), h)
		}
		g.dragging = true
		g.lastX, g.lastY = x, y
	} else {
		g.dragging = false
	}

	// wheel up zooms in
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.a.Controls().Dolly(-wy)
	}
}

func (g *hostGame) keys() {
	p := g.a.Panel()
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		p.Hidden = !p.Hidden
	case p.Hidden:
	case inpututil.IsKeyJustPressed(ebiten.KeyTab) && shift,
		inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		p.Prev()
	case inpututil.IsKeyJustPressed(ebiten.KeyTab),
		inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		p.Next()
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter),
		inpututil.IsKeyJustPressed(ebiten.KeySpace):
		p.Activate()
	case repeating(ebiten.KeyArrowRight) && shift:
		p.Adjust(1)
	case repeating(ebiten.KeyArrowLeft) && shift:
		p.Adjust(-1)
	case repeating(ebiten.KeyArrowRight):
		p.Nudge(1)
	case repeating(ebiten.KeyArrowLeft):
		p.Nudge(-1)
	}
}

// repeating reports a key press with auto-repeat after a short hold.
func repeating(k ebiten.Key) bool {
	d := inpututil.KeyPressDuration(k)
	return d == 1 || (d > 20 && d%4 == 0)
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	frame, err := g.a.NextFrame(context.Background())
	if err != nil {
		g.a.log.Error("frame failed", "err", err)
		return
	}
	b := frame.Bounds()
	if g.img == nil || g.scratch.Bounds() != b {
		if g.img != nil {
			g.img.Deallocate()
		}
		g.img = ebiten.NewImage(b.Dx(), b.Dy())
		g.scratch = image.NewRGBA(b)
	}
	draw.Draw(g.scratch, b, frame, b.Min, draw.Src)
	g.img.WritePixels(g.scratch.Pix)
	screen.DrawImage(g.img, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := outsideWidth/g.scale, outsideHeight/g.scale
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	g.a.Resize(w, h)
	return w, h
}

package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/echoflaresat/orrery/vectors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

var (
	overlayText  = color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	overlayFocus = color.NRGBA{R: 0xff, G: 0xd0, B: 0x40, A: 0xff}
	overlayBack  = color.NRGBA{R: 0x10, G: 0x10, B: 0x18, A: 0xb0}
	helperColor  = color.NRGBA{R: 0xff, G: 0xaa, B: 0x00, A: 0xff}
)

const lineHeight = 15

// TextLine is one row of overlay text. Focus highlights the row.
type TextLine struct {
	Text  string
	Focus bool
}

// DrawTextBlock draws lines on a translucent backing box whose top-left
// corner is at (x, y). Returns the box bounds.
func DrawTextBlock(dst draw.Image, x, y int, lines []TextLine) image.Rectangle {
	if len(lines) == 0 {
		return image.Rectangle{}
	}
	face := basicfont.Face7x13
	w, h := TextBlockSize(lines)
	box := image.Rect(x, y, x+w, y+h)
	draw.Draw(dst, box, image.NewUniform(overlayBack), image.Point{}, draw.Over)

	d := font.Drawer{Dst: dst, Face: face}
	for i, l := range lines {
		col := overlayText
		if l.Focus {
			col = overlayFocus
		}
		d.Src = image.NewUniform(col)
		d.Dot = fixed.P(x+6, y+4+(i+1)*lineHeight-3)
		d.DrawString(l.Text)
	}
	return box
}

// TextBlockSize is the size of the box DrawTextBlock would draw for lines.
func TextBlockSize(lines []TextLine) (width, height int) {
	if len(lines) == 0 {
		return 0, 0
	}
	for _, l := range lines {
		if w := font.MeasureString(basicfont.Face7x13, l.Text).Ceil(); w > width {
			width = w
		}
	}
	return width + 12, len(lines)*lineHeight + 8
}

// DrawLine draws an anti-aliased segment of the given width.
func DrawLine(dst draw.Image, x0, y0, x1, y1, width float64, c color.Color) {
	dir := vectors.New(x1-x0, y1-y0, 0)
	if dir.Norm() == 0 {
		return
	}
	n := vectors.New(-dir.Y, dir.X, 0).Normalize().Scale(width / 2)

	b := dst.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	ox, oy := float64(b.Min.X), float64(b.Min.Y)
	r.MoveTo(float32(x0+n.X-ox), float32(y0+n.Y-oy))
	r.LineTo(float32(x1+n.X-ox), float32(y1+n.Y-oy))
	r.LineTo(float32(x1-n.X-ox), float32(y1-n.Y-oy))
	r.LineTo(float32(x0-n.X-ox), float32(y0-n.Y-oy))
	r.ClosePath()
	r.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// DrawLightHelper draws the light's path from its position to its target
// as seen by cam. Segments behind the camera are not drawn.
func DrawLightHelper(dst draw.Image, cam *Camera, from, to vectors.Vec3) bool {
	b := dst.Bounds()
	x0, y0, ok0 := cam.Project(from, b.Dx(), b.Dy())
	x1, y1, ok1 := cam.Project(to, b.Dx(), b.Dy())
	if !ok0 || !ok1 {
		return false
	}
	DrawLine(dst, x0+float64(b.Min.X), y0+float64(b.Min.Y), x1+float64(b.Min.X), y1+float64(b.Min.Y), 2, helperColor)
	return true
}

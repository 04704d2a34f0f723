package colors

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var ErrInvalidColor = errors.New("invalid color")

// Color4 is a linear RGBA color with float64 components in [0,1].
type Color4 struct {
	R, G, B, A float64
}

func New(r, g, b, a float64) Color4 {
	return Color4{R: r, G: g, B: b, A: a}
}

// Hex builds an opaque color from a 0xRRGGBB value.
func Hex(rgb uint32) Color4 {
	return From8BitRgb(byte(rgb>>16), byte(rgb>>8), byte(rgb), 255)
}

// Parse accepts "#rrggbb", "rrggbb" or "0xrrggbb".
func Parse(s string) (Color4, error) {
	v := strings.TrimSpace(strings.ToLower(s))
	v = strings.TrimPrefix(v, "#")
	v = strings.TrimPrefix(v, "0x")
	if len(v) != 6 {
		return Color4{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return Color4{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Hex(uint32(n)), nil
}

// String formats the RGB part as "#rrggbb".
func (c Color4) String() string {
	return fmt.Sprintf("#%02x%02x%02x", round8bit(c.R), round8bit(c.G), round8bit(c.B))
}

func (c Color4) RGBA() (r, g, b, a uint32) {
	rf := clamp01(c.R)
	gf := clamp01(c.G)
	bf := clamp01(c.B)
	af := clamp01(c.A)

	// Convert to pre-multiplied 16-bit values
	return uint32(rf * af * 65535),
		uint32(gf * af * 65535),
		uint32(bf * af * 65535),
		uint32(af * 65535)
}

func FromStandardColor(c color.Color) Color4 {
	// Fast path: already a Color4
	if c4, ok := c.(Color4); ok {
		return c4
	}

	r16, g16, b16, a16 := c.RGBA()
	if a16 == 0 {
		return Color4{R: 0, G: 0, B: 0, A: 0}
	}

	// De-premultiply and normalize to [0,1]
	invA := float64(0xFFFF) / float64(a16)
	return Color4{
		R: float64(r16) * invA / 65535.0,
		G: float64(g16) * invA / 65535.0,
		B: float64(b16) * invA / 65535.0,
		A: float64(a16) / 65535.0,
	}
}

func From8BitRgb(r, g, b, a byte) Color4 {
	return Color4{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
		A: float64(a) / 255.0,
	}
}

func White() Color4 {
	return Color4{R: 1, G: 1, B: 1, A: 1}
}

func Black() Color4 {
	return Color4{R: 0, G: 0, B: 0, A: 1}
}

// Add returns c + o (component-wise).
func (c Color4) Add(o Color4) Color4 {
	return Color4{c.R + o.R, c.G + o.G, c.B + o.B, c.A + o.A}
}

// AddRGB adds the RGB components of o and keeps c's alpha.
func (c Color4) AddRGB(o Color4) Color4 {
	return Color4{c.R + o.R, c.G + o.G, c.B + o.B, c.A}
}

// Mul returns c * o (component-wise).
func (c Color4) Mul(o Color4) Color4 {
	return Color4{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}

// Scale returns c * s (scalar).
func (c Color4) Scale(s float64) Color4 {
	return Color4{c.R * s, c.G * s, c.B * s, c.A * s}
}

// ScaleRGB scales the RGB components and keeps alpha.
func (c Color4) ScaleRGB(s float64) Color4 {
	return Color4{c.R * s, c.G * s, c.B * s, c.A}
}

// Mix returns lerp(c, o, t) = c*(1-t) + o*t.
func (c Color4) Mix(o Color4, t float64) Color4 {
	return Color4{
		R: c.R*(1-t) + o.R*t,
		G: c.G*(1-t) + o.G*t,
		B: c.B*(1-t) + o.B*t,
		A: c.A*(1-t) + o.A*t,
	}
}

func (c Color4) WithAlpha(a float64) Color4 {
	return Color4{
		R: c.R,
		G: c.G,
		B: c.B,
		A: a,
	}
}

// Over composites c (with its alpha) over an opaque background.
func (c Color4) Over(bg Color4) Color4 {
	a := clamp01(c.A)
	return Color4{
		R: c.R*a + bg.R*(1-a),
		G: c.G*a + bg.G*(1-a),
		B: c.B*a + bg.B*(1-a),
		A: 1.0,
	}
}

// Clamp01 clamps each component into [0,1].
func (c Color4) Clamp01() Color4 {
	return Color4{
		R: clamp01(c.R),
		G: clamp01(c.G),
		B: clamp01(c.B),
		A: clamp01(c.A),
	}
}

// RotateHue shifts the hue by deg degrees, keeping saturation and value.
func (c Color4) RotateHue(deg float64) Color4 {
	h, s, v := c.hsv()
	h = math.Mod(h+deg, 360)
	if h < 0 {
		h += 360
	}
	out := colorful.Hsv(h, s, v).Clamped()
	return Color4{R: out.R, G: out.G, B: out.B, A: c.A}
}

// Saturation is the HSV saturation of the clamped RGB part.
func (c Color4) Saturation() float64 {
	_, s, _ := c.hsv()
	return s
}

// WithSaturation sets the HSV saturation, clamped into [0,1], keeping hue
// and value. A grey color starts from hue 0.
func (c Color4) WithSaturation(s float64) Color4 {
	h, _, v := c.hsv()
	out := colorful.Hsv(h, clamp01(s), v).Clamped()
	return Color4{R: out.R, G: out.G, B: out.B, A: c.A}
}

func (c Color4) hsv() (h, s, v float64) {
	return colorful.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}.Hsv()
}

func (c Color4) ToNRGBA() color.NRGBA {
	return color.NRGBA{
		to8bit(c.R),
		to8bit(c.G),
		to8bit(c.B),
		to8bit(c.A),
	}
}

// --- helpers ---

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// to8bit truncates toward zero.
func to8bit(x float64) uint8 {
	return uint8(255.0 * clamp01(x))
}

func round8bit(x float64) uint8 {
	return uint8(math.Round(255.0 * clamp01(x)))
}

// Package texture loads equirectangular surface maps and samples them by
// direction in a body's local frame.
package texture

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG format with image.Decode
	_ "image/png"  // register PNG format with image.Decode
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/echoflaresat/orrery/colors"
	"github.com/echoflaresat/orrery/texture/tiff"
	"github.com/echoflaresat/orrery/vectors"
	xtiff "github.com/echoflaresat/tiff"
	_ "golang.org/x/image/bmp"  // register BMP format with image.Decode
	_ "golang.org/x/image/webp" // register WebP format with image.Decode
)

// Texture is an equirectangular RGB map. Longitude runs left to right from
// -180° to +180°, latitude top to bottom from +90° to -90°.
type Texture struct {
	Width  int
	Height int
	img    image.Image
}

// New wraps an already decoded image.
func New(img image.Image) Texture {
	b := img.Bounds()
	return Texture{Width: b.Dx(), Height: b.Dy(), img: img}
}

// Load reads a texture from path. Raw striped or tiled TIFFs are memory-mapped
// and read lazily; everything else is decoded fully.
func Load(path string) (Texture, error) {
	img, err := LoadImage(path)
	if err != nil {
		return Texture{}, fmt.Errorf("load texture %s: %w", path, err)
	}
	return New(img), nil
}

// LoadImage tries the lazy TIFF readers first and falls back to the
// registered image codecs.
func LoadImage(path string) (image.Image, error) {
	img, err := tiff.LoadStriped(path)
	if err == nil {
		return img, nil
	}
	if !errors.Is(err, tiff.ErrInvalidTiffHeader) {
		slog.Debug("striped TIFF reader declined", "path", path, "error", err)
	}

	img, err = tiff.LoadTiled(path)
	if err == nil {
		return img, nil
	}
	if !errors.Is(err, tiff.ErrInvalidTiffHeader) {
		slog.Debug("tiled TIFF reader declined", "path", path, "error", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if img, err := xtiff.Decode(f); err == nil {
		return img, nil
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	img, _, err = image.Decode(f)
	return img, err
}

// Close releases memory-mapped backing storage, if any.
func (t Texture) Close() error {
	if c, ok := t.img.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Valid reports whether the texture holds an image.
func (t Texture) Valid() bool {
	return t.img != nil && t.Width > 0 && t.Height > 0
}

// Sample maps a direction in the body's local frame (Y is the polar axis,
// longitude measured from +X towards +Z) to a texel. No interpolation.
func (t Texture) Sample(dir vectors.Vec3) colors.Color4 {
	return t.getColorAtXY(t.getXY(dir))
}

func (t Texture) getColorAtXY(x, y int) colors.Color4 {
	if x < 0 {
		x = 0
	} else if x >= t.Width {
		x = t.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.Height {
		y = t.Height - 1
	}

	b := t.img.Bounds()
	return colors.FromStandardColor(t.img.At(b.Min.X+x, b.Min.Y+y))
}

func (t Texture) getXY(p vectors.Vec3) (int, int) {
	lat := math.Atan2(p.Y, math.Sqrt(p.X*p.X+p.Z*p.Z))
	lon := math.Atan2(p.Z, p.X)

	u := (lon + math.Pi) / (2 * math.Pi) * float64(t.Width)
	u = math.Mod(u, float64(t.Width))
	if u < 0 {
		u += float64(t.Width)
	}
	v := (0.5 - (lat / math.Pi)) * float64(t.Height-1)

	return int(u), int(math.Round(v))
}

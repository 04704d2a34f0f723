package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/echoflaresat/orrery/kinematics"
	"github.com/echoflaresat/orrery/vectors"
)

// quadrants returns a 4x2 map whose columns cover 90° of longitude each.
func quadrants() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	cols := []color.NRGBA{
		{255, 0, 0, 255},   // -180..-90
		{0, 255, 0, 255},   // -90..0
		{0, 0, 255, 255},   // 0..90
		{255, 255, 0, 255}, // 90..180
	}
	for x, c := range cols {
		img.SetNRGBA(x, 0, c)
		img.SetNRGBA(x, 1, color.NRGBA{c.R / 2, c.G / 2, c.B / 2, 255})
	}
	return img
}

func TestSample_LongitudeQuadrants(t *testing.T) {
	tex := New(quadrants())

	tests := []struct {
		name   string
		lonDeg float64
		want   string
	}{
		{"lon -135", -135, "#ff0000"},
		{"lon -45", -45, "#00ff00"},
		{"lon 45", 45, "#0000ff"},
		{"japan lon 138", 138, "#ffff00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := kinematics.MarkerPosition(30, tt.lonDeg, 1)
			if got := tex.Sample(dir).String(); got != tt.want {
				t.Errorf("Sample(lon=%v) = %s, want %s", tt.lonDeg, got, tt.want)
			}
		})
	}
}

func TestSample_SouthernHemisphereUsesBottomRow(t *testing.T) {
	tex := New(quadrants())
	got := tex.Sample(kinematics.MarkerPosition(-60, 45, 1))
	if got.String() != "#00007f" {
		t.Errorf("southern sample = %s, want #00007f", got)
	}
}

func TestLoad_PNGFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "earth.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, quadrants()); err != nil {
		t.Fatal(err)
	}
	f.Close()

	tex, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer tex.Close()

	if !tex.Valid() || tex.Width != 4 || tex.Height != 2 {
		t.Fatalf("unexpected texture %dx%d", tex.Width, tex.Height)
	}
	if got := tex.Sample(vectors.New(1, 0.1, 0.1)).String(); got != "#0000ff" {
		t.Errorf("Sample = %s, want #0000ff", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.tif")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

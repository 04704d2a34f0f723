package main

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeFrame(t *testing.T, dir, name string, w, h int, c color.NRGBA) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseLayout(t *testing.T) {
	cases := []struct {
		in         string
		cols, rows int
		ok         bool
	}{
		{"2x3", 2, 3, true},
		{"4X1", 4, 1, true},
		{"2", 0, 0, false},
		{"0x2", 0, 0, false},
		{"ax2", 0, 0, false},
	}
	for _, c := range cases {
		cols, rows, err := parseLayout(c.in)
		if (err == nil) != c.ok || cols != c.cols || rows != c.rows {
			t.Errorf("parseLayout(%q) = %d, %d, %v", c.in, cols, rows, err)
		}
	}
}

func TestBuildSheet(t *testing.T) {
	dir := t.TempDir()
	red := color.NRGBA{255, 0, 0, 255}
	blue := color.NRGBA{0, 0, 255, 255}
	paths := []string{
		writeFrame(t, dir, "a.png", 4, 3, red),
		writeFrame(t, dir, "b.png", 4, 3, blue),
		writeFrame(t, dir, "c.png", 4, 3, red),
	}

	sheet, err := buildSheet(2, 2, paths)
	if err != nil {
		t.Fatalf("buildSheet: %v", err)
	}
	if sheet.Bounds() != image.Rect(0, 0, 8, 6) {
		t.Fatalf("bounds = %v", sheet.Bounds())
	}
	if got := sheet.NRGBAAt(5, 1); got != blue {
		t.Errorf("second cell = %v, want blue", got)
	}
	if got := sheet.NRGBAAt(1, 4); got != red {
		t.Errorf("third cell = %v, want red", got)
	}
	if got := sheet.NRGBAAt(6, 4); got.A != 0 {
		t.Errorf("empty cell = %v, want transparent", got)
	}
}

func TestBuildSheet_Errors(t *testing.T) {
	dir := t.TempDir()
	a := writeFrame(t, dir, "a.png", 4, 3, color.NRGBA{A: 255})
	b := writeFrame(t, dir, "b.png", 5, 3, color.NRGBA{A: 255})

	if _, err := buildSheet(2, 1, []string{a, b}); !errors.Is(err, errTileSize) {
		t.Errorf("size mismatch: got %v", err)
	}
	if _, err := buildSheet(1, 1, []string{a, a}); err == nil {
		t.Error("overfull grid accepted")
	}
	if _, err := buildSheet(1, 1, nil); err == nil {
		t.Error("empty input accepted")
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for _, name := range []string{"s.png", "s.jpg"} {
		if err := save(filepath.Join(dir, name), img); err != nil {
			t.Errorf("save %s: %v", name, err)
		}
	}
	if err := save(filepath.Join(dir, "s.gif"), img); err == nil {
		t.Error("gif output accepted")
	}
}

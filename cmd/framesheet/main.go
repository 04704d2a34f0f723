// Command framesheet tiles rendered frames into a single contact sheet.
package main

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/echoflaresat/orrery/texture"
)

var errTileSize = errors.New("tile size mismatch")

func main() {
	if len(os.Args) < 4 {
		fmt.Fprintf(os.Stderr, "Usage: %s <cols>x<rows> <output.png|jpg> <frame1> <frame2> ...\n", os.Args[0])
		os.Exit(1)
	}

	cols, rows, err := parseLayout(os.Args[1])
	if err != nil {
		slog.Error("bad layout", "err", err)
		os.Exit(1)
	}
	output := os.Args[2]
	inputs := os.Args[3:]

	sheet, err := buildSheet(cols, rows, inputs)
	if err != nil {
		slog.Error("could not build sheet", "err", err)
		os.Exit(1)
	}
	if err := save(output, sheet); err != nil {
		slog.Error("could not save sheet", "path", output, "err", err)
		os.Exit(1)
	}
	slog.Info("sheet written", "path", output, "frames", len(inputs))
}

// parseLayout reads a "<cols>x<rows>" grid.
func parseLayout(s string) (cols, rows int, err error) {
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid layout %q (expected NxM)", s)
	}
	if cols, err = strconv.Atoi(parts[0]); err != nil || cols <= 0 {
		return 0, 0, fmt.Errorf("invalid cols in %q", s)
	}
	if rows, err = strconv.Atoi(parts[1]); err != nil || rows <= 0 {
		return 0, 0, fmt.Errorf("invalid rows in %q", s)
	}
	return cols, rows, nil
}

// buildSheet places paths row by row. Fewer frames than cells leave the
// trailing cells empty; every frame must have the first frame's size.
func buildSheet(cols, rows int, paths []string) (*image.NRGBA, error) {
	if len(paths) == 0 {
		return nil, errors.New("no frames")
	}
	if len(paths) > cols*rows {
		return nil, fmt.Errorf("%d frames do not fit a %dx%d grid", len(paths), cols, rows)
	}

	var canvas *image.NRGBA
	var tileW, tileH int
	for idx, path := range paths {
		slog.Debug("placing frame", "path", path, "index", idx)
		tile, err := texture.LoadImage(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		if c, ok := tile.(io.Closer); ok {
			defer c.Close()
		}
		b := tile.Bounds()
		if canvas == nil {
			tileW, tileH = b.Dx(), b.Dy()
			canvas = image.NewNRGBA(image.Rect(0, 0, cols*tileW, rows*tileH))
		} else if b.Dx() != tileW || b.Dy() != tileH {
			return nil, fmt.Errorf("%w for %s: expected %dx%d, got %dx%d",
				errTileSize, path, tileW, tileH, b.Dx(), b.Dy())
		}

		x := (idx % cols) * tileW
		y := (idx / cols) * tileH
		draw.Draw(canvas, image.Rect(x, y, x+tileW, y+tileH), tile, b.Min, draw.Over)
	}
	return canvas, nil
}

func save(output string, canvas image.Image) error {
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(output)); ext {
	case ".png":
		err = png.Encode(f, canvas)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, canvas, &jpeg.Options{Quality: 95})
	default:
		err = fmt.Errorf("unsupported output format: %s", ext)
	}
	if err != nil {
		return err
	}
	return f.Close()
}

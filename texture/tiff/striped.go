package tiff

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"golang.org/x/exp/mmap"
)

type stripedTiff struct {
	header Header
	reader io.ReaderAt
	closer io.Closer
}

// LoadStriped memory-maps an uncompressed strip-organised TIFF.
func LoadStriped(path string) (image.Image, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	img, err := NewStriped(reader)
	if err != nil {
		reader.Close()
		return nil, err
	}
	img.closer = reader
	return img, nil
}

// NewStriped reads the header from r and returns an image that
// reads pixels from r on demand.
func NewStriped(r io.ReaderAt) (*stripedTiff, error) {
	header, err := ParseHeader(r)
	if err != nil {
		return nil, err
	}
	if header.Compression != CompressionNone {
		return nil, fmt.Errorf("unsupported compression: %d", header.Compression)
	}
	if err := header.checkPixelFormat(); err != nil {
		return nil, err
	}
	if len(header.StripOffsets) == 0 || len(header.StripOffsets) != len(header.StripByteCounts) {
		return nil, fmt.Errorf("invalid strip offset/length")
	}
	if header.RowsPerStrip <= 0 {
		header.RowsPerStrip = header.Height
	}
	if want := (header.Height + header.RowsPerStrip - 1) / header.RowsPerStrip; len(header.StripOffsets) < want {
		return nil, fmt.Errorf("%d strip offsets for %d rows of %d, want %d",
			len(header.StripOffsets), header.Height, header.RowsPerStrip, want)
	}
	return &stripedTiff{header: header, reader: r}, nil
}

func (t *stripedTiff) ColorModel() color.Model {
	return color.RGBAModel
}

func (t *stripedTiff) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.header.Width, t.header.Height)
}

func (t *stripedTiff) At(x, y int) color.Color {
	h := t.header

	strip := y / h.RowsPerStrip
	localY := y % h.RowsPerStrip
	idx := h.StripOffsets[strip] + (localY*h.Width+x)*h.SamplesPerPixel

	var buf [3]byte
	px := buf[:h.SamplesPerPixel]
	if _, err := t.reader.ReadAt(px, int64(idx)); err != nil {
		panic(fmt.Sprintf("could not read pixel at (%d,%d): %v", x, y, err))
	}
	if h.Photometric == PhotometricBlackIsZero {
		return color.RGBA{R: px[0], G: px[0], B: px[0], A: 255}
	}
	return color.RGBA{R: px[0], G: px[1], B: px[2], A: 255}
}

func (t *stripedTiff) Close() error {
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

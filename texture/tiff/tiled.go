package tiff

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
	"image/color"
	"io"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/exp/mmap"
)

// tileCacheSize bounds the number of decompressed tiles kept in memory.
const tileCacheSize = 200

type tiledTiff struct {
	header      Header
	reader      io.ReaderAt
	closer      io.Closer
	tilesAcross int
	cache       *lru.Cache // tileIndex -> []byte
}

// LoadTiled memory-maps a tile-organised TIFF, uncompressed or deflated.
func LoadTiled(path string) (image.Image, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	img, err := NewTiled(reader)
	if err != nil {
		reader.Close()
		return nil, err
	}
	img.closer = reader
	return img, nil
}

func NewTiled(r io.ReaderAt) (*tiledTiff, error) {
	header, err := ParseHeader(r)
	if err != nil {
		return nil, err
	}
	if header.Compression != CompressionNone && header.Compression != CompressionDeflate {
		return nil, fmt.Errorf("unsupported compression: %d", header.Compression)
	}
	if err := header.checkPixelFormat(); err != nil {
		return nil, err
	}
	if header.TileWidth <= 0 || header.TileHeight <= 0 {
		return nil, fmt.Errorf("invalid tile size %dx%d", header.TileWidth, header.TileHeight)
	}
	if len(header.TileOffsets) == 0 || len(header.TileOffsets) != len(header.TileByteCounts) {
		return nil, fmt.Errorf("invalid tile offset/length")
	}
	across := (header.Width + header.TileWidth - 1) / header.TileWidth
	down := (header.Height + header.TileHeight - 1) / header.TileHeight
	if len(header.TileOffsets) < across*down {
		return nil, fmt.Errorf("%d tile offsets, want %d", len(header.TileOffsets), across*down)
	}

	cache, err := lru.New(tileCacheSize)
	if err != nil {
		return nil, err
	}

	return &tiledTiff{
		header:      header,
		reader:      r,
		tilesAcross: across,
		cache:       cache,
	}, nil
}

func (t *tiledTiff) ColorModel() color.Model {
	return color.RGBAModel
}

func (t *tiledTiff) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.header.Width, t.header.Height)
}

func (t *tiledTiff) At(x, y int) color.Color {
	h := t.header
	tileIndex := (y/h.TileHeight)*t.tilesAcross + x/h.TileWidth

	var tile []byte
	if val, ok := t.cache.Get(tileIndex); ok {
		tile = val.([]byte)
	} else {
		tile = t.loadTile(tileIndex)
		t.cache.Add(tileIndex, tile)
	}

	rowStride := h.TileWidth * h.SamplesPerPixel
	off := (y%h.TileHeight)*rowStride + (x%h.TileWidth)*h.SamplesPerPixel

	if h.Photometric == PhotometricBlackIsZero {
		v := tile[off]
		return color.RGBA{R: v, G: v, B: v, A: 255}
	}
	return color.RGBA{R: tile[off], G: tile[off+1], B: tile[off+2], A: 255}
}

func (t *tiledTiff) loadTile(index int) []byte {
	h := t.header
	buf := make([]byte, h.TileByteCounts[index])
	if _, err := t.reader.ReadAt(buf, int64(h.TileOffsets[index])); err != nil {
		panic(fmt.Sprintf("failed to read tile %d: %v", index, err))
	}
	if h.Compression != CompressionDeflate {
		return buf
	}

	r, err := zlib.NewReader(bytes.NewReader(buf))
	if err != nil {
		panic(fmt.Sprintf("zlib decompression error in tile %d: %v", index, err))
	}
	defer r.Close()
	tile, err := io.ReadAll(r)
	if err != nil {
		panic(fmt.Sprintf("zlib read error in tile %d: %v", index, err))
	}
	return tile
}

func (t *tiledTiff) Close() error {
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

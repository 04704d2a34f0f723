package tiff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Header holds the subset of baseline TIFF fields needed to read
// uncompressed or deflated 8-bit RGB and grayscale rasters.
type Header struct {
	ByteOrder       binary.ByteOrder
	Width, Height   int
	SamplesPerPixel int
	BitsPerSample   []int
	Photometric     int
	Compression     int
	PlanarConfig    int

	// Strip layout
	RowsPerStrip    int
	StripOffsets    []int
	StripByteCounts []int

	// Tile layout
	TileWidth      int
	TileHeight     int
	TileOffsets    []int
	TileByteCounts []int
}

// https://www.loc.gov/preservation/digital/formats/content/tiff_tags.shtml
const (
	TagImageWidth                = 256
	TagImageLength               = 257
	TagBitsPerSample             = 258
	TagCompression               = 259
	TagPhotometricInterpretation = 262
	TagStripOffsets              = 273
	TagSamplesPerPixel           = 277
	TagRowsPerStrip              = 278
	TagStripByteCounts           = 279
	TagPlanarConfiguration       = 284
	TagTileWidth                 = 322
	TagTileLength                = 323
	TagTileOffsets               = 324
	TagTileByteCounts            = 325
)

// Compression schemes.
const (
	CompressionNone    = 1
	CompressionDeflate = 8
)

// Photometric interpretations.
const (
	PhotometricBlackIsZero = 1
	PhotometricRGB         = 2
)

const typeShort = 3

var ErrInvalidTiffHeader = errors.New("invalid TIFF header")

// ifdEntry is one 12-byte image file directory entry.
type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	raw   []byte // the 4-byte value/offset field
}

func ParseHeader(reader io.ReaderAt) (Header, error) {
	read := func(offset int64, size int) ([]byte, error) {
		buf := make([]byte, size)
		_, err := reader.ReadAt(buf, offset)
		return buf, err
	}

	prefix, err := read(0, 8)
	if err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrInvalidTiffHeader, err)
	}

	var bo binary.ByteOrder
	switch string(prefix[0:2]) {
	case "II":
		bo = binary.LittleEndian
	case "MM":
		bo = binary.BigEndian
	default:
		return Header{}, ErrInvalidTiffHeader
	}
	if bo.Uint16(prefix[2:4]) != 42 {
		return Header{}, ErrInvalidTiffHeader
	}
	ifdOffset := int64(bo.Uint32(prefix[4:8]))

	countRaw, err := read(ifdOffset, 2)
	if err != nil {
		return Header{}, err
	}
	numEntries := int(bo.Uint16(countRaw))
	entriesRaw, err := read(ifdOffset+2, numEntries*12)
	if err != nil {
		return Header{}, err
	}

	h := Header{
		ByteOrder:       bo,
		SamplesPerPixel: -1,
		Photometric:     -1,
		Compression:     -1,
		PlanarConfig:    1,
	}

	short := func(e ifdEntry) int { return int(bo.Uint16(e.raw[0:2])) }
	long := func(e ifdEntry) int {
		if e.typ == typeShort {
			return short(e)
		}
		return int(bo.Uint32(e.raw))
	}
	// values of 4 bytes or less sit in the entry itself
	data := func(e ifdEntry, size int) ([]byte, error) {
		n := int(e.count) * size
		if n <= len(e.raw) {
			return e.raw[:n], nil
		}
		return read(int64(bo.Uint32(e.raw)), n)
	}
	shorts := func(e ifdEntry) ([]int, error) {
		buf, err := data(e, 2)
		if err != nil {
			return nil, err
		}
		out := make([]int, e.count)
		for i := range out {
			out[i] = int(bo.Uint16(buf[i*2:]))
		}
		return out, nil
	}
	longs := func(e ifdEntry) ([]int, error) {
		if e.typ == typeShort {
			return shorts(e)
		}
		buf, err := data(e, 4)
		if err != nil {
			return nil, err
		}
		out := make([]int, e.count)
		for i := range out {
			out[i] = int(bo.Uint32(buf[i*4:]))
		}
		return out, nil
	}

	for i := 0; i < numEntries; i++ {
		b := entriesRaw[i*12 : (i+1)*12]
		e := ifdEntry{tag: bo.Uint16(b[0:2]), typ: bo.Uint16(b[2:4]), count: bo.Uint32(b[4:8]), raw: b[8:12]}

		switch e.tag {
		case TagImageWidth:
			h.Width = long(e)
		case TagImageLength:
			h.Height = long(e)
		case TagBitsPerSample:
			h.BitsPerSample, err = shorts(e)
		case TagCompression:
			h.Compression = short(e)
		case TagPhotometricInterpretation:
			h.Photometric = short(e)
		case TagStripOffsets:
			h.StripOffsets, err = longs(e)
		case TagSamplesPerPixel:
			h.SamplesPerPixel = short(e)
		case TagRowsPerStrip:
			h.RowsPerStrip = long(e)
		case TagStripByteCounts:
			h.StripByteCounts, err = longs(e)
		case TagPlanarConfiguration:
			h.PlanarConfig = short(e)
		case TagTileWidth:
			h.TileWidth = long(e)
		case TagTileLength:
			h.TileHeight = long(e)
		case TagTileOffsets:
			h.TileOffsets, err = longs(e)
		case TagTileByteCounts:
			h.TileByteCounts, err = longs(e)
		}
		if err != nil {
			return Header{}, fmt.Errorf("tag %d: %w", e.tag, err)
		}
	}

	return h, nil
}

// checkPixelFormat accepts 8-bit RGB or 8-bit grayscale.
func (h Header) checkPixelFormat() error {
	if h.Width <= 0 || h.Height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", h.Width, h.Height)
	}
	if len(h.BitsPerSample) == 0 || h.BitsPerSample[0] != 8 {
		return fmt.Errorf("unsupported bits per sample %v", h.BitsPerSample)
	}
	switch h.Photometric {
	case PhotometricBlackIsZero:
		if h.SamplesPerPixel != 1 {
			return fmt.Errorf("unsupported grayscale format")
		}
	case PhotometricRGB:
		if h.SamplesPerPixel != 3 {
			return fmt.Errorf("unsupported RGB format")
		}
	default:
		return fmt.Errorf("unsupported photometric interpretation: %d", h.Photometric)
	}
	return nil
}

package planeio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"

	"github.com/mrjoshuak/go-alphaplane/alpha"
	"github.com/mrjoshuak/go-alphaplane/compression"
	"github.com/mrjoshuak/go-alphaplane/rangemap"
)

// Codec errors
var (
	ErrUnknownFormat = errors.New("planeio: unknown plane format")
	ErrBadMagic      = errors.New("planeio: not a raw plane file")
	ErrBadHeader     = errors.New("planeio: invalid raw plane header")
	ErrTooLarge      = errors.New("planeio: plane dimensions too large")
)

// Format is a plane file format.
type Format int

const (
	// FormatRaw is the raw plane container, uncompressed.
	FormatRaw Format = iota
	// FormatRawZlib is the raw plane container with a zlib payload.
	FormatRawZlib
	// FormatRawZstd is the raw plane container with a zstd payload.
	FormatRawZstd
	// FormatPNG stores the plane as a grayscale PNG.
	FormatPNG
	// FormatTIFF stores the plane as a deflate-compressed grayscale TIFF.
	FormatTIFF
	// FormatJ2K stores the plane as a lossless JPEG 2000 codestream.
	FormatJ2K
	// FormatHTJ2K stores the plane as a lossless HTJ2K codestream.
	FormatHTJ2K
)

var formatNames = map[Format]string{
	FormatRaw:     "raw",
	FormatRawZlib: "raw-zlib",
	FormatRawZstd: "raw-zstd",
	FormatPNG:     "png",
	FormatTIFF:    "tiff",
	FormatJ2K:     "j2k",
	FormatHTJ2K:   "htj2k",
}

// String returns the format name accepted by ParseFormat.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat parses a format name as returned by Format.String.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".apln":
		return FormatRaw, nil
	case ".aplz":
		return FormatRawZlib, nil
	case ".zst":
		return FormatRawZstd, nil
	case ".png":
		return FormatPNG, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	case ".j2k", ".j2c":
		return FormatJ2K, nil
	case ".jhc":
		return FormatHTJ2K, nil
	}
	return 0, fmt.Errorf("%w: extension of %q", ErrUnknownFormat, path)
}

// Raw container layout. All integers are little-endian.
//
//	offset  size  field
//	0       4     magic "APLN"
//	4       1     version (1)
//	5       1     depth (1-16)
//	6       1     range (0 full, 1 limited)
//	7       1     compression.Method (0 none, 1 zlib, 2 zstd)
//	8       4     width
//	12      4     height
//	16            payload, see package compression
const (
	rawMagic      = "APLN"
	rawVersion    = 1
	rawHeaderSize = 16

	// maxSamples bounds the allocation made for a raw plane read from an
	// untrusted file.
	maxSamples = 1 << 28
)

// Write encodes p to w in format f.
func Write(w io.Writer, p *Plane, f Format) error {
	if err := p.Validate(); err != nil {
		return err
	}
	switch f {
	case FormatRaw:
		return writeRaw(w, p, compression.None)
	case FormatRawZlib:
		return writeRaw(w, p, compression.Zlib)
	case FormatRawZstd:
		return writeRaw(w, p, compression.Zstd)
	case FormatPNG, FormatTIFF, FormatJ2K, FormatHTJ2K:
		img, err := ToGray(p)
		if err != nil {
			return err
		}
		return encodeImage(w, img, f)
	}
	return fmt.Errorf("%w: %v", ErrUnknownFormat, f)
}

// Read decodes a plane in format f from r. Raw containers of any
// compression are accepted for the three raw formats. PNG and TIFF yield
// the alpha channel of images that have one and the gray channel of
// grayscale images; JPEG 2000 always yields the gray channel. Planes read
// from images are full range with depth 8 or 16.
func Read(r io.Reader, f Format) (*Plane, error) {
	switch f {
	case FormatRaw, FormatRawZlib, FormatRawZstd:
		return readRaw(r)
	case FormatPNG, FormatTIFF:
		img, err := decodeImage(r, f)
		if err != nil {
			return nil, err
		}
		if HasAlpha(img) {
			return ExtractAlpha(img), nil
		}
		return ExtractGray(img), nil
	case FormatJ2K, FormatHTJ2K:
		img, err := compression.DecodeJ2K(r)
		if err != nil {
			return nil, err
		}
		return ExtractGray(img), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
}

func encodeImage(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return compression.EncodeJ2K(w, img, compression.J2KOptions{HighThroughput: f == FormatHTJ2K})
	}
}

func decodeImage(r io.Reader, f Format) (image.Image, error) {
	if f == FormatTIFF {
		return tiff.Decode(r)
	}
	return png.Decode(r)
}

func writeRaw(w io.Writer, p *Plane, m compression.Method) error {
	layout := compression.Layout{Width: p.Width, Height: p.Height, SampleBytes: alpha.SampleBytes(p.Depth)}
	payload, err := compression.Compress(m, packSamples(p), layout)
	if err != nil {
		return err
	}

	var hdr [rawHeaderSize]byte
	copy(hdr[:4], rawMagic)
	hdr[4] = rawVersion
	hdr[5] = byte(p.Depth)
	hdr[6] = byte(p.Range)
	hdr[7] = byte(m)
	binary.LittleEndian.PutUint32(hdr[8:], uint32(p.Width))
	binary.LittleEndian.PutUint32(hdr[12:], uint32(p.Height))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

func readRaw(r io.Reader) (*Plane, error) {
	var hdr [rawHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadHeader, err)
	}
	if string(hdr[:4]) != rawMagic {
		return nil, ErrBadMagic
	}
	if hdr[4] != rawVersion {
		return nil, fmt.Errorf("%w: version %d", ErrBadHeader, hdr[4])
	}
	depth := int(hdr[5])
	if depth < rangemap.MinDepth || depth > rangemap.MaxDepth {
		return nil, fmt.Errorf("%w: depth %d", ErrBadHeader, depth)
	}
	rng := alpha.Range(hdr[6])
	if rng != alpha.RangeFull && rng != alpha.RangeLimited {
		return nil, fmt.Errorf("%w: range %d", ErrBadHeader, hdr[6])
	}
	m := compression.Method(hdr[7])
	if !m.Valid() {
		return nil, fmt.Errorf("%w: compression %d", ErrBadHeader, hdr[7])
	}
	width := int64(binary.LittleEndian.Uint32(hdr[8:]))
	height := int64(binary.LittleEndian.Uint32(hdr[12:]))
	if width > maxSamples || height > maxSamples || width*height > maxSamples {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, width, height)
	}

	layout := compression.Layout{Width: int(width), Height: int(height), SampleBytes: alpha.SampleBytes(depth)}
	// one byte past the bound is enough to tell an oversized payload apart
	limit := int64(layout.MaxEncodedSize(m)) + 1
	payload, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return nil, fmt.Errorf("planeio: reading samples: %w", err)
	}
	if int64(len(payload)) == limit {
		return nil, fmt.Errorf("planeio: reading samples: %w: payload exceeds %d bytes",
			compression.ErrCorrupted, limit-1)
	}
	p := NewPlane(layout.Width, layout.Height, depth, rng)
	samples, err := compression.Decompress(m, payload, layout)
	if err != nil {
		return nil, fmt.Errorf("planeio: reading samples: %w", err)
	}
	unpackSamples(p, samples)
	return p, nil
}

// packSamples serializes p row-major with wide samples little-endian.
func packSamples(p *Plane) []byte {
	sample := alpha.SampleBytes(p.Depth)
	buf := make([]byte, 0, p.Width*p.Height*sample)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			v := p.At(x, y)
			if sample == 2 {
				buf = binary.LittleEndian.AppendUint16(buf, uint16(v))
			} else {
				buf = append(buf, byte(v))
			}
		}
	}
	return buf
}

// unpackSamples fills the packed plane p from serialized samples.
func unpackSamples(p *Plane, buf []byte) {
	if p.Depth <= 8 {
		copy(p.Data, buf)
		return
	}
	for i := 0; i+1 < len(buf); i += 2 {
		binary.NativeEndian.PutUint16(p.Data[i:], binary.LittleEndian.Uint16(buf[i:]))
	}
}

// Package compression provides the payload codecs for alpha plane files.
//
// A payload is a packed plane, row-major, with wide samples stored
// little-endian. Before entropy coding the samples are split into byte
// planes (all low bytes, then all high bytes) and each plane row is
// differenced horizontally, so flat alpha becomes runs of zeros.
package compression

import (
	"errors"
	"fmt"

	"github.com/mrjoshuak/go-alphaplane/internal/interleave"
	"github.com/mrjoshuak/go-alphaplane/internal/predictor"
)

// Compression errors
var (
	ErrCorrupted     = errors.New("compression: corrupted data")
	ErrUnknownMethod = errors.New("compression: unknown method")
)

// Method identifies a payload codec. The values are stored in plane file
// headers.
type Method uint8

const (
	// None stores samples as they are.
	None Method = iota
	// Zlib stores predicted byte planes as a zlib stream.
	Zlib
	// Zstd stores predicted byte planes as a zstd frame.
	Zstd
)

func (m Method) String() string {
	switch m {
	case None:
		return "none"
	case Zlib:
		return "zlib"
	case Zstd:
		return "zstd"
	}
	return fmt.Sprintf("Method(%d)", uint8(m))
}

// Valid reports whether m is a known method.
func (m Method) Valid() bool {
	return m <= Zstd
}

// Layout describes the samples in a payload.
type Layout struct {
	Width       int
	Height      int
	SampleBytes int
}

// Size returns the uncompressed payload size.
func (l Layout) Size() int {
	return l.Width * l.Height * l.SampleBytes
}

// MaxEncodedSize returns an upper bound on the size of a valid payload
// for l under m. Readers use it to stop reading untrusted input early.
func (l Layout) MaxEncodedSize(m Method) int {
	size := l.Size()
	if m == None {
		return size
	}
	// Stored deflate blocks and raw zstd blocks add a few bytes per block.
	return size + size/64 + 1<<12
}

// Compress encodes the packed samples in src. src is not modified.
func Compress(m Method, src []byte, l Layout) ([]byte, error) {
	if len(src) != l.Size() {
		return nil, fmt.Errorf("compression: payload is %d bytes, layout needs %d", len(src), l.Size())
	}
	switch m {
	case None:
		return src, nil
	case Zlib, Zstd:
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, m)
	}

	planes := interleave.Split(src, l.SampleBytes, nil)
	predictor.Encode(planes, l.Width)

	if m == Zlib {
		return zlibCompress(planes)
	}
	return zstdCompress(planes)
}

// Decompress decodes a payload produced by Compress with the same method
// and layout.
func Decompress(m Method, src []byte, l Layout) ([]byte, error) {
	size := l.Size()
	planes := make([]byte, size)
	switch m {
	case None:
		if len(src) != size {
			return nil, fmt.Errorf("%w: payload is %d bytes, want %d", ErrCorrupted, len(src), size)
		}
		copy(planes, src)
		return planes, nil
	case Zlib:
		if err := zlibDecompressTo(planes, src); err != nil {
			return nil, err
		}
	case Zstd:
		if err := zstdDecompressTo(planes, src); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, m)
	}

	predictor.Decode(planes, l.Width)
	return interleave.Join(planes, l.SampleBytes, nil), nil
}

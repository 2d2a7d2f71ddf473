package alpha

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mrjoshuak/go-alphaplane/rangemap"
)

// Descriptor errors reported by Validate.
var (
	ErrInvalidDepth    = errors.New("alpha: bit depth out of range (1-16)")
	ErrInvalidRange    = errors.New("alpha: unknown sample range")
	ErrInvalidGeometry = errors.New("alpha: invalid plane geometry")
	ErrBufferTooSmall  = errors.New("alpha: plane buffer too small")
)

// Range is the value range of a sample plane.
type Range int

const (
	// RangeFull uses every code value in [0, 2^depth-1].
	RangeFull Range = iota
	// RangeLimited uses studio swing (16-235 at 8 bits).
	RangeLimited
)

// String returns the name of the range.
func (r Range) String() string {
	switch r {
	case RangeFull:
		return "full"
	case RangeLimited:
		return "limited"
	default:
		return fmt.Sprintf("Range(%d)", int(r))
	}
}

// ParseRange parses a range name. It accepts "full" and "pc" for full
// range and "limited", "studio" and "tv" for limited range.
func ParseRange(s string) (Range, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "pc":
		return RangeFull, nil
	case "limited", "studio", "tv":
		return RangeLimited, nil
	}
	return RangeFull, fmt.Errorf("%w: %q", ErrInvalidRange, s)
}

// RangeMapper converts samples between limited and full range at a given
// bit depth. Implementations must be pure.
type RangeMapper interface {
	LimitedToFull(depth, v int) int
	FullToLimited(depth, v int) int
}

// Params describes one source plane, one destination plane and the sample
// format of each. Planes are borrowed; a Params value owns nothing and is
// only read by the operations in this package.
//
// Sample (x, y) of the source lives at
//
//	SrcPlane[SrcOffset + y*SrcRowBytes + x*SrcPixelBytes]
//
// and likewise for the destination. Planes with depth <= 8 store one byte
// per sample. Deeper planes store a 16-bit unit in host byte order with the
// value in its low bits.
type Params struct {
	Width  int
	Height int

	SrcDepth int
	SrcRange Range
	SrcPlane []byte
	// SrcOffset is the byte offset of sample (0, 0).
	SrcOffset     int
	SrcRowBytes   int
	SrcPixelBytes int

	DstDepth      int
	DstRange      Range
	DstPlane      []byte
	DstOffset     int
	DstRowBytes   int
	DstPixelBytes int

	// Mapper converts between limited and full range. Nil selects
	// rangemap.Luma.
	Mapper RangeMapper
}

func (p *Params) mapper() RangeMapper {
	if p.Mapper == nil {
		return rangemap.Luma{}
	}
	return p.Mapper
}

// SampleBytes returns the storage size of one sample of the given depth:
// 1 for depths up to 8, 2 above.
func SampleBytes(depth int) int {
	if depth > 8 {
		return 2
	}
	return 1
}

// MaxValue returns the largest full-range value at depth.
func MaxValue(depth int) int {
	return 1<<depth - 1
}

// Band returns a copy of p restricted to rows [y0, y1). Offsets are
// advanced so that row 0 of the result is row y0 of p. Bands over disjoint
// row ranges touch disjoint destination rows and may be converted
// concurrently.
func Band(p Params, y0, y1 int) Params {
	b := p
	b.SrcOffset += y0 * p.SrcRowBytes
	b.DstOffset += y0 * p.DstRowBytes
	b.Height = y1 - y0
	return b
}

// Validate checks that p is well formed: depths and ranges are known,
// strides can hold a sample, and both planes cover every addressed byte.
// FillOpaque and Reformat do not call Validate; callers that build Params
// from untrusted metadata should.
//
// The source plane is not checked when src is false, which is the case for
// descriptors only passed to FillOpaque.
func Validate(p *Params, src bool) error {
	if err := validatePlane("destination", p.Width, p.Height, p.DstDepth, p.DstRange,
		len(p.DstPlane), p.DstOffset, p.DstRowBytes, p.DstPixelBytes); err != nil {
		return err
	}
	if !src {
		return nil
	}
	return validatePlane("source", p.Width, p.Height, p.SrcDepth, p.SrcRange,
		len(p.SrcPlane), p.SrcOffset, p.SrcRowBytes, p.SrcPixelBytes)
}

func validatePlane(which string, width, height, depth int, r Range, size, offset, rowBytes, pixelBytes int) error {
	if depth < rangemap.MinDepth || depth > rangemap.MaxDepth {
		return fmt.Errorf("%w: %s depth %d", ErrInvalidDepth, which, depth)
	}
	if r != RangeFull && r != RangeLimited {
		return fmt.Errorf("%w: %s %v", ErrInvalidRange, which, r)
	}
	if width < 0 || height < 0 || offset < 0 {
		return fmt.Errorf("%w: %s %dx%d at offset %d", ErrInvalidGeometry, which, width, height, offset)
	}
	if width == 0 || height == 0 {
		return nil
	}
	sample := SampleBytes(depth)
	if pixelBytes < sample {
		return fmt.Errorf("%w: %s pixel stride %d < sample size %d", ErrInvalidGeometry, which, pixelBytes, sample)
	}
	if rowBytes < (width-1)*pixelBytes+sample {
		return fmt.Errorf("%w: %s row stride %d too small for %d samples", ErrInvalidGeometry, which, rowBytes, width)
	}
	end := offset + (height-1)*rowBytes + (width-1)*pixelBytes + sample
	if end > size {
		return fmt.Errorf("%w: %s needs %d bytes, have %d", ErrBufferTooSmall, which, end, size)
	}
	return nil
}

// Package planeio moves alpha planes between alpha.Params descriptors,
// Go images and files.
//
// A Plane owns its sample buffer and records the depth and range of its
// samples. Planes are converted with the alpha package; the helpers here
// build the descriptors, split large planes into row bands that convert in
// parallel, and read and write planes as PNG, TIFF, JPEG 2000 or a small
// raw container with optional zlib or zstd compression.
package planeio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mrjoshuak/go-alphaplane/alpha"
	"github.com/mrjoshuak/go-alphaplane/internal/parallel"
)

// ErrInvalidPlane is returned for planes whose geometry does not fit their
// buffer.
var ErrInvalidPlane = errors.New("planeio: invalid plane")

// Plane is a single-channel sample plane. Samples of depth <= 8 take one
// byte; deeper samples take a 16-bit unit in host byte order.
type Plane struct {
	Width  int
	Height int
	Depth  int
	Range  alpha.Range

	Data       []byte
	Offset     int
	RowBytes   int
	PixelBytes int
}

// NewPlane allocates a packed plane of zero samples.
func NewPlane(width, height, depth int, r alpha.Range) *Plane {
	sample := alpha.SampleBytes(depth)
	return &Plane{
		Width:      width,
		Height:     height,
		Depth:      depth,
		Range:      r,
		Data:       make([]byte, width*height*sample),
		RowBytes:   width * sample,
		PixelBytes: sample,
	}
}

// Opaque returns a packed plane filled with the fully opaque value for
// depth and range.
func Opaque(width, height, depth int, r alpha.Range) *Plane {
	p := NewPlane(width, height, depth, r)
	d := p.Target()
	alpha.FillOpaque(&d)
	return p
}

func (p *Plane) index(x, y int) int {
	return p.Offset + y*p.RowBytes + x*p.PixelBytes
}

// At returns the sample at (x, y).
func (p *Plane) At(x, y int) int {
	i := p.index(x, y)
	if p.Depth > 8 {
		return int(binary.NativeEndian.Uint16(p.Data[i:]))
	}
	return int(p.Data[i])
}

// Set stores v at (x, y).
func (p *Plane) Set(x, y, v int) {
	i := p.index(x, y)
	if p.Depth > 8 {
		binary.NativeEndian.PutUint16(p.Data[i:], uint16(v))
		return
	}
	p.Data[i] = byte(v)
}

// Validate reports whether the plane's geometry fits its buffer.
func (p *Plane) Validate() error {
	d := p.Target()
	if err := alpha.Validate(&d, false); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPlane, err)
	}
	return nil
}

// Target returns a descriptor with p as the destination and no source.
func (p *Plane) Target() alpha.Params {
	return alpha.Params{
		Width:         p.Width,
		Height:        p.Height,
		DstDepth:      p.Depth,
		DstRange:      p.Range,
		DstPlane:      p.Data,
		DstOffset:     p.Offset,
		DstRowBytes:   p.RowBytes,
		DstPixelBytes: p.PixelBytes,
	}
}

// Params returns a descriptor converting p into dst. The planes must have
// the same extents.
func (p *Plane) Params(dst *Plane) alpha.Params {
	d := dst.Target()
	d.SrcDepth = p.Depth
	d.SrcRange = p.Range
	d.SrcPlane = p.Data
	d.SrcOffset = p.Offset
	d.SrcRowBytes = p.RowBytes
	d.SrcPixelBytes = p.PixelBytes
	return d
}

// Convert returns a new packed plane holding src converted to depth and
// range. Up to workers goroutines convert row bands; 0 uses every CPU.
func Convert(src *Plane, depth int, r alpha.Range, workers int) (*Plane, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	dst := NewPlane(src.Width, src.Height, depth, r)
	d := src.Params(dst)
	if err := alpha.Validate(&d, true); err != nil {
		return nil, err
	}
	ReformatParallel(&d, workers)
	return dst, nil
}

// bandConfig returns the row band configuration for workers goroutines.
// Each band has at least parallel.DefaultConfig().GrainSize rows.
func bandConfig(workers int) parallel.Config {
	cfg := parallel.DefaultConfig()
	cfg.Workers = workers
	return cfg
}

// ReformatParallel runs alpha.Reformat over row bands of p on up to
// workers goroutines. Small planes are converted on the calling goroutine.
func ReformatParallel(p *alpha.Params, workers int) {
	cfg := bandConfig(workers)
	if l := alpha.Logger(); l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug("planeio: reformat",
			"kernel", alpha.Describe(p),
			"rows", p.Height, "workers", cfg.EffectiveWorkers())
	}
	parallel.For(cfg, p.Height, func(y0, y1 int) {
		b := alpha.Band(*p, y0, y1)
		alpha.Reformat(&b)
	})
}

// FillOpaqueParallel runs alpha.FillOpaque over row bands of p.
func FillOpaqueParallel(p *alpha.Params, workers int) {
	parallel.For(bandConfig(workers), p.Height, func(y0, y1 int) {
		b := alpha.Band(*p, y0, y1)
		alpha.FillOpaque(&b)
	})
}

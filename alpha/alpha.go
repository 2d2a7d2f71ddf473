// Package alpha converts single-channel alpha planes between bit depths,
// storage widths and value ranges.
//
// A plane is described by a Params value: extents, depth and range of each
// side, and the offset, row stride and sample stride that locate every
// sample in a borrowed byte slice. Strides make it possible to read or
// write alpha that is interleaved with color channels, such as the fourth
// byte of an RGBA buffer, or a sub-rectangle of a larger plane.
//
// Two operations are provided:
//
//   - FillOpaque writes the fully opaque value for the destination format.
//   - Reformat converts every source sample to the destination format.
//
// Reformat resolves the conversion (range expansion, depth rescale, range
// compression) once per call and then runs a row loop specialized for the
// source and destination storage widths. The loops do not test depth or
// range per sample.
//
// Neither operation checks buffer sizes. A descriptor that addresses bytes
// outside its planes panics on the slice bounds check; use Validate when
// the geometry comes from untrusted input.
//
// Basic usage:
//
//	p := alpha.Params{
//		Width: w, Height: h,
//		SrcDepth: 8, SrcRange: alpha.RangeFull,
//		SrcPlane: src, SrcRowBytes: w, SrcPixelBytes: 1,
//		DstDepth: 10, DstRange: alpha.RangeFull,
//		DstPlane: dst, DstRowBytes: w * 2, DstPixelBytes: 2,
//	}
//	alpha.Reformat(&p)
package alpha

import "github.com/mrjoshuak/go-alphaplane/rangemap"

// OpaqueValue returns the fully opaque sample for depth and range: the
// full-range maximum, compressed through m when r is RangeLimited. A nil m
// selects rangemap.Luma.
func OpaqueValue(depth int, r Range, m RangeMapper) int {
	v := MaxValue(depth)
	if r == RangeLimited {
		if m == nil {
			m = rangemap.Luma{}
		}
		v = m.FullToLimited(depth, v)
	}
	return v
}

// FillOpaque sets every destination sample of p to OpaqueValue for
// DstDepth and DstRange. Source fields are ignored. A zero-area plane is
// left untouched.
func FillOpaque(p *Params) {
	if p.Width <= 0 || p.Height <= 0 {
		return
	}
	v := OpaqueValue(p.DstDepth, p.DstRange, p.mapper())
	wideDst := SampleBytes(p.DstDepth) == 2
	if debugEnabled() {
		Logger().Debug("alpha: fill opaque",
			"width", p.Width, "height", p.Height,
			"depth", p.DstDepth, "range", p.DstRange,
			"value", v, "storage", widthName(wideDst))
	}
	if wideDst {
		fillRows[wide](p, v)
	} else {
		fillRows[narrow](p, v)
	}
}

// Reformat converts every source sample of p to the destination depth and
// range. Each sample goes through, in order: limited to full expansion
// when SrcRange is RangeLimited; rescale to DstDepth when the depths
// differ, rounding half up and clamping; full to limited compression when
// DstRange is RangeLimited.
//
// With equal depths and equal ranges the samples are copied bit for bit,
// including limited to limited. With equal depths and different ranges
// only the range mapping runs.
//
// A zero-area plane is left untouched.
func Reformat(p *Params) {
	if p.Width <= 0 || p.Height <= 0 {
		return
	}
	k := selectKernel(p)
	if debugEnabled() {
		Logger().Debug("alpha: reformat",
			"kernel", k.name,
			"width", p.Width, "height", p.Height,
			"src_depth", p.SrcDepth, "src_range", p.SrcRange,
			"dst_depth", p.DstDepth, "dst_range", p.DstRange)
	}
	k.run(p)
}

// Describe returns the name of the kernel Reformat selects for p, such as
// "rescale+tolimited/wide->narrow". It is meant for diagnostics.
func Describe(p *Params) string {
	return selectKernel(p).name
}

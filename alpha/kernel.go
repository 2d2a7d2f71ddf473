package alpha

import "encoding/binary"

// storage loads and stores one sample at a byte offset within a row.
type storage interface {
	load(row []byte, off int) int
	store(row []byte, off, v int)
}

// narrow is one byte per sample. The storage types have distinct
// underlying types so every row loop instantiation gets its own body with
// load and store inlined.
type narrow uint8

func (narrow) load(row []byte, off int) int { return int(row[off]) }
func (narrow) store(row []byte, off, v int) { row[off] = byte(v) }

// wide is a 16-bit unit per sample in host byte order.
type wide uint16

func (wide) load(row []byte, off int) int {
	return int(binary.NativeEndian.Uint16(row[off : off+2]))
}

func (wide) store(row []byte, off, v int) {
	binary.NativeEndian.PutUint16(row[off:off+2], uint16(v))
}

func widthName(isWide bool) string {
	if isWide {
		return "wide"
	}
	return "narrow"
}

// copyRows copies samples unchanged between planes of the same width.
func copyRows[T storage](p *Params) {
	var s T
	for j := 0; j < p.Height; j++ {
		src := p.SrcPlane[p.SrcOffset+j*p.SrcRowBytes:]
		dst := p.DstPlane[p.DstOffset+j*p.DstRowBytes:]
		for i := 0; i < p.Width; i++ {
			s.store(dst, i*p.DstPixelBytes, s.load(src, i*p.SrcPixelBytes))
		}
	}
}

// mapRows runs fn over every source sample and stores the result.
func mapRows[S, D storage](p *Params, fn func(int) int) {
	var s S
	var d D
	for j := 0; j < p.Height; j++ {
		src := p.SrcPlane[p.SrcOffset+j*p.SrcRowBytes:]
		dst := p.DstPlane[p.DstOffset+j*p.DstRowBytes:]
		for i := 0; i < p.Width; i++ {
			d.store(dst, i*p.DstPixelBytes, fn(s.load(src, i*p.SrcPixelBytes)))
		}
	}
}

// fillRows stores v into every destination sample.
func fillRows[T storage](p *Params, v int) {
	var d T
	for j := 0; j < p.Height; j++ {
		dst := p.DstPlane[p.DstOffset+j*p.DstRowBytes:]
		for i := 0; i < p.Width; i++ {
			d.store(dst, i*p.DstPixelBytes, v)
		}
	}
}

// rescaler converts a full-range value between bit depths with the
// float32 arithmetic: int(0.5 + v/srcMax*dstMax), clamped.
type rescaler struct {
	srcMax float32
	dstMax float32
	limit  int
}

func newRescaler(srcDepth, dstDepth int) rescaler {
	return rescaler{
		srcMax: float32(MaxValue(srcDepth)),
		dstMax: float32(MaxValue(dstDepth)),
		limit:  MaxValue(dstDepth),
	}
}

func (r rescaler) apply(v int) int {
	f := float32(v) / r.srcMax
	// The conversion rounds the product to float32 before the bias is
	// added; without it the compiler may fuse the multiply and add.
	d := int(0.5 + float32(f*r.dstMax))
	return min(max(d, 0), r.limit)
}

// transform is the per-sample function for one call. A nil fn means
// samples are copied unchanged.
type transform struct {
	name string
	fn   func(int) int
}

// selectTransform resolves depth and range handling for p. Equal depths
// never go through the float rescale, so exact data stays exact.
func selectTransform(p *Params) transform {
	m := p.mapper()
	sd, dd := p.SrcDepth, p.DstDepth
	srcLimited := p.SrcRange == RangeLimited
	dstLimited := p.DstRange == RangeLimited

	if sd == dd {
		switch {
		case srcLimited == dstLimited:
			return transform{name: "copy"}
		case srcLimited:
			return transform{"tofull", func(v int) int {
				return m.LimitedToFull(sd, v)
			}}
		default:
			return transform{"tolimited", func(v int) int {
				return m.FullToLimited(dd, v)
			}}
		}
	}

	r := newRescaler(sd, dd)
	switch {
	case srcLimited && dstLimited:
		return transform{"tofull+rescale+tolimited", func(v int) int {
			return m.FullToLimited(dd, r.apply(m.LimitedToFull(sd, v)))
		}}
	case srcLimited:
		return transform{"tofull+rescale", func(v int) int {
			return r.apply(m.LimitedToFull(sd, v))
		}}
	case dstLimited:
		return transform{"rescale+tolimited", func(v int) int {
			return m.FullToLimited(dd, r.apply(v))
		}}
	default:
		return transform{"rescale", r.apply}
	}
}

// kernel is a fully specialized row loop for one call.
type kernel struct {
	name string
	run  func(p *Params)
}

func selectKernel(p *Params) kernel {
	t := selectTransform(p)
	srcWide := SampleBytes(p.SrcDepth) == 2
	dstWide := SampleBytes(p.DstDepth) == 2
	k := kernel{name: t.name + "/" + widthName(srcWide) + "->" + widthName(dstWide)}

	fn := t.fn
	switch {
	case fn == nil && srcWide:
		k.run = copyRows[wide]
	case fn == nil:
		k.run = copyRows[narrow]
	case srcWide && dstWide:
		k.run = func(p *Params) { mapRows[wide, wide](p, fn) }
	case srcWide:
		k.run = func(p *Params) { mapRows[wide, narrow](p, fn) }
	case dstWide:
		k.run = func(p *Params) { mapRows[narrow, wide](p, fn) }
	default:
		k.run = func(p *Params) { mapRows[narrow, narrow](p, fn) }
	}
	return k
}

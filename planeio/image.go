package planeio

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"

	"github.com/mrjoshuak/go-alphaplane/alpha"
)

// HasAlpha reports whether img's color model carries an alpha channel.
func HasAlpha(img image.Image) bool {
	switch img.(type) {
	case *image.Gray, *image.Gray16, *image.YCbCr, *image.CMYK:
		return false
	}
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model, color.YCbCrModel, color.CMYKModel:
		return false
	}
	return true
}

// ExtractAlpha copies the alpha channel of img into a new full-range
// plane at the image's native depth: 8 for *image.NRGBA, *image.RGBA and
// *image.Alpha, 16 otherwise. Images without alpha yield a fully opaque
// plane.
func ExtractAlpha(img image.Image) *Plane {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch m := img.(type) {
	case *image.NRGBA:
		return extract8(m.Pix, m.PixOffset(b.Min.X, b.Min.Y)+3, m.Stride, 4, w, h)
	case *image.RGBA:
		return extract8(m.Pix, m.PixOffset(b.Min.X, b.Min.Y)+3, m.Stride, 4, w, h)
	case *image.Alpha:
		return extract8(m.Pix, m.PixOffset(b.Min.X, b.Min.Y), m.Stride, 1, w, h)
	case *image.NRGBA64:
		return extractBigEndian16(m.Pix, m.PixOffset(b.Min.X, b.Min.Y)+6, m.Stride, 8, w, h)
	case *image.RGBA64:
		return extractBigEndian16(m.Pix, m.PixOffset(b.Min.X, b.Min.Y)+6, m.Stride, 8, w, h)
	case *image.Alpha16:
		return extractBigEndian16(m.Pix, m.PixOffset(b.Min.X, b.Min.Y), m.Stride, 2, w, h)
	case *image.Gray, *image.YCbCr, *image.CMYK:
		return Opaque(w, h, 8, alpha.RangeFull)
	case *image.Gray16:
		return Opaque(w, h, 16, alpha.RangeFull)
	}

	if !HasAlpha(img) {
		return Opaque(w, h, 16, alpha.RangeFull)
	}
	p := NewPlane(w, h, 16, alpha.RangeFull)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA64Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
			p.Set(x, y, int(c.A))
		}
	}
	return p
}

// ExtractGray copies the luminance of a grayscale image into a new
// full-range plane. *image.Gray gives an 8-bit plane; everything else is
// read through color.Gray16Model into a 16-bit plane. Plane files store
// alpha as grayscale images, so this is the inverse of ToGray.
func ExtractGray(img image.Image) *Plane {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch m := img.(type) {
	case *image.Gray:
		return extract8(m.Pix, m.PixOffset(b.Min.X, b.Min.Y), m.Stride, 1, w, h)
	case *image.Gray16:
		return extractBigEndian16(m.Pix, m.PixOffset(b.Min.X, b.Min.Y), m.Stride, 2, w, h)
	}

	p := NewPlane(w, h, 16, alpha.RangeFull)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			p.Set(x, y, int(c.Y))
		}
	}
	return p
}

// extract8 copies an 8-bit, possibly interleaved, sample plane.
func extract8(pix []byte, offset, stride, pixelBytes, w, h int) *Plane {
	src := &Plane{
		Width: w, Height: h, Depth: 8, Range: alpha.RangeFull,
		Data: pix, Offset: offset, RowBytes: stride, PixelBytes: pixelBytes,
	}
	dst := NewPlane(w, h, 8, alpha.RangeFull)
	d := src.Params(dst)
	alpha.Reformat(&d)
	return dst
}

// extractBigEndian16 copies 16-bit big-endian samples, the layout of the
// image package's 16-bit types, into a host-order plane.
func extractBigEndian16(pix []byte, offset, stride, pixelBytes, w, h int) *Plane {
	p := NewPlane(w, h, 16, alpha.RangeFull)
	for y := 0; y < h; y++ {
		row := pix[offset+y*stride:]
		for x := 0; x < w; x++ {
			p.Set(x, y, int(binary.BigEndian.Uint16(row[x*pixelBytes:])))
		}
	}
	return p
}

// ToGray renders p as a grayscale image without changing its range.
// Planes of depth <= 8 become *image.Gray, deeper planes *image.Gray16;
// samples are rescaled to 8 or 16 bits. For full-range planes the
// expansion is lossless: ExtractGray followed by Convert back to p.Depth
// restores p.
func ToGray(p *Plane) (image.Image, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	r := image.Rect(0, 0, p.Width, p.Height)
	if p.Depth <= 8 {
		g := image.NewGray(r)
		dst := &Plane{
			Width: p.Width, Height: p.Height, Depth: 8, Range: p.Range,
			Data: g.Pix, RowBytes: g.Stride, PixelBytes: 1,
		}
		d := p.Params(dst)
		alpha.Reformat(&d)
		return g, nil
	}

	wide := NewPlane(p.Width, p.Height, 16, p.Range)
	d := p.Params(wide)
	alpha.Reformat(&d)
	g := image.NewGray16(r)
	for y := 0; y < p.Height; y++ {
		row := g.Pix[y*g.Stride:]
		for x := 0; x < p.Width; x++ {
			binary.BigEndian.PutUint16(row[x*2:], uint16(wide.At(x, y)))
		}
	}
	return g, nil
}

// InsertAlpha writes p into the alpha bytes of img, converting it to
// 8-bit full range. The color bytes are left untouched.
func InsertAlpha(img *image.NRGBA, p *Plane) error {
	b := img.Bounds()
	if b.Dx() != p.Width || b.Dy() != p.Height {
		return fmt.Errorf("%w: plane is %dx%d, image is %dx%d",
			ErrInvalidPlane, p.Width, p.Height, b.Dx(), b.Dy())
	}
	dst := &Plane{
		Width: p.Width, Height: p.Height, Depth: 8, Range: alpha.RangeFull,
		Data: img.Pix, Offset: img.PixOffset(b.Min.X, b.Min.Y) + 3,
		RowBytes: img.Stride, PixelBytes: 4,
	}
	d := p.Params(dst)
	if err := alpha.Validate(&d, true); err != nil {
		return err
	}
	alpha.Reformat(&d)
	return nil
}

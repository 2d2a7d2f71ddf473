package planeio

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/mrjoshuak/go-alphaplane/alpha"
)

func randomPlane(w, h, depth int, r alpha.Range, seed int64) *Plane {
	rng := rand.New(rand.NewSource(seed))
	p := NewPlane(w, h, depth, r)
	top := alpha.MaxValue(depth)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p.Set(x, y, rng.Intn(top+1))
		}
	}
	return p
}

func equalSamples(t *testing.T, got, want *Plane) {
	t.Helper()
	if got.Width != want.Width || got.Height != want.Height {
		t.Fatalf("size = %dx%d, want %dx%d", got.Width, got.Height, want.Width, want.Height)
	}
	if got.Depth != want.Depth || got.Range != want.Range {
		t.Fatalf("format = %d/%v, want %d/%v", got.Depth, got.Range, want.Depth, want.Range)
	}
	for y := 0; y < want.Height; y++ {
		for x := 0; x < want.Width; x++ {
			if g, w := got.At(x, y), want.At(x, y); g != w {
				t.Fatalf("sample (%d,%d) = %d, want %d", x, y, g, w)
			}
		}
	}
}

func TestNewPlane(t *testing.T) {
	p := NewPlane(5, 3, 12, alpha.RangeLimited)
	if p.RowBytes != 10 || p.PixelBytes != 2 || len(p.Data) != 30 {
		t.Errorf("NewPlane(5, 3, 12) = rowBytes %d, pixelBytes %d, len %d", p.RowBytes, p.PixelBytes, len(p.Data))
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	p.Set(4, 2, 4095)
	if got := p.At(4, 2); got != 4095 {
		t.Errorf("At(4, 2) = %d, want 4095", got)
	}
}

func TestPlaneValidate(t *testing.T) {
	p := NewPlane(4, 4, 8, alpha.RangeFull)
	p.Data = p.Data[:10]
	err := p.Validate()
	if !errors.Is(err, ErrInvalidPlane) || !errors.Is(err, alpha.ErrBufferTooSmall) {
		t.Errorf("Validate() = %v, want ErrInvalidPlane wrapping ErrBufferTooSmall", err)
	}
}

func TestOpaque(t *testing.T) {
	tests := []struct {
		depth int
		r     alpha.Range
		want  int
	}{
		{8, alpha.RangeFull, 255},
		{8, alpha.RangeLimited, 235},
		{10, alpha.RangeFull, 1023},
		{10, alpha.RangeLimited, 940},
		{16, alpha.RangeFull, 65535},
	}
	for _, tt := range tests {
		p := Opaque(3, 2, tt.depth, tt.r)
		for y := 0; y < 2; y++ {
			for x := 0; x < 3; x++ {
				if got := p.At(x, y); got != tt.want {
					t.Errorf("Opaque(%d, %v) sample = %d, want %d", tt.depth, tt.r, got, tt.want)
				}
			}
		}
	}
}

func TestConvert(t *testing.T) {
	src := NewPlane(4, 1, 8, alpha.RangeFull)
	for x, v := range []int{0, 128, 254, 255} {
		src.Set(x, 0, v)
	}
	dst, err := Convert(src, 10, alpha.RangeFull, 1)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	want := []int{0, 514, 1019, 1023}
	for x, w := range want {
		if got := dst.At(x, 0); got != w {
			t.Errorf("sample %d = %d, want %d", x, got, w)
		}
	}
}

func TestConvertRejectsBadDepth(t *testing.T) {
	src := NewPlane(2, 2, 8, alpha.RangeFull)
	if _, err := Convert(src, 17, alpha.RangeFull, 1); !errors.Is(err, alpha.ErrInvalidDepth) {
		t.Errorf("Convert(depth 17) error = %v, want ErrInvalidDepth", err)
	}
}

func TestReformatParallelMatchesSequential(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 8} {
		src := randomPlane(37, 203, 10, alpha.RangeLimited, 9)
		seq := NewPlane(src.Width, src.Height, 8, alpha.RangeFull)
		par := NewPlane(src.Width, src.Height, 8, alpha.RangeFull)

		d := src.Params(seq)
		alpha.Reformat(&d)
		d = src.Params(par)
		ReformatParallel(&d, workers)

		if !bytes.Equal(seq.Data, par.Data) {
			t.Errorf("workers=%d: parallel result differs from sequential", workers)
		}
	}
}

func TestFillOpaqueParallel(t *testing.T) {
	p := NewPlane(9, 100, 12, alpha.RangeLimited)
	d := p.Target()
	FillOpaqueParallel(&d, 4)
	want := alpha.OpaqueValue(12, alpha.RangeLimited, nil)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			if got := p.At(x, y); got != want {
				t.Fatalf("sample (%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func BenchmarkConvert1080p(b *testing.B) {
	src := randomPlane(1920, 1080, 10, alpha.RangeLimited, 1)
	b.SetBytes(int64(len(src.Data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Convert(src, 8, alpha.RangeFull, 0); err != nil {
			b.Fatal(err)
		}
	}
}

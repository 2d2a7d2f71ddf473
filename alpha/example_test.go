package alpha_test

import (
	"encoding/binary"
	"fmt"

	"github.com/mrjoshuak/go-alphaplane/alpha"
)

// ExampleReformat converts an 8-bit full-range plane to 10 bits.
func ExampleReformat() {
	src := []byte{0, 128, 255, 255}
	dst := make([]byte, 8)

	p := alpha.Params{
		Width: 2, Height: 2,
		SrcDepth: 8, SrcRange: alpha.RangeFull,
		SrcPlane: src, SrcRowBytes: 2, SrcPixelBytes: 1,
		DstDepth: 10, DstRange: alpha.RangeFull,
		DstPlane: dst, DstRowBytes: 4, DstPixelBytes: 2,
	}
	alpha.Reformat(&p)

	for i := 0; i < 4; i++ {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(binary.NativeEndian.Uint16(dst[i*2:]))
	}
	fmt.Println()
	fmt.Println(alpha.Describe(&p))
	// Output:
	// 0 514 1023 1023
	// rescale/narrow->wide
}

// ExampleFillOpaque fills the alpha bytes of an interleaved RGBA row.
func ExampleFillOpaque() {
	rgba := []byte{
		10, 20, 30, 0,
		40, 50, 60, 0,
	}
	p := alpha.Params{
		Width: 2, Height: 1,
		DstDepth: 8, DstRange: alpha.RangeLimited,
		DstPlane: rgba, DstOffset: 3, DstRowBytes: 8, DstPixelBytes: 4,
	}
	alpha.FillOpaque(&p)
	fmt.Println(rgba)
	// Output: [10 20 30 235 40 50 60 235]
}

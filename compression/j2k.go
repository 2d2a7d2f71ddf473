package compression

import (
	"fmt"
	"image"
	"io"

	"github.com/mrjoshuak/go-jpeg2000"
)

// J2KOptions selects the JPEG 2000 coding path for plane files.
type J2KOptions struct {
	// HighThroughput selects HTJ2K block coding (ITU-T T.814).
	HighThroughput bool
	// BlockSize is the HT code block width and height; 0 uses 64.
	BlockSize int
}

// EncodeJ2K writes img as a lossless JPEG 2000 codestream.
func EncodeJ2K(w io.Writer, img image.Image, o J2KOptions) error {
	b := img.Bounds()
	opts := &jpeg2000.Options{
		Format:         jpeg2000.FormatJ2K, // Raw codestream, no JP2 wrapper
		Lossless:       true,
		NumResolutions: j2kResolutions(b.Dx(), b.Dy()),
	}
	if o.HighThroughput {
		block := o.BlockSize
		if block == 0 {
			block = 64
		}
		opts.HighThroughput = true
		opts.HTBlockWidth = block
		opts.HTBlockHeight = block
	}
	if err := jpeg2000.Encode(w, img, opts); err != nil {
		return fmt.Errorf("htj2k: jpeg2000 encode failed: %w", err)
	}
	return nil
}

// DecodeJ2K reads a JPEG 2000 codestream. Single-component codestreams
// decode to gray images.
func DecodeJ2K(r io.Reader) (image.Image, error) {
	img, err := jpeg2000.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("htj2k: jpeg2000 decode failed: %w", err)
	}
	return img, nil
}

// j2kResolutions returns the resolution count for a codestream: up to
// five decomposition levels, fewer for planes too small to halve that
// often.
func j2kResolutions(width, height int) int {
	n := 1
	for s := min(width, height); s >= 2 && n < 6; s /= 2 {
		n++
	}
	return n
}

package compression

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdMaxWindow caps the history buffer a frame may ask the decoder for.
const zstdMaxWindow = 1 << 25

var zstdEncoder = sync.OnceValues(func() (*zstd.Encoder, error) {
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
})

// Pool for streaming zstd decoders. A streaming decoder stops once dst is
// full, so a frame claiming more data than the layout is never expanded.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxWindow(zstdMaxWindow))
		if err != nil {
			return nil
		}
		return dec
	},
}

func zstdCompress(src []byte) ([]byte, error) {
	enc, err := zstdEncoder()
	if err != nil {
		return nil, err
	}
	return enc.EncodeAll(src, nil), nil
}

// zstdDecompressTo decodes src into dst, which must be exactly the
// decompressed size.
func zstdDecompressTo(dst, src []byte) error {
	if len(src) == 0 {
		if len(dst) != 0 {
			return ErrCorrupted
		}
		return nil
	}

	var h zstd.Header
	if err := h.Decode(src); err != nil {
		return ErrCorrupted
	}
	if h.HasFCS && h.FrameContentSize != uint64(len(dst)) {
		return ErrCorrupted
	}

	dec, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	if dec == nil {
		return ErrCorrupted
	}
	defer zstdDecoderPool.Put(dec)
	if err := dec.Reset(bytes.NewReader(src)); err != nil {
		return ErrCorrupted
	}

	if _, err := io.ReadFull(dec, dst); err != nil {
		return ErrCorrupted
	}
	// trailing data means the header and payload disagree
	var extra [1]byte
	if n, _ := dec.Read(extra[:]); n != 0 {
		return ErrCorrupted
	}
	return nil
}

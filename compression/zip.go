package compression

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// Pool for zlib writers to reduce allocations.
// Each pooled item contains both the writer and its destination buffer.
type zlibWriterPoolItem struct {
	writer *zlib.Writer
	buf    *bytes.Buffer
}

var zlibWriterPool = sync.Pool{
	New: func() any {
		buf := new(bytes.Buffer)
		w, _ := zlib.NewWriterLevel(buf, zlib.BestCompression)
		return &zlibWriterPoolItem{writer: w, buf: buf}
	},
}

func zlibCompress(src []byte) ([]byte, error) {
	item := zlibWriterPool.Get().(*zlibWriterPoolItem)
	defer zlibWriterPool.Put(item)
	item.buf.Reset()
	item.writer.Reset(item.buf)

	if _, err := item.writer.Write(src); err != nil {
		item.writer.Close()
		return nil, err
	}
	if err := item.writer.Close(); err != nil {
		return nil, err
	}
	return bytes.Clone(item.buf.Bytes()), nil
}

// zlibReaderPoolItem wraps a zlib reader for pooling
type zlibReaderPoolItem struct {
	reader io.ReadCloser
	srcBuf *bytes.Reader
}

var zlibReaderPool = sync.Pool{
	New: func() any {
		return &zlibReaderPoolItem{srcBuf: bytes.NewReader(nil)}
	},
}

// zlibDecompressTo inflates src into dst, which must be exactly the
// decompressed size.
func zlibDecompressTo(dst, src []byte) error {
	item := zlibReaderPool.Get().(*zlibReaderPoolItem)
	defer zlibReaderPool.Put(item)
	item.srcBuf.Reset(src)

	var err error
	if r, ok := item.reader.(zlib.Resetter); ok {
		err = r.Reset(item.srcBuf, nil)
	} else {
		item.reader, err = zlib.NewReader(item.srcBuf)
	}
	if err != nil {
		item.reader = nil
		return ErrCorrupted
	}

	if _, err := io.ReadFull(item.reader, dst); err != nil {
		return ErrCorrupted
	}
	// trailing data means the header and payload disagree
	var extra [1]byte
	if n, _ := item.reader.Read(extra[:]); n != 0 {
		return ErrCorrupted
	}
	return nil
}

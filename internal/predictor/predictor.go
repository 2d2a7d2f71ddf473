// Package predictor implements the horizontal differencing applied to
// alpha samples before entropy coding.
//
// Alpha planes are mostly flat: long runs of opaque or transparent samples
// with smooth edges. Replacing each byte by its difference from the byte
// to its left turns those runs into zeros, which zlib and zstd store in a
// few bits.
package predictor

// Encode replaces every byte of each rowLen-byte row of data, except the
// first, by its difference from its predecessor. A rowLen <= 0 treats data
// as one row. A partial last row is encoded like a full one.
func Encode(data []byte, rowLen int) {
	if rowLen <= 0 {
		rowLen = len(data)
	}
	for start := 0; start < len(data); start += rowLen {
		row := data[start:min(start+rowLen, len(data))]
		for i := len(row) - 1; i >= 1; i-- {
			row[i] -= row[i-1]
		}
	}
}

// Decode reverses Encode for the same rowLen.
func Decode(data []byte, rowLen int) {
	if rowLen <= 0 {
		rowLen = len(data)
	}
	for start := 0; start < len(data); start += rowLen {
		row := data[start:min(start+rowLen, len(data))]
		for i := 1; i < len(row); i++ {
			row[i] += row[i-1]
		}
	}
}

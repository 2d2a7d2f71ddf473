// Package interleave splits packed multi-byte samples into byte planes and
// joins them back.
//
// Wide alpha samples compress better when all low bytes are stored
// together, followed by all high bytes:
//
//	Samples: [L0 H0, L1 H1, L2 H2]
//	Planes:  [L0 L1 L2, H0 H1 H2]
package interleave

// Split groups the bytes of sampleBytes-wide samples by position. out must
// have len(data) bytes; if it is nil a buffer is allocated. Trailing bytes
// that do not form a whole sample are copied unchanged.
func Split(data []byte, sampleBytes int, out []byte) []byte {
	if out == nil {
		out = make([]byte, len(data))
	}
	if sampleBytes <= 1 {
		copy(out, data)
		return out
	}
	n := len(data) / sampleBytes
	for b := 0; b < sampleBytes; b++ {
		plane := out[b*n : (b+1)*n]
		for i := range plane {
			plane[i] = data[i*sampleBytes+b]
		}
	}
	copy(out[n*sampleBytes:], data[n*sampleBytes:])
	return out
}

// Join reverses Split.
func Join(planes []byte, sampleBytes int, out []byte) []byte {
	if out == nil {
		out = make([]byte, len(planes))
	}
	if sampleBytes <= 1 {
		copy(out, planes)
		return out
	}
	n := len(planes) / sampleBytes
	for b := 0; b < sampleBytes; b++ {
		plane := planes[b*n : (b+1)*n]
		for i, v := range plane {
			out[i*sampleBytes+b] = v
		}
	}
	copy(out[n*sampleBytes:], planes[n*sampleBytes:])
	return out
}

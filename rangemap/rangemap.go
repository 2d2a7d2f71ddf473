// Package rangemap maps integer samples between full range and limited
// (studio, "TV") range at any bit depth from 1 to 16.
//
// Full range uses every code value in [0, 2^depth-1]. Limited range keeps
// black at 16 and white at 235 for 8-bit samples, leaving footroom and
// headroom for filter overshoot. Other depths scale those points by a power
// of two:
//
//	depth  black  white  full
//	8      16     235    255
//	10     64     940    1023
//	12     256    3760   4095
//	16     4096   60160  65535
//
// Both directions round to nearest with integer arithmetic and clamp, so
// FullToLimited(d, LimitedToFull(d, FullToLimited(d, v))) == FullToLimited(d, v)
// for every legal v.
package rangemap

// MinDepth and MaxDepth bound the supported sample depths.
const (
	MinDepth = 1
	MaxDepth = 16
)

// 8-bit studio black and white.
const (
	black8 = 16
	white8 = 235
)

// Bounds returns the limited-range black level, white level and the
// full-range maximum for depth.
func Bounds(depth int) (lo, hi, full int) {
	full = 1<<depth - 1
	if depth >= 8 {
		return black8 << (depth - 8), white8 << (depth - 8), full
	}
	return black8 >> (8 - depth), white8 >> (8 - depth), full
}

// LimitedToFull expands a limited-range sample of the given depth to full
// range. Values below black clamp to 0 and values above white clamp to the
// full-range maximum.
func LimitedToFull(depth, v int) int {
	lo, hi, full := Bounds(depth)
	span := int64(hi - lo)
	// Below black the numerator is negative; division truncates toward zero
	// and the clamp takes the result to 0.
	r := (int64(v-lo)*int64(full) + span/2) / span
	return int(clampInt64(r, 0, int64(full)))
}

// FullToLimited compresses a full-range sample of the given depth into
// limited range. The result always lies in [black, white].
func FullToLimited(depth, v int) int {
	lo, hi, full := Bounds(depth)
	f := int64(full)
	r := (int64(v)*int64(hi-lo)+f/2)/f + int64(lo)
	return int(clampInt64(r, int64(lo), int64(hi)))
}

func clampInt64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Luma is the luma/alpha range mapper. Its zero value is ready to use and
// satisfies alpha.RangeMapper.
type Luma struct{}

// LimitedToFull calls the package-level LimitedToFull.
func (Luma) LimitedToFull(depth, v int) int { return LimitedToFull(depth, v) }

// FullToLimited calls the package-level FullToLimited.
func (Luma) FullToLimited(depth, v int) int { return FullToLimited(depth, v) }

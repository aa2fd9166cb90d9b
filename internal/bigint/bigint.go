// Package bigint implements arbitrary-precision signed integers stored as
// base-10^9 limbs.
//
// A BigInt is a value type: every operation returns a freshly allocated
// result and the Assign forms replace the receiver's limbs wholesale, so
// values never share backing arrays and may be read from any number of
// goroutines. The zero value is a valid zero.
//
// Three interchangeable multiplication algorithms are provided (schoolbook,
// Karatsuba and a complex FFT); all of them produce identical limbs. Callers
// pick one explicitly through the Multiplier interface.
package bigint

// Base is the radix of a limb. Each limb holds nine decimal digits, which
// keeps decimal conversion trivial and lets a limb product plus two carries
// fit in a uint64.
const Base = 1_000_000_000

// LimbDigits is the number of decimal digits stored in one full limb.
const LimbDigits = 9

// BigInt is an arbitrary-precision signed integer.
//
// limbs are least-significant first, each in [0, Base). A normalized value
// has no most-significant zero limbs except for zero itself, which is the
// single limb 0 and is never negative.
type BigInt struct {
	neg   bool
	limbs []uint64
}

var zeroLimbs = []uint64{0}

// mag returns the magnitude limbs, mapping the zero value to [0]. The
// returned slice must not be modified.
func (x BigInt) mag() []uint64 {
	if len(x.limbs) == 0 {
		return zeroLimbs
	}
	return x.limbs
}

// newBigInt builds a normalized value that takes ownership of limbs.
func newBigInt(neg bool, limbs []uint64) BigInt {
	limbs = trim(limbs)
	if isZeroMag(limbs) {
		neg = false
	}
	return BigInt{neg: neg, limbs: limbs}
}

// trim drops most-significant zero limbs, leaving at least one limb.
func trim(limbs []uint64) []uint64 {
	n := len(limbs)
	for n > 1 && limbs[n-1] == 0 {
		n--
	}
	if n == 0 {
		return []uint64{0}
	}
	return limbs[:n]
}

func isZeroMag(limbs []uint64) bool {
	return len(limbs) == 0 || (len(limbs) == 1 && limbs[0] == 0)
}

func cloneMag(limbs []uint64) []uint64 {
	if len(limbs) == 0 {
		return []uint64{0}
	}
	out := make([]uint64, len(limbs))
	copy(out, limbs)
	return out
}

// Zero returns 0.
func Zero() BigInt { return BigInt{limbs: []uint64{0}} }

// One returns 1.
func One() BigInt { return BigInt{limbs: []uint64{1}} }

// FromInt64 converts v, including math.MinInt64.
func FromInt64(v int64) BigInt {
	u := uint64(v)
	if v < 0 {
		u = -u
	}
	return newBigInt(v < 0, limbsFromUint64(u))
}

// FromUint64 converts v.
func FromUint64(v uint64) BigInt {
	return newBigInt(false, limbsFromUint64(v))
}

func limbsFromUint64(u uint64) []uint64 {
	if u == 0 {
		return []uint64{0}
	}
	limbs := make([]uint64, 0, 3)
	for u > 0 {
		limbs = append(limbs, u%Base)
		u /= Base
	}
	return limbs
}

// Clone returns a deep copy of x.
func (x BigInt) Clone() BigInt {
	return BigInt{neg: x.neg, limbs: cloneMag(x.limbs)}
}

// Sign returns -1, 0 or +1.
func (x BigInt) Sign() int {
	switch {
	case x.IsZero():
		return 0
	case x.neg:
		return -1
	default:
		return 1
	}
}

// IsZero reports whether x == 0.
func (x BigInt) IsZero() bool { return isZeroMag(x.limbs) }

// IsNegative reports whether x < 0.
func (x BigInt) IsNegative() bool { return x.neg }

// IsOdd reports whether x is odd.
func (x BigInt) IsOdd() bool { return x.mag()[0]%2 == 1 }

// LimbCount returns the number of limbs in the normalized representation.
func (x BigInt) LimbCount() int { return len(x.mag()) }

// Limbs returns a copy of the magnitude limbs, least-significant first.
func (x BigInt) Limbs() []uint64 { return cloneMag(x.limbs) }

// FromLimbs builds a value from least-significant-first limbs. It reports
// false if any limb is out of range.
func FromLimbs(neg bool, limbs []uint64) (BigInt, bool) {
	for _, l := range limbs {
		if l >= Base {
			return BigInt{}, false
		}
	}
	return newBigInt(neg, cloneMag(limbs)), true
}

// DigitCount returns the number of decimal digits of |x| (1 for zero).
func (x BigInt) DigitCount() int {
	m := x.mag()
	top := m[len(m)-1]
	digits := 1
	for top >= 10 {
		top /= 10
		digits++
	}
	return (len(m)-1)*LimbDigits + digits
}

// Int64 returns x as an int64 and whether it fits.
func (x BigInt) Int64() (int64, bool) {
	m := x.mag()
	if len(m) > 3 {
		return 0, false
	}
	var u uint64
	for i := len(m) - 1; i >= 0; i-- {
		// 3 limbs can reach 10^27, so guard the multiply.
		if u > (1<<63)/Base {
			return 0, false
		}
		u = u*Base + m[i]
	}
	if x.neg {
		if u > 1<<63 {
			return 0, false
		}
		return int64(-u), true
	}
	if u > 1<<63-1 {
		return 0, false
	}
	return int64(u), true
}

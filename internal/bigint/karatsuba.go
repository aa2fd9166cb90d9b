package bigint

// KaratsubaThreshold is the default crossover, in limbs, below which
// Karatsuba falls back to schoolbook multiplication.
const KaratsubaThreshold = 10

// KaratsubaMul returns x*y using Karatsuba multiplication with the default
// crossover.
func (x BigInt) KaratsubaMul(y BigInt) BigInt {
	return x.karatsubaMul(y, KaratsubaThreshold)
}

func (x BigInt) karatsubaMul(y BigInt, threshold int) BigInt {
	return newBigInt(x.neg != y.neg, karatsubaMag(x.mag(), y.mag(), max(threshold, 1)))
}

// karatsubaMag splits both operands at m = max(len)/2 limbs:
//
//	a*b = ac*B^(2m) + (abcd - ac - bd)*B^m + bd
//
// where ac = hi_a*hi_b, bd = lo_a*lo_b and abcd = (hi_a+lo_a)*(hi_b+lo_b).
func karatsubaMag(a, b []uint64, threshold int) []uint64 {
	if len(a) <= threshold || len(b) <= threshold {
		return mulMag(a, b)
	}
	m := max(len(a), len(b)) / 2
	aLo, aHi := splitAt(a, m)
	bLo, bHi := splitAt(b, m)

	ac := karatsubaMag(aHi, bHi, threshold)
	bd := karatsubaMag(aLo, bLo, threshold)
	abcd := karatsubaMag(addMag(aHi, aLo), addMag(bHi, bLo), threshold)
	adbc := subMag(subMag(abcd, ac), bd)

	z := addMag(shiftLeft(ac, 2*m), shiftLeft(adbc, m))
	return addMag(z, bd)
}

// splitAt returns fresh normalized copies of limbs [0,m) and [m,end).
// The high half is zero when m >= len(a).
func splitAt(a []uint64, m int) (lo, hi []uint64) {
	if m >= len(a) {
		return cloneMag(a), []uint64{0}
	}
	lo = trim(cloneMag(a[:m]))
	hi = trim(cloneMag(a[m:]))
	return lo, hi
}

// shiftLeft multiplies a by Base^k by prepending k zero limbs. Zero stays
// a single zero limb.
func shiftLeft(a []uint64, k int) []uint64 {
	if isZeroMag(a) || k == 0 {
		return cloneMag(a)
	}
	z := make([]uint64, len(a)+k)
	copy(z[k:], a)
	return z
}

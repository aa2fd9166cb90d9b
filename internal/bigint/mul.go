package bigint

// mulMag is the schoolbook product of two magnitudes. The accumulator
// (Base-1)^2 + 2*(Base-1) stays below 2^64, so one uint64 holds a partial
// product together with the running limb and the carry.
func mulMag(a, b []uint64) []uint64 {
	if isZeroMag(a) || isZeroMag(b) {
		return []uint64{0}
	}
	z := make([]uint64, len(a)+len(b))
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		var carry uint64
		for j, bj := range b {
			cur := z[i+j] + ai*bj + carry
			z[i+j] = cur % Base
			carry = cur / Base
		}
		for k := i + len(b); carry > 0; k++ {
			cur := z[k] + carry
			z[k] = cur % Base
			carry = cur / Base
		}
	}
	return trim(z)
}

// mulSmallMag returns a*q for a single limb q < Base.
func mulSmallMag(a []uint64, q uint64) []uint64 {
	if q == 0 || isZeroMag(a) {
		return []uint64{0}
	}
	z := make([]uint64, len(a)+1)
	var carry uint64
	for i, ai := range a {
		cur := ai*q + carry
		z[i] = cur % Base
		carry = cur / Base
	}
	z[len(a)] = carry
	return trim(z)
}

// Mul returns x*y using schoolbook multiplication.
func (x BigInt) Mul(y BigInt) BigInt {
	return newBigInt(x.neg != y.neg, mulMag(x.mag(), y.mag()))
}

// MulAssign sets x to x*y.
func (x *BigInt) MulAssign(y BigInt) { *x = x.Mul(y) }

package bigint

// addMag returns a+b.
func addMag(a, b []uint64) []uint64 {
	if len(a) < len(b) {
		a, b = b, a
	}
	z := make([]uint64, len(a)+1)
	var carry uint64
	for i := range a {
		s := a[i] + carry
		if i < len(b) {
			s += b[i]
		}
		if s >= Base {
			z[i], carry = s-Base, 1
		} else {
			z[i], carry = s, 0
		}
	}
	z[len(a)] = carry
	return trim(z)
}

// subMag returns a-b. It requires |a| >= |b|.
func subMag(a, b []uint64) []uint64 {
	z := make([]uint64, len(a))
	var borrow uint64
	for i := range a {
		sub := borrow
		if i < len(b) {
			sub += b[i]
		}
		if a[i] >= sub {
			z[i], borrow = a[i]-sub, 0
		} else {
			z[i], borrow = a[i]+Base-sub, 1
		}
	}
	return trim(z)
}

// addSigned adds two signed magnitudes.
func addSigned(xneg bool, x []uint64, yneg bool, y []uint64) BigInt {
	if xneg == yneg {
		return newBigInt(xneg, addMag(x, y))
	}
	switch cmpMag(x, y) {
	case 0:
		return Zero()
	case 1:
		return newBigInt(xneg, subMag(x, y))
	default:
		return newBigInt(yneg, subMag(y, x))
	}
}

// Add returns x+y.
func (x BigInt) Add(y BigInt) BigInt {
	return addSigned(x.neg, x.mag(), y.neg, y.mag())
}

// Sub returns x-y.
func (x BigInt) Sub(y BigInt) BigInt {
	return addSigned(x.neg, x.mag(), !y.neg, y.mag())
}

// Neg returns -x. Zero stays non-negative.
func (x BigInt) Neg() BigInt {
	return newBigInt(!x.neg, cloneMag(x.limbs))
}

// AddAssign sets x to x+y.
func (x *BigInt) AddAssign(y BigInt) { *x = x.Add(y) }

// SubAssign sets x to x-y.
func (x *BigInt) SubAssign(y BigInt) { *x = x.Sub(y) }

// Inc adds one to x in place.
func (x *BigInt) Inc() { *x = x.Add(One()) }

// Dec subtracts one from x in place.
func (x *BigInt) Dec() { *x = x.Sub(One()) }

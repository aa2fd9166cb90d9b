package bigint

// cmpMag compares normalized magnitudes.
func cmpMag(a, b []uint64) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Cmp returns -1, 0 or +1 as x is less than, equal to, or greater than y.
// Negative values order before non-negative ones; among negatives a larger
// magnitude is smaller.
func (x BigInt) Cmp(y BigInt) int {
	if x.neg != y.neg {
		if x.neg {
			return -1
		}
		return 1
	}
	c := cmpMag(x.mag(), y.mag())
	if x.neg {
		return -c
	}
	return c
}

// CmpAbs compares |x| and |y|.
func (x BigInt) CmpAbs(y BigInt) int { return cmpMag(x.mag(), y.mag()) }

// Equal reports whether x == y.
func (x BigInt) Equal(y BigInt) bool { return x.Cmp(y) == 0 }

// Less reports whether x < y.
func (x BigInt) Less(y BigInt) bool { return x.Cmp(y) < 0 }

// LessOrEqual reports whether x <= y.
func (x BigInt) LessOrEqual(y BigInt) bool { return x.Cmp(y) <= 0 }

// Greater reports whether x > y.
func (x BigInt) Greater(y BigInt) bool { return x.Cmp(y) > 0 }

// GreaterOrEqual reports whether x >= y.
func (x BigInt) GreaterOrEqual(y BigInt) bool { return x.Cmp(y) >= 0 }

// Abs returns |x| as a new value.
func (x BigInt) Abs() BigInt {
	return BigInt{limbs: cloneMag(x.limbs)}
}

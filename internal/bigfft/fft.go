// Package bigfft multiplies magnitudes stored as base-10^9 limbs through a
// complex discrete Fourier transform.
//
// Each limb is split into three base-1000 sub-digits before the transform so
// that every convolution coefficient stays far below 2^53 and survives the
// round trip through float64 arithmetic exactly. Transforms longer than
// MaxTransformLen are refused; callers fall back to an exact algorithm.
package bigfft

import (
	"math"
	"sync"
)

const (
	// LimbBase is the radix of the limbs accepted and produced by Mul.
	LimbBase = 1_000_000_000

	digitBase     = 1000
	digitsPerLimb = 3

	// MaxTransformLen bounds the transform length. With base-1000 digits a
	// coefficient of a 2^21-point product is at most 2^21 * 999^2 < 2^41,
	// which leaves ample headroom for the accumulated rounding error.
	MaxTransformLen = 1 << 21
)

var digitScale = [digitsPerLimb]uint64{1, 1000, 1_000_000}

// TransformLen returns the power-of-two transform length used to multiply
// operands of na and nb limbs.
func TransformLen(na, nb int) int {
	need := (na + nb) * digitsPerLimb
	n := 1
	for n < need {
		n <<= 1
	}
	return n
}

// Supported reports whether operands of na and nb limbs fit under
// MaxTransformLen.
func Supported(na, nb int) bool {
	return TransformLen(na, nb) <= MaxTransformLen
}

// Mul returns the limbs of x*y, least-significant first, with length
// len(x)+len(y) (callers normalize). ok is false when the operands are too
// large for a float64 transform. Passing the same slice twice performs a
// single forward transform.
func Mul(x, y []uint64) (z []uint64, ok bool) {
	if len(x) == 0 || len(y) == 0 {
		return []uint64{0}, true
	}
	n := TransformLen(len(x), len(y))
	if n > MaxTransformLen {
		return nil, false
	}
	square := len(x) == len(y) && &x[0] == &y[0]

	roots := rootTable(n)
	tmp := acquireComplexSlice(n)
	defer releaseComplexSlice(tmp)

	fx := acquireComplexSlice(n)
	defer releaseComplexSlice(fx)
	loadDigits(fx, x)
	transform(fx, tmp, roots, 1, false)

	if square {
		for i, v := range fx {
			fx[i] = v * v
		}
	} else {
		fy := acquireComplexSlice(n)
		defer releaseComplexSlice(fy)
		loadDigits(fy, y)
		transform(fy, tmp, roots, 1, false)
		for i := range fx {
			fx[i] *= fy[i]
		}
	}

	transform(fx, tmp, roots, 1, true)
	return carryDigits(fx, len(x)+len(y)), true
}

// loadDigits writes the base-1000 sub-digits of limbs into dst, which must
// be zeroed and long enough.
func loadDigits(dst []complex128, limbs []uint64) {
	for i, limb := range limbs {
		for j := 0; j < digitsPerLimb; j++ {
			dst[i*digitsPerLimb+j] = complex(float64(limb%digitBase), 0)
			limb /= digitBase
		}
	}
}

// carryDigits rounds the inverse transform to integers, propagates carries
// in base 1000, and repacks the digits into outLimbs base-10^9 limbs.
func carryDigits(coeffs []complex128, outLimbs int) []uint64 {
	out := make([]uint64, outLimbs)
	var carry uint64
	for i := 0; i < outLimbs*digitsPerLimb; i++ {
		v := math.Floor(real(coeffs[i]) + 0.5)
		// Exact coefficients are never negative; this guards rounding noise
		// below -0.5, which would otherwise wrap in the uint64 conversion.
		if v < 0 {
			v = 0
		}
		cur := uint64(v) + carry
		carry = cur / digitBase
		out[i/digitsPerLimb] += (cur % digitBase) * digitScale[i%digitsPerLimb]
	}
	return out
}

// transform performs an in-place recursive radix-2 DFT of a. tmp is scratch
// space of at least len(a) elements. roots holds e^{-2πik/N} for the top
// level length N; step selects the roots belonging to the current level.
// The inverse uses conjugate roots and halves every butterfly, so a forward
// and inverse pass return the original vector.
func transform(a, tmp, roots []complex128, step int, invert bool) {
	n := len(a)
	if n == 1 {
		return
	}
	half := n / 2
	even, odd := tmp[:half], tmp[half:n]
	for i := 0; i < half; i++ {
		even[i] = a[2*i]
		odd[i] = a[2*i+1]
	}
	transform(even, a[:half], roots, step*2, invert)
	transform(odd, a[half:], roots, step*2, invert)

	for k := 0; k < half; k++ {
		w := roots[k*step]
		if invert {
			w = complex(real(w), -imag(w))
		}
		t := w * odd[k]
		if invert {
			a[k] = (even[k] + t) / 2
			a[k+half] = (even[k] - t) / 2
		} else {
			a[k] = even[k] + t
			a[k+half] = even[k] - t
		}
	}
}

// Forward computes the DFT of a in place.
func Forward(a []complex128) {
	tmp := acquireComplexSlice(len(a))
	defer releaseComplexSlice(tmp)
	transform(a, tmp, rootTable(len(a)), 1, false)
}

// Inverse computes the normalized inverse DFT of a in place.
func Inverse(a []complex128) {
	tmp := acquireComplexSlice(len(a))
	defer releaseComplexSlice(tmp)
	transform(a, tmp, rootTable(len(a)), 1, true)
}

var (
	rootsMu    sync.RWMutex
	rootTables = map[int][]complex128{}
)

// rootTable returns the n/2 principal roots e^{-2πik/n}. Tables are computed
// once per length and shared read-only.
func rootTable(n int) []complex128 {
	rootsMu.RLock()
	r, ok := rootTables[n]
	rootsMu.RUnlock()
	if ok {
		return r
	}

	half := n / 2
	if half == 0 {
		half = 1
	}
	r = make([]complex128, half)
	for k := range r {
		sin, cos := math.Sincos(-2 * math.Pi * float64(k) / float64(n))
		r[k] = complex(cos, sin)
	}

	rootsMu.Lock()
	rootTables[n] = r
	rootsMu.Unlock()
	return r
}

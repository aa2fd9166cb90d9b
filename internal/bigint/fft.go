package bigint

import "github.com/agbru/bigcalc/internal/bigfft"

// FFTMul returns x*y computed through a complex discrete Fourier transform.
// Operands too large for an exact float64 transform are multiplied with
// Karatsuba instead, so the result is always exact.
func (x BigInt) FFTMul(y BigInt) BigInt {
	return newBigInt(x.neg != y.neg, fftMag(x.mag(), y.mag()))
}

func fftMag(a, b []uint64) []uint64 {
	if isZeroMag(a) || isZeroMag(b) {
		return []uint64{0}
	}
	z, ok := bigfft.Mul(a, b)
	if !ok {
		return karatsubaMag(a, b, KaratsubaThreshold)
	}
	return trim(z)
}

// FFTSupported reports whether operands of the given limb counts are
// multiplied by the transform rather than the Karatsuba fallback.
func FFTSupported(na, nb int) bool { return bigfft.Supported(na, nb) }

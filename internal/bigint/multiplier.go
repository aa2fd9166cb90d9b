package bigint

// Multiplier is a multiplication strategy. Every implementation returns
// exactly the same product; they differ only in running time.
type Multiplier interface {
	// Name returns the strategy identifier used by the registry and the CLI.
	Name() string
	// Multiply returns x*y.
	Multiply(x, y BigInt) BigInt
}

// Schoolbook is the quadratic long-multiplication strategy.
type Schoolbook struct{}

func (Schoolbook) Name() string                { return "schoolbook" }
func (Schoolbook) Multiply(x, y BigInt) BigInt { return x.Mul(y) }

// Karatsuba is the divide-and-conquer strategy. Threshold is the crossover
// in limbs; zero selects KaratsubaThreshold.
type Karatsuba struct {
	Threshold int
}

func (Karatsuba) Name() string { return "karatsuba" }

func (k Karatsuba) Multiply(x, y BigInt) BigInt {
	t := k.Threshold
	if t <= 0 {
		t = KaratsubaThreshold
	}
	return x.karatsubaMul(y, t)
}

// FFT is the transform-based strategy.
type FFT struct{}

func (FFT) Name() string                { return "fft" }
func (FFT) Multiply(x, y BigInt) BigInt { return x.FFTMul(y) }

// DefaultFFTThreshold is the operand size, in limbs, above which Adaptive
// switches to the transform.
const DefaultFFTThreshold = 2000

// Adaptive picks a strategy from the operand sizes:
//   - both operands above FFTThreshold limbs and within the transform cap: FFT
//   - both operands above KaratsubaThreshold limbs: Karatsuba
//   - otherwise: schoolbook
type Adaptive struct {
	KaratsubaThreshold int
	FFTThreshold       int
}

func (Adaptive) Name() string { return "adaptive" }

func (a Adaptive) Multiply(x, y BigInt) BigInt {
	return a.choose(x.LimbCount(), y.LimbCount()).Multiply(x, y)
}

// Choose returns the strategy Adaptive would use for operands of na and nb
// limbs.
func (a Adaptive) Choose(na, nb int) Multiplier { return a.choose(na, nb) }

func (a Adaptive) choose(na, nb int) Multiplier {
	kt := a.KaratsubaThreshold
	if kt <= 0 {
		kt = KaratsubaThreshold
	}
	ft := a.FFTThreshold
	if ft <= 0 {
		ft = DefaultFFTThreshold
	}
	smaller := min(na, nb)
	switch {
	case smaller > ft && FFTSupported(na, nb):
		return FFT{}
	case smaller > kt:
		return Karatsuba{Threshold: kt}
	default:
		return Schoolbook{}
	}
}

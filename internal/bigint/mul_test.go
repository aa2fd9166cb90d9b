package bigint

import (
	"fmt"
	"math/rand"
	"testing"
)

func randomBigInt(r *rand.Rand, limbs int) BigInt {
	m := make([]uint64, limbs)
	for i := range m {
		m[i] = uint64(r.Int63n(Base))
	}
	m[limbs-1] = max(m[limbs-1], 1)
	return newBigInt(r.Intn(2) == 0, m)
}

func allNines(limbs int) BigInt {
	m := make([]uint64, limbs)
	for i := range m {
		m[i] = Base - 1
	}
	return newBigInt(false, m)
}

// TestMultiplicationAgreementLarge compares the strategies on operands large
// enough to take the recursive and transform paths with default settings.
func TestMultiplicationAgreementLarge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large multiplications in short mode")
	}
	t.Parallel()
	r := rand.New(rand.NewSource(99))

	tests := []struct {
		name string
		a, b BigInt
	}{
		{"balanced 3000", randomBigInt(r, 3000), randomBigInt(r, 3000)},
		{"unbalanced 4000x11", randomBigInt(r, 4000), randomBigInt(r, 11)},
		{"unbalanced 2500x700", randomBigInt(r, 2500), randomBigInt(r, 700)},
		{"all nines 2048", allNines(2048), allNines(2048)},
		{"threshold edge 10x10", randomBigInt(r, 10), randomBigInt(r, 10)},
		{"threshold edge 11x11", randomBigInt(r, 11), randomBigInt(r, 11)},
	}
	strategies := []Multiplier{Karatsuba{}, FFT{}, Adaptive{}, Adaptive{KaratsubaThreshold: 16, FFTThreshold: 64}}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			want := tt.a.Mul(tt.b)
			for _, m := range strategies {
				if got := m.Multiply(tt.a, tt.b); !got.Equal(want) {
					t.Errorf("%s disagrees with schoolbook", m.Name())
				}
			}
		})
	}
}

func TestSquareOfAllNines(t *testing.T) {
	t.Parallel()
	// (10^k - 1)^2 = 10^2k - 2*10^k + 1
	const limbs = 500
	x := allNines(limbs)
	k := MustParse("1" + fmt.Sprintf("%0*d", limbs*LimbDigits, 0))
	want := k.Mul(k).Sub(k.Add(k)).Add(One())
	for _, m := range []Multiplier{Schoolbook{}, Karatsuba{}, FFT{}} {
		if got := m.Multiply(x, x); !got.Equal(want) {
			t.Errorf("%s: square of %d nines is wrong", m.Name(), limbs*LimbDigits)
		}
	}
}

func TestKaratsubaDoesNotAliasOperands(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(5))
	a, b := randomBigInt(r, 64), randomBigInt(r, 40)
	aCopy, bCopy := a.Clone(), b.Clone()
	_ = a.KaratsubaMul(b)
	_ = Karatsuba{Threshold: 1}.Multiply(a, b)
	if !a.Equal(aCopy) || !b.Equal(bCopy) {
		t.Error("multiplication modified its operands")
	}
}

func BenchmarkMultiply(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	for _, limbs := range []int{10, 100, 1000, 10000} {
		x, y := randomBigInt(r, limbs), randomBigInt(r, limbs)
		for _, m := range []Multiplier{Schoolbook{}, Karatsuba{}, FFT{}} {
			if limbs == 10000 && m.Name() == "schoolbook" {
				continue
			}
			b.Run(fmt.Sprintf("%s/%d", m.Name(), limbs), func(b *testing.B) {
				for i := 0; i < b.N; i++ {
					m.Multiply(x, y)
				}
			})
		}
	}
}

func BenchmarkQuo(b *testing.B) {
	r := rand.New(rand.NewSource(2))
	x, y := randomBigInt(r, 200), randomBigInt(r, 50)
	for i := 0; i < b.N; i++ {
		_, _ = x.Quo(y)
	}
}

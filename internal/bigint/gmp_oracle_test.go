//go:build gmp

package bigint

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/ncw/gmp"
)

func toGMP(t *testing.T, x BigInt) *gmp.Int {
	t.Helper()
	z, ok := new(gmp.Int).SetString(x.String(), 10)
	if !ok {
		t.Fatalf("gmp rejected %s", x)
	}
	return z
}

func randomDecimal(r *rand.Rand, digits int) string {
	var sb strings.Builder
	if r.Intn(2) == 0 {
		sb.WriteByte('-')
	}
	sb.WriteByte(byte('1' + r.Intn(9)))
	for i := 1; i < digits; i++ {
		sb.WriteByte(byte('0' + r.Intn(10)))
	}
	return sb.String()
}

// TestGMPOracle compares large operands against libgmp. Run with -tags gmp.
func TestGMPOracle(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for _, digits := range []int{50, 500, 5000, 20000} {
		a := MustParse(randomDecimal(r, digits))
		b := MustParse(randomDecimal(r, digits/3+1))
		ga, gb := toGMP(t, a), toGMP(t, b)

		want := new(gmp.Int).Mul(ga, gb).String()
		for _, m := range allMultipliers() {
			if got := m.Multiply(a, b).String(); got != want {
				t.Fatalf("%s mismatch at %d digits", m.Name(), digits)
			}
		}
		q, rem, err := a.QuoRem(b)
		if err != nil {
			t.Fatal(err)
		}
		if q.String() != new(gmp.Int).Quo(ga, gb).String() || rem.String() != new(gmp.Int).Rem(ga, gb).String() {
			t.Fatalf("QuoRem mismatch at %d digits", digits)
		}
	}

	base, mod := MustParse(randomDecimal(r, 40)).Abs(), MustParse(randomDecimal(r, 30)).Abs()
	got, err := base.ModExp(FromInt64(65537), mod)
	if err != nil {
		t.Fatal(err)
	}
	want := new(gmp.Int).Exp(toGMP(t, base), gmp.NewInt(65537), toGMP(t, mod))
	if got.String() != want.String() {
		t.Errorf("ModExp = %s, want %s", got, want)
	}
}

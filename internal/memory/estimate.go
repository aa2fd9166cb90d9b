package memory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agbru/bigcalc/internal/bigfft"
	"github.com/agbru/bigcalc/internal/bigint"
	"github.com/agbru/bigcalc/internal/calc"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/format"
)

const limbBytes = 8

// Operands describes the sizes, in limbs, of a request's operands. M is
// only relevant for modexp.
type Operands struct {
	A, B, M int
}

// OperandsOf returns the limb counts of req.
func OperandsOf(req calc.Request) Operands {
	return Operands{A: req.A.LimbCount(), B: req.B.LimbCount(), M: req.M.LimbCount()}
}

// EstimateMemoryUsage returns an upper estimate, in bytes, of the memory a
// request allocates when computed with algo. "all" runs every strategy at
// once, so their estimates add up.
func EstimateMemoryUsage(op calc.Op, sizes Operands, algo string, opts calc.Options) uint64 {
	if algo == "all" {
		var total uint64
		for _, name := range []string{"schoolbook", "karatsuba", "fft", "adaptive"} {
			total += EstimateMemoryUsage(op, sizes, name, opts)
		}
		return total
	}

	na, nb := max(sizes.A, 1), max(sizes.B, 1)
	switch op {
	case calc.OpAdd, calc.OpSub, calc.OpCmp:
		return uint64(max(na, nb)+1) * limbBytes
	case calc.OpMul:
		return productBytes(na, nb, algo, opts)
	case calc.OpDiv, calc.OpMod:
		// Quotient, remainder, and one trial product per quotient limb.
		return uint64(na+3*nb+2) * limbBytes
	case calc.OpModExp:
		nm := max(sizes.M, 1)
		// Every step multiplies two residues and reduces the product.
		reduce := uint64(2*nm+3*nm+2) * limbBytes
		return productBytes(nm, nm, algo, opts) + reduce + uint64(na+nb)*limbBytes
	}
	return 0
}

func productBytes(na, nb int, algo string, opts calc.Options) uint64 {
	result := uint64(na+nb) * limbBytes
	switch algo {
	case "karatsuba":
		// Each recursion level keeps three half-size products and the sums.
		return 4 * result
	case "fft":
		if !bigfft.Supported(na, nb) {
			return 4 * result
		}
		return result + uint64(bigfft.EstimateMemoryNeeds(na, nb).TotalBytes)
	case "adaptive":
		chosen := bigint.Adaptive{KaratsubaThreshold: opts.KaratsubaThreshold, FFTThreshold: opts.FFTThreshold}.Choose(na, nb)
		return productBytes(na, nb, chosen.Name(), opts)
	default:
		return result
	}
}

// ParseMemoryLimit parses sizes such as "512M", "8G", "1.5GiB" or "1048576"
// using binary multiples. An empty string means no limit and yields 0.
func ParseMemoryLimit(s string) (uint64, error) {
	raw := s
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}
	s = strings.TrimSuffix(strings.TrimSuffix(s, "B"), "I")

	multiplier := uint64(1)
	if n := len(s); n > 0 {
		if idx := strings.IndexByte("KMGT", s[n-1]); idx >= 0 {
			multiplier = 1 << (10 * (idx + 1))
			s = s[:n-1]
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0, apperrors.NewConfigError("invalid memory limit %q", raw)
	}
	return uint64(v * float64(multiplier)), nil
}

// FormatMemoryEstimate renders an estimate for display.
func FormatMemoryEstimate(bytes uint64) string {
	return fmt.Sprintf("~%s", format.FormatBytes(bytes))
}

// CheckLimit returns a MemoryError when the estimate for op exceeds limit.
// A zero limit disables the check.
func CheckLimit(op calc.Op, estimate, limit uint64) error {
	if limit == 0 || estimate <= limit {
		return nil
	}
	return apperrors.MemoryError{Operation: string(op), Estimated: estimate, Limit: limit}
}

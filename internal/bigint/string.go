package bigint

import (
	"strconv"

	apperrors "github.com/agbru/bigcalc/internal/errors"
)

// Parse converts a decimal literal matching -?[0-9]* into a BigInt.
// The empty string parses as zero. Anything else, including a lone "-" or a
// leading "+", yields an apperrors.FormatError locating the first bad byte.
func Parse(s string) (BigInt, error) {
	if s == "" {
		return Zero(), nil
	}
	digits, offset, neg := s, 0, false
	if s[0] == '-' {
		digits, offset, neg = s[1:], 1, true
		if digits == "" {
			return BigInt{}, apperrors.FormatError{Input: s, Pos: 1}
		}
	}
	for i := 0; i < len(digits); i++ {
		if c := digits[i]; c < '0' || c > '9' {
			return BigInt{}, apperrors.FormatError{Input: s, Pos: i + offset}
		}
	}

	// Nine-digit groups from the least-significant end become limbs.
	limbs := make([]uint64, (len(digits)+LimbDigits-1)/LimbDigits)
	for i, end := 0, len(digits); end > 0; i, end = i+1, end-LimbDigits {
		start := max(0, end-LimbDigits)
		var v uint64
		for j := start; j < end; j++ {
			v = v*10 + uint64(digits[j]-'0')
		}
		limbs[i] = v
	}
	return newBigInt(neg, limbs), nil
}

// MustParse is like Parse but panics on malformed input. It is intended for
// constants and tests.
func MustParse(s string) BigInt {
	x, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return x
}

// String returns the decimal form of x: a single leading '-' for negative
// values, no leading zeros, and "0" for zero.
func (x BigInt) String() string {
	return string(x.appendDecimal(nil))
}

func (x BigInt) appendDecimal(buf []byte) []byte {
	m := x.mag()
	if x.neg {
		buf = append(buf, '-')
	}
	buf = strconv.AppendUint(buf, m[len(m)-1], 10)
	var limb [LimbDigits]byte
	for i := len(m) - 2; i >= 0; i-- {
		v := m[i]
		for j := LimbDigits - 1; j >= 0; j-- {
			limb[j] = byte('0' + v%10)
			v /= 10
		}
		buf = append(buf, limb[:]...)
	}
	return buf
}

// MarshalText implements encoding.TextMarshaler.
func (x BigInt) MarshalText() ([]byte, error) {
	return x.appendDecimal(make([]byte, 0, x.DigitCount()+1)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (x *BigInt) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*x = v
	return nil
}

package bigint

import "math/big"

// Big converts x to a math/big integer.
func (x BigInt) Big() *big.Int {
	z := new(big.Int)
	base := big.NewInt(Base)
	m := x.mag()
	for i := len(m) - 1; i >= 0; i-- {
		z.Mul(z, base)
		z.Add(z, new(big.Int).SetUint64(m[i]))
	}
	if x.neg {
		z.Neg(z)
	}
	return z
}

// FromBig converts a math/big integer. A nil pointer converts to zero.
func FromBig(b *big.Int) BigInt {
	if b == nil || b.Sign() == 0 {
		return Zero()
	}
	base := big.NewInt(Base)
	mag := new(big.Int).Abs(b)
	rem := new(big.Int)
	limbs := make([]uint64, 0, mag.BitLen()/29+1)
	for mag.Sign() > 0 {
		mag.QuoRem(mag, base, rem)
		limbs = append(limbs, rem.Uint64())
	}
	return newBigInt(b.Sign() < 0, limbs)
}

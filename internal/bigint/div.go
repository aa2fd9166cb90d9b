package bigint

import (
	"context"

	apperrors "github.com/agbru/bigcalc/internal/errors"
)

// divPollLimbs is the number of quotient limbs produced between two context
// checks during long division.
const divPollLimbs = 32

func quoRemMag(a, b []uint64) (q, r []uint64) {
	q, r, _ = quoRemMagContext(context.Background(), a, b)
	return q, r
}

// quoRemMagContext performs long division one limb at a time, most
// significant first. Each quotient limb is the largest q in [0, Base) with
// b*q <= current, found by binary search. b must be non-zero. It stops with
// ctx.Err() once the context is done.
func quoRemMagContext(ctx context.Context, a, b []uint64) (q, r []uint64, err error) {
	if cmpMag(a, b) < 0 {
		return []uint64{0}, cloneMag(a), nil
	}
	q = make([]uint64, len(a))
	cur := []uint64{0}
	for i := len(a) - 1; i >= 0; i-- {
		if (len(a)-1-i)%divPollLimbs == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		// current = current*Base + a[i]
		if isZeroMag(cur) {
			cur = []uint64{a[i]}
		} else {
			next := make([]uint64, len(cur)+1)
			next[0] = a[i]
			copy(next[1:], cur)
			cur = next
		}
		if cmpMag(cur, b) < 0 {
			continue
		}

		lo, hi := uint64(1), uint64(Base-1)
		for lo < hi {
			mid := lo + (hi-lo+1)/2
			if cmpMag(mulSmallMag(b, mid), cur) <= 0 {
				lo = mid
			} else {
				hi = mid - 1
			}
		}
		q[i] = lo
		cur = subMag(cur, mulSmallMag(b, lo))
	}
	return trim(q), cur, nil
}

// divSmallMag divides by a single limb d in (0, Base).
func divSmallMag(a []uint64, d uint64) (q []uint64, r uint64) {
	q = make([]uint64, len(a))
	for i := len(a) - 1; i >= 0; i-- {
		cur := r*Base + a[i]
		q[i] = cur / d
		r = cur % d
	}
	return trim(q), r
}

// QuoRem returns the truncated quotient x/y and the remainder x - (x/y)*y.
// The quotient is negative when the signs differ; the remainder takes the
// sign of x.
func (x BigInt) QuoRem(y BigInt) (q, r BigInt, err error) {
	return x.QuoRemContext(context.Background(), y)
}

// QuoRemContext is QuoRem that gives up with ctx.Err() once ctx is done.
func (x BigInt) QuoRemContext(ctx context.Context, y BigInt) (q, r BigInt, err error) {
	if y.IsZero() {
		return BigInt{}, BigInt{}, apperrors.DivisionByZeroError{Operation: "quorem"}
	}
	qm, rm, err := quoRemMagContext(ctx, x.mag(), y.mag())
	if err != nil {
		return BigInt{}, BigInt{}, err
	}
	return newBigInt(x.neg != y.neg, qm), newBigInt(x.neg, rm), nil
}

// Quo returns x/y truncated toward zero. |x| < |y| yields zero.
func (x BigInt) Quo(y BigInt) (BigInt, error) {
	return x.QuoContext(context.Background(), y)
}

// QuoContext is Quo that gives up with ctx.Err() once ctx is done.
func (x BigInt) QuoContext(ctx context.Context, y BigInt) (BigInt, error) {
	if y.IsZero() {
		return BigInt{}, apperrors.DivisionByZeroError{Operation: "quo"}
	}
	q, _, err := quoRemMagContext(ctx, x.mag(), y.mag())
	if err != nil {
		return BigInt{}, err
	}
	return newBigInt(x.neg != y.neg, q), nil
}

// Rem returns x - (x/y)*y, which is x itself when |x| < |y|.
func (x BigInt) Rem(y BigInt) (BigInt, error) {
	return x.RemContext(context.Background(), y)
}

// RemContext is Rem that gives up with ctx.Err() once ctx is done.
func (x BigInt) RemContext(ctx context.Context, y BigInt) (BigInt, error) {
	if y.IsZero() {
		return BigInt{}, apperrors.DivisionByZeroError{Operation: "rem"}
	}
	if x.CmpAbs(y) < 0 {
		return x.Clone(), nil
	}
	_, r, err := quoRemMagContext(ctx, x.mag(), y.mag())
	if err != nil {
		return BigInt{}, err
	}
	return newBigInt(x.neg, r), nil
}

// QuoAssign sets x to x/y. x is left unchanged on error.
func (x *BigInt) QuoAssign(y BigInt) error {
	q, err := x.Quo(y)
	if err != nil {
		return err
	}
	*x = q
	return nil
}

// RemAssign sets x to x%y. x is left unchanged on error.
func (x *BigInt) RemAssign(y BigInt) error {
	r, err := x.Rem(y)
	if err != nil {
		return err
	}
	*x = r
	return nil
}

// ModExp returns base^exp reduced with Rem after every multiplication,
// using recursive square-and-multiply with schoolbook products.
// exp must be non-negative and mod non-zero; exp == 0 yields 1.
func (x BigInt) ModExp(exp, mod BigInt) (BigInt, error) {
	return x.ModExpWith(Schoolbook{}, exp, mod)
}

// ModExpWith is ModExp with the products computed by m.
func (x BigInt) ModExpWith(m Multiplier, exp, mod BigInt) (BigInt, error) {
	return x.ModExpContext(context.Background(), m, exp, mod)
}

// ModExpContext is ModExpWith that gives up with ctx.Err() once ctx is
// done, including inside the modular reductions.
func (x BigInt) ModExpContext(ctx context.Context, m Multiplier, exp, mod BigInt) (BigInt, error) {
	if mod.IsZero() {
		return BigInt{}, apperrors.DivisionByZeroError{Operation: "modexp"}
	}
	if exp.neg {
		return BigInt{}, apperrors.ValidationError{Field: "exp", Message: "exponent must be non-negative"}
	}
	return modExp(ctx, m, x, exp.mag(), mod)
}

func modExp(ctx context.Context, m Multiplier, base BigInt, exp []uint64, mod BigInt) (BigInt, error) {
	if isZeroMag(exp) {
		return One(), nil
	}
	if len(exp) == 1 && exp[0] == 1 {
		return base.RemContext(ctx, mod)
	}
	half, bit := divSmallMag(exp, 2)
	r, err := modExp(ctx, m, base, half, mod)
	if err != nil {
		return BigInt{}, err
	}
	if r, err = m.Multiply(r, r).RemContext(ctx, mod); err != nil {
		return BigInt{}, err
	}
	if bit == 1 {
		return m.Multiply(r, base).RemContext(ctx, mod)
	}
	return r, nil
}

package calc

import (
	"context"
	"math"

	"github.com/agbru/bigcalc/internal/bigfft"
	"github.com/agbru/bigcalc/internal/bigint"
	"github.com/agbru/bigcalc/internal/progress"
)

// Calculator evaluates requests with one multiplication strategy.
type Calculator interface {
	// Name returns the strategy name.
	Name() string
	// Calculate evaluates req, sending progress updates tagged with
	// calcIndex. It returns ctx.Err() once the context is done.
	Calculate(ctx context.Context, progressChan chan<- progress.ProgressUpdate, calcIndex int, req Request) (bigint.BigInt, error)
}

// StrategyCalculator is the Calculator backed by a bigint.Multiplier.
type StrategyCalculator struct {
	strategy bigint.Multiplier
}

// NewCalculator wraps a multiplication strategy.
func NewCalculator(strategy bigint.Multiplier) *StrategyCalculator {
	return &StrategyCalculator{strategy: strategy}
}

// Name returns the strategy name.
func (c *StrategyCalculator) Name() string { return c.strategy.Name() }

// Strategy returns the wrapped multiplier.
func (c *StrategyCalculator) Strategy() bigint.Multiplier { return c.strategy }

// Calculate implements Calculator.
func (c *StrategyCalculator) Calculate(ctx context.Context, progressChan chan<- progress.ProgressUpdate, calcIndex int, req Request) (bigint.BigInt, error) {
	if err := req.Validate(); err != nil {
		return bigint.BigInt{}, err
	}
	if err := ctx.Err(); err != nil {
		return bigint.BigInt{}, err
	}
	progress.Report(progressChan, calcIndex, 0)

	if req.Op.UsesMultiplier() && c.usesTransform(req) {
		bigfft.EnsurePoolsWarmed(req.A.LimbCount(), req.B.LimbCount())
	}

	tracker := &trackingMultiplier{
		inner:    c.strategy,
		ctx:      ctx,
		expected: expectedProducts(req),
		report:   func(v float64) { progress.Report(progressChan, calcIndex, v) },
	}
	res, err := EvaluateContext(ctx, tracker, req)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return bigint.BigInt{}, ctxErr
	}
	if err != nil {
		return bigint.BigInt{}, err
	}
	progress.Report(progressChan, calcIndex, 1)
	return res, nil
}

func (c *StrategyCalculator) usesTransform(req Request) bool {
	switch s := c.strategy.(type) {
	case bigint.FFT:
		return true
	case bigint.Adaptive:
		_, ok := s.Choose(req.A.LimbCount(), req.B.LimbCount()).(bigint.FFT)
		return ok
	}
	return false
}

// expectedProducts estimates how many multiplications req performs. Modular
// exponentiation squares once per exponent bit and multiplies on set bits,
// so twice the bit length bounds it.
func expectedProducts(req Request) int {
	switch req.Op {
	case OpMul:
		return 1
	case OpModExp:
		bits := int(math.Ceil(float64(req.B.DigitCount()) * math.Log2(10)))
		return max(2*bits, 1)
	}
	return 1
}

// trackingMultiplier reports progress after each product. Once ctx is done
// it stops multiplying and returns zero; the caller discards that result.
type trackingMultiplier struct {
	inner    bigint.Multiplier
	ctx      context.Context
	expected int
	done     int
	report   func(float64)
}

func (t *trackingMultiplier) Name() string { return t.inner.Name() }

func (t *trackingMultiplier) Multiply(x, y bigint.BigInt) bigint.BigInt {
	if t.ctx.Err() != nil {
		return bigint.Zero()
	}
	z := t.inner.Multiply(x, y)
	t.done++
	t.report(min(float64(t.done)/float64(t.expected), 0.99))
	return z
}

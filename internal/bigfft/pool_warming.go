// Pool pre-warming for adaptive buffer pre-allocation based on operand size.

package bigfft

import "sync/atomic"

// MemoryEstimate describes the transient buffers needed by one
// multiplication.
type MemoryEstimate struct {
	// TransformLen is the number of complex points per buffer.
	TransformLen int
	// Buffers is how many transform-sized buffers are live at once.
	Buffers int
	// TotalBytes is the transient footprint, excluding the result limbs.
	TotalBytes uint64
}

// EstimateMemoryNeeds returns the transient buffer footprint of multiplying
// operands of na and nb limbs.
func EstimateMemoryNeeds(na, nb int) MemoryEstimate {
	n := TransformLen(na, nb)
	const buffers = 3 // two operands plus scratch
	return MemoryEstimate{
		TransformLen: n,
		Buffers:      buffers,
		TotalBytes:   uint64(n) * 16 * buffers,
	}
}

// PreWarmPools pre-allocates transform buffers for operands of the given
// limb counts. The number of buffers grows with the operand size:
//   - under 10,000 limbs: 2 buffers
//   - under 100,000 limbs: 3 buffers
//   - otherwise: 4 buffers
func PreWarmPools(na, nb int) {
	if !Supported(na, nb) {
		return
	}
	est := EstimateMemoryNeeds(na, nb)
	idx := getComplexSlicePoolIndex(est.TransformLen)
	if idx < 0 {
		return
	}

	numBuffers := 2
	if m := max(na, nb); m >= 100_000 {
		numBuffers = 4
	} else if m >= 10_000 {
		numBuffers = 3
	}
	for i := 0; i < numBuffers; i++ {
		complexSlicePools[idx].Put(make([]complex128, complexSliceSizes[idx]))
	}
}

var poolsWarmed atomic.Bool

// EnsurePoolsWarmed pre-warms the pools exactly once per process. It is safe
// to call concurrently.
func EnsurePoolsWarmed(na, nb int) {
	if poolsWarmed.CompareAndSwap(false, true) {
		PreWarmPools(na, nb)
	}
}

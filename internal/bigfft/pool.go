// This file provides memory pooling for transform buffers to reduce GC pressure.

package bigfft

import (
	"math/bits"
	"sync"
)

// complexSlicePools pools []complex128 buffers by size class.
// Size classes are powers of 4 from 64 up to 4M entries (64MB), which covers
// MaxTransformLen.
var complexSlicePools = [...]sync.Pool{
	{New: func() any { return make([]complex128, 64) }},
	{New: func() any { return make([]complex128, 256) }},
	{New: func() any { return make([]complex128, 1024) }},
	{New: func() any { return make([]complex128, 4096) }},
	{New: func() any { return make([]complex128, 16384) }},
	{New: func() any { return make([]complex128, 65536) }},
	{New: func() any { return make([]complex128, 262144) }},
	{New: func() any { return make([]complex128, 1048576) }},
	{New: func() any { return make([]complex128, 4194304) }},
}

var complexSliceSizes = [...]int{64, 256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304}

// getComplexSlicePoolIndex returns the pool index for a given size, or -1 if
// the size is too large for pooling.
//
// Size class i holds 4^(i+3) entries, so bits.Len(size-1) maps directly to
// the index.
func getComplexSlicePoolIndex(size int) int {
	if size <= 0 {
		return 0
	}
	if size > complexSliceSizes[len(complexSliceSizes)-1] {
		return -1
	}
	idx := (bits.Len(uint(size-1)) - 5) / 2
	if idx < 0 {
		idx = 0
	}
	return idx
}

// getComplexSlicePoolIndexLinear is the linear-search reference for
// getComplexSlicePoolIndex, used by tests.
func getComplexSlicePoolIndexLinear(size int) int {
	for i, s := range complexSliceSizes {
		if size <= s {
			return i
		}
	}
	return -1
}

// acquireComplexSlice returns a zeroed buffer of exactly size entries. It
// should be released with releaseComplexSlice, preferably with defer:
//
//	buf := acquireComplexSlice(n)
//	defer releaseComplexSlice(buf)
func acquireComplexSlice(size int) []complex128 {
	idx := getComplexSlicePoolIndex(size)
	if idx < 0 {
		return make([]complex128, size)
	}
	slice := complexSlicePools[idx].Get().([]complex128)
	clear(slice)
	return slice[:size]
}

// releaseComplexSlice returns a buffer to its pool. Slices whose capacity is
// not a size class were allocated directly and are left to the GC.
func releaseComplexSlice(slice []complex128) {
	if slice == nil {
		return
	}
	c := cap(slice)
	idx := getComplexSlicePoolIndex(c)
	if idx >= 0 && complexSliceSizes[idx] == c {
		complexSlicePools[idx].Put(slice[:c])
	}
}

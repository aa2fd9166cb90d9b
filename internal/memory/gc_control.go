package memory

import (
	"math"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// GCMode controls the garbage collector during a calculation.
type GCMode string

const (
	GCModeAuto       GCMode = "auto"
	GCModeAggressive GCMode = "aggressive"
	GCModeDisabled   GCMode = "disabled"
)

// GCAutoThreshold is the operand size, in limbs, from which the auto mode
// suspends the collector. 100 000 limbs is 900 000 decimal digits.
const GCAutoThreshold = 100_000

// GCController suspends the garbage collector for the duration of a large
// calculation and restores it afterwards. A soft memory limit stays in place
// while the collector is off.
type GCController struct {
	mode              GCMode
	originalGCPercent int
	active            bool
	logger            zerolog.Logger
	startStats        runtime.MemStats
	endStats          runtime.MemStats
}

// GCStats is the difference between the statistics taken at Begin and End.
type GCStats struct {
	HeapAlloc    uint64
	TotalAlloc   uint64
	NumGC        uint32
	PauseTotalNs uint64
}

// NewGCController returns a controller for mode. In auto mode it is active
// only when the largest operand has at least GCAutoThreshold limbs.
func NewGCController(mode string, largestOperandLimbs int) *GCController {
	gc := &GCController{mode: GCMode(mode), logger: zerolog.Nop()}
	switch gc.mode {
	case GCModeAggressive:
		gc.active = true
	case GCModeAuto:
		gc.active = largestOperandLimbs >= GCAutoThreshold
	}
	return gc
}

func (gc *GCController) SetLogger(l zerolog.Logger) { gc.logger = l }

// Active reports whether Begin will suspend the collector.
func (gc *GCController) Active() bool { return gc.active }

// Begin suspends the collector if the controller is active.
func (gc *GCController) Begin() {
	if !gc.active {
		return
	}
	runtime.ReadMemStats(&gc.startStats)
	gc.originalGCPercent = debug.SetGCPercent(-1)
	if limit := int64(float64(gc.startStats.Sys) * 3); limit > 0 {
		debug.SetMemoryLimit(limit)
	}
	gc.logger.Debug().
		Str("mode", string(gc.mode)).
		Uint64("heap_alloc_bytes", gc.startStats.HeapAlloc).
		Msg("gc suspended")
}

// End restores the collector settings and runs a collection.
func (gc *GCController) End() {
	if !gc.active {
		return
	}
	runtime.ReadMemStats(&gc.endStats)
	debug.SetGCPercent(gc.originalGCPercent)
	debug.SetMemoryLimit(math.MaxInt64)
	runtime.GC()
	stats := gc.Stats()
	gc.logger.Debug().
		Str("mode", string(gc.mode)).
		Uint64("heap_alloc_bytes", stats.HeapAlloc).
		Uint64("total_alloc_bytes", stats.TotalAlloc).
		Uint32("gc_cycles", stats.NumGC).
		Msg("gc restored")
}

// Stats returns the statistics delta between Begin and End.
func (gc *GCController) Stats() GCStats {
	return GCStats{
		HeapAlloc:    gc.endStats.HeapAlloc,
		TotalAlloc:   gc.endStats.TotalAlloc - gc.startStats.TotalAlloc,
		NumGC:        gc.endStats.NumGC - gc.startStats.NumGC,
		PauseTotalNs: gc.endStats.PauseTotalNs - gc.startStats.PauseTotalNs,
	}
}

// Package metrics samples runtime memory statistics around a calculation.
package metrics

import (
	"runtime"
	"time"
)

// MemorySnapshot is one reading of the runtime memory statistics.
type MemorySnapshot struct {
	Taken        time.Time
	HeapAlloc    uint64 // live heap bytes
	HeapSys      uint64 // heap bytes obtained from the OS
	Sys          uint64 // total bytes obtained from the OS
	TotalAlloc   uint64 // cumulative bytes allocated
	NumGC        uint32
	PauseTotalNs uint64
}

// MemoryDelta is what happened between two snapshots.
type MemoryDelta struct {
	Elapsed     time.Duration
	Allocated   uint64 // bytes allocated in between
	GCCycles    uint32
	GCPause     time.Duration
	PeakHeapSys uint64 // heap size at the later snapshot
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

func NewMemoryCollector() *MemoryCollector { return &MemoryCollector{} }

// Snapshot reads the current statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		Taken:        time.Now(),
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		TotalAlloc:   m.TotalAlloc,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
	}
}

// Since returns the change from before to a fresh snapshot.
func (mc *MemoryCollector) Since(before MemorySnapshot) MemoryDelta {
	return Delta(before, mc.Snapshot())
}

// Delta compares two snapshots taken in order.
func Delta(before, after MemorySnapshot) MemoryDelta {
	return MemoryDelta{
		Elapsed:     after.Taken.Sub(before.Taken),
		Allocated:   after.TotalAlloc - before.TotalAlloc,
		GCCycles:    after.NumGC - before.NumGC,
		GCPause:     time.Duration(after.PauseTotalNs - before.PauseTotalNs),
		PeakHeapSys: after.HeapSys,
	}
}

// Package sysmon samples host-wide CPU and memory usage for the dashboard.
package sysmon

import (
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
	// MemAvailable is the memory, in bytes, available to new allocations.
	MemAvailable uint64
	MemTotal     uint64
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Fields are zero on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
		s.MemAvailable = vmem.Available
		s.MemTotal = vmem.Total
	}
	return s
}

// Fits reports whether an allocation of bytes fits in the available
// memory. It returns true when the host could not be sampled.
func (s Stats) Fits(bytes uint64) bool {
	return s.MemAvailable == 0 || bytes <= s.MemAvailable
}

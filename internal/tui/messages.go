package tui

import (
	"time"

	"github.com/agbru/bigcalc/internal/calc"
	"github.com/agbru/bigcalc/internal/metrics"
	"github.com/agbru/bigcalc/internal/orchestration"
	"github.com/agbru/bigcalc/internal/sysmon"
)

// ProgressMsg carries the aggregated progress of the running calculation.
type ProgressMsg struct {
	Generation      uint64
	AverageProgress float64
	ETA             time.Duration
}

// CalculationCompleteMsg ends a calculation. Messages whose Generation
// does not match the model's are stale and ignored.
type CalculationCompleteMsg struct {
	Generation uint64
	Request    calc.Request
	Expression string
	Algo       string
	Results    []orchestration.CalculationResult
	Final      *orchestration.CalculationResult
	Err        error
	ExitCode   int
}

// TickMsg drives the periodic memory sampling.
type TickMsg time.Time

// MemStatsMsg carries one runtime memory sample.
type MemStatsMsg metrics.MemorySnapshot

// SysStatsMsg carries one host-wide CPU and memory sample.
type SysStatsMsg sysmon.Stats

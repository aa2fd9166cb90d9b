package orchestration

import (
	"time"

	"github.com/agbru/bigcalc/internal/format"
	"github.com/agbru/bigcalc/internal/progress"
)

// ProgressAggregator combines the updates of several calculators into an
// average with an ETA. The CLI spinner and the TUI both consume it.
type ProgressAggregator struct {
	state          *format.ProgressWithETA
	numCalculators int
}

// NewProgressAggregator returns nil when numCalculators <= 0.
func NewProgressAggregator(numCalculators int) *ProgressAggregator {
	if numCalculators <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:          format.NewProgressWithETA(numCalculators),
		numCalculators: numCalculators,
	}
}

// AggregatedProgress is the view after one update.
type AggregatedProgress struct {
	CalculatorIndex int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// Update folds one update into the aggregate.
func (a *ProgressAggregator) Update(update progress.ProgressUpdate) AggregatedProgress {
	avg, eta := a.state.UpdateWithETA(update.CalculatorIndex, update.Value)
	return AggregatedProgress{
		CalculatorIndex: update.CalculatorIndex,
		Value:           update.Value,
		AverageProgress: avg,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average without an update, for
// periodic redraws.
func (a *ProgressAggregator) CalculateAverage() float64 { return a.state.CalculateAverage() }

// GetETA returns the current estimate without an update.
func (a *ProgressAggregator) GetETA() time.Duration { return a.state.GetETA() }

func (a *ProgressAggregator) NumCalculators() int { return a.numCalculators }

func (a *ProgressAggregator) IsMultiCalculator() bool { return a.numCalculators > 1 }

// DrainChannel discards updates until the channel is closed.
func DrainChannel(progressChan <-chan progress.ProgressUpdate) {
	for range progressChan {
	}
}

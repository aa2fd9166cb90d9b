package orchestration

import (
	"testing"

	"github.com/agbru/bigcalc/internal/progress"
)

func TestProgressAggregator(t *testing.T) {
	t.Parallel()
	if NewProgressAggregator(0) != nil {
		t.Error("aggregator for zero calculators should be nil")
	}
	a := NewProgressAggregator(2)
	if !a.IsMultiCalculator() || a.NumCalculators() != 2 {
		t.Errorf("bad aggregator %+v", a)
	}
	got := a.Update(progress.ProgressUpdate{CalculatorIndex: 1, Value: 0.5})
	if got.CalculatorIndex != 1 || got.Value != 0.5 || got.AverageProgress != 0.25 {
		t.Errorf("Update = %+v", got)
	}
	if a.CalculateAverage() != 0.25 {
		t.Errorf("average = %f", a.CalculateAverage())
	}
	if a.GetETA() < 0 {
		t.Error("negative ETA")
	}
}

func TestDrainChannel(t *testing.T) {
	t.Parallel()
	ch := make(chan progress.ProgressUpdate, 3)
	ch <- progress.ProgressUpdate{}
	ch <- progress.ProgressUpdate{}
	close(ch)
	DrainChannel(ch)
	if len(ch) != 0 {
		t.Error("channel not drained")
	}
}

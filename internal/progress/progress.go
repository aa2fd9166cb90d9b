// Package progress defines the progress messages exchanged between running
// calculations and the presentation layers.
package progress

// ProgressUpdate reports the completion ratio of one calculation.
type ProgressUpdate struct {
	// CalculatorIndex identifies the calculation among those running
	// concurrently.
	CalculatorIndex int
	// Value is the completion ratio in [0, 1].
	Value float64
}

// Report sends an update without blocking. Updates are dropped when the
// channel is full or nil, since a later update supersedes them anyway.
func Report(ch chan<- ProgressUpdate, index int, value float64) {
	if ch == nil {
		return
	}
	select {
	case ch <- ProgressUpdate{CalculatorIndex: index, Value: value}:
	default:
	}
}

package format

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// ProgressState tracks the completion ratio of several concurrent
// calculations.
type ProgressState struct {
	mu             sync.Mutex
	progresses     []float64
	numCalculators int
}

// NewProgressState creates a tracker for numCalculators calculations.
func NewProgressState(numCalculators int) *ProgressState {
	return &ProgressState{
		progresses:     make([]float64, max(numCalculators, 0)),
		numCalculators: numCalculators,
	}
}

// Update records the progress of one calculation. Out-of-range indices are
// ignored and values are clamped to [0, 1].
func (p *ProgressState) Update(index int, value float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index < 0 || index >= len(p.progresses) {
		return
	}
	p.progresses[index] = min(max(value, 0), 1)
}

// CalculateAverage returns the mean progress across all calculations.
func (p *ProgressState) CalculateAverage() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.progresses) == 0 {
		return 0
	}
	var sum float64
	for _, v := range p.progresses {
		sum += v
	}
	return sum / float64(len(p.progresses))
}

// maxETA caps estimates so that a stalled rate does not display absurd
// values.
const maxETA = 24 * time.Hour

// etaSmoothing is the weight of the newest rate sample in the exponential
// moving average.
const etaSmoothing = 0.3

// ProgressWithETA extends ProgressState with a smoothed completion rate.
type ProgressWithETA struct {
	*ProgressState
	startTime    time.Time
	lastUpdate   time.Time
	lastProgress float64
	progressRate float64 // fraction per second
}

// NewProgressWithETA creates a tracker that also estimates time remaining.
func NewProgressWithETA(numCalculators int) *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{
		ProgressState: NewProgressState(numCalculators),
		startTime:     now,
		lastUpdate:    now,
	}
}

// UpdateWithETA records an update and returns the average progress together
// with the current estimate.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.Update(index, value)
	avg := p.CalculateAverage()

	now := time.Now()
	if elapsed := now.Sub(p.lastUpdate).Seconds(); elapsed > 0 && avg > p.lastProgress {
		rate := (avg - p.lastProgress) / elapsed
		if p.progressRate == 0 {
			p.progressRate = rate
		} else {
			p.progressRate = etaSmoothing*rate + (1-etaSmoothing)*p.progressRate
		}
		p.lastUpdate = now
		p.lastProgress = avg
	}
	return avg, p.GetETA()
}

// GetETA returns the estimated time remaining, or 0 when no rate is known.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 {
		return 0
	}
	remaining := 1 - p.CalculateAverage()
	if remaining <= 0 {
		return 0
	}
	eta := time.Duration(remaining / p.progressRate * float64(time.Second))
	return min(eta, maxETA)
}

// ProgressBar renders a bar of the given length using block characters.
func ProgressBar(progress float64, length int) string {
	progress = min(max(progress, 0), 1)
	filled := int(progress * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBarWithETA renders "[bar] 42.0% ETA: 3s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), min(max(progress, 0), 1)*100, FormatETA(eta))
}

//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/bigcalc/internal/format"
	"github.com/agbru/bigcalc/internal/orchestration"
	"github.com/agbru/bigcalc/internal/progress"
	"github.com/agbru/bigcalc/internal/ui"
)

const (
	// TruncationLimit is the number of digits above which results are
	// abbreviated unless --verbose is given.
	TruncationLimit = 100
	// DisplayEdges is the number of digits kept at each end of an
	// abbreviated result.
	DisplayEdges = 25
	// ProgressRefreshRate is the spinner redraw interval.
	ProgressRefreshRate = 150 * time.Millisecond
	// ProgressBarWidth is the width of the progress bar in characters.
	ProgressBarWidth = 30
)

// Spinner abstracts the terminal spinner so that DisplayProgress can be
// tested without a terminal.
type Spinner interface {
	Start()
	Stop()
	// UpdateSuffix sets the text shown after the spinner glyph.
	UpdateSuffix(suffix string)
}

type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }
func (rs *realSpinner) Stop()  { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

// newSpinner is replaced in tests.
var newSpinner = func(options ...spinner.Option) Spinner {
	return &realSpinner{spinner.New(spinner.CharSets[14], ProgressRefreshRate, options...)}
}

// DisplayProgress shows a spinner with an aggregated progress bar and ETA
// until progressChan is closed. It calls wg.Done before returning.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numCalculators)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(FormatProgressSuffix(0, 0, numCalculators))
	s.Start()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()
	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				fmt.Fprintf(out, "%s%s%s\n", ui.ColorGreen(), FormatProgressSuffix(1, 0, numCalculators), ui.ColorReset())
				return
			}
			agg.Update(update)
		case <-ticker.C:
			s.UpdateSuffix(FormatProgressSuffix(agg.CalculateAverage(), agg.GetETA(), numCalculators))
		}
	}
}

// FormatProgressSuffix renders the text shown next to the spinner.
func FormatProgressSuffix(avg float64, eta time.Duration, numCalculators int) string {
	label := "Computing"
	if numCalculators > 1 {
		label = fmt.Sprintf("Computing with %d strategies", numCalculators)
	}
	return fmt.Sprintf(" %s %s", label, format.FormatProgressBarWithETA(avg, eta, ProgressBarWidth))
}

// CLIProgressReporter is the orchestration.ProgressReporter of the CLI.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer) {
	DisplayProgress(wg, progressChan, numCalculators, out)
}

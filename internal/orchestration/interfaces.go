package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/bigcalc/internal/bigint"
	"github.com/agbru/bigcalc/internal/calc"
	"github.com/agbru/bigcalc/internal/progress"
)

// CalculationResult is the outcome of evaluating a request with one
// strategy. It is shared by the orchestration and presentation layers.
type CalculationResult struct {
	// Name is the strategy that produced the result (e.g. "karatsuba").
	Name string
	// Result is the computed value. It is meaningless when Err is set.
	Result bigint.BigInt
	// Duration is the wall time of the calculation.
	Duration time.Duration
	// Err holds the failure, if any.
	Err error
}

// PresentationOptions configures how the final result is shown.
type PresentationOptions struct {
	Request   calc.Request
	Verbose   bool
	Details   bool
	ShowValue bool
}

// ProgressReporter displays calculation progress.
//
// Implementations run DisplayProgress in their own goroutine, consume
// progressChan until it is closed and then call wg.Done.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer) {
	f(wg, progressChan, numCalculators, out)
}

// NullProgressReporter drains the channel without output. It is used in
// quiet mode and by the HTTP server.
type NullProgressReporter struct{}

// DisplayProgress implements ProgressReporter.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter formats results for the user.
type ResultPresenter interface {
	// PresentComparisonTable prints one row per strategy.
	PresentComparisonTable(results []CalculationResult, out io.Writer)
	// PresentResult prints the agreed result.
	PresentResult(result CalculationResult, opts PresentationOptions, out io.Writer)
	// HandleError prints err and returns the process exit code.
	HandleError(err error, duration time.Duration, out io.Writer) int
}

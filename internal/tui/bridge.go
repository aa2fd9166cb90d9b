package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/orchestration"
	"github.com/agbru/bigcalc/internal/progress"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the program. It is a no-op before SetProgram.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter forwards aggregated progress as ProgressMsg.
type TUIProgressReporter struct {
	ref        *programRef
	generation uint64
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, _ io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(numCalculators)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}
	for update := range progressChan {
		ap := agg.Update(update)
		t.ref.Send(ProgressMsg{
			Generation:      t.generation,
			AverageProgress: ap.AverageProgress,
			ETA:             ap.ETA,
		})
	}
}

// TUIResultPresenter records what orchestration presents so that the
// calculation command can return it in a single message.
type TUIResultPresenter struct {
	results []orchestration.CalculationResult
	final   *orchestration.CalculationResult
	err     error
}

var _ orchestration.ResultPresenter = (*TUIResultPresenter)(nil)

func (t *TUIResultPresenter) PresentComparisonTable(results []orchestration.CalculationResult, _ io.Writer) {
	t.results = append([]orchestration.CalculationResult(nil), results...)
}

func (t *TUIResultPresenter) PresentResult(result orchestration.CalculationResult, _ orchestration.PresentationOptions, _ io.Writer) {
	t.final = &result
}

// HandleError records err and returns its exit code.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	t.err = err
	return apperrors.HandleCalculationError(err, duration, io.Discard, nil)
}

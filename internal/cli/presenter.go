package cli

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/format"
	"github.com/agbru/bigcalc/internal/metrics"
	"github.com/agbru/bigcalc/internal/orchestration"
	"github.com/agbru/bigcalc/internal/ui"
)

// CLIColorProvider feeds the active theme to apperrors.
type CLIColorProvider struct{}

func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }

// CLIResultPresenter is the orchestration.ResultPresenter of the CLI.
type CLIResultPresenter struct{}

var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentComparisonTable prints one aligned row per strategy. Padding is
// computed on the visible text so that color codes do not skew columns.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.CalculationResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	nameWidth, durWidth := len("Strategy"), len("Duration")
	durations := make([]string, len(results))
	for i, res := range results {
		durations[i] = tableDuration(res.Duration)
		nameWidth = max(nameWidth, len(res.Name))
		durWidth = max(durWidth, utf8.RuneCountInString(durations[i]))
	}

	fmt.Fprintf(out, "%sStrategy%s%s   %sDuration%s%s   %sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), pad(nameWidth-len("Strategy")),
		ui.ColorUnderline(), ui.ColorReset(), pad(durWidth-len("Duration")),
		ui.ColorUnderline(), ui.ColorReset())

	for i, res := range results {
		status := fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		}
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(), pad(nameWidth-len(res.Name)),
			ui.ColorYellow(), durations[i], ui.ColorReset(), pad(durWidth-utf8.RuneCountInString(durations[i])),
			status)
	}
}

func tableDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

func pad(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

// PresentResult implements orchestration.ResultPresenter.
func (CLIResultPresenter) PresentResult(result orchestration.CalculationResult, opts orchestration.PresentationOptions, out io.Writer) {
	DisplayResult(result.Result, opts.Request, result.Duration, opts.Verbose, opts.Details, opts.ShowValue, out)
}

// HandleError implements orchestration.ResultPresenter.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleCalculationError(err, duration, out, CLIColorProvider{})
}

// DisplayMemoryStats prints what the runtime did during a calculation.
func DisplayMemoryStats(d metrics.MemoryDelta, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap reserved:   %s\n", format.FormatBytes(d.PeakHeapSys))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(d.Allocated))
	fmt.Fprintf(out, "  GC cycles:       %d\n", d.GCCycles)
	if d.GCPause > 0 {
		fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(d.GCPause)/float64(time.Millisecond))
	} else {
		fmt.Fprintf(out, "  GC pause total:  0ms\n")
	}
}

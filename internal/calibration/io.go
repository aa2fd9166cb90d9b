package calibration

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/agbru/bigcalc/internal/config"
	"github.com/agbru/bigcalc/internal/format"
	"github.com/agbru/bigcalc/internal/ui"
)

// printCalibrationResults prints one candidate grid: the measured time of
// each threshold and its slowdown relative to the fastest candidate.
func printCalibrationResults(out io.Writer, title string, results []calibrationResult, bestThreshold int) {
	fmt.Fprintf(out, "\n--- %s ---\n", title)

	var fastest time.Duration
	for _, res := range results {
		if res.Err == nil && (fastest == 0 || res.Duration < fastest) {
			fastest = res.Duration
		}
	}

	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "  Threshold\tTime\tRelative\t")
	for _, res := range results {
		timing, relative := "N/A", "failed"
		if res.Err == nil {
			timing = format.FormatExecutionDuration(res.Duration)
			if res.Duration == 0 {
				timing = "< 1µs"
			}
			relative = "-"
			if fastest > 0 {
				relative = fmt.Sprintf("x%.2f", float64(res.Duration)/float64(fastest))
			}
		}
		mark := ""
		if res.Threshold == bestThreshold && res.Err == nil {
			mark = ui.ColorGreen() + "(Optimal)" + ui.ColorReset()
		}
		fmt.Fprintf(tw, "  %d limbs\t%s\t%s\t%s\n", res.Threshold, timing, relative, mark)
	}
	tw.Flush()
}

// printCalibrationOutput prints the thresholds chosen by auto-calibration.
func printCalibrationOutput(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "%sAuto-calibration%s: Karatsuba=%s%d%s limbs, FFT=%s%d%s limbs\n",
		ui.ColorGreen(), ui.ColorReset(),
		ui.ColorYellow(), cfg.KaratsubaThreshold, ui.ColorReset(),
		ui.ColorYellow(), cfg.FFTThreshold, ui.ColorReset())
}

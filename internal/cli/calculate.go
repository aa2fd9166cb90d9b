package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/agbru/bigcalc/internal/calc"
	"github.com/agbru/bigcalc/internal/config"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/ui"
)

// ResolveOperand returns s, or the trimmed contents of the file when s has
// the form "@path".
func ResolveOperand(s string) (string, error) {
	path, ok := strings.CutPrefix(s, "@")
	if !ok {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", apperrors.NewConfigError("reading operand file: %v", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// BuildRequest turns the expression or the --op/-a/-b/-m flags of cfg into
// a request.
func BuildRequest(cfg config.AppConfig) (calc.Request, error) {
	if cfg.Expression != "" {
		fields := strings.Fields(cfg.Expression)
		for i, f := range fields {
			resolved, err := ResolveOperand(f)
			if err != nil {
				return calc.Request{}, err
			}
			fields[i] = resolved
		}
		return calc.ParseExpression(strings.Join(fields, " "))
	}
	operands := []*string{&cfg.A, &cfg.B, &cfg.M}
	for _, p := range operands {
		resolved, err := ResolveOperand(*p)
		if err != nil {
			return calc.Request{}, err
		}
		*p = resolved
	}
	return calc.NewRequest(cfg.Op, cfg.A, cfg.B, cfg.M)
}

// PrintExecutionConfig describes the calculation about to run.
func PrintExecutionConfig(cfg config.AppConfig, req calc.Request, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Operation %s%s%s on operands of %s%d%s and %s%d%s digits, timeout %s%s%s.\n",
		ui.ColorMagenta(), req.Op, ui.ColorReset(),
		ui.ColorCyan(), req.A.DigitCount(), ui.ColorReset(),
		ui.ColorCyan(), req.B.DigitCount(), ui.ColorReset(),
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	if req.Op == calc.OpModExp {
		fmt.Fprintf(out, "Modulus of %s%d%s digits.\n", ui.ColorCyan(), req.M.DigitCount(), ui.ColorReset())
	}
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	fmt.Fprintf(out, "Thresholds: Karatsuba=%s%d%s limbs, FFT=%s%d%s limbs.\n",
		ui.ColorCyan(), cfg.KaratsubaThreshold, ui.ColorReset(), ui.ColorCyan(), cfg.FFTThreshold, ui.ColorReset())
}

// PrintExecutionMode states whether one strategy or a comparison runs.
func PrintExecutionMode(calculators []calc.Calculator, out io.Writer) {
	mode := "Parallel comparison of all strategies"
	if len(calculators) == 1 {
		mode = fmt.Sprintf("Single calculation with the %s%s%s strategy", ui.ColorGreen(), calculators[0].Name(), ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", mode)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}

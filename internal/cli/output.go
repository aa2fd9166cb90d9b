package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/bigcalc/internal/bigint"
	"github.com/agbru/bigcalc/internal/calc"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/format"
	"github.com/agbru/bigcalc/internal/ui"
)

// OutputConfig selects how a result is emitted.
type OutputConfig struct {
	// OutputFile receives the full result when non-empty.
	OutputFile string
	// Quiet prints the bare value only.
	Quiet bool
	// Verbose disables truncation.
	Verbose bool
	// Details adds size figures.
	Details bool
	// ShowValue prints the value.
	ShowValue bool
}

// FormatTruncated abbreviates decimal strings longer than TruncationLimit
// digits to their first and last DisplayEdges digits. The boolean reports
// whether truncation happened.
func FormatTruncated(s string) (string, bool) {
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	if len(s) <= TruncationLimit {
		return sign + s, false
	}
	return fmt.Sprintf("%s%s...%s", sign, s[:DisplayEdges], s[len(s)-DisplayEdges:]), true
}

// FormatComparison renders the outcome of a cmp request ("a < b").
func FormatComparison(result bigint.BigInt) string {
	switch result.Sign() {
	case -1:
		return "a < b"
	case 1:
		return "a > b"
	default:
		return "a = b"
	}
}

// DisplayResult prints a result with optional size details and value.
func DisplayResult(result bigint.BigInt, req calc.Request, duration time.Duration, verbose, details, showValue bool, out io.Writer) {
	if req.Op == calc.OpCmp {
		fmt.Fprintf(out, "\nComparison: %s%s%s (%s)\n", ui.ColorMagenta(), FormatComparison(result), ui.ColorReset(), result)
		return
	}

	digits := result.DigitCount()
	fmt.Fprintf(out, "\nResult: %s%s%s digits.\n", ui.ColorCyan(), format.FormatNumberString(fmt.Sprint(digits)), ui.ColorReset())

	if details {
		fmt.Fprintf(out, "\n--- Detailed result analysis ---\n")
		fmt.Fprintf(out, "Operation        : %s%s%s\n", ui.ColorCyan(), req.Op, ui.ColorReset())
		fmt.Fprintf(out, "Calculation time : %s%s%s\n", ui.ColorGreen(), format.FormatExecutionDuration(duration), ui.ColorReset())
		fmt.Fprintf(out, "Number of digits : %s%d%s\n", ui.ColorCyan(), digits, ui.ColorReset())
		fmt.Fprintf(out, "Limbs (base 1e9) : %s%d%s\n", ui.ColorCyan(), result.LimbCount(), ui.ColorReset())
		fmt.Fprintf(out, "Sign             : %s%s%s\n", ui.ColorCyan(), signName(result), ui.ColorReset())
	}

	if !showValue {
		return
	}
	value := result.String()
	fmt.Fprintf(out, "\n--- Calculated value ---\n")
	if verbose {
		fmt.Fprintf(out, "%s =\n%s%s%s\n", opLabel(req), ui.ColorMagenta(), value, ui.ColorReset())
		return
	}
	if shown, truncated := FormatTruncated(value); truncated {
		fmt.Fprintf(out, "%s = %s%s%s (truncated)\n", opLabel(req), ui.ColorMagenta(), shown, ui.ColorReset())
		fmt.Fprintf(out, "%sTip: use -v to print the full value or -o to save it.%s\n", ui.ColorGrey(), ui.ColorReset())
		return
	}
	fmt.Fprintf(out, "%s = %s%s%s\n", opLabel(req), ui.ColorMagenta(), format.FormatNumberString(value), ui.ColorReset())
}

func signName(x bigint.BigInt) string {
	switch x.Sign() {
	case -1:
		return "negative"
	case 1:
		return "positive"
	}
	return "zero"
}

// opLabel names the computed quantity without printing large operands.
func opLabel(req calc.Request) string {
	const short = 30
	if req.A.DigitCount() <= short && req.B.DigitCount() <= short && req.M.DigitCount() <= short {
		return req.String()
	}
	switch req.Op {
	case calc.OpModExp:
		return "a ^ b mod m"
	case calc.OpAdd:
		return "a + b"
	case calc.OpSub:
		return "a - b"
	case calc.OpMul:
		return "a * b"
	case calc.OpDiv:
		return "a / b"
	case calc.OpMod:
		return "a % b"
	}
	return string(req.Op)
}

// DisplayQuietResult prints the bare value, for scripts.
func DisplayQuietResult(out io.Writer, result bigint.BigInt) {
	fmt.Fprintln(out, result.String())
}

// WriteResultToFile writes the full result with a commented header.
// Missing parent directories are created.
func WriteResultToFile(result bigint.BigInt, req calc.Request, duration time.Duration, algo string, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}
	if dir := filepath.Dir(config.OutputFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.WrapError(err, "creating output directory %s", dir)
		}
	}
	file, err := os.Create(config.OutputFile)
	if err != nil {
		return apperrors.WrapError(err, "creating output file")
	}
	defer file.Close()

	fmt.Fprintf(file, "# bigcalc result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Operation: %s\n", req.Op)
	fmt.Fprintf(file, "# Strategy: %s\n", algo)
	fmt.Fprintf(file, "# Duration: %s\n", duration)
	fmt.Fprintf(file, "# Digits: %d\n", result.DigitCount())
	fmt.Fprintf(file, "# Limbs: %d\n\n", result.LimbCount())
	if _, err := fmt.Fprintln(file, result.String()); err != nil {
		return apperrors.WrapError(err, "writing %s", config.OutputFile)
	}
	return file.Close()
}

// DisplayResultWithConfig prints the result according to config and saves
// it when an output file is configured.
func DisplayResultWithConfig(out io.Writer, result bigint.BigInt, req calc.Request, duration time.Duration, algo string, config OutputConfig) error {
	if config.Quiet {
		DisplayQuietResult(out, result)
	} else {
		DisplayResult(result, req, duration, config.Verbose, config.Details, config.ShowValue, out)
	}
	if config.OutputFile == "" {
		return nil
	}
	if err := WriteResultToFile(result, req, duration, algo, config); err != nil {
		return err
	}
	if !config.Quiet {
		fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n", ui.ColorGreen(), ui.ColorCyan(), config.OutputFile, ui.ColorReset())
	}
	return nil
}

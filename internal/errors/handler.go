package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the ANSI sequences used when printing errors.
// Implementations live in the presentation layer so that this package
// stays free of UI dependencies.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

type noColors struct{}

func (noColors) Red() string    { return "" }
func (noColors) Yellow() string { return "" }
func (noColors) Reset() string  { return "" }

// HandleCalculationError prints a user-facing description of err and maps it
// to an exit code.
//
// Parameters:
//   - err: The error returned by a calculation (may be nil).
//   - duration: How long the calculation ran before failing.
//   - out: Destination for the message.
//   - colors: Color provider, or nil for plain output.
//
// Returns:
//   - int: One of the Exit* constants.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = noColors{}
	}
	elapsed := ""
	if duration > 0 {
		elapsed = fmt.Sprintf(" after %s", duration)
	}

	var (
		timeoutErr TimeoutError
		configErr  ConfigError
		validErr   ValidationError
		formatErr  FormatError
		memErr     MemoryError
	)
	switch {
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "%sCalculation timed out%s: %v%s\n", colors.Yellow(), elapsed, err, colors.Reset())
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sCalculation canceled%s.%s\n", colors.Yellow(), elapsed, colors.Reset())
		return ExitErrorCanceled
	case errors.As(err, &configErr), errors.As(err, &validErr), errors.As(err, &formatErr):
		fmt.Fprintf(out, "%sInvalid input: %v%s\n", colors.Red(), err, colors.Reset())
		return ExitErrorConfig
	case errors.As(err, &memErr):
		fmt.Fprintf(out, "%sInsufficient memory: %v%s\n", colors.Red(), err, colors.Reset())
		return ExitErrorGeneric
	case errors.Is(err, ErrDivisionByZero):
		fmt.Fprintf(out, "%sArithmetic error: %v%s\n", colors.Red(), err, colors.Reset())
		return ExitErrorGeneric
	default:
		fmt.Fprintf(out, "%sError during calculation%s: %v%s\n", colors.Red(), elapsed, err, colors.Reset())
		return ExitErrorGeneric
	}
}

package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Process exit codes.
const (
	ExitSuccess       = 0   // Everything ran and the strategies agreed.
	ExitErrorGeneric  = 1   // A strategy failed or an arithmetic error occurred.
	ExitErrorTimeout  = 2   // The --timeout deadline expired.
	ExitErrorMismatch = 3   // Two successful strategies produced different values.
	ExitErrorConfig   = 4   // Flags, operands or configuration were invalid.
	ExitErrorCanceled = 130 // Interrupted by SIGINT/SIGTERM.
)

// ConfigError reports invalid flags, environment values or config files.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError returns a ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CalculationError attributes a failure to the strategy that produced it.
type CalculationError struct {
	// Strategy is the multiplication strategy name, empty when unknown.
	Strategy string
	Cause    error
}

// Error prefixes the cause with the strategy name when one is set.
//
// Returns:
//   - string: The error message string.
func (e CalculationError) Error() string {
	if e.Strategy == "" {
		return e.Cause.Error()
	}
	return e.Strategy + ": " + e.Cause.Error()
}

// Unwrap returns the cause so errors.Is and errors.As see through the
// strategy attribution.
func (e CalculationError) Unwrap() error { return e.Cause }

// TimeoutError reports an operation stopped by its deadline. It matches
// context.DeadlineExceeded under errors.Is.
type TimeoutError struct {
	// Operation is the arithmetic operation, e.g. "mul" or "modexp".
	Operation string
	Limit     time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("%s did not finish within %s", e.Operation, e.Limit)
}

// Unwrap returns context.DeadlineExceeded.
func (e TimeoutError) Unwrap() error { return context.DeadlineExceeded }

// ValidationError reports an operand or parameter outside an operation's
// domain, such as a negative exponent.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// MemoryError reports an operation whose estimated transient memory exceeds
// the configured --memory-limit.
type MemoryError struct {
	Operation string
	Estimated uint64
	Limit     uint64
}

func (e MemoryError) Error() string {
	op := e.Operation
	if op == "" {
		op = "operation"
	}
	return fmt.Sprintf("%s needs an estimated %d bytes, over the %d byte limit", op, e.Estimated, e.Limit)
}

// FormatError reports a decimal string that is not a well-formed integer
// literal. Pos is the byte offset of the first offending character.
type FormatError struct {
	Input string
	Pos   int
}

// Error returns a formatted message describing the malformed input.
//
// Returns:
//   - string: The error message string.
func (e FormatError) Error() string {
	if e.Pos >= len(e.Input) {
		return fmt.Sprintf("invalid integer literal %q: missing digits", e.Input)
	}
	return fmt.Sprintf("invalid integer literal %q: unexpected %q at position %d", e.Input, e.Input[e.Pos], e.Pos)
}

// ErrDivisionByZero is the sentinel matched by errors.Is for every division,
// remainder, or modular reduction with a zero divisor.
var ErrDivisionByZero = errors.New("division by zero")

// DivisionByZeroError records which operation received a zero divisor.
type DivisionByZeroError struct {
	// Operation is the name of the failed operation (e.g. "quo", "modexp").
	Operation string
}

// Error returns a formatted message naming the operation.
func (e DivisionByZeroError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operation, ErrDivisionByZero)
}

// Is reports whether target is ErrDivisionByZero.
func (e DivisionByZeroError) Is(target error) bool { return target == ErrDivisionByZero }

// WrapError adds a formatted context message to err, keeping it reachable
// through errors.Is and errors.As. A nil err stays nil.
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err stems from cancellation or a deadline
// rather than from the arithmetic itself.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

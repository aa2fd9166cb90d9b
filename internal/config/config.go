// Package config parses command-line flags, environment variables and an
// optional TOML file into an AppConfig.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/agbru/bigcalc/internal/calc"
	apperrors "github.com/agbru/bigcalc/internal/errors"
)

// EnvPrefix is prepended to every environment variable read by the
// configuration layer.
const EnvPrefix = "BIGCALC_"

const (
	// DefaultAlgo runs every registered strategy and cross-checks them.
	DefaultAlgo = "all"
	// DefaultTimeout bounds a single calculation.
	DefaultTimeout = 5 * time.Minute
	// DefaultAddr is the listen address of the HTTP server.
	DefaultAddr = ":8080"
	// DefaultCacheSize is the number of results kept by the server.
	DefaultCacheSize = 256
	// DefaultMaxDigits caps operand length accepted by the server.
	DefaultMaxDigits = 1_000_000
)

// AppConfig aggregates the application settings.
type AppConfig struct {
	// Expression is an infix expression given as positional arguments,
	// e.g. "2 ^ 100 mod 97". It takes precedence over Op/A/B/M.
	Expression string
	// Op is the operation name or symbol.
	Op string
	// A, B and M are the operands. A value "@path" reads the operand from
	// a file.
	A, B, M string

	// Algo is a strategy name or "all".
	Algo    string
	Timeout time.Duration
	// KaratsubaThreshold and FFTThreshold are crossovers in limbs. Zero
	// means "estimate from the hardware or the calibration profile".
	KaratsubaThreshold int
	FFTThreshold       int

	Verbose    bool
	Details    bool
	Quiet      bool
	ShowValue  bool
	NoColor    bool
	OutputFile string

	REPL bool
	TUI  bool

	Serve     bool
	Addr      string
	CacheSize int
	MaxDigits int

	Calibrate          bool
	AutoCalibrate      bool
	CalibrationProfile string

	MemoryLimit string
	GCMode      string

	Completion string
	ConfigFile string
	Version    bool
}

// ToCalcOptions returns the strategy thresholds.
func (c AppConfig) ToCalcOptions() calc.Options {
	return calc.Options{
		KaratsubaThreshold: c.KaratsubaThreshold,
		FFTThreshold:       c.FFTThreshold,
	}
}

// NeedsOperands reports whether the configuration selects the one-shot
// calculate mode.
func (c AppConfig) NeedsOperands() bool {
	return !c.REPL && !c.TUI && !c.Serve && !c.Calibrate && c.Completion == "" && !c.Version
}

// ParseConfig parses args (without the program name) into an AppConfig.
// availableAlgos lists the registered strategy names. flag.ErrHelp is
// returned unchanged when -h is given.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	config := AppConfig{}

	fs.StringVar(&config.Op, "op", "", "Operation: "+opList()+" (or a symbol such as + or ^).")
	fs.StringVar(&config.A, "a", "", "First operand (decimal, or @file).")
	fs.StringVar(&config.B, "b", "", "Second operand (decimal, or @file).")
	fs.StringVar(&config.M, "m", "", "Modulus for modexp (decimal, or @file).")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, fmt.Sprintf("Multiplication strategy: all, %s.", strings.Join(availableAlgos, ", ")))
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum time for a calculation.")
	fs.IntVar(&config.KaratsubaThreshold, "karatsuba-threshold", 0, "Limb count above which Karatsuba is used (0 = auto).")
	fs.IntVar(&config.FFTThreshold, "fft-threshold", 0, "Limb count above which the FFT is used (0 = auto).")

	fs.BoolVar(&config.Verbose, "v", false, "Shorthand for --verbose.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Print the full result and debug logs.")
	fs.BoolVar(&config.Details, "d", false, "Shorthand for --details.")
	fs.BoolVar(&config.Details, "details", false, "Show limb counts and memory statistics.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only the result.")
	fs.BoolVar(&config.ShowValue, "show-value", true, "Print the result value (truncated unless --verbose).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&config.OutputFile, "o", "", "Shorthand for --output.")
	fs.StringVar(&config.OutputFile, "output", "", "Write the result to this file.")

	fs.BoolVar(&config.REPL, "repl", false, "Start the interactive prompt.")
	fs.BoolVar(&config.TUI, "tui", false, "Start the terminal user interface.")
	fs.BoolVar(&config.Serve, "serve", false, "Start the HTTP server.")
	fs.StringVar(&config.Addr, "addr", DefaultAddr, "HTTP listen address.")
	fs.IntVar(&config.CacheSize, "cache-size", DefaultCacheSize, "Number of results cached by the HTTP server.")
	fs.IntVar(&config.MaxDigits, "max-digits", DefaultMaxDigits, "Largest operand, in digits, accepted by the HTTP server.")

	fs.BoolVar(&config.Calibrate, "calibrate", false, "Measure the strategy crossovers and save a profile.")
	fs.BoolVar(&config.AutoCalibrate, "auto-calibrate", false, "Run a quick calibration before calculating.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Path of the calibration profile.")
	fs.StringVar(&config.MemoryLimit, "memory-limit", "", "Reject operations whose estimate exceeds this (e.g. 512M, 8G).")
	fs.StringVar(&config.GCMode, "gc", "auto", "Garbage collector mode for large operands: auto, aggressive, disabled.")

	fs.StringVar(&config.Completion, "completion", "", "Print a completion script: bash, zsh, fish, powershell.")
	fs.StringVar(&config.ConfigFile, "config", "", "TOML configuration file.")
	fs.BoolVar(&config.Version, "version", false, "Print version information.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	config.Expression = strings.Join(fs.Args(), " ")

	if path := configFilePath(config.ConfigFile); path != "" {
		if err := applyConfigFile(&config, fs, path); err != nil {
			return AppConfig{}, err
		}
	}
	applyEnvOverrides(&config, fs)

	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, err
	}
	return config, nil
}

func opList() string {
	ops := calc.Ops()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	return strings.Join(names, ", ")
}

// Validate checks the consistency of the configuration.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be strictly positive")
	}
	if c.KaratsubaThreshold < 0 || c.FFTThreshold < 0 {
		return apperrors.NewConfigError("thresholds must not be negative")
	}
	if c.Algo != DefaultAlgo && !slices.Contains(availableAlgos, c.Algo) {
		return apperrors.NewConfigError("unknown algorithm %q (available: all, %s)", c.Algo, strings.Join(availableAlgos, ", "))
	}
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("--quiet and --verbose are mutually exclusive")
	}
	switch c.GCMode {
	case "auto", "aggressive", "disabled":
	default:
		return apperrors.NewConfigError("unknown gc mode %q (available: auto, aggressive, disabled)", c.GCMode)
	}
	if c.Completion != "" && !slices.Contains([]string{"bash", "zsh", "fish", "powershell"}, c.Completion) {
		return apperrors.NewConfigError("unsupported shell %q for completion", c.Completion)
	}
	if c.Serve && (c.CacheSize <= 0 || c.MaxDigits <= 0) {
		return apperrors.NewConfigError("cache size and max digits must be positive")
	}
	if !c.NeedsOperands() {
		return nil
	}
	if c.Expression != "" {
		return nil
	}
	if c.Op == "" {
		return apperrors.NewConfigError("no operation given: pass an expression such as \"2 + 3\" or --op with -a and -b")
	}
	op, err := calc.ParseOp(c.Op)
	if err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	if c.A == "" || c.B == "" {
		return apperrors.NewConfigError("operation %s requires -a and -b", op)
	}
	if op == calc.OpModExp && c.M == "" {
		return apperrors.NewConfigError("modexp requires -m")
	}
	return nil
}

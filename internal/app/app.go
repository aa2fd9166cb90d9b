// Package app wires configuration, strategies and the user-facing modes
// together.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/bigcalc/internal/calc"
	"github.com/agbru/bigcalc/internal/calibration"
	"github.com/agbru/bigcalc/internal/cli"
	"github.com/agbru/bigcalc/internal/config"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/logging"
	"github.com/agbru/bigcalc/internal/server"
	"github.com/agbru/bigcalc/internal/tui"
	"github.com/agbru/bigcalc/internal/ui"
)

// Application represents the bigcalc application instance.
type Application struct {
	Config    config.AppConfig
	Factory   calc.CalculatorFactory
	ErrWriter io.Writer
	In        io.Reader

	customFactory bool
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom CalculatorFactory. Thresholds from the
// configuration are then not applied to it.
func WithFactory(f calc.CalculatorFactory) AppOption {
	return func(a *Application) {
		a.Factory = f
		a.customFactory = true
	}
}

// WithInput sets the reader used by the REPL.
func WithInput(in io.Reader) AppOption {
	return func(a *Application) { a.In = in }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = calc.GlobalFactory()
	}

	programName := "bigcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Factory.List())
	if err != nil {
		return nil, err
	}

	if cfgWithProfile, loaded := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile); loaded {
		cfg = cfgWithProfile
	} else {
		cfg = config.ApplyAdaptiveThresholds(cfg)
	}

	app.Config = cfg
	app.rebuildFactory()
	return app, nil
}

// rebuildFactory registers the strategies with the configured thresholds.
func (a *Application) rebuildFactory() {
	if !a.customFactory {
		a.Factory = calc.NewDefaultFactory(a.Config.ToCalcOptions())
	}
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}
	if a.Config.Version {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}

	level := zerolog.InfoLevel
	if a.Config.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	ui.InitTheme(a.Config.NoColor)

	if a.Config.Calibrate {
		return a.runCalibration(ctx, out)
	}

	a.Config = a.runAutoCalibrationIfEnabled(ctx, out)

	switch {
	case a.Config.Serve:
		return a.runServer(ctx, out)
	case a.Config.TUI:
		return a.runTUI(ctx, out)
	case a.Config.REPL:
		return a.runREPL(out)
	}
	return a.runCalculate(ctx, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

func (a *Application) calibrationOptions(opts calibration.Options) calibration.Options {
	opts.Logger = logging.NewLogger(a.ErrWriter, "calibration")
	return opts
}

// runCalibration runs the full calibration mode.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()
	opts := a.calibrationOptions(calibration.FullOptions(a.Config.CalibrationProfile))
	return calibration.RunCalibration(ctx, out, opts, cli.CLIProgressReporter{})
}

// runAutoCalibrationIfEnabled runs a quick calibration when requested and
// rebuilds the strategies with the measured thresholds.
func (a *Application) runAutoCalibrationIfEnabled(ctx context.Context, out io.Writer) config.AppConfig {
	if !a.Config.AutoCalibrate {
		return a.Config
	}
	opts := a.calibrationOptions(calibration.QuickOptions(a.Config.CalibrationProfile))
	updated, ok := calibration.AutoCalibrate(ctx, a.Config, out, opts)
	if !ok {
		return a.Config
	}
	a.Config = updated
	a.rebuildFactory()
	return updated
}

// runServer serves the HTTP API until SIGINT or SIGTERM.
func (a *Application) runServer(ctx context.Context, out io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	logger := logging.NewLogger(a.ErrWriter, "server")
	srv, err := server.New(a.Factory, server.ConfigFromApp(a.Config), server.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	fmt.Fprintf(out, "bigcalc %s serving on %s (press Ctrl+C to stop)\n", Version, a.Config.Addr)
	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("server stopped", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runTUI launches the interactive dashboard.
func (a *Application) runTUI(ctx context.Context, _ io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()
	return tui.Run(ctx, a.Factory, a.Config, Version)
}

// runREPL starts the interactive prompt.
func (a *Application) runREPL(out io.Writer) int {
	repl := cli.NewREPL(a.Factory, cli.REPLConfig{
		DefaultAlgo: a.Config.Algo,
		Timeout:     a.Config.Timeout,
	})
	repl.SetInput(a.In)
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

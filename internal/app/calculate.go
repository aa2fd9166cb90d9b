package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/agbru/bigcalc/internal/calc"
	"github.com/agbru/bigcalc/internal/cli"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/format"
	"github.com/agbru/bigcalc/internal/logging"
	"github.com/agbru/bigcalc/internal/memory"
	"github.com/agbru/bigcalc/internal/metrics"
	"github.com/agbru/bigcalc/internal/orchestration"
	"github.com/agbru/bigcalc/internal/sysmon"
)

// runCalculate orchestrates the execution of the CLI calculation command.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	req, err := cli.BuildRequest(a.Config)
	if err != nil {
		return apperrors.HandleCalculationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}

	// Memory budget validation
	if a.Config.MemoryLimit != "" {
		if code := a.validateMemoryBudget(req, out); code != apperrors.ExitSuccess {
			return code
		}
	}

	// Setup lifecycle (timeout + signals)
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	calculatorsToRun := orchestration.GetCalculatorsToRun(a.Config.Algo, a.Factory)

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, req, out)
		cli.PrintExecutionMode(calculatorsToRun, out)
	}

	var progressReporter orchestration.ProgressReporter
	progressOut := out
	if a.Config.Quiet {
		progressOut = io.Discard
		progressReporter = orchestration.NullProgressReporter{}
	} else {
		progressReporter = cli.CLIProgressReporter{}
	}

	largest := max(req.A.LimbCount(), req.B.LimbCount(), req.M.LimbCount())
	gc := memory.NewGCController(a.Config.GCMode, largest)
	gc.SetLogger(logging.NewLogger(a.ErrWriter, "gc").Zerolog())
	collector := metrics.NewMemoryCollector()
	before := collector.Snapshot()

	gc.Begin()
	results := orchestration.ExecuteCalculations(ctx, calculatorsToRun, req, progressReporter, progressOut)
	gc.End()

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		Details:    a.Config.Details,
		ShowValue:  a.Config.ShowValue,
	}
	code := a.analyzeResultsWithOutput(results, req, outputCfg, out)
	if a.Config.Details && !a.Config.Quiet {
		cli.DisplayMemoryStats(collector.Since(before), out)
	}
	return code
}

// validateMemoryBudget checks if the estimated memory usage fits within the configured limit.
func (a *Application) validateMemoryBudget(req calc.Request, out io.Writer) int {
	limit, err := memory.ParseMemoryLimit(a.Config.MemoryLimit)
	if err != nil {
		fmt.Fprintf(out, "Invalid --memory-limit: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	est := memory.EstimateMemoryUsage(req.Op, memory.OperandsOf(req), a.Config.Algo, a.Config.ToCalcOptions())
	if err := memory.CheckLimit(req.Op, est, limit); err != nil {
		fmt.Fprintf(out, "Estimated memory %s exceeds limit %s.\n",
			memory.FormatMemoryEstimate(est), a.Config.MemoryLimit)
		if a.Config.Algo == "all" {
			fmt.Fprintf(out, "Consider selecting a single strategy with --algo.\n")
		}
		return apperrors.ExitErrorConfig
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "Memory estimate: %s (limit: %s)\n",
			memory.FormatMemoryEstimate(est), a.Config.MemoryLimit)
		if host := sysmon.Sample(); !host.Fits(est) {
			fmt.Fprintf(out, "Warning: only %s of system memory is available.\n", format.FormatBytes(host.MemAvailable))
		}
	}
	return apperrors.ExitSuccess
}

func (a *Application) analyzeResultsWithOutput(results []orchestration.CalculationResult, req calc.Request, outputCfg cli.OutputConfig, out io.Writer) int {
	// Copied because AnalyzeComparisonResults reorders results.
	var bestResult *orchestration.CalculationResult
	if best := findBestResult(results); best != nil {
		copied := *best
		bestResult = &copied
	}

	// Quiet mode prints the bare value of the fastest strategy.
	if outputCfg.Quiet && bestResult != nil {
		for _, res := range results {
			if res.Err == nil && !res.Result.Equal(bestResult.Result) {
				fmt.Fprintf(a.ErrWriter, "Strategy %q disagrees with %q.\n", res.Name, bestResult.Name)
				return apperrors.ExitErrorMismatch
			}
		}
		cli.DisplayQuietResult(out, bestResult.Result)
		if err := a.saveResultIfNeeded(bestResult, req, outputCfg); err != nil {
			return apperrors.ExitErrorGeneric
		}
		return apperrors.ExitSuccess
	}
	if outputCfg.Quiet {
		return apperrors.HandleCalculationError(firstError(results), 0, a.ErrWriter, cli.CLIColorProvider{})
	}

	presOpts := orchestration.PresentationOptions{
		Request:   req,
		Verbose:   outputCfg.Verbose,
		Details:   outputCfg.Details,
		ShowValue: outputCfg.ShowValue,
	}
	exitCode := orchestration.AnalyzeComparisonResults(results, presOpts, cli.CLIResultPresenter{}, out)

	if bestResult != nil && exitCode == apperrors.ExitSuccess && outputCfg.OutputFile != "" {
		if err := a.saveResultIfNeeded(bestResult, req, outputCfg); err != nil {
			return apperrors.ExitErrorGeneric
		}
		fmt.Fprintf(out, "\n✓ Result saved to: %s\n", outputCfg.OutputFile)
	}
	return exitCode
}

func findBestResult(results []orchestration.CalculationResult) *orchestration.CalculationResult {
	var bestResult *orchestration.CalculationResult
	for i := range results {
		if results[i].Err == nil {
			if bestResult == nil || results[i].Duration < bestResult.Duration {
				bestResult = &results[i]
			}
		}
	}
	return bestResult
}

func firstError(results []orchestration.CalculationResult) error {
	for _, res := range results {
		if res.Err != nil {
			return res.Err
		}
	}
	return nil
}

func (a *Application) saveResultIfNeeded(res *orchestration.CalculationResult, req calc.Request, cfg cli.OutputConfig) error {
	if cfg.OutputFile == "" {
		return nil
	}
	if err := cli.WriteResultToFile(res.Result, req, res.Duration, res.Name, cfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return err
	}
	return nil
}

package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/bigcalc/internal/calc"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/progress"
)

// ProgressBufferMultiplier sizes the progress channel per calculator so
// that a slow display rarely causes dropped updates.
const ProgressBufferMultiplier = 5

const tracerName = "github.com/agbru/bigcalc/internal/orchestration"

// ExecuteCalculations evaluates req with every calculator concurrently and
// returns one result per calculator, in the order given.
//
// A calculator failure never cancels the others: the failure is recorded in
// its CalculationResult. Each calculation runs inside a trace span named
// after its strategy.
func ExecuteCalculations(ctx context.Context, calculators []calc.Calculator, req calc.Request, progressReporter ProgressReporter, out io.Writer) []CalculationResult {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "ExecuteCalculations")
	span.SetAttributes(
		attribute.String("bigcalc.op", string(req.Op)),
		attribute.Int("bigcalc.calculators", len(calculators)),
		attribute.Int("bigcalc.operand_limbs", max(req.A.LimbCount(), req.B.LimbCount())),
	)
	defer span.End()

	var limit time.Duration
	if deadline, ok := ctx.Deadline(); ok {
		limit = time.Until(deadline).Round(time.Millisecond)
	}

	g, ctx := errgroup.WithContext(ctx)
	results := make([]CalculationResult, len(calculators))
	progressChan := make(chan progress.ProgressUpdate, len(calculators)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(calculators), out)

	for i, calculator := range calculators {
		i, calculator := i, calculator
		g.Go(func() error {
			calcCtx, calcSpan := tracer.Start(ctx, calculator.Name())
			defer calcSpan.End()

			start := time.Now()
			res, err := calculator.Calculate(calcCtx, progressChan, i, req)
			if err != nil {
				err = attributeError(calculator.Name(), req, limit, err)
				calcSpan.RecordError(err)
				calcSpan.SetStatus(codes.Error, err.Error())
			}
			results[i] = CalculationResult{
				Name: calculator.Name(), Result: res, Duration: time.Since(start), Err: err,
			}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// attributeError tags err with the strategy that produced it. An expired
// deadline becomes a TimeoutError carrying the time budget left at the start.
func attributeError(strategy string, req calc.Request, limit time.Duration, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		err = apperrors.TimeoutError{Operation: string(req.Op), Limit: limit}
	}
	return apperrors.CalculationError{Strategy: strategy, Cause: err}
}

// AnalyzeComparisonResults sorts results (successes first, then by
// duration), prints the comparison table and checks that every successful
// strategy produced the same value.
//
// It returns ExitErrorMismatch when two strategies disagree, the presenter's
// error code when every strategy failed, and ExitSuccess otherwise.
func AnalyzeComparisonResults(results []CalculationResult, opts PresentationOptions, presenter ResultPresenter, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValid *CalculationResult
	var firstError error
	for i := range results {
		if results[i].Err != nil {
			if firstError == nil {
				firstError = results[i].Err
			}
			continue
		}
		if firstValid == nil {
			firstValid = &results[i]
		}
	}

	presenter.PresentComparisonTable(results, out)

	if firstValid == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No strategy could complete the calculation.\n")
		return presenter.HandleError(firstError, 0, out)
	}

	for _, res := range results {
		if res.Err == nil && !res.Result.Equal(firstValid.Result) {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! Strategy %q disagrees with %q.\n", res.Name, firstValid.Name)
			return apperrors.ExitErrorMismatch
		}
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	presenter.PresentResult(*firstValid, opts, out)
	return apperrors.ExitSuccess
}

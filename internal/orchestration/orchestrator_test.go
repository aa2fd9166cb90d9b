package orchestration

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agbru/bigcalc/internal/bigint"
	"github.com/agbru/bigcalc/internal/calc"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/progress"
)

// stubCalculator returns a fixed value or error after an optional delay.
type stubCalculator struct {
	name   string
	value  int64
	err    error
	delay  time.Duration
	floods int
}

func (s *stubCalculator) Name() string { return s.name }

func (s *stubCalculator) Calculate(ctx context.Context, ch chan<- progress.ProgressUpdate, idx int, _ calc.Request) (bigint.BigInt, error) {
	for i := 0; i < s.floods; i++ {
		progress.Report(ch, idx, float64(i)/float64(s.floods))
	}
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return bigint.BigInt{}, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	if s.err != nil {
		return bigint.BigInt{}, s.err
	}
	return bigint.FromInt64(s.value), nil
}

// recordingPresenter captures what the orchestrator asked it to show.
type recordingPresenter struct {
	table     []CalculationResult
	presented *CalculationResult
	handled   error
}

func (p *recordingPresenter) PresentComparisonTable(results []CalculationResult, _ io.Writer) {
	p.table = results
}

func (p *recordingPresenter) PresentResult(result CalculationResult, _ PresentationOptions, _ io.Writer) {
	p.presented = &result
}

func (p *recordingPresenter) HandleError(err error, _ time.Duration, _ io.Writer) int {
	p.handled = err
	return apperrors.ExitErrorGeneric
}

func TestExecuteCalculations(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	calculators := []calc.Calculator{
		&stubCalculator{name: "a", value: 7, delay: 5 * time.Millisecond},
		&stubCalculator{name: "b", err: boom},
		&stubCalculator{name: "c", value: 7},
	}
	results := ExecuteCalculations(context.Background(), calculators, calc.Request{Op: calc.OpAdd}, NullProgressReporter{}, io.Discard)
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Name != "a" || results[0].Result.String() != "7" || results[0].Err != nil {
		t.Errorf("result 0 = %+v", results[0])
	}
	if !errors.Is(results[1].Err, boom) {
		t.Errorf("result 1 error = %v", results[1].Err)
	}
	if results[0].Duration < 5*time.Millisecond {
		t.Errorf("duration %v not measured", results[0].Duration)
	}
}

func TestExecuteCalculationsWithRealStrategies(t *testing.T) {
	t.Parallel()
	req, err := calc.ParseExpression("123456789012345678901234567890 * 987654321098765432109876543210")
	if err != nil {
		t.Fatal(err)
	}
	calculators := GetCalculatorsToRun("all", calc.NewDefaultFactory(calc.Options{KaratsubaThreshold: 1}))
	results := ExecuteCalculations(context.Background(), calculators, req, NullProgressReporter{}, io.Discard)

	var p recordingPresenter
	var out bytes.Buffer
	if code := AnalyzeComparisonResults(results, PresentationOptions{Request: req}, &p, &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d, output:\n%s", code, out.String())
	}
	want := "121932631137021795226185032733622923332237463801111263526900"
	if p.presented == nil || p.presented.Result.String() != want {
		t.Errorf("presented %+v, want %s", p.presented, want)
	}
}

func TestExecuteCalculationsProgressFlood(t *testing.T) {
	t.Parallel()
	calculators := []calc.Calculator{
		&stubCalculator{name: "a", floods: 10000},
		&stubCalculator{name: "b", floods: 10000},
	}
	var received int
	reporter := ProgressReporterFunc(func(wg *sync.WaitGroup, ch <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
		defer wg.Done()
		for range ch {
			received++
		}
	})
	done := make(chan struct{})
	go func() {
		ExecuteCalculations(context.Background(), calculators, calc.Request{}, reporter, io.Discard)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("ExecuteCalculations deadlocked under a progress flood")
	}
	if received == 0 {
		t.Error("reporter received no updates")
	}
}

func TestExecuteCalculationsCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	results := ExecuteCalculations(ctx, []calc.Calculator{&stubCalculator{name: "slow", delay: time.Minute}}, calc.Request{Op: calc.OpMul}, NullProgressReporter{}, io.Discard)
	if !errors.Is(results[0].Err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want deadline exceeded", results[0].Err)
	}
	var te apperrors.TimeoutError
	if !errors.As(results[0].Err, &te) || te.Operation != string(calc.OpMul) {
		t.Errorf("error = %v, want TimeoutError for mul", results[0].Err)
	}
	var ce apperrors.CalculationError
	if !errors.As(results[0].Err, &ce) || ce.Strategy != "slow" {
		t.Errorf("error = %v, want attribution to the slow strategy", results[0].Err)
	}
}

func TestAnalyzeComparisonResults(t *testing.T) {
	t.Parallel()
	seven, eight := bigint.FromInt64(7), bigint.FromInt64(8)
	boom := errors.New("boom")

	tests := []struct {
		name      string
		results   []CalculationResult
		wantCode  int
		wantText  string
		wantFirst string
	}{
		{
			name: "consistent",
			results: []CalculationResult{
				{Name: "slow", Result: seven, Duration: 3 * time.Second},
				{Name: "failed", Err: boom, Duration: time.Millisecond},
				{Name: "fast", Result: seven, Duration: time.Second},
			},
			wantCode:  apperrors.ExitSuccess,
			wantText:  "Success",
			wantFirst: "fast",
		},
		{
			name: "mismatch",
			results: []CalculationResult{
				{Name: "a", Result: seven},
				{Name: "b", Result: eight},
			},
			wantCode: apperrors.ExitErrorMismatch,
			wantText: "CRITICAL ERROR",
		},
		{
			name: "all failed",
			results: []CalculationResult{
				{Name: "a", Err: boom},
			},
			wantCode: apperrors.ExitErrorGeneric,
			wantText: "Failure",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var p recordingPresenter
			var out bytes.Buffer
			code := AnalyzeComparisonResults(tt.results, PresentationOptions{}, &p, &out)
			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(out.String(), tt.wantText) {
				t.Errorf("output %q does not contain %q", out.String(), tt.wantText)
			}
			if len(p.table) != len(tt.results) {
				t.Errorf("table has %d rows", len(p.table))
			}
			if tt.wantFirst != "" && p.table[0].Name != tt.wantFirst {
				t.Errorf("first row %q, want %q", p.table[0].Name, tt.wantFirst)
			}
			if tt.wantCode == apperrors.ExitErrorGeneric && !errors.Is(p.handled, boom) {
				t.Errorf("HandleError got %v", p.handled)
			}
		})
	}
}

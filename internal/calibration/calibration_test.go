package calibration

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/agbru/bigcalc/internal/config"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/orchestration"
)

func tinyOptions(profilePath string) Options {
	return Options{
		KaratsubaThresholds: []int{4, 8},
		FFTThresholds:       []int{16, 64},
		KaratsubaProbeLimbs: 32,
		FFTProbeSizes:       []int{24, 48},
		Repetitions:         1,
		ProfilePath:         profilePath,
	}
}

func TestCalibrate(t *testing.T) {
	t.Parallel()
	opts := tinyOptions("")
	var steps []int
	report, err := Calibrate(context.Background(), opts, func(done, total int) {
		if total != 4 {
			t.Errorf("total = %d, want 4", total)
		}
		steps = append(steps, done)
	})
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	if !slices.Equal(steps, []int{1, 2, 3, 4}) {
		t.Errorf("steps = %v", steps)
	}
	if len(report.Karatsuba) != 2 || len(report.FFT) != 2 {
		t.Fatalf("got %d/%d results, want 2/2", len(report.Karatsuba), len(report.FFT))
	}
	if !slices.Contains(opts.KaratsubaThresholds, report.BestKaratsuba) {
		t.Errorf("BestKaratsuba %d is not a candidate", report.BestKaratsuba)
	}
	if !slices.Contains(opts.FFTThresholds, report.BestFFT) {
		t.Errorf("BestFFT %d is not a candidate", report.BestFFT)
	}

	p := report.Profile(opts)
	if p.CalibrationLimbs != 48 || !p.IsValid() {
		t.Errorf("profile = %+v", p)
	}
}

func TestCalibrateCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Calibrate(ctx, tinyOptions(""), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestBestThreshold(t *testing.T) {
	t.Parallel()
	results := []calibrationResult{
		{Threshold: 8, Duration: 3 * time.Millisecond},
		{Threshold: 16, Duration: time.Millisecond},
		{Threshold: 32, Err: context.Canceled},
	}
	if got := bestThreshold(results, 99); got != 16 {
		t.Errorf("bestThreshold = %d, want 16", got)
	}
	if got := bestThreshold(results[2:], 99); got != 99 {
		t.Errorf("bestThreshold with only failures = %d, want fallback 99", got)
	}
}

func TestRunCalibration(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "profile.json")
	var out bytes.Buffer
	code := RunCalibration(context.Background(), &out, tinyOptions(path), orchestration.NullProgressReporter{})
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, output:\n%s", code, out.String())
	}
	for _, want := range []string{"Karatsuba crossover", "FFT crossover", "(Optimal)", "Profile saved"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}
	if _, loaded := LoadOrCreateProfile(path); !loaded {
		t.Error("profile was not saved")
	}
}

func TestAutoCalibrate(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "profile.json")
	var out bytes.Buffer
	cfg, ok := AutoCalibrate(context.Background(), config.AppConfig{FFTThreshold: 5000}, &out, tinyOptions(path))
	if !ok {
		t.Fatal("AutoCalibrate failed")
	}
	if cfg.FFTThreshold != 5000 {
		t.Errorf("explicit FFT threshold overwritten: %d", cfg.FFTThreshold)
	}
	if cfg.KaratsubaThreshold != 4 && cfg.KaratsubaThreshold != 8 {
		t.Errorf("KaratsubaThreshold = %d, want a candidate", cfg.KaratsubaThreshold)
	}
	if !strings.Contains(out.String(), "Auto-calibration") {
		t.Errorf("output = %q", out.String())
	}
}

func TestThresholdGrids(t *testing.T) {
	t.Parallel()
	grids := map[string][]int{
		"karatsuba":       GenerateKaratsubaThresholds(),
		"quick karatsuba": GenerateQuickKaratsubaThresholds(),
		"fft":             GenerateFFTThresholds(),
		"quick fft":       GenerateQuickFFTThresholds(),
		"probe":           GenerateFFTProbeSizes(false),
		"quick probe":     GenerateFFTProbeSizes(true),
	}
	for name, grid := range grids {
		if len(grid) == 0 {
			t.Errorf("%s grid is empty", name)
		}
		if !slices.IsSorted(grid) {
			t.Errorf("%s grid is not ascending: %v", name, grid)
		}
		for _, v := range grid {
			if v <= 0 {
				t.Errorf("%s grid has non-positive value %d", name, v)
			}
		}
	}
	if EstimateOptimalKaratsubaThreshold() <= 0 || EstimateOptimalFFTThreshold() <= 0 {
		t.Error("estimates must be positive")
	}
}

func TestPrintCalibrationResults(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	printCalibrationResults(&out, "Karatsuba crossover", []calibrationResult{
		{Threshold: 8, Duration: 2 * time.Millisecond},
		{Threshold: 16, Duration: 4 * time.Millisecond},
		{Threshold: 32, Err: errors.New("canceled")},
	}, 8)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines:\n%s", len(lines), out.String())
	}
	for i, want := range [][]string{
		{"Threshold", "Time", "Relative"},
		{"8 limbs", "x1.00", "(Optimal)"},
		{"16 limbs", "x2.00"},
		{"32 limbs", "N/A", "failed"},
	} {
		for _, w := range want {
			if !strings.Contains(lines[i+1], w) {
				t.Errorf("line %q does not contain %q", lines[i+1], w)
			}
		}
	}
	if strings.Contains(lines[3], "(Optimal)") {
		t.Error("only the best threshold is marked")
	}
}

// Package calibration measures the multiplication crossovers of the host
// and caches them in a JSON profile.
package calibration

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/agbru/bigcalc/internal/bigint"
	"github.com/agbru/bigcalc/internal/config"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/logging"
	"github.com/agbru/bigcalc/internal/orchestration"
	"github.com/agbru/bigcalc/internal/progress"
)

// KaratsubaProbeLimbs is the operand size used to rank Karatsuba
// crossovers.
const KaratsubaProbeLimbs = 384

// Options controls what a calibration run measures.
type Options struct {
	KaratsubaThresholds []int
	FFTThresholds       []int
	KaratsubaProbeLimbs int
	FFTProbeSizes       []int
	// Repetitions is the number of timed runs per candidate; the fastest
	// run is kept.
	Repetitions int
	ProfilePath string
	Logger      logging.Logger
}

// FullOptions returns the options of the --calibrate mode.
func FullOptions(profilePath string) Options {
	return Options{
		KaratsubaThresholds: GenerateKaratsubaThresholds(),
		FFTThresholds:       GenerateFFTThresholds(),
		KaratsubaProbeLimbs: KaratsubaProbeLimbs,
		FFTProbeSizes:       GenerateFFTProbeSizes(false),
		Repetitions:         3,
		ProfilePath:         profilePath,
	}
}

// QuickOptions returns the reduced options of --auto-calibrate.
func QuickOptions(profilePath string) Options {
	return Options{
		KaratsubaThresholds: GenerateQuickKaratsubaThresholds(),
		FFTThresholds:       GenerateQuickFFTThresholds(),
		KaratsubaProbeLimbs: KaratsubaProbeLimbs / 2,
		FFTProbeSizes:       GenerateFFTProbeSizes(true),
		Repetitions:         1,
		ProfilePath:         profilePath,
	}
}

type calibrationResult struct {
	Threshold int
	Duration  time.Duration
	Err       error
}

// Report is the outcome of a calibration run.
type Report struct {
	Karatsuba     []calibrationResult
	FFT           []calibrationResult
	BestKaratsuba int
	BestFFT       int
	Elapsed       time.Duration
}

// Profile converts the report into a profile for the current hardware.
func (r Report) Profile(opts Options) *CalibrationProfile {
	p := NewProfile()
	p.OptimalKaratsubaThreshold = r.BestKaratsuba
	p.OptimalFFTThreshold = r.BestFFT
	p.CalibrationLimbs = opts.KaratsubaProbeLimbs
	for _, n := range opts.FFTProbeSizes {
		p.CalibrationLimbs = max(p.CalibrationLimbs, n)
	}
	p.CalibrationTime = r.Elapsed.Round(time.Millisecond).String()
	return p
}

type operandPair struct{ a, b bigint.BigInt }

func randomOperand(r *rand.Rand, limbs int) bigint.BigInt {
	m := make([]uint64, limbs)
	for i := range m {
		m[i] = uint64(r.Int63n(bigint.Base))
	}
	m[limbs-1] = max(m[limbs-1], 1)
	x, _ := bigint.FromLimbs(false, m)
	return x
}

// measure returns the fastest of reps timed passes over pairs.
func measure(ctx context.Context, m bigint.Multiplier, pairs []operandPair, reps int) (time.Duration, error) {
	best := time.Duration(0)
	for i := 0; i < max(reps, 1); i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		start := time.Now()
		for _, p := range pairs {
			m.Multiply(p.a, p.b)
		}
		if d := time.Since(start); i == 0 || d < best {
			best = d
		}
	}
	return best, nil
}

// bestThreshold returns the fastest successful candidate, or fallback
// when none succeeded.
func bestThreshold(results []calibrationResult, fallback int) int {
	best, bestDur := fallback, time.Duration(-1)
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		if bestDur < 0 || res.Duration < bestDur {
			best, bestDur = res.Threshold, res.Duration
		}
	}
	return best
}

// Calibrate ranks every Karatsuba candidate on square products of
// KaratsubaProbeLimbs limbs, then ranks every FFT candidate with the
// adaptive strategy over the probe sizes. step is called after each
// candidate with the number of candidates done and the total.
func Calibrate(ctx context.Context, opts Options, step func(done, total int)) (Report, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if step == nil {
		step = func(int, int) {}
	}
	start := time.Now()
	r := rand.New(rand.NewSource(1))
	total := len(opts.KaratsubaThresholds) + len(opts.FFTThresholds)
	done := 0

	var report Report
	kpair := []operandPair{{randomOperand(r, opts.KaratsubaProbeLimbs), randomOperand(r, opts.KaratsubaProbeLimbs)}}
	for _, t := range opts.KaratsubaThresholds {
		d, err := measure(ctx, bigint.Karatsuba{Threshold: t}, kpair, opts.Repetitions)
		report.Karatsuba = append(report.Karatsuba, calibrationResult{Threshold: t, Duration: d, Err: err})
		opts.Logger.Debug("karatsuba candidate measured",
			logging.Int("threshold", t), logging.Duration("duration", d))
		done++
		step(done, total)
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	report.BestKaratsuba = bestThreshold(report.Karatsuba, EstimateOptimalKaratsubaThreshold())

	fpairs := make([]operandPair, 0, len(opts.FFTProbeSizes))
	for _, n := range opts.FFTProbeSizes {
		fpairs = append(fpairs, operandPair{randomOperand(r, n), randomOperand(r, n)})
	}
	for _, t := range opts.FFTThresholds {
		m := bigint.Adaptive{KaratsubaThreshold: report.BestKaratsuba, FFTThreshold: t}
		d, err := measure(ctx, m, fpairs, opts.Repetitions)
		report.FFT = append(report.FFT, calibrationResult{Threshold: t, Duration: d, Err: err})
		opts.Logger.Debug("fft candidate measured",
			logging.Int("threshold", t), logging.Duration("duration", d))
		done++
		step(done, total)
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	report.BestFFT = bestThreshold(report.FFT, EstimateOptimalFFTThreshold())
	report.Elapsed = time.Since(start)

	opts.Logger.Info("calibration finished",
		logging.Int("karatsuba_threshold", report.BestKaratsuba),
		logging.Int("fft_threshold", report.BestFFT),
		logging.Duration("elapsed", report.Elapsed))
	return report, nil
}

// RunCalibration runs a full calibration, prints both rankings and saves
// the profile. It returns a process exit code.
func RunCalibration(ctx context.Context, out io.Writer, opts Options, reporter orchestration.ProgressReporter) int {
	fmt.Fprintln(out, "--- Calibration Mode: measuring multiplication crossovers ---")

	progressChan := make(chan progress.ProgressUpdate, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go reporter.DisplayProgress(&wg, progressChan, 1, out)

	report, err := Calibrate(ctx, opts, func(done, total int) {
		progress.Report(progressChan, 0, float64(done)/float64(total))
	})
	close(progressChan)
	wg.Wait()

	if err != nil {
		fmt.Fprintf(out, "Calibration interrupted: %v\n", err)
		return apperrors.ExitErrorCanceled
	}

	printCalibrationResults(out, "Karatsuba crossover", report.Karatsuba, report.BestKaratsuba)
	printCalibrationResults(out, "FFT crossover", report.FFT, report.BestFFT)

	profile := report.Profile(opts)
	fmt.Fprintf(out, "\n%s", profile)
	if err := profile.SaveProfile(opts.ProfilePath); err != nil {
		fmt.Fprintf(out, "Could not save calibration profile: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	fmt.Fprintf(out, "Profile saved. Thresholds are applied automatically on the next run.\n")
	return apperrors.ExitSuccess
}

// AutoCalibrate runs a quick calibration and applies the measured
// thresholds to cfg where flags left them unset.
func AutoCalibrate(ctx context.Context, cfg config.AppConfig, out io.Writer, opts Options) (config.AppConfig, bool) {
	report, err := Calibrate(ctx, opts, nil)
	if err != nil {
		if opts.Logger != nil {
			opts.Logger.Warn("auto-calibration skipped", logging.Err(err))
		}
		return cfg, false
	}
	if cfg.KaratsubaThreshold == 0 {
		cfg.KaratsubaThreshold = report.BestKaratsuba
	}
	if cfg.FFTThreshold == 0 {
		cfg.FFTThreshold = report.BestFFT
	}
	if err := report.Profile(opts).SaveProfile(opts.ProfilePath); err != nil && opts.Logger != nil {
		opts.Logger.Warn("could not save calibration profile", logging.Err(err))
	}
	if !cfg.Quiet {
		printCalibrationOutput(cfg, out)
	}
	return cfg, true
}

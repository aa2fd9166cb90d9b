package config

import (
	"runtime"

	"golang.org/x/sys/cpu"

	"github.com/agbru/bigcalc/internal/bigint"
)

// Threshold resolution chain (highest priority first):
//   1. CLI flags (--karatsuba-threshold, --fft-threshold)
//   2. Environment variables (BIGCALC_KARATSUBA_THRESHOLD, ...)
//   3. Config file
//   4. Cached calibration profile (~/.bigcalc_calibration.json)
//   5. Hardware estimates (this file)
//   6. Package defaults in bigint

// ApplyAdaptiveThresholds fills thresholds left at zero with hardware
// estimates.
func ApplyAdaptiveThresholds(cfg AppConfig) AppConfig {
	if cfg.KaratsubaThreshold == 0 {
		cfg.KaratsubaThreshold = EstimateOptimalKaratsubaThreshold()
	}
	if cfg.FFTThreshold == 0 {
		cfg.FFTThreshold = EstimateOptimalFFTThreshold()
	}
	return cfg
}

// EstimateOptimalKaratsubaThreshold returns the Karatsuba crossover in
// limbs. The schoolbook inner loop is a single multiply-add per limb pair,
// so the crossover moves little across machines.
func EstimateOptimalKaratsubaThreshold() int {
	if runtime.GOARCH == "386" || runtime.GOARCH == "arm" {
		return bigint.KaratsubaThreshold + 6
	}
	return bigint.KaratsubaThreshold
}

// EstimateOptimalFFTThreshold returns the FFT crossover in limbs. Fused
// multiply-add units make the complex butterflies cheaper, which lowers the
// point where the transform wins.
func EstimateOptimalFFTThreshold() int {
	switch {
	case cpu.X86.HasFMA && cpu.X86.HasAVX2:
		return bigint.DefaultFFTThreshold / 2
	case cpu.ARM64.HasASIMD:
		return bigint.DefaultFFTThreshold * 3 / 4
	default:
		return bigint.DefaultFFTThreshold
	}
}

package calibration

import (
	"runtime"

	"github.com/agbru/bigcalc/internal/config"
)

// GenerateKaratsubaThresholds returns the Karatsuba crossovers to try, in
// limbs. Every candidate recurses at least once on KaratsubaProbeLimbs.
func GenerateKaratsubaThresholds() []int {
	thresholds := []int{4, 6, 8, 10, 12, 16, 24, 32, 48}
	// Narrow 32-bit words make each schoolbook step more expensive.
	if runtime.GOARCH == "386" || runtime.GOARCH == "arm" {
		thresholds = append(thresholds, 64)
	}
	return thresholds
}

// GenerateQuickKaratsubaThresholds is the reduced set used at startup.
func GenerateQuickKaratsubaThresholds() []int {
	return []int{8, 10, 16, 32}
}

// GenerateFFTThresholds returns the FFT crossovers to try, in limbs.
func GenerateFFTThresholds() []int {
	return []int{250, 500, 1000, 1500, 2000, 3000, 4000, 6000}
}

// GenerateQuickFFTThresholds is the reduced set used at startup.
func GenerateQuickFFTThresholds() []int {
	return []int{500, 1000, 2000, 4000}
}

// GenerateFFTProbeSizes returns the operand sizes, in limbs, multiplied
// for every FFT candidate. Sizes straddle the candidates so that each one
// changes which strategy handles part of the workload.
func GenerateFFTProbeSizes(quick bool) []int {
	if quick {
		return []int{750, 1500, 3000}
	}
	return []int{375, 750, 1250, 1750, 2500, 3500, 5000, 8000}
}

// EstimateOptimalKaratsubaThreshold delegates to config.EstimateOptimalKaratsubaThreshold.
func EstimateOptimalKaratsubaThreshold() int { return config.EstimateOptimalKaratsubaThreshold() }

// EstimateOptimalFFTThreshold delegates to config.EstimateOptimalFFTThreshold.
func EstimateOptimalFFTThreshold() int { return config.EstimateOptimalFFTThreshold() }

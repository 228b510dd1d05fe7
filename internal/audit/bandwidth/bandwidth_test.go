package bandwidth_test

import (
	"math"
	"testing"

	"github.com/farcloser/wavewizard/internal/audit/bandwidth"
	"github.com/farcloser/wavewizard/internal/types"
)

// spectrum builds a 10 Hz grid with unit magnitude up to cutoffHz and the given floor above it.
func spectrum(bins int, cutoffHz, floor float64) types.Spectrum {
	result := types.Spectrum{
		Magnitude:   make([]float64, bins),
		Frequencies: make([]float64, bins),
	}

	for i := range bins {
		freq := float64(i) * 10
		result.Frequencies[i] = freq

		if freq <= cutoffHz {
			result.Magnitude[i] = 1
		} else {
			result.Magnitude[i] = floor
		}
	}

	return result
}

func TestEstimate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		spectrum  types.Spectrum
		threshold float64
		found     bool
		cutoff    float64
	}{
		{"full band", spectrum(2049, 20480, 0), 0, true, 20480},
		{"hard cutoff", spectrum(2049, 8000, 0), 0, true, 8000},
		{"floor below threshold", spectrum(2049, 8000, 1e-5), 0, true, 8000},
		{"floor above threshold", spectrum(2049, 8000, 1e-3), 0, true, 20480},
		{"floor above tighter threshold", spectrum(2049, 8000, 1e-3), -40, true, 8000},
		{"silence", spectrum(2049, -1, 0), 0, false, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result := bandwidth.Estimate(tc.spectrum, tc.threshold)

			if result.Found != tc.found {
				t.Fatalf("found: got %v, want %v", result.Found, tc.found)
			}

			if result.CutoffHz != tc.cutoff {
				t.Errorf("cutoff: got %v, want %v", result.CutoffHz, tc.cutoff)
			}

			if result.ImpliedSampleRate != 2*result.CutoffHz {
				t.Errorf("implied rate %v is not twice the cutoff", result.ImpliedSampleRate)
			}
		})
	}
}

func TestEstimateDefaults(t *testing.T) {
	t.Parallel()

	result := bandwidth.Estimate(spectrum(100, 500, 0), 0)

	if result.ThresholdDb != bandwidth.DefaultThresholdDb {
		t.Errorf("threshold: got %v, want %v", result.ThresholdDb, bandwidth.DefaultThresholdDb)
	}

	if math.Abs(result.PeakDb) > 1e-6 {
		t.Errorf("peak: got %v dB, want ~0", result.PeakDb)
	}
}

func TestEstimateDegenerate(t *testing.T) {
	t.Parallel()

	if result := bandwidth.Estimate(types.Spectrum{}, 0); result.Found {
		t.Error("empty spectrum reported content")
	}

	mismatched := types.Spectrum{Magnitude: []float64{1, 1}, Frequencies: []float64{0}}
	if result := bandwidth.Estimate(mismatched, 0); result.Found {
		t.Error("mismatched spectrum reported content")
	}
}

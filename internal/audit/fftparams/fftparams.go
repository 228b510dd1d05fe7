// Package fftparams derives short-time transform geometry from a sample rate.
package fftparams

import (
	"math"

	"github.com/farcloser/wavewizard/internal/types"
)

const (
	// DefaultResolutionHz is the frequency resolution targeted when none is given.
	DefaultResolutionHz = 10.0

	MinWindowSize = 1024
	MaxWindowSize = 32768

	// overlap factor: hop is a quarter window (75% overlap).
	hopDivisor = 4
)

// Derive maps a sample rate to a power-of-two window size giving at least the requested resolution, clamped to
// [MinWindowSize, MaxWindowSize], and a hop of a quarter window.
// sampleRate must be positive; a non-positive resolution selects DefaultResolutionHz.
func Derive(sampleRate int, resolutionHz float64) types.FFTParams {
	if resolutionHz <= 0 {
		resolutionHz = DefaultResolutionHz
	}

	raw := float64(sampleRate) / resolutionHz

	size := MinWindowSize

	switch {
	case raw >= MaxWindowSize:
		size = MaxWindowSize
	case raw > 1:
		size = 1 << int(math.Ceil(math.Log2(raw)))
	}

	size = min(max(size, MinWindowSize), MaxWindowSize)

	return types.FFTParams{
		WindowSize: size,
		HopLength:  size / hopDivisor,
	}
}

package fftparams_test

import (
	"testing"

	"github.com/farcloser/wavewizard/internal/audit/fftparams"
)

func TestDerive(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		sampleRate int
		resolution float64
		window     int
	}{
		{"cd", 44100, 0, 8192},
		{"dat", 48000, 0, 8192},
		{"hires 96k", 96000, 0, 16384},
		{"hires 192k", 192000, 0, 32768},
		{"clamped high", 384000, 0, fftparams.MaxWindowSize},
		{"clamped low", 8000, 0, fftparams.MinWindowSize},
		{"tiny rate", 1, 0, fftparams.MinWindowSize},
		{"coarser resolution", 44100, 20, 4096},
		{"exact power of two", 40960, 10, 4096},
		{"negative resolution", 44100, -5, 8192},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			params := fftparams.Derive(tc.sampleRate, tc.resolution)

			if params.WindowSize != tc.window {
				t.Errorf("window: got %d, want %d", params.WindowSize, tc.window)
			}

			if params.HopLength != tc.window/4 {
				t.Errorf("hop: got %d, want %d", params.HopLength, tc.window/4)
			}
		})
	}
}

func TestDeriveInvariants(t *testing.T) {
	t.Parallel()

	for rate := 1000; rate <= 768000; rate += 997 {
		params := fftparams.Derive(rate, fftparams.DefaultResolutionHz)

		size := params.WindowSize
		if size&(size-1) != 0 {
			t.Fatalf("rate %d: window %d is not a power of two", rate, size)
		}

		if size < fftparams.MinWindowSize || size > fftparams.MaxWindowSize {
			t.Fatalf("rate %d: window %d out of bounds", rate, size)
		}

		if params.HopLength*4 != size {
			t.Fatalf("rate %d: hop %d is not a quarter of %d", rate, params.HopLength, size)
		}

		// Unclamped windows resolve at least as finely as requested.
		if size < fftparams.MaxWindowSize && float64(rate)/float64(size) > fftparams.DefaultResolutionHz {
			t.Fatalf("rate %d: window %d too coarse", rate, size)
		}
	}
}

package spectral_test

import (
	"errors"
	"math"
	"testing"

	"github.com/farcloser/wavewizard/internal/audit/spectral"
	"github.com/farcloser/wavewizard/internal/types"
)

func sine(freq float64, sampleRate, n int, amplitude float64) *types.Waveform {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)+0.1)
	}

	return &types.Waveform{Samples: samples, SampleRate: sampleRate}
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}

	return best
}

func TestAnalyzeGeometry(t *testing.T) {
	t.Parallel()

	wave := sine(1000, 8000, 8000, 0.5)
	params := types.FFTParams{WindowSize: 1024, HopLength: 256}

	analysis, err := spectral.Analyze(wave, params, spectral.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantFrames := 1 + len(wave.Samples)/params.HopLength
	if analysis.Frames != wantFrames {
		t.Errorf("frames: got %d, want %d", analysis.Frames, wantFrames)
	}

	rows, cols := analysis.Magnitude.Dims()
	if rows != 513 || cols != wantFrames {
		t.Errorf("magnitude dims: got %dx%d, want 513x%d", rows, cols, wantFrames)
	}

	freqs := analysis.Spectrum.Frequencies
	if len(freqs) != 513 || len(analysis.Spectrum.Magnitude) != 513 {
		t.Fatalf("spectrum length: got %d/%d, want 513", len(freqs), len(analysis.Spectrum.Magnitude))
	}

	if freqs[0] != 0 || freqs[512] != 4000 {
		t.Errorf("frequency axis: got [%v, %v], want [0, 4000]", freqs[0], freqs[512])
	}

	if width := analysis.Spectrum.BinWidth(); math.Abs(width-7.8125) > 1e-9 {
		t.Errorf("bin width: got %v, want 7.8125", width)
	}
}

func TestAnalyzePeakBin(t *testing.T) {
	t.Parallel()

	// 1000 Hz lands exactly on bin 128 at 8000/1024.
	wave := sine(1000, 8000, 16000, 0.8)

	analysis, err := spectral.Analyze(wave, types.FFTParams{WindowSize: 1024, HopLength: 256}, spectral.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if peak := argmax(analysis.Spectrum.Magnitude); peak != 128 {
		t.Errorf("peak bin: got %d, want 128", peak)
	}
}

func TestAnalyzeDecibels(t *testing.T) {
	t.Parallel()

	wave := sine(1000, 8000, 8000, 0.5)

	analysis, err := spectral.Analyze(wave, types.FFTParams{WindowSize: 1024, HopLength: 256}, spectral.Options{TopDb: 60})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, cols := analysis.Decibels.Dims()
	peak := math.Inf(-1)

	for r := range rows {
		for c := range cols {
			v := analysis.Decibels.At(r, c)
			if v < -60-1e-9 {
				t.Fatalf("value %v below top-db clamp at (%d, %d)", v, r, c)
			}

			peak = math.Max(peak, v)
		}
	}

	if math.Abs(peak) > 1e-9 {
		t.Errorf("reference level: got %v dB, want 0", peak)
	}
}

func TestAnalyzeDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	wave := sine(440, 8000, 4096, 0.3)
	original := append([]float64(nil), wave.Samples...)

	if _, err := spectral.Analyze(wave, types.FFTParams{WindowSize: 1024, HopLength: 256}, spectral.Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range original {
		if wave.Samples[i] != original[i] {
			t.Fatalf("sample %d modified", i)
		}
	}
}

func TestAnalyzeSilence(t *testing.T) {
	t.Parallel()

	wave := &types.Waveform{Samples: make([]float64, 4096), SampleRate: 8000}

	analysis, err := spectral.Analyze(wave, types.FFTParams{WindowSize: 1024, HopLength: 256}, spectral.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, m := range analysis.Spectrum.Magnitude {
		if m != 0 {
			t.Fatalf("bin %d: got %v, want 0", i, m)
		}
	}
}

func TestAnalyzeErrors(t *testing.T) {
	t.Parallel()

	valid := types.FFTParams{WindowSize: 1024, HopLength: 256}

	cases := []struct {
		name   string
		wave   *types.Waveform
		params types.FFTParams
		err    error
	}{
		{"nil waveform", nil, valid, spectral.ErrEmptyWaveform},
		{"empty waveform", &types.Waveform{SampleRate: 8000}, valid, spectral.ErrEmptyWaveform},
		{"too short", sine(440, 8000, 1000, 0.5), valid, spectral.ErrWindowTooLarge},
		{"no sample rate", &types.Waveform{Samples: make([]float64, 2048)}, valid, spectral.ErrInvalidSampleRate},
		{"zero hop", sine(440, 8000, 2048, 0.5), types.FFTParams{WindowSize: 1024}, spectral.ErrInvalidParams},
		{"odd window", sine(440, 8000, 2048, 0.5), types.FFTParams{WindowSize: 1000, HopLength: 250}, spectral.ErrInvalidParams},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := spectral.Analyze(tc.wave, tc.params, spectral.Options{})
			if !errors.Is(err, tc.err) {
				t.Errorf("got %v, want %v", err, tc.err)
			}
		})
	}
}

func TestFeatures(t *testing.T) {
	t.Parallel()

	wave := sine(1000, 8000, 16000, 0.5)
	params := types.FFTParams{WindowSize: 1024, HopLength: 256}

	analysis, err := spectral.Analyze(wave, params, spectral.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	features := spectral.Features(analysis, 0)

	if len(features.Centroid) != analysis.Frames || len(features.Times) != analysis.Frames {
		t.Fatalf("feature length: got %d, want %d", len(features.Centroid), analysis.Frames)
	}

	if features.Times[1] != float64(params.HopLength)/8000 {
		t.Errorf("time of frame 1: got %v", features.Times[1])
	}

	mid := analysis.Frames / 2

	if c := features.Centroid[mid]; math.Abs(c-1000) > 20 {
		t.Errorf("centroid: got %v, want ~1000", c)
	}

	if b := features.Bandwidth[mid]; b <= 0 || b > 200 {
		t.Errorf("bandwidth: got %v, want a narrow positive spread", b)
	}

	if r := features.Rolloff[mid]; math.Abs(r-1000) > 20 {
		t.Errorf("rolloff: got %v, want ~1000", r)
	}
}

func TestFeaturesSilentFrames(t *testing.T) {
	t.Parallel()

	wave := &types.Waveform{Samples: make([]float64, 4096), SampleRate: 8000}

	analysis, err := spectral.Analyze(wave, types.FFTParams{WindowSize: 1024, HopLength: 256}, spectral.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	features := spectral.Features(analysis, 0.85)
	for i := range features.Centroid {
		if features.Centroid[i] != 0 || features.Bandwidth[i] != 0 || features.Rolloff[i] != 0 {
			t.Fatalf("frame %d: silent frame reported non-zero descriptors", i)
		}
	}

	if empty := spectral.Features(nil, 0); len(empty.Times) != 0 {
		t.Errorf("nil analysis: got %d frames", len(empty.Times))
	}
}

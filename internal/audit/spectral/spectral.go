package spectral

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/farcloser/wavewizard/internal/types"
)

var (
	ErrEmptyWaveform     = errors.New("empty waveform")
	ErrWindowTooLarge    = errors.New("window size exceeds waveform length")
	ErrInvalidParams     = errors.New("invalid transform parameters")
	ErrInvalidSampleRate = errors.New("invalid sample rate")
)

const (
	DefaultFloor = 1e-10
	DefaultTopDb = 80.0
)

type Options struct {
	Floor float64 // amplitude floor applied before log10 (default 1e-10)
	TopDb float64 // range kept below the peak in the dB spectrogram; 0 = default, negative = unbounded
}

func DefaultOptions() Options {
	return Options{
		Floor: DefaultFloor,
		TopDb: DefaultTopDb,
	}
}

// Analyze computes the short-time magnitude spectrogram of the waveform, its dB rendition relative to the peak
// magnitude, and the time-averaged spectrum.
// Frames are centered on multiples of the hop length; the signal is zero-padded by half a window on both ends.
func Analyze(wave *types.Waveform, params types.FFTParams, opts Options) (*types.SpectralAnalysis, error) {
	if opts.Floor <= 0 {
		opts.Floor = DefaultFloor
	}

	if opts.TopDb == 0 {
		opts.TopDb = DefaultTopDb
	}

	if wave == nil || len(wave.Samples) == 0 {
		return nil, ErrEmptyWaveform
	}

	if wave.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, wave.SampleRate)
	}

	fftSize := params.WindowSize
	hopSize := params.HopLength

	if fftSize < 2 || hopSize <= 0 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("%w: window %d, hop %d", ErrInvalidParams, fftSize, hopSize)
	}

	samples := wave.Samples
	if fftSize > len(samples) {
		return nil, fmt.Errorf("%w: %d > %d samples", ErrWindowTooLarge, fftSize, len(samples))
	}

	binCount := fftSize/2 + 1
	frames := 1 + len(samples)/hopSize
	half := fftSize / 2

	win := makeHannWindow(fftSize)
	fft := fourier.NewFFT(fftSize)
	fftIn := make([]float64, fftSize)
	coeffs := make([]complex128, binCount)

	// Row-major (bins x frames).
	magData := make([]float64, binCount*frames)
	magnitudeSum := make([]float64, binCount)

	var peak float64

	for frame := range frames {
		start := frame*hopSize - half

		for i := range fftSize {
			idx := start + i
			if idx < 0 || idx >= len(samples) {
				fftIn[i] = 0

				continue
			}

			fftIn[i] = samples[idx] * win[i]
		}

		coeffs = fft.Coefficients(coeffs, fftIn)

		for bin, c := range coeffs {
			mag := cmplx.Abs(c)
			magData[bin*frames+frame] = mag
			magnitudeSum[bin] += mag

			if mag > peak {
				peak = mag
			}
		}
	}

	avgMagnitude := magnitudeSum
	floats.Scale(1/float64(frames), avgMagnitude)

	binHz := float64(wave.SampleRate) / float64(fftSize)
	freqs := make([]float64, binCount)

	for i := range freqs {
		freqs[i] = float64(i) * binHz
	}

	return &types.SpectralAnalysis{
		Params:     params,
		SampleRate: wave.SampleRate,
		Frames:     frames,
		Magnitude:  mat.NewDense(binCount, frames, magData),
		Decibels:   mat.NewDense(binCount, frames, toDb(magData, peak, opts)),
		Spectrum: types.Spectrum{
			Magnitude:   avgMagnitude,
			Frequencies: freqs,
		},
	}, nil
}

// makeHannWindow returns a periodic (DFT-even) Hann window: the symmetric window of size+1 points, truncated.
func makeHannWindow(size int) []float64 {
	seq := make([]float64, size+1)
	for i := range seq {
		seq[i] = 1
	}

	return window.Hann(seq)[:size]
}

func toDb(magnitude []float64, peak float64, opts Options) []float64 {
	ref := math.Max(peak, opts.Floor)
	refDb := 20 * math.Log10(ref)

	db := make([]float64, len(magnitude))
	for i, m := range magnitude {
		db[i] = 20*math.Log10(math.Max(m, opts.Floor)) - refDb
		if opts.TopDb > 0 && db[i] < -opts.TopDb {
			db[i] = -opts.TopDb
		}
	}

	return db
}

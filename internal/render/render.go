// Package render draws the report charts as PNG images.
package render

import (
	"bytes"
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/farcloser/wavewizard/internal/types"
)

var ErrNoData = errors.New("nothing to plot")

const (
	DefaultWidth  = 20 * vg.Centimeter
	DefaultHeight = 10 * vg.Centimeter

	// Upper bound of plotted points along the time axis.
	maxColumns = 2048
	// Upper bound of plotted frequency rows in the spectrogram.
	maxRows = 512

	histogramBins = 1000
)

// Options sets the image geometry. Zero values use the defaults.
type Options struct {
	Width  vg.Length
	Height vg.Length
}

func DefaultOptions() Options {
	return Options{
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
}

// Images holds the encoded charts of one file.
type Images struct {
	Waveform    []byte
	Features    []byte
	Spectrum    []byte
	Spectrogram []byte
	Histogram   []byte
}

// All renders every chart. The first failure aborts the set.
func All(
	wave *types.Waveform,
	analysis *types.SpectralAnalysis,
	features *types.SpectralFeatures,
	opts Options,
) (*Images, error) {
	var (
		images Images
		err    error
	)

	if images.Waveform, err = Waveform(wave, opts); err != nil {
		return nil, fmt.Errorf("waveform: %w", err)
	}

	if images.Features, err = Features(features, opts); err != nil {
		return nil, fmt.Errorf("spectral features: %w", err)
	}

	if analysis == nil {
		return nil, fmt.Errorf("spectrum: %w", ErrNoData)
	}

	if images.Spectrum, err = Spectrum(analysis.Spectrum, opts); err != nil {
		return nil, fmt.Errorf("spectrum: %w", err)
	}

	if images.Spectrogram, err = Spectrogram(analysis, opts); err != nil {
		return nil, fmt.Errorf("spectrogram: %w", err)
	}

	if images.Histogram, err = Histogram(wave.Samples, opts); err != nil {
		return nil, fmt.Errorf("histogram: %w", err)
	}

	return &images, nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	return p
}

func encode(p *plot.Plot, opts Options) ([]byte, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}

	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}

	writer, err := p.WriterTo(opts.Width, opts.Height, "png")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err = writer.WriteTo(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

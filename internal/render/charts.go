package render

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/farcloser/wavewizard/internal/types"
)

const (
	spectrumFloor = 1e-10
	spectrumMinHz = 20
)

// Waveform draws the min/max envelope of the signal over time.
func Waveform(wave *types.Waveform, opts Options) ([]byte, error) {
	if wave == nil || len(wave.Samples) == 0 || wave.SampleRate <= 0 {
		return nil, ErrNoData
	}

	samples := wave.Samples
	columns := min(len(samples), maxColumns)
	step := float64(len(samples)) / float64(columns)

	// Upper edge left to right, then lower edge back.
	outline := make(plotter.XYs, 2*columns)

	for col := range columns {
		start := int(float64(col) * step)
		end := max(int(float64(col+1)*step), start+1)
		chunk := samples[start:min(end, len(samples))]

		t := float64(start) / float64(wave.SampleRate)
		outline[col] = plotter.XY{X: t, Y: floats.Max(chunk)}
		outline[2*columns-1-col] = plotter.XY{X: t, Y: floats.Min(chunk)}
	}

	p := newPlot("Waveform", "Time (s)", "Amplitude")

	poly, err := plotter.NewPolygon(outline)
	if err != nil {
		return nil, err
	}

	poly.Color = color.RGBA{R: 31, G: 119, B: 180, A: 128}
	poly.LineStyle.Width = 0

	p.Add(poly)

	return encode(p, opts)
}

// Features draws centroid, bandwidth and roll-off over time on a logarithmic frequency axis.
// Silent frames have no meaningful descriptor and are left out.
func Features(features *types.SpectralFeatures, opts Options) ([]byte, error) {
	if features == nil || len(features.Times) == 0 {
		return nil, ErrNoData
	}

	p := newPlot("Spectral Features", "Time (s)", "Hz")
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	series := []struct {
		name   string
		values []float64
	}{
		{"Spectral Centroid", features.Centroid},
		{"Spectral Bandwidth", features.Bandwidth},
		{"Spectral Rolloff", features.Rolloff},
	}

	plotted := 0

	for i, s := range series {
		points := positivePoints(features.Times, s.values)
		if len(points) == 0 {
			continue
		}

		line, err := plotter.NewLine(points)
		if err != nil {
			return nil, err
		}

		line.LineStyle.Color = plotutil.Color(i)
		if i == len(series)-1 {
			line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		}

		p.Add(line)
		p.Legend.Add(s.name, line)

		plotted++
	}

	// Digital silence: no frame carries a descriptor, keep the axes linear.
	if plotted > 0 {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	return encode(p, opts)
}

func positivePoints(xs, ys []float64) plotter.XYs {
	points := make(plotter.XYs, 0, len(ys))

	for i, y := range ys {
		if y > 0 && i < len(xs) {
			points = append(points, plotter.XY{X: xs[i], Y: y})
		}
	}

	return points
}

// Spectrum draws the averaged spectrum in dB on a logarithmic frequency axis starting at 20 Hz.
func Spectrum(spectrum types.Spectrum, opts Options) ([]byte, error) {
	points := make(plotter.XYs, 0, len(spectrum.Magnitude))

	for i, mag := range spectrum.Magnitude {
		if i >= len(spectrum.Frequencies) || spectrum.Frequencies[i] < spectrumMinHz {
			continue
		}

		points = append(points, plotter.XY{
			X: spectrum.Frequencies[i],
			Y: 20 * math.Log10(mag+spectrumFloor),
		})
	}

	if len(points) == 0 {
		return nil, ErrNoData
	}

	p := newPlot("Frequency Spectrum", "Frequency (Hz)", "Amplitude (dB)")
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(points)
	if err != nil {
		return nil, err
	}

	line.LineStyle.Color = plotutil.Color(0)

	p.Add(line)

	return encode(p, opts)
}

// Spectrogram draws the dB spectrogram as a heat map, time on X and frequency on Y.
func Spectrogram(analysis *types.SpectralAnalysis, opts Options) ([]byte, error) {
	if analysis == nil || analysis.Decibels == nil {
		return nil, ErrNoData
	}

	grid := newSpectrogramGrid(analysis)

	p := newPlot("Spectrogram", "Time (s)", "Frequency (Hz)")
	heat := plotter.NewHeatMap(grid, palette.Heat(64, 1))
	heat.Min, heat.Max = grid.zRange()

	p.Add(heat)

	return encode(p, opts)
}

// Histogram draws the distribution of sample amplitudes. Counts are shown as log10(count + 1).
func Histogram(samples []float64, opts Options) ([]byte, error) {
	if len(samples) == 0 {
		return nil, ErrNoData
	}

	low, high := floats.Min(samples), floats.Max(samples)
	if high == low {
		low, high = low-0.5, high+0.5
	}

	counts := make([]float64, histogramBins)
	width := (high - low) / histogramBins

	for _, s := range samples {
		bin := min(int((s-low)/width), histogramBins-1)
		counts[bin]++
	}

	bins := make(plotter.XYs, histogramBins)
	for i, count := range counts {
		bins[i] = plotter.XY{X: low + (float64(i)+0.5)*width, Y: math.Log10(count + 1)}
	}

	hist, err := plotter.NewHistogram(bins, histogramBins)
	if err != nil {
		return nil, err
	}

	hist.FillColor = plotutil.Color(0)
	hist.LineStyle.Color = color.Black
	hist.LineStyle.Width = vg.Points(0.2)

	p := newPlot("Histogram of Sample Amplitudes", "Amplitude", "Count (log10)")
	p.Add(plotter.NewGrid())
	p.Add(hist)

	return encode(p, opts)
}

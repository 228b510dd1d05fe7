package render

import (
	"math"

	"github.com/farcloser/wavewizard/internal/types"
)

// spectrogramGrid is a max-pooled view of a (bins x frames) dB matrix, implementing plotter.GridXYZ.
type spectrogramGrid struct {
	cells     []float64 // rows x cols, row-major
	rows      int
	cols      int
	rowHz     float64
	colSec    float64
	rowFactor int
	colFactor int
}

func newSpectrogramGrid(analysis *types.SpectralAnalysis) *spectrogramGrid {
	bins, frames := analysis.Decibels.Dims()

	rowFactor := (bins + maxRows - 1) / maxRows
	colFactor := (frames + maxColumns - 1) / maxColumns

	grid := &spectrogramGrid{
		rows:      (bins + rowFactor - 1) / rowFactor,
		cols:      (frames + colFactor - 1) / colFactor,
		rowFactor: rowFactor,
		colFactor: colFactor,
		rowHz:     float64(analysis.SampleRate) / float64(analysis.Params.WindowSize) * float64(rowFactor),
		colSec:    float64(analysis.Params.HopLength) / float64(analysis.SampleRate) * float64(colFactor),
	}

	grid.cells = make([]float64, grid.rows*grid.cols)
	for i := range grid.cells {
		grid.cells[i] = math.Inf(-1)
	}

	for bin := range bins {
		row := bin / rowFactor

		for frame := range frames {
			idx := row*grid.cols + frame/colFactor
			grid.cells[idx] = math.Max(grid.cells[idx], analysis.Decibels.At(bin, frame))
		}
	}

	return grid
}

func (g *spectrogramGrid) Dims() (int, int) { return g.cols, g.rows }

func (g *spectrogramGrid) Z(c, r int) float64 { return g.cells[r*g.cols+c] }

func (g *spectrogramGrid) X(c int) float64 { return float64(c) * g.colSec }

func (g *spectrogramGrid) Y(r int) float64 { return float64(r) * g.rowHz }

func (g *spectrogramGrid) zRange() (float64, float64) {
	low, high := math.Inf(1), math.Inf(-1)

	for _, z := range g.cells {
		low = math.Min(low, z)
		high = math.Max(high, z)
	}

	// Flat input (digital silence) still needs a non-empty range.
	if high <= low {
		low = high - 1
	}

	return low, high
}

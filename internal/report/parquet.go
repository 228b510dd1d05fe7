package report

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/farcloser/wavewizard/internal/batch"
)

// Row is the flat, columnar form of a file report.
type Row struct {
	File              string   `parquet:"file"`
	Source            string   `parquet:"source"`
	BitDepthLabel     string   `parquet:"bit_depth_label"`
	SampleRate        int64    `parquet:"sample_rate"`
	DurationSec       float64  `parquet:"duration_sec"`
	NFFT              int64    `parquet:"n_fft"`
	HopLength         int64    `parquet:"hop_length"`
	CutoffHz          *float64 `parquet:"significant_cutoff_freq,optional"`
	ImpliedSampleRate *float64 `parquet:"implied_sample_rate,optional"`
	DynamicRangeDb    float64  `parquet:"dynamic_range_db"`
	EffectiveBitDepth int64    `parquet:"effective_bit_depth"`
	IssueCount        int64    `parquet:"issue_count"`
	WorstSeverity     string   `parquet:"worst_severity"`
	Stage             string   `parquet:"stage"`
	Error             string   `parquet:"error"`
	TotalMs           float64  `parquet:"total_ms"`
}

// NewRow flattens a file report. Failed files keep their path, stage and error only.
func NewRow(fileReport *batch.FileReport, redact bool) Row {
	row := Row{
		File:    fileReport.Path,
		Source:  fileReport.Source.String(),
		TotalMs: durationMs(fileReport.Total),
	}

	if redact {
		row.File = ""
	}

	if stage, err := fileReport.Failure(); err != nil && stage != batch.StagePlot {
		row.Stage = string(stage)
		row.Error = err.Error()

		return row
	}

	result := fileReport.Analysis.Value
	summary := result.Summary

	row.BitDepthLabel = summary.BitDepthLabel
	row.SampleRate = int64(summary.SampleRate)
	row.DurationSec = summary.DurationSec
	row.NFFT = int64(summary.NFFT)
	row.HopLength = int64(summary.HopLength)
	row.CutoffHz = summary.SignificantCutoffHz
	row.ImpliedSampleRate = summary.ImpliedSampleRate
	row.DynamicRangeDb = summary.DynamicRangeDb
	row.EffectiveBitDepth = int64(summary.EffectiveBitDepth)
	row.IssueCount = int64(result.IssueCount)
	row.WorstSeverity = result.WorstSeverity.String()

	return row
}

// WriteParquet writes one zstd-compressed row per file report.
func WriteParquet(w io.Writer, reports []batch.FileReport, redact bool) error {
	rows := make([]Row, len(reports))
	for i := range reports {
		rows[i] = NewRow(&reports[i], redact)
	}

	writer := parquet.NewGenericWriter[Row](w, parquet.Compression(&parquet.Zstd))

	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("writing parquet rows: %w", err)
	}

	return writer.Close()
}

// CreateParquet writes the parquet export to path.
func CreateParquet(path string, reports []batch.FileReport, redact bool) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating parquet export: %w", err)
	}
	defer file.Close()

	if err = WriteParquet(file, reports, redact); err != nil {
		return err
	}

	return file.Close()
}

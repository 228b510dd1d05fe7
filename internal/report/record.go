//nolint:tagliatelle
package report

import (
	"time"

	"github.com/farcloser/wavewizard/internal/batch"
	"github.com/farcloser/wavewizard/internal/output"
)

// Record is a single line in the JSONL report file.
type Record struct {
	File      string         `json:"file,omitempty"`
	Source    string         `json:"source,omitempty"`
	Analysis  map[string]any `json:"analysis,omitempty"`
	Stage     string         `json:"stage,omitempty"`
	Error     string         `json:"error,omitempty"`
	PlotError string         `json:"plot_error,omitempty"`
	Timing    *RecordTiming  `json:"timing,omitempty"`
}

// RecordTiming captures per-file processing durations in milliseconds.
type RecordTiming struct {
	LoadMs    float64 `json:"load_ms"`
	AnalyzeMs float64 `json:"analyze_ms"`
	PlotMs    float64 `json:"plot_ms"`
	TotalMs   float64 `json:"total_ms"`
}

// NewRecord flattens a file report. Plot failures keep the analysis and land in PlotError.
func NewRecord(fileReport *batch.FileReport, redact bool) Record {
	record := Record{
		File:   fileReport.Path,
		Source: fileReport.Source.String(),
		Timing: &RecordTiming{
			LoadMs:    durationMs(fileReport.Load.Elapsed),
			AnalyzeMs: durationMs(fileReport.Analysis.Elapsed),
			PlotMs:    durationMs(fileReport.Plots.Elapsed),
			TotalMs:   durationMs(fileReport.Total),
		},
	}

	if redact {
		record.File = ""
	}

	if fileReport.Analysis.OK() {
		record.Analysis = output.ResultToMap(fileReport.Analysis.Value)
	}

	stage, err := fileReport.Failure()

	switch {
	case err == nil:
	case stage == batch.StagePlot:
		record.PlotError = err.Error()
	default:
		record.Stage = string(stage)
		record.Error = err.Error()
	}

	return record
}

// NewRecords flattens every file report, in order.
func NewRecords(reports []batch.FileReport, redact bool) []Record {
	records := make([]Record, len(reports))
	for i := range reports {
		records[i] = NewRecord(&reports[i], redact)
	}

	return records
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

package report

import (
	_ "embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/farcloser/wavewizard"
	"github.com/farcloser/wavewizard/internal/batch"
	"github.com/farcloser/wavewizard/internal/render"
	"github.com/farcloser/wavewizard/version"
)

const (
	NoContentText = "No significant frequency content detected."
	NotAvailable  = "N/A"
)

//go:embed report.html.tmpl
var htmlSource string

//nolint:gochecknoglobals // parsed once, read-only
var htmlTemplate = template.Must(template.New("report").Parse(htmlSource))

// Field is one line of the per-file table.
type Field struct {
	Label string
	Value string
}

type htmlIssue struct {
	Check    string
	Detected bool
	Severity string
	Summary  string
}

type htmlChart struct {
	Title string
	Src   template.URL
}

type htmlFile struct {
	Name      string
	Stage     string
	Error     string
	Fields    []Field
	Issues    []htmlIssue
	Charts    []htmlChart
	PlotError string
}

type htmlPage struct {
	Title     string
	Generator string
	Files     []htmlFile
}

// SummaryFields renders the per-file record as labelled display strings.
func SummaryFields(summary wavewizard.Summary) []Field {
	cutoff := NoContentText
	if summary.SignificantCutoffHz != nil {
		cutoff = fmt.Sprintf("%.2f Hz", *summary.SignificantCutoffHz)
	}

	implied := NotAvailable
	if summary.ImpliedSampleRate != nil {
		implied = fmt.Sprintf("%.2f kHz", *summary.ImpliedSampleRate/1000)
	}

	return []Field{
		{"File Bit Depth:", summary.BitDepthLabel},
		{"Sample Rate:", fmt.Sprintf("%d Hz", summary.SampleRate)},
		{"Duration:", fmt.Sprintf("%.2f seconds", summary.DurationSec)},
		{"Using n_fft =", fmt.Sprintf("%d", summary.NFFT)},
		{"Significant frequency content up to:", cutoff},
		{"Estimated Real Sample Rate:", implied},
		{"Estimated Dynamic Range:", fmt.Sprintf("%.2f dB", summary.DynamicRangeDb)},
		{"Estimated Effective Bit Depth:", fmt.Sprintf("%d bits PCM", summary.EffectiveBitDepth)},
	}
}

func newHTMLFile(fileReport *batch.FileReport) htmlFile {
	file := htmlFile{Name: filepath.Base(fileReport.Path)}

	stage, err := fileReport.Failure()
	if err != nil && stage != batch.StagePlot {
		file.Stage = string(stage)
		file.Error = err.Error()

		return file
	}

	result := fileReport.Analysis.Value
	file.Fields = SummaryFields(result.Summary)

	for _, issue := range result.Issues {
		file.Issues = append(file.Issues, htmlIssue{
			Check:    issue.Check.String(),
			Detected: issue.Detected,
			Severity: issue.Severity.String(),
			Summary:  issue.Summary,
		})
	}

	if stage == batch.StagePlot {
		file.PlotError = err.Error()

		return file
	}

	if images := fileReport.Plots.Value; images != nil {
		file.Charts = charts(images)
	}

	return file
}

func charts(images *render.Images) []htmlChart {
	return []htmlChart{
		{"Waveform", dataURI(images.Waveform)},
		{"Spectral Features", dataURI(images.Features)},
		{"Frequency Spectrum", dataURI(images.Spectrum)},
		{"Spectrogram", dataURI(images.Spectrogram)},
		{"Histogram of Sample Amplitudes", dataURI(images.Histogram)},
	}
}

func dataURI(png []byte) template.URL {
	//nolint:gosec // base64 PNG produced by the renderer
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}

// WriteHTML renders the reports as a single self-contained page.
func WriteHTML(w io.Writer, reports []batch.FileReport) error {
	page := htmlPage{
		Title:     "Wave Wizard",
		Generator: version.Name() + " " + version.Version(),
		Files:     make([]htmlFile, len(reports)),
	}

	for i := range reports {
		page.Files[i] = newHTMLFile(&reports[i])
	}

	return htmlTemplate.Execute(w, page)
}

// CreateHTML writes the page to path.
func CreateHTML(path string, reports []batch.FileReport) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating html report: %w", err)
	}
	defer file.Close()

	if err = WriteHTML(file, reports); err != nil {
		return fmt.Errorf("rendering html report: %w", err)
	}

	return file.Close()
}

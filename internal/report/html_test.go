package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/farcloser/wavewizard"
	"github.com/farcloser/wavewizard/internal/batch"
	"github.com/farcloser/wavewizard/internal/render"
	"github.com/farcloser/wavewizard/internal/report"
)

func TestSummaryFields(t *testing.T) {
	t.Parallel()

	fields := report.SummaryFields(wavewizard.Summary{
		BitDepthLabel:       "Signed 24 bit PCM",
		SampleRate:          96000,
		DurationSec:         12.345,
		NFFT:                16384,
		SignificantCutoffHz: ptr(22050),
		ImpliedSampleRate:   ptr(44100),
		DynamicRangeDb:      72.5,
		EffectiveBitDepth:   13,
	})

	want := map[string]string{
		"File Bit Depth:":                      "Signed 24 bit PCM",
		"Sample Rate:":                         "96000 Hz",
		"Duration:":                            "12.35 seconds",
		"Using n_fft =":                        "16384",
		"Significant frequency content up to:": "22050.00 Hz",
		"Estimated Real Sample Rate:":          "44.10 kHz",
		"Estimated Dynamic Range:":             "72.50 dB",
		"Estimated Effective Bit Depth:":       "13 bits PCM",
	}

	if len(fields) != len(want) {
		t.Fatalf("got %d fields, want %d", len(fields), len(want))
	}

	for _, field := range fields {
		if want[field.Label] != field.Value {
			t.Errorf("%s got %q, want %q", field.Label, field.Value, want[field.Label])
		}
	}
}

func TestSummaryFieldsNoContent(t *testing.T) {
	t.Parallel()

	for _, field := range report.SummaryFields(wavewizard.Summary{}) {
		switch field.Label {
		case "Significant frequency content up to:":
			if field.Value != report.NoContentText {
				t.Errorf("cutoff: got %q", field.Value)
			}
		case "Estimated Real Sample Rate:":
			if field.Value != report.NotAvailable {
				t.Errorf("implied rate: got %q", field.Value)
			}
		}
	}
}

func TestWriteHTML(t *testing.T) {
	t.Parallel()

	withCharts := analyzed("/music/ok.wav", ptr(21000), wavewizard.SeverityNone)
	withCharts.Plots = batch.Outcome[*render.Images]{
		Value: &render.Images{Waveform: []byte("png"), Spectrum: []byte("png")},
		Ran:   true,
	}

	reports := []batch.FileReport{
		withCharts,
		analyzed("/music/silence.wav", nil, wavewizard.SeverityNone),
		analyzed("/music/upsampled.wav", ptr(11025), wavewizard.SeveritySevere),
		failed("/music/broken.flac"),
		plotFailed("/music/noplot.wav"),
	}

	var buf bytes.Buffer
	if err := report.WriteHTML(&buf, reports); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	page := buf.String()

	for _, needle := range []string{
		"<h3>ok.wav</h3>",
		"<h3>silence.wav</h3>",
		report.NoContentText,
		report.NotAvailable,
		"42.00 kHz",
		"[severe] fake-sample-rate:",
		"<strong>File:</strong> broken.flac",
		"Loading Error: decoding failed",
		"Plotting Error: nothing to plot",
		"data:image/png;base64,",
		"<h4>Spectrogram</h4>",
	} {
		if !strings.Contains(page, needle) {
			t.Errorf("page is missing %q", needle)
		}
	}

	if strings.Contains(page, "/music/") {
		t.Error("page should only show base names")
	}

	if got := strings.Count(page, "<img "); got != 5 {
		t.Errorf("images: got %d, want 5", got)
	}
}

func TestCreateHTML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.html")

	if err := report.CreateHTML(path, []batch.FileReport{failed("a.wav")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if !strings.HasPrefix(string(data), "<!DOCTYPE html>") {
		t.Errorf("unexpected content: %.40q", data)
	}
}

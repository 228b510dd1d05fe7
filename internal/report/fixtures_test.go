package report_test

import (
	"errors"
	"time"

	"github.com/farcloser/wavewizard"
	"github.com/farcloser/wavewizard/internal/batch"
	"github.com/farcloser/wavewizard/internal/render"
	"github.com/farcloser/wavewizard/internal/types"
)

var errDecode = errors.New("decoding failed")

func ptr(v float64) *float64 { return &v }

// analyzed is a successful report of a 16-bit file band-limited at the given cutoff (nil for silence).
func analyzed(path string, cutoff *float64, worst wavewizard.Severity) batch.FileReport {
	summary := wavewizard.Summary{
		BitDepthLabel:     "Signed 16 bit PCM",
		SampleRate:        44100,
		DurationSec:       3.5,
		NFFT:              8192,
		HopLength:         2048,
		DynamicRangeDb:    60.2,
		EffectiveBitDepth: 10,
	}

	band := types.BandwidthResult{ThresholdDb: -80}

	if cutoff != nil {
		summary.SignificantCutoffHz = cutoff
		summary.ImpliedSampleRate = ptr(2 * *cutoff)
		band.Found = true
		band.CutoffHz = *cutoff
		band.ImpliedSampleRate = 2 * *cutoff
	}

	result := &wavewizard.Result{
		Summary:         summary,
		NominalBitDepth: types.Depth16,
		Bandwidth:       &band,
		Dynamics:        &types.DynamicRangeResult{DynamicRangeDb: 60.2, EffectiveBitDepth: 10, Samples: 154350},
		WorstSeverity:   worst,
	}

	if worst != wavewizard.SeverityNone {
		result.IssueCount = 1
		result.HasFakeSampleRate = true
		result.Issues = []wavewizard.Issue{{
			Check:      wavewizard.CheckFakeSampleRate,
			Detected:   true,
			Severity:   worst,
			Summary:    "Fake 44100 Hz: upsampled from ~22050 Hz",
			Confidence: 0.95,
		}}
	}

	return batch.FileReport{
		Path:     path,
		Source:   wavewizard.SourceDigital,
		Load:     batch.Outcome[batch.LoadInfo]{Ran: true, Elapsed: 5 * time.Millisecond},
		Analysis: batch.Outcome[*wavewizard.Result]{Value: result, Ran: true, Elapsed: 20 * time.Millisecond},
		Total:    30 * time.Millisecond,
	}
}

func failed(path string) batch.FileReport {
	return batch.FileReport{
		Path: path,
		Load: batch.Outcome[batch.LoadInfo]{Err: errDecode, Ran: true},
	}
}

func plotFailed(path string) batch.FileReport {
	report := analyzed(path, ptr(20000), wavewizard.SeverityNone)
	report.Plots = batch.Outcome[*render.Images]{Err: render.ErrNoData, Ran: true}

	return report
}

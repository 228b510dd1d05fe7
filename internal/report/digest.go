//nolint:tagliatelle
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
)

// DigestRecord holds the typed fields needed by the digest.
type DigestRecord struct {
	File     string          `json:"file,omitempty"`
	Analysis *DigestAnalysis `json:"analysis,omitempty"`
	Stage    string          `json:"stage,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type DigestAnalysis struct {
	Summary DigestSummary `json:"summary"`
	Record  DigestFile    `json:"record"`
	Issues  []DigestIssue `json:"issues"`
}

type DigestSummary struct {
	IssueCount    int    `json:"issue_count"`
	WorstSeverity string `json:"worst_severity"`
}

type DigestFile struct {
	SampleRate        int      `json:"sample_rate"`
	ImpliedSampleRate *float64 `json:"implied_sample_rate"`
	EffectiveBitDepth int      `json:"effective_bit_depth"`
}

type DigestIssue struct {
	Check      string  `json:"check"`
	Detected   bool    `json:"detected"`
	Severity   string  `json:"severity"`
	Summary    string  `json:"summary"`
	Confidence float64 `json:"confidence"`
}

// CheckBreakdown tracks per-check severity counts.
type CheckBreakdown struct {
	Check    string
	Total    int
	Severe   int
	Moderate int
	Mild     int
}

// Digest aggregates a report.
type Digest struct {
	Total         int
	Failed        int
	FailedByStage map[string]int
	Severity      map[string]int // clean, mild, moderate, severe
	IssuesPerFile map[int]int
	Checks        []*CheckBreakdown // most frequent first
	BitDepths     map[int]int       // effective bit depth histogram
	NoContent     int               // files without significant frequency content
}

// Summarize computes the digest of the given lines.
func Summarize(lines []Line) *Digest {
	digest := &Digest{
		Total:         len(lines),
		FailedByStage: map[string]int{},
		Severity:      map[string]int{"severe": 0, "moderate": 0, "mild": 0, "clean": 0},
		IssuesPerFile: map[int]int{},
		BitDepths:     map[int]int{},
	}

	checkStats := map[string]*CheckBreakdown{}

	for i := range lines {
		rec := &lines[i].Record

		if rec.Error != "" || rec.Analysis == nil {
			digest.Failed++

			stage := rec.Stage
			if stage == "" {
				stage = "unknown"
			}

			digest.FailedByStage[stage]++

			continue
		}

		worst := rec.Analysis.Summary.WorstSeverity
		if worst == "" || worst == "no issue" {
			digest.Severity["clean"]++
		} else {
			digest.Severity[worst]++
		}

		digest.IssuesPerFile[rec.Analysis.Summary.IssueCount]++
		digest.BitDepths[rec.Analysis.Record.EffectiveBitDepth]++

		if rec.Analysis.Record.ImpliedSampleRate == nil {
			digest.NoContent++
		}

		for _, issue := range rec.Analysis.Issues {
			if !issue.Detected {
				continue
			}

			breakdown, ok := checkStats[issue.Check]
			if !ok {
				breakdown = &CheckBreakdown{Check: issue.Check}
				checkStats[issue.Check] = breakdown
			}

			breakdown.Total++

			switch issue.Severity {
			case "severe":
				breakdown.Severe++
			case "moderate":
				breakdown.Moderate++
			case "mild":
				breakdown.Mild++
			}
		}
	}

	digest.Checks = slices.Collect(maps.Values(checkStats))
	slices.SortFunc(digest.Checks, func(a, b *CheckBreakdown) int {
		if a.Total != b.Total {
			return b.Total - a.Total
		}

		if a.Check < b.Check {
			return -1
		}

		return 1
	})

	return digest
}

// Print writes the digest as text.
func (d *Digest) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Wavewizard Report Digest ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total files:   %d\n", d.Total)
	fmt.Fprintf(w, "Failed:        %d\n", d.Failed)
	fmt.Fprintf(w, "Analyzed:      %d\n", d.Total-d.Failed)
	fmt.Fprintln(w)

	if d.Failed > 0 {
		fmt.Fprintln(w, "--- Failures By Stage ---")

		for _, stage := range slices.Sorted(maps.Keys(d.FailedByStage)) {
			fmt.Fprintf(w, "  %s: %d\n", stage, d.FailedByStage[stage])
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "--- Worst Severity ---")
	fmt.Fprintf(w, "  Clean:     %d\n", d.Severity["clean"])
	fmt.Fprintf(w, "  Mild:      %d\n", d.Severity["mild"])
	fmt.Fprintf(w, "  Moderate:  %d\n", d.Severity["moderate"])
	fmt.Fprintf(w, "  Severe:    %d\n", d.Severity["severe"])
	fmt.Fprintln(w)

	fmt.Fprintln(w, "--- Issues Per File ---")

	for _, count := range slices.Sorted(maps.Keys(d.IssuesPerFile)) {
		fmt.Fprintf(w, "  %d issues:  %d files\n", count, d.IssuesPerFile[count])
	}

	fmt.Fprintln(w)

	fmt.Fprintln(w, "--- Effective Bit Depth ---")

	for _, bits := range slices.Sorted(maps.Keys(d.BitDepths)) {
		fmt.Fprintf(w, "  %2d bits:  %d files\n", bits, d.BitDepths[bits])
	}

	if d.NoContent > 0 {
		fmt.Fprintf(w, "  no significant frequency content: %d files\n", d.NoContent)
	}

	fmt.Fprintln(w)

	fmt.Fprintln(w, "--- Issues By Type ---")

	for _, bd := range d.Checks {
		fmt.Fprintf(w, "  %s\n", bd.Check)
		fmt.Fprintf(w, "    total: %d  severe: %d  moderate: %d  mild: %d\n", bd.Total, bd.Severe, bd.Moderate, bd.Mild)
	}
}

//nolint:gochecknoglobals
var checkKeyMap = map[string]string{
	"fake-sample-rate": "bandwidth",
	"fake-bit-depth":   "bit_depth",
	"dynamic-range":    "dynamics",
}

type issueEntry struct {
	file       string
	severity   string
	summary    string
	confidence float64
	detail     map[string]any
}

// PrintIssue lists the files affected by check, worst first, with the raw analyzer detail.
func PrintIssue(w io.Writer, lines []Line, check string) {
	var entries []issueEntry

	detailKey := checkKeyMap[check]

	for i := range lines {
		rec := &lines[i].Record
		if rec.Error != "" || rec.Analysis == nil {
			continue
		}

		for _, issue := range rec.Analysis.Issues {
			if !issue.Detected || issue.Check != check {
				continue
			}

			entry := issueEntry{
				file:       rec.File,
				severity:   issue.Severity,
				summary:    issue.Summary,
				confidence: issue.Confidence,
			}

			if entry.file == "" {
				entry.file = "(redacted)"
			}

			if detailKey != "" {
				entry.detail = extractDetailFromRaw(lines[i].Raw, detailKey)
			}

			entries = append(entries, entry)
		}
	}

	if len(entries) == 0 {
		fmt.Fprintf(w, "No files affected by %s\n", check)

		return
	}

	slices.SortStableFunc(entries, func(a, b issueEntry) int {
		return severityRank(a.severity) - severityRank(b.severity)
	})

	fmt.Fprintf(w, "=== %s: %d files ===\n\n", check, len(entries))

	for _, entry := range entries {
		fmt.Fprintf(w, "  %s\n", entry.file)
		fmt.Fprintf(w, "    severity: %s  confidence: %.0f%%\n", entry.severity, entry.confidence*100)
		fmt.Fprintf(w, "    %s\n", entry.summary)

		for _, key := range slices.Sorted(maps.Keys(entry.detail)) {
			fmt.Fprintf(w, "    %s: %v\n", key, entry.detail[key])
		}

		fmt.Fprintln(w)
	}
}

func extractDetailFromRaw(rawLine []byte, key string) map[string]any {
	var full struct {
		Analysis map[string]any `json:"analysis"`
	}

	if err := json.Unmarshal(rawLine, &full); err != nil || full.Analysis == nil {
		return nil
	}

	if detail, ok := full.Analysis[key].(map[string]any); ok {
		return detail
	}

	return nil
}

func severityRank(severity string) int {
	switch severity {
	case "severe":
		return 0
	case "moderate":
		return 1
	case "mild":
		return 2
	default:
		return 3
	}
}

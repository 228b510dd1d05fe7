//nolint:wrapcheck
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/farcloser/primordium/format"
	"github.com/urfave/cli/v3"

	"github.com/farcloser/wavewizard"
	"github.com/farcloser/wavewizard/internal/batch"
	"github.com/farcloser/wavewizard/internal/output"
	"github.com/farcloser/wavewizard/internal/report"
)

func analyzeCommand() *cli.Command {
	flags := append(inputFlags(), analysisFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: console, json, markdown",
			Value:   "console",
		},
		&cli.BoolFlag{
			Name:  "raw",
			Usage: "Print every raw analyzer value instead of the summary",
		},
	)

	return &cli.Command{
		Name:      "analyze",
		Usage:     "Estimate bandwidth, dynamic range and effective bit depth of audio files",
		ArgsUsage: "[file...]",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			formatter, err := format.GetFormatter(cmd.String("format"))
			if err != nil {
				return err
			}

			inputs, err := settings.inputs()
			if err != nil {
				return err
			}

			reports, err := batch.Run(ctx, inputs, settings.batch)
			if err != nil {
				return err
			}

			data := make([]*format.Data, len(reports))
			for i := range reports {
				data[i] = &format.Data{
					Object: reports[i].Path,
					Meta:   buildMeta(&reports[i], cmd.Bool("raw")),
				}
			}

			return formatter.PrintAll(data, os.Stdout)
		},
	}
}

func buildMeta(fileReport *batch.FileReport, raw bool) map[string]any {
	if stage, err := fileReport.Failure(); err != nil {
		return map[string]any{
			"error": fmt.Sprintf("%s Error: %v", stage, err),
		}
	}

	if raw {
		return output.ResultToMap(fileReport.Analysis.Value)
	}

	return buildFriendlyOutput(fileReport.Analysis.Value)
}

// buildFriendlyOutput creates a user-friendly summary of the analysis results.
func buildFriendlyOutput(result *wavewizard.Result) map[string]any {
	meta := map[string]any{
		"summary": fmt.Sprintf("%d issues found (worst: %s)", result.IssueCount, result.WorstSeverity),
	}

	properties := make(map[string]any)
	for _, field := range report.SummaryFields(result.Summary) {
		properties[field.Label] = field.Value
	}

	meta["properties"] = properties

	if len(result.Issues) > 0 {
		issues := make([]any, 0, len(result.Issues))

		for _, issue := range result.Issues {
			marker := "  "
			if issue.Detected {
				marker = "!!"
			}

			issues = append(issues, fmt.Sprintf("%s [%s] %s: %s (%.0f%% confidence)",
				marker, issue.Severity, issue.Check, issue.Summary, issue.Confidence*100))
		}

		meta["issues"] = issues
	}

	return meta
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/wavewizard/internal/report"
)

var errDigestArgs = errors.New("expected exactly one argument: path to the JSONL report")

func digestCommand() *cli.Command {
	return &cli.Command{
		Name:      "digest",
		Usage:     "Produce a summary digest from a wavewizard JSONL report (plain, .gz or .zst)",
		ArgsUsage: "<report.jsonl>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "issue",
				Usage: "Show files affected by a specific check (e.g., fake-sample-rate, dynamic-range)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return errDigestArgs
			}

			return runDigest(cmd.Args().First(), cmd.String("issue"))
		},
	}
}

func runDigest(reportPath, issueFilter string) error {
	lines, err := report.ReadJSONLFile(reportPath)
	if err != nil {
		return err
	}

	report.Summarize(lines).Print(os.Stdout)

	if issueFilter != "" {
		fmt.Println()
		report.PrintIssue(os.Stdout, lines, issueFilter)
	}

	return nil
}

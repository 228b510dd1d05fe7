package main_test

import (
	"fmt"
	"strings"

	"github.com/containerd/nerdctl/mod/tigron/test"
	"github.com/containerd/nerdctl/mod/tigron/tig"
)

// expectIssue returns a comparator verifying that the given check was detected with the given severity.
func expectIssue(check, severity string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if issueBlockContains(stdout, check, "detected: true") &&
			issueBlockContains(stdout, check, fmt.Sprintf("severity: %s", severity)) {
			return
		}

		testing.Log(
			fmt.Sprintf("expected issue %q with severity %q not found in output:\n%s", check, severity, stdout),
		)
		testing.Fail()
	}
}

// expectNoIssue returns a comparator verifying that the given check was NOT detected.
func expectNoIssue(check string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if issueBlockContains(stdout, check, "detected: true") {
			testing.Log(fmt.Sprintf("expected no issue for %q but it was detected in output:\n%s", check, stdout))
			testing.Fail()
		}
	}
}

// issueBlockContains checks whether an issue block for the given check contains the target string.
// It scans for "check: <check>" and then looks in adjacent lines for the target.
func issueBlockContains(stdout, check, target string) bool {
	lines := strings.Split(stdout, "\n")
	checkLine := fmt.Sprintf("check: %s", check)

	for i, line := range lines {
		if !strings.Contains(line, checkLine) {
			continue
		}

		for j := max(0, i-5); j < min(len(lines), i+5); j++ {
			if strings.Contains(lines[j], target) {
				return true
			}
		}
	}

	return false
}

// expectContains returns a comparator verifying the output contains a substring.
func expectContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if !strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("expected substring %q not found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

package cmd

import (
	"fmt"
	"os"

	"github.com/csvforge/csvforge/internal/pkg/issue"
)

// printReport writes a human-readable summary of fixes applied and
// issues found to stderr, grouped by severity.
func printReport(fixes []string, issues []issue.Issue) {
	if len(fixes) > 0 {
		fmt.Fprintln(os.Stderr, "Fixes applied:")
		for _, f := range fixes {
			fmt.Fprintf(os.Stderr, "  - %s\n", f)
		}
	}

	bySeverity := map[issue.Severity][]issue.Issue{}
	for _, iss := range issues {
		bySeverity[iss.Severity] = append(bySeverity[iss.Severity], iss)
	}

	for _, sev := range []issue.Severity{issue.SeverityError, issue.SeverityWarning, issue.SeverityInfo} {
		group := bySeverity[sev]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(os.Stderr, "%s (%d):\n", sev, len(group))
		for _, iss := range group {
			if iss.RowIndex == issue.FileRow {
				fmt.Fprintf(os.Stderr, "  [%s] %s: %s\n", iss.Code, iss.Column, iss.Message)
			} else {
				fmt.Fprintf(os.Stderr, "  [%s] row %d, %s: %s\n", iss.Code, iss.RowIndex, iss.Column, iss.Message)
			}
		}
	}
}

// hasErrors reports whether issues contains any error-severity entry.
// validate uses it to decide its exit status.
func hasErrors(issues []issue.Issue) bool {
	return countErrors(issues) > 0
}

func countErrors(issues []issue.Issue) int {
	n := 0
	for _, iss := range issues {
		if iss.Severity == issue.SeverityError {
			n++
		}
	}
	return n
}

package testanalysis

import (
	"fmt"
	"strings"
)

// FormatReport renders the report as plain text. Rendering is byte-stable
// for a given report: the upstream answer layer caches on it, and test
// fixtures compare against it verbatim. Per category it shows the failure
// and flake totals and up to maxExamplesPerCategory representative entries;
// the rest collapse into a "+N more" line. Values below one are treated
// as one.
func FormatReport(report *AnalysisReport, maxExamplesPerCategory int) string {
	if maxExamplesPerCategory < 1 {
		maxExamplesPerCategory = 1
	}

	var b strings.Builder
	b.WriteString("Test failure analysis\n")
	fmt.Fprintf(&b, "passed: %d  failed: %d  skipped: %d  flaked: %d\n", report.Passed, report.Failed, report.Skipped, report.Flaked)

	if len(report.Failures) == 0 {
		b.WriteString("\nNo test failures or flakes found.\n")
		return b.String()
	}

	// Failures arrive sorted by category, so one pass over consecutive
	// runs of the same category is enough.
	for start := 0; start < len(report.Failures); {
		end := start
		for end < len(report.Failures) && report.Failures[end].Category == report.Failures[start].Category {
			end++
		}
		writeCategory(&b, report.Failures[start:end], maxExamplesPerCategory)
		start = end
	}
	return b.String()
}

func writeCategory(b *strings.Builder, failures []ClassifiedFailure, maxExamples int) {
	failureCount, flakeCount := 0, 0
	for _, failure := range failures {
		failureCount += failure.OccurrenceCount
		if failure.IsFlake {
			flakeCount += failure.OccurrenceCount
		}
	}

	fmt.Fprintf(b, "\n%s: %d failure(s), %d flake(s)\n", failures[0].Category, failureCount, flakeCount)
	for i, failure := range failures {
		if i >= maxExamples {
			fmt.Fprintf(b, "  +%d more\n", len(failures)-maxExamples)
			return
		}
		kind := "failure"
		if failure.IsFlake {
			kind = "flake"
		}
		fmt.Fprintf(b, "  - %s (%s, x%d): %s\n", failure.TestName, kind, failure.OccurrenceCount, failure.RepresentativeMessage)
	}
}

package aggregation

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v2"
)

// ParseError reports a document that has the aggregated shape but cannot be
// decoded into per-run outcomes. This usually means the producer format
// changed and must surface rather than be dropped silently.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid aggregated test summary: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid aggregated test summary: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// e.g. "Passed 8 times, failed 2 times.  The historical pass rate is 99.44%."
var historicalPassRatePattern = regexp.MustCompile(`(?i)historical pass rate (?:is |of )?([0-9]+(?:\.[0-9]+)?)%`)

// ExtractFromSystemOut decodes an aggregated test summary out of
// <system-out> text, or out of a standalone YAML artifact. Text that does
// not carry the aggregated shape yields (nil, nil): most system-out content
// is ordinary log text and its absence is not an error. A recognized shape
// that cannot be decoded, or whose runs lack a job run id, is a *ParseError.
func ExtractFromSystemOut(systemOut string) (*SuiteSummary, error) {
	trimmed := strings.TrimSpace(systemOut)
	if trimmed == "" {
		return nil, nil
	}

	shape := map[string]interface{}{}
	if err := yaml.Unmarshal([]byte(trimmed), &shape); err != nil {
		return nil, nil
	}
	if !hasAggregatedShape(shape) {
		return nil, nil
	}

	details := &TestCaseDetails{}
	if err := yaml.Unmarshal([]byte(trimmed), details); err != nil {
		return nil, &ParseError{Reason: "aggregated shape did not decode", Err: err}
	}
	return summaryForDetails(details)
}

func hasAggregatedShape(shape map[string]interface{}) bool {
	_, hasName := shape["name"]
	_, hasSuiteName := shape["testsuitename"]
	if !hasName && !hasSuiteName {
		return false
	}
	for _, key := range []string{"passes", "failures", "skips"} {
		if _, ok := shape[key]; ok {
			return true
		}
	}
	return false
}

func summaryForDetails(details *TestCaseDetails) (*SuiteSummary, error) {
	summary := &SuiteSummary{
		SuiteName:          details.TestSuiteName,
		TestName:           details.Name,
		HistoricalPassRate: historicalPassRate(details.Summary),
		FailureMessage:     details.Summary,
		Runs:               make([]JobRun, 0, len(details.Passes)+len(details.Failures)+len(details.Skips)),
	}

	for i, pass := range details.Passes {
		if err := appendRun(summary, "passes", i, pass.JobRunID, pass.HumanURL, pass.GCSArtifactURL, RunPassed); err != nil {
			return nil, err
		}
	}
	for i, failure := range details.Failures {
		if err := appendRun(summary, "failures", i, failure.JobRunID, failure.HumanURL, failure.GCSArtifactURL, RunFailed); err != nil {
			return nil, err
		}
	}
	for i, skip := range details.Skips {
		if err := appendRun(summary, "skips", i, skip.JobRunID, skip.HumanURL, skip.GCSArtifactURL, RunSkipped); err != nil {
			return nil, err
		}
	}

	return summary, nil
}

func appendRun(summary *SuiteSummary, bucket string, index int, jobRunID, humanURL, gcsArtifactURL string, outcome RunOutcome) error {
	if len(strings.TrimSpace(jobRunID)) == 0 {
		return &ParseError{Reason: fmt.Sprintf("%s[%d] has no jobrunid", bucket, index)}
	}
	summary.Runs = append(summary.Runs, JobRun{
		JobRunID:       jobRunID,
		HumanURL:       humanURL,
		GCSArtifactURL: gcsArtifactURL,
		Outcome:        outcome,
	})
	return nil
}

func historicalPassRate(summary string) float64 {
	match := historicalPassRatePattern.FindStringSubmatch(summary)
	if match == nil {
		return 0
	}
	var percentage float64
	if _, err := fmt.Sscanf(match[1], "%f", &percentage); err != nil {
		return 0
	}
	return percentage / 100
}

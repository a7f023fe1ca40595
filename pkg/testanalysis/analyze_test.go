package testanalysis

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/stbenjam/sippy-chat/pkg/aggregation"
	"github.com/stbenjam/sippy-chat/pkg/junit"
)

const loginSuiteXML = `<testsuites>
<testsuite name="e2e" tests="2" failures="1">
<testcase name="TestLogin" time="4.2">
<failure message="">dial tcp 10.0.0.1:443: i/o timeout</failure>
</testcase>
<testcase name="TestLogout" time="0.8"/>
</testsuite>
</testsuites>`

func TestAnalyzeJUnit(t *testing.T) {
	analyzer := NewAnalyzer(nil, nil)
	report, err := analyzer.AnalyzeJUnit(loginSuiteXML)
	if err != nil {
		t.Fatalf("could not analyze: %v", err)
	}

	if report.Passed != 1 || report.Failed != 1 || report.Skipped != 0 || report.Flaked != 0 {
		t.Errorf("unexpected counts: %+v", report)
	}
	expected := []ClassifiedFailure{
		{TestName: "TestLogin", IsFlake: false, Category: CategoryNetworkTimeout, RepresentativeMessage: "dial tcp <addr>: i/o timeout", OccurrenceCount: 1},
	}
	if diff := cmp.Diff(expected, report.Failures); diff != "" {
		t.Errorf("failures mismatch (-want +got): %s", diff)
	}

	rendered := FormatReport(report, 5)
	if !strings.Contains(rendered, "NetworkTimeout") {
		t.Errorf("expected the category in the rendered report:\n%s", rendered)
	}
}

func TestAnalyzeJUnitWithEmbeddedAggregatedRuns(t *testing.T) {
	var runs strings.Builder
	runs.WriteString("name: TestUpgrade\ntestsuitename: upgrade\npasses:\n")
	for i := 1; i <= 8; i++ {
		fmt.Fprintf(&runs, "- jobrunid: \"100000000000000000%d\"\n", i)
	}
	runs.WriteString("failures:\n- jobrunid: \"1000000000000000009\"\n- jobrunid: \"1000000000000000010\"\n")

	xmlText := `<testsuite name="job-run-aggregation">
<testcase name="TestUpgrade">
<failure message="">upgrade did not complete in 2 of 10 runs</failure>
<system-out>` + runs.String() + `</system-out>
</testcase>
</testsuite>`

	analyzer := NewAnalyzer(nil, nil)
	report, err := analyzer.AnalyzeJUnit(xmlText)
	if err != nil {
		t.Fatalf("could not analyze: %v", err)
	}

	// the owning test case is represented by its ten underlying runs, not
	// counted again as an eleventh observation
	if report.Passed != 8 || report.Failed != 2 || report.Skipped != 0 || report.Flaked != 2 {
		t.Errorf("unexpected counts: %+v", report)
	}
	expected := []ClassifiedFailure{
		{TestName: "TestUpgrade", IsFlake: true, Category: CategoryUpgradeFailure, RepresentativeMessage: "upgrade did not complete in 2 of 10 runs", OccurrenceCount: 2},
	}
	if diff := cmp.Diff(expected, report.Failures); diff != "" {
		t.Errorf("failures mismatch (-want +got): %s", diff)
	}
}

func TestAnalyzeAggregated(t *testing.T) {
	analyzer := NewAnalyzer(nil, nil)
	report, err := analyzer.AnalyzeAggregated(`name: TestUpgrade
summary: upgrade rollout stalled
passes:
- jobrunid: "1"
- jobrunid: "2"
failures:
- jobrunid: "3"
skips:
- jobrunid: "4"
`)
	if err != nil {
		t.Fatalf("could not analyze: %v", err)
	}
	if report.Passed != 2 || report.Failed != 1 || report.Skipped != 1 || report.Flaked != 1 {
		t.Errorf("unexpected counts: %+v", report)
	}
	if len(report.Failures) != 1 || report.Failures[0].Category != CategoryUpgradeFailure {
		t.Errorf("unexpected failures: %+v", report.Failures)
	}
}

func TestAnalyzeAggregatedRejectsOrdinaryText(t *testing.T) {
	analyzer := NewAnalyzer(nil, nil)
	_, err := analyzer.AnalyzeAggregated("STDOUT:\nsome build log output\n")
	parseErr := &aggregation.ParseError{}
	if !errors.As(err, &parseErr) {
		t.Errorf("expected an *aggregation.ParseError, got %v", err)
	}
}

func TestAnalyzeJUnitHonorsSizeBounds(t *testing.T) {
	analyzer := NewAnalyzer(nil, &junit.ParseOptions{MaxTestCases: 1})
	_, err := analyzer.AnalyzeJUnit(loginSuiteXML)
	sizeErr := &junit.SizeLimitError{}
	if !errors.As(err, &sizeErr) {
		t.Errorf("expected a *junit.SizeLimitError, got %v", err)
	}
}

func TestAnalyzeJUnitRedactsSecrets(t *testing.T) {
	xmlText := `<testsuite name="auth">
<testcase name="TestCredentialLogin">
<failure message="login rejected">retrying with password=hunter2 did not help</failure>
</testcase>
</testsuite>`

	analyzer := NewAnalyzer(nil, nil)
	report, err := analyzer.AnalyzeJUnit(xmlText)
	if err != nil {
		t.Fatalf("could not analyze: %v", err)
	}
	if len(report.Failures) != 1 {
		t.Fatalf("expected one failure, got %+v", report.Failures)
	}
	if strings.Contains(report.Failures[0].RepresentativeMessage, "hunter2") {
		t.Errorf("secret leaked into the report: %q", report.Failures[0].RepresentativeMessage)
	}
	if !strings.Contains(report.Failures[0].RepresentativeMessage, "REDACTED") {
		t.Errorf("expected a redaction marker, got %q", report.Failures[0].RepresentativeMessage)
	}
}

// the same artifact must always produce the same report and the same bytes,
// whatever the run
func TestAnalyzeIsDeterministic(t *testing.T) {
	analyzer := NewAnalyzer(nil, nil)

	first, err := analyzer.AnalyzeJUnit(loginSuiteXML)
	if err != nil {
		t.Fatalf("could not analyze: %v", err)
	}
	second, err := analyzer.AnalyzeJUnit(loginSuiteXML)
	if err != nil {
		t.Fatalf("could not analyze: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("reports differ across runs (-first +second): %s", diff)
	}
	if FormatReport(first, 5) != FormatReport(second, 5) {
		t.Error("rendered reports differ across runs")
	}
}

// Package aggregation decodes the per-test YAML documents that aggregated
// prow jobs embed in jUnit <system-out>, describing the outcome of every
// underlying job run.
package aggregation

// TestCaseDetails mirrors the document the aggregator writes into
// <system-out>. The yaml.v2 convention of fully lower-cased field names
// (jobrunid, humanurl, gcsartifacturl, testsuitename) matches the producer,
// so no field tags are needed.
type TestCaseDetails struct {
	Name          string
	TestSuiteName string

	// Summary is a free-text description of the aggregation outcome,
	// typically carrying the historical pass rate.
	Summary string

	// Lifecycle distinguishes blocking tests from informing ones.
	Lifecycle string

	Passes   []TestCasePass
	Failures []TestCaseFailure
	Skips    []TestCaseSkip
}

// TestCasePass identifies one job run in which the test passed.
type TestCasePass struct {
	JobRunID       string
	HumanURL       string
	GCSArtifactURL string
}

// TestCaseFailure identifies one job run in which the test failed.
type TestCaseFailure struct {
	JobRunID       string
	HumanURL       string
	GCSArtifactURL string
}

// TestCaseSkip identifies one job run in which the test was skipped.
type TestCaseSkip struct {
	JobRunID       string
	HumanURL       string
	GCSArtifactURL string
}

// RunOutcome is the result of one underlying job run.
type RunOutcome string

const (
	RunPassed  RunOutcome = "Passed"
	RunFailed  RunOutcome = "Failed"
	RunSkipped RunOutcome = "Skipped"
)

// JobRun is one underlying repeated run of an aggregated job.
type JobRun struct {
	// JobRunID identifies the underlying prow job run
	JobRunID string

	// HumanURL links to the job run page for operator follow-up
	HumanURL string

	// GCSArtifactURL links to the job run's stored artifacts
	GCSArtifactURL string

	Outcome RunOutcome
}

// SuiteSummary is the decoded aggregated result for one test: every
// underlying run with its outcome, in document order.
type SuiteSummary struct {
	SuiteName string
	TestName  string

	// HistoricalPassRate is scraped from the free-text summary line and is
	// informational only; in-batch classification never consults it.
	HistoricalPassRate float64

	// FailureMessage is the diagnostic text attached to the failing runs.
	// It defaults to the summary text; when the document is embedded in a
	// jUnit test case the caller substitutes that case's failure output.
	FailureMessage string

	// Runs holds one entry per underlying job run. Order within each
	// outcome is the document order of the source arrays.
	Runs []JobRun
}

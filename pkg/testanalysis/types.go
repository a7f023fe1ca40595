// Package testanalysis turns raw CI artifacts (jUnit XML, aggregated job
// summaries) into deduplicated, categorized failure reports that separate
// genuine failures from flakes.
package testanalysis

// TestStatus is the outcome of one test case observation.
type TestStatus string

const (
	TestPassed  TestStatus = "Passed"
	TestFailed  TestStatus = "Failed"
	TestSkipped TestStatus = "Skipped"
	TestErrored TestStatus = "Error"
)

// TestCaseResult is one observation of one test case in one run, produced by
// parsing a single jUnit document. Results are immutable once built.
type TestCaseResult struct {
	// Suite is the owning suite or class name
	Suite string

	// Name is the test case name, unique within a suite and run but not globally
	Name string

	Status TestStatus

	// DurationSeconds is zero when the document carried no usable duration
	DurationSeconds float64

	// FailureMessage holds the raw diagnostic text and is only set for
	// failed or errored observations
	FailureMessage string
}

// ClassifiedFailure is one deduplicated group of failing observations that
// share a test name, category, and cleaned message signature.
type ClassifiedFailure struct {
	TestName string

	// IsFlake is true when the same test name also passed somewhere in the
	// batch under analysis. Flakiness is strictly batch-local; historical
	// pass rates play no part.
	IsFlake bool

	Category Category

	// RepresentativeMessage is the first cleaned message seen in document
	// order for this group. Unknown-category groups keep the original text
	// so an operator can inspect what failed to match.
	RepresentativeMessage string

	// OccurrenceCount is the number of raw failing observations folded in
	OccurrenceCount int
}

// AnalysisReport is the output of one analysis pipeline run. It is built
// fresh per request and never persisted.
type AnalysisReport struct {
	// Failures is ordered by category rule order, then occurrence count
	// descending, then test name ascending.
	Failures []ClassifiedFailure

	// Passed counts passing observations in the batch
	Passed int

	// Failed counts every failing observation, flaky or not
	Failed int

	// Skipped counts skipped observations; they never influence
	// flake determination
	Skipped int

	// Flaked counts the subset of failing observations whose test also
	// passed in the batch
	Flaked int
}

package testanalysis

import (
	"strings"

	"github.com/stbenjam/sippy-chat/pkg/aggregation"
	"github.com/stbenjam/sippy-chat/pkg/junit"
)

// observation is one pass/fail/skip sighting of a test name within the batch
// under analysis, whether it came from a plain test case or from one
// underlying run of an aggregated job.
type observation struct {
	testName string
	status   TestStatus
	message  string
}

// flattenSuites walks every suite at any nesting depth and splits the
// document into plain test case results and embedded aggregated summaries.
// A test case that carries an aggregated details document is represented by
// its per-run data only, never double-counted as a single result.
func flattenSuites(testSuites *junit.TestSuites) ([]TestCaseResult, []aggregation.SuiteSummary, error) {
	var results []TestCaseResult
	var aggregates []aggregation.SuiteSummary

	for _, suite := range testSuites.Suites {
		var err error
		results, aggregates, err = flattenSuite(nil, suite, results, aggregates)
		if err != nil {
			return nil, nil, err
		}
	}
	return results, aggregates, nil
}

func flattenSuite(parentNames []string, suite *junit.TestSuite, results []TestCaseResult, aggregates []aggregation.SuiteSummary) ([]TestCaseResult, []aggregation.SuiteSummary, error) {
	suiteNames := parentNames
	if len(suite.Name) > 0 {
		suiteNames = append(append([]string{}, parentNames...), suite.Name)
	}
	suitePath := strings.Join(suiteNames, "/")

	// a suite's own system-out may hold a full summary alongside ordinary cases
	suiteSummary, err := aggregation.ExtractFromSystemOut(suite.SystemOut)
	if err != nil {
		return nil, nil, err
	}
	if suiteSummary != nil {
		if len(suiteSummary.SuiteName) == 0 {
			suiteSummary.SuiteName = suitePath
		}
		aggregates = append(aggregates, *suiteSummary)
	}

	for _, testCase := range suite.TestCases {
		caseSummary, err := aggregation.ExtractFromSystemOut(testCase.SystemOut)
		if err != nil {
			return nil, nil, err
		}
		if caseSummary != nil {
			if len(caseSummary.TestName) == 0 {
				caseSummary.TestName = testCase.Name
			}
			if len(caseSummary.SuiteName) == 0 {
				caseSummary.SuiteName = suitePath
			}
			if message := failureMessage(testCase); len(message) > 0 {
				caseSummary.FailureMessage = message
			}
			aggregates = append(aggregates, *caseSummary)
			continue
		}
		results = append(results, resultForTestCase(suitePath, testCase))
	}

	for _, child := range suite.Children {
		results, aggregates, err = flattenSuite(suiteNames, child, results, aggregates)
		if err != nil {
			return nil, nil, err
		}
	}
	return results, aggregates, nil
}

func resultForTestCase(suitePath string, testCase *junit.TestCase) TestCaseResult {
	suite := testCase.Classname
	if len(suite) == 0 {
		suite = suitePath
	}
	result := TestCaseResult{
		Suite:           suite,
		Name:            testCase.Name,
		DurationSeconds: testCase.DurationSeconds(),
	}

	switch {
	case testCase.FailureOutput != nil:
		result.Status = TestFailed
		result.FailureMessage = failureMessage(testCase)
	case testCase.ErrorOutput != nil:
		result.Status = TestErrored
		result.FailureMessage = failureMessage(testCase)
	case testCase.SkipMessage != nil:
		result.Status = TestSkipped
	default:
		result.Status = TestPassed
	}
	return result
}

// failureMessage concatenates the message attribute and element text of the
// failure or error output, whichever parts are present.
func failureMessage(testCase *junit.TestCase) string {
	var message, output string
	switch {
	case testCase.FailureOutput != nil:
		message, output = testCase.FailureOutput.Message, testCase.FailureOutput.Output
	case testCase.ErrorOutput != nil:
		message, output = testCase.ErrorOutput.Message, testCase.ErrorOutput.Output
	default:
		return ""
	}

	parts := make([]string, 0, 2)
	if trimmed := strings.TrimSpace(message); len(trimmed) > 0 {
		parts = append(parts, trimmed)
	}
	if trimmed := strings.TrimSpace(output); len(trimmed) > 0 {
		parts = append(parts, trimmed)
	}
	return strings.Join(parts, "\n")
}

// observationsFor expands plain results and aggregated per-run outcomes into
// one uniform stream, preserving document order.
func observationsFor(results []TestCaseResult, aggregates []aggregation.SuiteSummary) []observation {
	observations := make([]observation, 0, len(results))

	for _, result := range results {
		observations = append(observations, observation{
			testName: result.Name,
			status:   result.Status,
			message:  result.FailureMessage,
		})
	}

	for _, summary := range aggregates {
		testName := summary.TestName
		if len(testName) == 0 {
			testName = summary.SuiteName
		}
		for _, run := range summary.Runs {
			current := observation{testName: testName}
			switch run.Outcome {
			case aggregation.RunFailed:
				current.status = TestFailed
				current.message = summary.FailureMessage
			case aggregation.RunSkipped:
				current.status = TestSkipped
			default:
				current.status = TestPassed
			}
			observations = append(observations, current)
		}
	}
	return observations
}

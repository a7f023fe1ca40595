package testanalysis

import (
	"github.com/stbenjam/sippy-chat/pkg/aggregation"
	"github.com/stbenjam/sippy-chat/pkg/junit"
)

// Analyzer runs the parse, classify, format pipeline over CI artifacts. The
// rule table and parse limits are fixed at construction; every call operates
// only on its own inputs, so one Analyzer may serve concurrent requests.
type Analyzer struct {
	categorizer *Categorizer
	parseOpts   junit.ParseOptions
}

// NewAnalyzer builds an analyzer. A nil categorizer selects DefaultRules;
// nil parse options select the default processing bounds.
func NewAnalyzer(categorizer *Categorizer, parseOpts *junit.ParseOptions) *Analyzer {
	if categorizer == nil {
		categorizer = NewCategorizer(DefaultRules())
	}
	analyzer := &Analyzer{categorizer: categorizer}
	if parseOpts != nil {
		analyzer.parseOpts = *parseOpts
	}
	return analyzer
}

// AnalyzeJUnit parses one jUnit XML document, harvests any aggregated run
// summaries embedded in <system-out>, and classifies the failures. Errors
// are *junit.ParseError, *junit.SizeLimitError, or *aggregation.ParseError;
// a report is never half-built.
func (a *Analyzer) AnalyzeJUnit(xmlText string) (*AnalysisReport, error) {
	testSuites, err := junit.Parse([]byte(xmlText), &a.parseOpts)
	if err != nil {
		return nil, err
	}
	junit.RedactTestSuites(testSuites)

	results, aggregates, err := flattenSuites(testSuites)
	if err != nil {
		return nil, err
	}
	return a.buildReport(results, aggregates), nil
}

// AnalyzeAggregated classifies a standalone aggregated summary document.
// Unlike the jUnit path, the caller asserted the artifact is aggregated, so
// text without the aggregated shape is an *aggregation.ParseError rather
// than an empty report.
func (a *Analyzer) AnalyzeAggregated(systemOutText string) (*AnalysisReport, error) {
	summary, err := aggregation.ExtractFromSystemOut(systemOutText)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, &aggregation.ParseError{Reason: "no aggregated test summary found"}
	}
	return a.buildReport(nil, []aggregation.SuiteSummary{*summary}), nil
}

func (a *Analyzer) buildReport(results []TestCaseResult, aggregates []aggregation.SuiteSummary) *AnalysisReport {
	observations := observationsFor(results, aggregates)
	passedNames := passedTestNames(observations)

	report := &AnalysisReport{
		Failures: a.classifyObservations(observations),
	}
	for _, current := range observations {
		switch current.status {
		case TestPassed:
			report.Passed++
		case TestSkipped:
			report.Skipped++
		default:
			report.Failed++
			if passedNames.Has(current.testName) {
				report.Flaked++
			}
		}
	}
	return report
}

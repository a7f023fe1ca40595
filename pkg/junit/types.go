package junit

import "encoding/xml"

// TestSuites represents a flat collection of jUnit test suites.
type TestSuites struct {
	XMLName xml.Name `xml:"testsuites"`

	// Suites are the jUnit test suites held in this collection
	Suites []*TestSuite `xml:"testsuite"`
}

// TestSuite represents a single jUnit test suite, potentially holding child suites.
type TestSuite struct {
	XMLName xml.Name `xml:"testsuite"`

	// Name is the name of the test suite
	Name string `xml:"name,attr,omitempty"`

	// NumTests records the number of tests in the suite
	NumTests uint `xml:"tests,attr,omitempty"`

	// NumSkipped records the number of skipped tests in the suite
	NumSkipped uint `xml:"skipped,attr,omitempty"`

	// NumFailed records the number of failed tests in the suite
	NumFailed uint `xml:"failures,attr,omitempty"`

	// Duration is the time taken in seconds to run all tests in the suite.
	// Kept as the raw attribute text so that a mangled value degrades to
	// zero instead of failing the whole document, see DurationSeconds.
	Duration string `xml:"time,attr,omitempty"`

	// Properties holds other properties of the test suite as a mapping of name to value
	Properties []*TestSuiteProperty `xml:"properties>property,omitempty"`

	// TestCases are the test cases contained in this suite
	TestCases []*TestCase `xml:"testcase"`

	// SystemOut is output written to stdout at the suite level. Aggregated
	// jobs use it to carry a per-suite summary document.
	SystemOut string `xml:"system-out,omitempty"`

	// Children holds nested test suites
	Children []*TestSuite `xml:"testsuite"`
}

// TestSuiteProperty is a name/value pair on a test suite.
type TestSuiteProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// TestCase represents one jUnit test case result.
type TestCase struct {
	// Name is the name of the test case
	Name string `xml:"name,attr"`

	// Classname is the name of the class or suite that owns the test case
	Classname string `xml:"classname,attr,omitempty"`

	// Duration is the time taken in seconds to run the test, raw attribute text
	Duration string `xml:"time,attr,omitempty"`

	// SkipMessage holds the reason why the test was skipped
	SkipMessage *SkipMessage `xml:"skipped,omitempty"`

	// FailureOutput holds the output from a failing test
	FailureOutput *FailureOutput `xml:"failure,omitempty"`

	// ErrorOutput holds the output from a test that errored before it could fail
	ErrorOutput *ErrorOutput `xml:"error,omitempty"`

	// SystemOut is output written to stdout during the test
	SystemOut string `xml:"system-out,omitempty"`

	// SystemErr is output written to stderr during the test
	SystemErr string `xml:"system-err,omitempty"`
}

// SkipMessage holds a message explaining why a test was skipped.
type SkipMessage struct {
	Message string `xml:"message,attr,omitempty"`
}

// FailureOutput holds the message and output from a failed test.
type FailureOutput struct {
	Message string `xml:"message,attr,omitempty"`
	Output  string `xml:",chardata"`
}

// ErrorOutput holds the message and output from a test that errored.
type ErrorOutput struct {
	Message string `xml:"message,attr,omitempty"`
	Output  string `xml:",chardata"`
}

// DurationSeconds returns the suite duration in seconds, zero when the
// attribute is absent or malformed.
func (ts *TestSuite) DurationSeconds() float64 {
	return parseSeconds(ts.Duration)
}

// DurationSeconds returns the test case duration in seconds, zero when the
// attribute is absent or malformed.
func (tc *TestCase) DurationSeconds() float64 {
	return parseSeconds(tc.Duration)
}

package junit

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	// DefaultMaxBytes bounds how large a jUnit document we are willing to decode.
	DefaultMaxBytes = 20 * 1024 * 1024

	// DefaultMaxTestCases bounds how many test cases one document may hold.
	DefaultMaxTestCases = 50000
)

// ParseOptions bound the resources one parse may consume. CI artifacts are
// fetched from the outside world and may be corrupted or adversarial, so
// exceeding a bound is a distinct, fast error rather than an OOM.
type ParseOptions struct {
	MaxBytes     int
	MaxTestCases int
}

func (o *ParseOptions) withDefaults() ParseOptions {
	out := ParseOptions{MaxBytes: DefaultMaxBytes, MaxTestCases: DefaultMaxTestCases}
	if o == nil {
		return out
	}
	if o.MaxBytes > 0 {
		out.MaxBytes = o.MaxBytes
	}
	if o.MaxTestCases > 0 {
		out.MaxTestCases = o.MaxTestCases
	}
	return out
}

// ParseError reports a document that is not well-formed XML or does not hold
// the expected testsuite structure.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid jUnit document: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SizeLimitError reports an input that exceeds the configured processing bounds.
type SizeLimitError struct {
	What   string
	Limit  int
	Actual int
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("jUnit document exceeds the maximum of %d %s (got %d)", e.Limit, e.What, e.Actual)
}

// Parse decodes one jUnit XML document. Both a <testsuites> collection and a
// bare <testsuite> root are accepted, as CI tooling emits either. Missing
// optional attributes default rather than failing the parse; only structural
// problems surface as *ParseError.
func Parse(raw []byte, opts *ParseOptions) (*TestSuites, error) {
	limits := opts.withDefaults()
	if len(raw) > limits.MaxBytes {
		return nil, &SizeLimitError{What: "bytes", Limit: limits.MaxBytes, Actual: len(raw)}
	}

	root, err := rootElement(raw)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	var testSuites *TestSuites
	switch root {
	case "testsuites":
		testSuites = &TestSuites{}
		if err := xml.Unmarshal(raw, testSuites); err != nil {
			return nil, &ParseError{Err: err}
		}
	case "testsuite":
		suite := &TestSuite{}
		if err := xml.Unmarshal(raw, suite); err != nil {
			return nil, &ParseError{Err: err}
		}
		testSuites = &TestSuites{Suites: []*TestSuite{suite}}
	default:
		return nil, &ParseError{Err: fmt.Errorf("unexpected root element <%s>", root)}
	}

	if len(testSuites.Suites) == 0 {
		return nil, &ParseError{Err: fmt.Errorf("document holds no test suites")}
	}
	if count := countTestCases(testSuites); count > limits.MaxTestCases {
		return nil, &SizeLimitError{What: "test cases", Limit: limits.MaxTestCases, Actual: count}
	}

	return testSuites, nil
}

func rootElement(raw []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return "", fmt.Errorf("document holds no elements")
		}
		if err != nil {
			return "", err
		}
		if start, ok := token.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}

func countTestCases(testSuites *TestSuites) int {
	count := 0
	for _, suite := range testSuites.Suites {
		count += countSuiteTestCases(suite)
	}
	return count
}

func countSuiteTestCases(suite *TestSuite) int {
	count := len(suite.TestCases)
	for _, child := range suite.Children {
		count += countSuiteTestCases(child)
	}
	return count
}

func parseSeconds(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	// some producers write "1,983.5"
	seconds, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil || seconds < 0 {
		return 0
	}
	return seconds
}

package junit

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const junitXML = `<testsuites>
<testsuite tests="3" failures="1" time="1983" name="openshift-tests">
<properties>
<property name="go.version" value="go1.17.5 linux/amd64"/>
</properties>
<testcase classname="" name="TestUpgradeControlPlane" time="1983"/>
<testcase name="TestLogin" time="12.5">
<failure message="assertion failed">expected 200, got 503</failure>
</testcase>
<testcase name="TestTeardown">
<skipped message="cluster already gone"/>
</testcase>
<testsuite name="nested">
<testcase name="TestNested">
<error message="process exited">entrypoint received SIGTERM</error>
</testcase>
</testsuite>
</testsuite>
</testsuites>`

func TestParseWalksNestedSuites(t *testing.T) {
	suites, err := Parse([]byte(junitXML), nil)
	if err != nil {
		t.Fatalf("could not parse: %v", err)
	}
	if len(suites.Suites) != 1 {
		t.Fatalf("expected 1 top-level suite, got %d", len(suites.Suites))
	}

	suite := suites.Suites[0]
	if diff := cmp.Diff("openshift-tests", suite.Name); diff != "" {
		t.Errorf("suite name mismatch (-want +got): %s", diff)
	}
	if len(suite.TestCases) != 3 {
		t.Errorf("expected 3 test cases, got %d", len(suite.TestCases))
	}
	if len(suite.Children) != 1 || len(suite.Children[0].TestCases) != 1 {
		t.Fatalf("expected one nested suite holding one test case, got %+v", suite.Children)
	}

	if suite.TestCases[1].FailureOutput == nil {
		t.Fatal("expected TestLogin to carry failure output")
	}
	if diff := cmp.Diff("assertion failed", suite.TestCases[1].FailureOutput.Message); diff != "" {
		t.Errorf("failure message mismatch (-want +got): %s", diff)
	}
	if suite.TestCases[2].SkipMessage == nil {
		t.Error("expected TestTeardown to carry a skip message")
	}
	if suite.Children[0].TestCases[0].ErrorOutput == nil {
		t.Error("expected TestNested to carry error output")
	}
}

func TestParseAcceptsBareTestSuiteRoot(t *testing.T) {
	raw := `<testsuite name="solo"><testcase name="TestOne"/></testsuite>`
	suites, err := Parse([]byte(raw), nil)
	if err != nil {
		t.Fatalf("could not parse: %v", err)
	}
	if len(suites.Suites) != 1 || suites.Suites[0].Name != "solo" {
		t.Errorf("unexpected suites: %+v", suites.Suites)
	}
}

func TestParseErrors(t *testing.T) {
	var testCases = []struct {
		name  string
		input string
	}{
		{name: "malformed xml", input: `<testsuites><testsuite`},
		{name: "unexpected root", input: `<html><body/></html>`},
		{name: "empty document", input: ``},
		{name: "no suites", input: `<testsuites></testsuites>`},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := Parse([]byte(testCase.input), nil)
			parseErr := &ParseError{}
			if !errors.As(err, &parseErr) {
				t.Errorf("expected a *ParseError, got %v", err)
			}
		})
	}
}

func TestParseSizeLimits(t *testing.T) {
	t.Run("byte limit", func(t *testing.T) {
		_, err := Parse([]byte(junitXML), &ParseOptions{MaxBytes: 10})
		sizeErr := &SizeLimitError{}
		if !errors.As(err, &sizeErr) {
			t.Fatalf("expected a *SizeLimitError, got %v", err)
		}
		if sizeErr.Limit != 10 {
			t.Errorf("expected limit 10, got %d", sizeErr.Limit)
		}
	})

	t.Run("test case limit", func(t *testing.T) {
		var b strings.Builder
		b.WriteString(`<testsuite name="big">`)
		for i := 0; i < 20; i++ {
			fmt.Fprintf(&b, `<testcase name="Test%d"/>`, i)
		}
		b.WriteString(`</testsuite>`)

		_, err := Parse([]byte(b.String()), &ParseOptions{MaxTestCases: 10})
		sizeErr := &SizeLimitError{}
		if !errors.As(err, &sizeErr) {
			t.Fatalf("expected a *SizeLimitError, got %v", err)
		}
		if sizeErr.Actual != 20 {
			t.Errorf("expected actual count 20, got %d", sizeErr.Actual)
		}
	})
}

func TestDurationSecondsDefaults(t *testing.T) {
	var testCases = []struct {
		name     string
		raw      string
		expected float64
	}{
		{name: "missing", raw: "", expected: 0},
		{name: "malformed", raw: "forever", expected: 0},
		{name: "negative", raw: "-1", expected: 0},
		{name: "plain", raw: "12.5", expected: 12.5},
		{name: "thousands separator", raw: "1,983.5", expected: 1983.5},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			tc := &TestCase{Duration: testCase.raw}
			if actual := tc.DurationSeconds(); actual != testCase.expected {
				t.Errorf("expected %v, got %v", testCase.expected, actual)
			}
		})
	}
}

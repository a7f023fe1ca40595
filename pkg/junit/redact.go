package junit

import "regexp"

// CI artifacts routinely leak credentials through failure output and stdout
// captures. These patterns cover the shapes we have actually seen in job
// runs; test case and suite names are left alone so downstream grouping keys
// stay stable.
var redactions = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)(authorization:\s*(?:bearer|basic)\s+)\S+`), "${1}REDACTED"},
	{regexp.MustCompile(`(?i)\b(token|password|secret|apikey|api_key)(["']?\s*[:=]\s*["']?)[^\s"',}]+`), "${1}${2}REDACTED"},
	{regexp.MustCompile(`(https?://[^/\s:@]+):[^@\s/]+@`), "${1}:REDACTED@"},
	{regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`), "REDACTED"},
}

// RedactTestSuites masks credential-shaped tokens in the user-provided fields
// of every suite in the collection.
func RedactTestSuites(testSuites *TestSuites) {
	if testSuites == nil {
		return
	}
	for _, suite := range testSuites.Suites {
		RedactTestSuite(suite)
	}
}

// RedactTestSuite masks credential-shaped tokens in the user-provided fields
// of a jUnit test suite and all of its children.
func RedactTestSuite(testSuite *TestSuite) {
	if testSuite == nil {
		return
	}
	for i := range testSuite.Properties {
		testSuite.Properties[i].Value = redacted(testSuite.Properties[i].Value)
	}
	testSuite.SystemOut = redacted(testSuite.SystemOut)
	for i := range testSuite.TestCases {
		if testSuite.TestCases[i].SkipMessage != nil {
			testSuite.TestCases[i].SkipMessage.Message = redacted(testSuite.TestCases[i].SkipMessage.Message)
		}
		if testSuite.TestCases[i].FailureOutput != nil {
			testSuite.TestCases[i].FailureOutput.Message = redacted(testSuite.TestCases[i].FailureOutput.Message)
			testSuite.TestCases[i].FailureOutput.Output = redacted(testSuite.TestCases[i].FailureOutput.Output)
		}
		if testSuite.TestCases[i].ErrorOutput != nil {
			testSuite.TestCases[i].ErrorOutput.Message = redacted(testSuite.TestCases[i].ErrorOutput.Message)
			testSuite.TestCases[i].ErrorOutput.Output = redacted(testSuite.TestCases[i].ErrorOutput.Output)
		}
		testSuite.TestCases[i].SystemOut = redacted(testSuite.TestCases[i].SystemOut)
		testSuite.TestCases[i].SystemErr = redacted(testSuite.TestCases[i].SystemErr)
	}
	for i := range testSuite.Children {
		RedactTestSuite(testSuite.Children[i])
	}
}

func redacted(value string) string {
	for _, redaction := range redactions {
		value = redaction.pattern.ReplaceAllString(value, redaction.replacement)
	}
	return value
}

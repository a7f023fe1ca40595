package testanalysis

import (
	"regexp"
	"strings"
)

// maxCleanedLength caps cleaned messages; past this point stack traces stop
// adding signal and only bloat reports.
const maxCleanedLength = 400

// Ephemeral, run-specific tokens are masked so that two failures differing
// only in identifiers produce the same signature. The masks contain no
// digits or long hex runs, which keeps cleaning idempotent: re-cleaning a
// cleaned message is a no-op.
var (
	isoTimestampPattern = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?\b`)
	clockPattern        = regexp.MustCompile(`\b\d{1,2}:\d{2}:\d{2}(?:\.\d+)?\b`)
	uuidPattern         = regexp.MustCompile(`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`)
	hexRunPattern       = regexp.MustCompile(`\b[0-9a-f]{12,}\b`)
	ipAddrPattern       = regexp.MustCompile(`\b\d{1,3}(?:\.\d{1,3}){3}(?::\d+)?\b`)
	fileLinePattern     = regexp.MustCompile(`\b[\w./-]+\.(?:go|py|sh|js|ts|java|cs|cpp|rs|yaml|yml|json):\d+\b`)
	longDigitPattern    = regexp.MustCompile(`\b\d{8,}\b`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
)

// CleanMessage normalizes a raw failure message into its signature form:
//   - whitespace runs collapse to one space
//   - ISO-8601 timestamps become <timestamp>, bare clock times <time>
//   - UUIDs become <uuid>, hex runs of 12+ and digit runs of 8+ become <id>
//   - ip[:port] endpoints become <addr>
//   - file:line tokens become <file>
//   - the result is truncated at a word boundary past maxCleanedLength
//
// The mask order matters: timestamps are masked before clock times and digit
// runs can fragment them, and UUIDs before the plain hex run pattern.
func CleanMessage(message string) string {
	cleaned := whitespacePattern.ReplaceAllString(message, " ")
	cleaned = isoTimestampPattern.ReplaceAllString(cleaned, "<timestamp>")
	cleaned = clockPattern.ReplaceAllString(cleaned, "<time>")
	cleaned = uuidPattern.ReplaceAllString(cleaned, "<uuid>")
	cleaned = hexRunPattern.ReplaceAllString(cleaned, "<id>")
	cleaned = ipAddrPattern.ReplaceAllString(cleaned, "<addr>")
	cleaned = fileLinePattern.ReplaceAllString(cleaned, "<file>")
	cleaned = longDigitPattern.ReplaceAllString(cleaned, "<id>")
	cleaned = strings.TrimSpace(cleaned)
	return truncateAtWordBoundary(cleaned, maxCleanedLength)
}

func truncateAtWordBoundary(message string, limit int) string {
	if len(message) <= limit {
		return message
	}
	// the marker fits inside the limit so truncation is idempotent too
	truncateAt := limit - len(" ...")
	if spaceAt := strings.LastIndex(message[:truncateAt], " "); spaceAt > limit/2 {
		truncateAt = spaceAt
	}
	return message[:truncateAt] + " ..."
}

// Package reconcile matches the ticket records fetched from the API against
// an externally supplied roster file and produces the merged attendee report.
package reconcile

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanWhitespace collapses internal runs of whitespace to a single space and
// trims leading and trailing whitespace. Idempotent.
func CleanWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// NameKey builds the join key for a name: whitespace-cleaned, then
// lower-cased. Both record sources go through this same function so their
// keys stay comparable.
func NameKey(s string) string {
	return strings.ToLower(CleanWhitespace(s))
}

// FullNameKey builds the join key from separate first and last name fields,
// as roster exports provide them.
func FullNameKey(first, last string) string {
	return NameKey(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

package shellbridge

import (
	"regexp"
	"strings"
)

// hardFailureSubstrings is the closed set of case-insensitive substrings
// that indicate an unrecoverable assistant state: further streaming cannot
// recover, so the caller kills the child immediately.
var hardFailureSubstrings = []string{
	"authentication failed",
	"invalid api key",
	"quota exceeded",
	"rate limit",
	"model not found",
	"internal server error",
	"connection reset",
	"disconnected",
	"context deadline exceeded",
}

// fiveXXPattern matches a bare 3-digit 5xx HTTP status code appearing in
// assistant output.
var fiveXXPattern = regexp.MustCompile(`\b5\d{2}\b`)

// DetectHardFailure scans text (already known to be either the rendered
// error-context buffer or the fallback-stdout buffer) for a hard-failure
// signal. It returns the matched signal and true if found.
func DetectHardFailure(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, signal := range hardFailureSubstrings {
		if strings.Contains(lower, signal) {
			return signal, true
		}
	}
	if loc := fiveXXPattern.FindString(lower); loc != "" {
		return loc, true
	}
	return "", false
}

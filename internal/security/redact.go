package security

import (
	"regexp"
)

// Patterns for sensitive data that can surface in streamed exec output or
// container logs: SSH key material, bearer tokens, passwords embedded in
// remote URLs, and base64 blobs sitting next to an auth-shaped key.
var (
	bearerTokenPattern = regexp.MustCompile(`(?i)bearer[[:space:]]+([a-zA-Z0-9_\-.]+)`)
	privateKeyPattern  = regexp.MustCompile(`(?s)-----BEGIN[[:space:]]+(?:RSA[[:space:]]+|OPENSSH[[:space:]]+)?PRIVATE[[:space:]]+KEY-----.*?-----END[[:space:]]+(?:RSA[[:space:]]+|OPENSSH[[:space:]]+)?PRIVATE[[:space:]]+KEY-----`)
	urlPasswordPattern = regexp.MustCompile(`(?i)(https?|ssh|git)://[^:/@]+:([^@]+)@`)
	authBase64Pattern  = regexp.MustCompile(`(?i)(auth|token|key|secret|password)[^=:]*[:=]\s*["'` + "`" + `]?([A-Za-z0-9+/]{20,}={0,2})`)
)

// LogSanitizer redacts secret-shaped substrings from text before it reaches a
// log sink.
type LogSanitizer struct{}

// NewLogSanitizer constructs a LogSanitizer.
func NewLogSanitizer() *LogSanitizer {
	return &LogSanitizer{}
}

// Sanitize redacts known secret shapes from message.
func (ls *LogSanitizer) Sanitize(message string) string {
	message = bearerTokenPattern.ReplaceAllString(message, "Bearer [REDACTED]")
	message = privateKeyPattern.ReplaceAllString(message, "[REDACTED-PRIVATE-KEY]")
	message = urlPasswordPattern.ReplaceAllString(message, "${1}://[REDACTED]@")
	message = authBase64Pattern.ReplaceAllString(message, "${1}=[REDACTED]")
	return message
}

// SanitizeError sanitizes an error's message, returning "" for a nil error.
func (ls *LogSanitizer) SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return ls.Sanitize(err.Error())
}

package manifest

import "fmt"

// ValidationError reports a structurally invalid artifact with the stable
// "invalid <artifact>: <message>" prefix spec §4.3 and §8 require for
// artifact parsers.
type ValidationError struct {
	Artifact string
	Message  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Artifact, e.Message)
}

// newValidationError constructs a ValidationError for the named artifact.
func newValidationError(artifact, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Artifact: artifact, Message: fmt.Sprintf(format, args...)}
}

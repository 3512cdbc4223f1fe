// Package pipelineerr defines the sentinel errors for the seven error
// categories stage engines classify failures into. Callers wrap these with
// fmt.Errorf("...: %w", ErrX) so errors.Is still matches the category after
// context is added.
package pipelineerr

import "errors"

var (
	// ErrPrecondition covers missing or inconsistent user inputs: unknown
	// project, unresolved branch, bad plan ID, unresolved plan issues,
	// missing planner sections, max_validate_passes=0.
	ErrPrecondition = errors.New("precondition failed")

	// ErrRuntimeAbsent covers an absent container runtime, missing
	// container, or failed health check.
	ErrRuntimeAbsent = errors.New("runtime unavailable")

	// ErrArtifactInvalid covers a missing expected state file, invalid
	// JSON, or required fields absent or of the wrong type.
	ErrArtifactInvalid = errors.New("artifact missing or invalid")

	// ErrBlocking covers blocking issues remaining after max validate
	// passes, a review blocking release, or a merge conflict.
	ErrBlocking = errors.New("workflow blocked")

	// ErrAssistantRuntime covers a hard-failure signal detected in
	// assistant output: auth/quota/5xx/disconnect.
	ErrAssistantRuntime = errors.New("assistant runtime failure")

	// ErrCancelled is returned verbatim as "Cancelled by user." to match
	// spec's literal user-visible cancellation message.
	ErrCancelled = errors.New("Cancelled by user.")

	// ErrUnexpected covers anything else: I/O failures, encoding errors.
	ErrUnexpected = errors.New("unexpected error")
)

// Package promptbuilder constructs the deterministic, per-stage prompts the
// stage engines send to the in-container assistant. Each builder is a pure
// function of its inputs so that retrying an attempt reissues the identical
// prompt.
package promptbuilder

import (
	"fmt"
	"strings"

	"github.com/jdharrison/smith/internal/skills"
	"github.com/jdharrison/smith/internal/template"
)

// Phase names, matching the embedded skill manifest's phase tags.
const (
	PhasePlan          = "plan"
	PhaseDevelop       = "develop"
	PhaseValidate      = "validate"
	PhaseReleaseReview = "release_review"
	PhaseSync          = "sync"
)

// Builder composes the universal safety/environment preamble with a
// stage-specific skill body, then substitutes run-specific variables.
type Builder struct {
	selector *skills.Selector
}

// New constructs a Builder from the embedded skill set.
func New() (*Builder, error) {
	selector, err := skills.LoadDefaultSelector()
	if err != nil {
		return nil, err
	}
	return &Builder{selector: selector}, nil
}

func (b *Builder) render(phase string, vars map[string]string) string {
	body := b.selector.SelectForPhase(phase)
	return template.RenderPrompt(body, vars)
}

// EscapeSingleQuotes guards free-form text (task descriptions, branch
// names) interpolated into a prompt that may itself be echoed into a shell
// command downstream: a literal single quote becomes '"'"'.
func EscapeSingleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", `'"'"'`)
}

// PlanPrompt builds the Plan stage prompt.
func (b *Builder) PlanPrompt(planDir, task string) string {
	return b.render(PhasePlan, map[string]string{
		"plan_dir": planDir,
		"task":     EscapeSingleQuotes(task),
	})
}

// DevelopPrompt builds the Develop stage's developer prompt for attempt n.
func (b *Builder) DevelopPrompt(planDir, task, artifactPath string, attempt, maxAttempts int) string {
	return b.render(PhaseDevelop, map[string]string{
		"plan_dir":      planDir,
		"task":          EscapeSingleQuotes(task),
		"artifact_path": artifactPath,
		"attempt":       fmt.Sprintf("%d", attempt),
		"max_attempts":  fmt.Sprintf("%d", maxAttempts),
	})
}

// ValidatePrompt builds the Develop stage's validator prompt for attempt n.
func (b *Builder) ValidatePrompt(artifactPath string, attempt, maxAttempts int) string {
	return b.render(PhaseValidate, map[string]string{
		"artifact_path": artifactPath,
		"attempt":       fmt.Sprintf("%d", attempt),
		"max_attempts":  fmt.Sprintf("%d", maxAttempts),
	})
}

// ReleaseReviewPrompt builds the Release stage's review prompt.
func (b *Builder) ReleaseReviewPrompt(artifactPath string) string {
	return b.render(PhaseReleaseReview, map[string]string{
		"artifact_path": artifactPath,
	})
}

// SyncPrompt builds the Release stage's sync prompt.
func (b *Builder) SyncPrompt(artifactPath, base string) string {
	return b.render(PhaseSync, map[string]string{
		"artifact_path": artifactPath,
		"base":          EscapeSingleQuotes(base),
	})
}

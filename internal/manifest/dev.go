package manifest

// NewDevRunManifest constructs the initial DevRunManifest, state
// "in_progress", phase "setup".
func NewDevRunManifest(devRunID, shortPlanID, project, branch, base, planID, task string, maxValidatePasses int, now int64) *DevRunManifest {
	return &DevRunManifest{
		DevRunID:          devRunID,
		ShortPlanID:       shortPlanID,
		Project:           project,
		Branch:            branch,
		Base:              base,
		PlanID:            planID,
		Task:              task,
		MaxValidatePasses: maxValidatePasses,
		State:             DevInProgress,
		Phase:             "setup",
		Attempts:          []Attempt{},
		NonBlockingIssues: []string{},
		Errors:            []string{},
		CreatedAtUnix:     now,
		UpdatedAtUnix:     now,
	}
}

// SetState transitions state and phase, bumping UpdatedAtUnix.
func (m *DevRunManifest) SetState(state DevRunState, phase string, now int64) {
	m.State = state
	m.Phase = phase
	m.UpdatedAtUnix = now
}

// SetPhase updates only Phase, bumping UpdatedAtUnix.
func (m *DevRunManifest) SetPhase(phase string, now int64) {
	m.Phase = phase
	m.UpdatedAtUnix = now
}

// AppendError records an error string and bumps UpdatedAtUnix.
func (m *DevRunManifest) AppendError(msg string, now int64) {
	m.Errors = append(m.Errors, msg)
	m.UpdatedAtUnix = now
}

// AppendAttempt records one develop/validate pass. Per spec §5's ordering
// rule, callers append only after the assurance artifact has been parsed.
func (m *DevRunManifest) AppendAttempt(a Attempt, now int64) {
	m.Attempts = append(m.Attempts, a)
	m.UpdatedAtUnix = now
}

// IsBlocking reports whether an assurance report blocks the develop/validate
// loop from advancing: verdict=fail or any blocking issue.
func IsBlocking(report *AssuranceReport) bool {
	return report.Verdict == VerdictFail || len(report.BlockingIssues) > 0
}

// Finalize records the terminal verdict and optional commit hash, marking
// the run completed.
func (m *DevRunManifest) Finalize(verdict, commit string, nonBlocking []string, now int64) {
	m.FinalVerdict = verdict
	m.FinalCommit = commit
	m.NonBlockingIssues = nonBlocking
	m.SetState(DevCompleted, "done", now)
}

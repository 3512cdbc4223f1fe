package manifest

// NewReleaseRunManifest constructs the initial ReleaseRunManifest, state
// "in_progress", phase "review".
func NewReleaseRunManifest(releaseRunID, shortPlanID, project, branch, base, planID, devRunID string, now int64) *ReleaseRunManifest {
	return &ReleaseRunManifest{
		ReleaseRunID:      releaseRunID,
		ShortPlanID:       shortPlanID,
		Project:           project,
		Branch:            branch,
		Base:              base,
		PlanID:            planID,
		DevRunID:          devRunID,
		State:             ReleaseInProgress,
		Phase:             "review",
		NonBlockingIssues: []string{},
		Errors:            []string{},
		CreatedAtUnix:     now,
		UpdatedAtUnix:     now,
	}
}

// SetState transitions state and phase, bumping UpdatedAtUnix.
func (m *ReleaseRunManifest) SetState(state ReleaseRunState, phase string, now int64) {
	m.State = state
	m.Phase = phase
	m.UpdatedAtUnix = now
}

// SetPhase updates only Phase, bumping UpdatedAtUnix.
func (m *ReleaseRunManifest) SetPhase(phase string, now int64) {
	m.Phase = phase
	m.UpdatedAtUnix = now
}

// AppendError records an error string and bumps UpdatedAtUnix.
func (m *ReleaseRunManifest) AppendError(msg string, now int64) {
	m.Errors = append(m.Errors, msg)
	m.UpdatedAtUnix = now
}

// SetReview records the review report's verdict fields.
func (m *ReleaseRunManifest) SetReview(report *ReleaseReviewReport, now int64) {
	ready := report.ReleaseReady
	m.ReviewReady = &ready
	m.NonBlockingIssues = report.NonBlockingIssues
	m.UpdatedAtUnix = now
}

// SetIntegration records the integration outcome.
func (m *ReleaseRunManifest) SetIntegration(result *IntegrateResult, now int64) {
	status := IntegrationStatus(result.Status)
	m.IntegrationStatus = &status
	m.MergeStrategy = result.Strategy
	m.MergeCommit = result.MergeCommit
	m.UpdatedAtUnix = now
}

// ReviewBlocksRelease reports whether the review outcome should skip
// integration: release_ready=false or any blocking issue.
func ReviewBlocksRelease(report *ReleaseReviewReport) bool {
	return !report.ReleaseReady || len(report.BlockingIssues) > 0
}

// Finalize computes the terminal release state per spec §4.7 step 4:
// completed iff integration_status=ok; failed when integration_status is
// blocked, any other value, or unset. The blocked/failed distinction is
// carried to the plan by FinalPlanState, not by the release state.
func (m *ReleaseRunManifest) Finalize(now int64) {
	switch {
	case m.IntegrationStatus != nil && *m.IntegrationStatus == IntegrationBlocked:
		m.SetState(ReleaseFailed, "finalize", now)
	case m.IntegrationStatus == nil || *m.IntegrationStatus != IntegrationOK:
		m.SetState(ReleaseFailed, "finalize", now)
	default:
		m.SetState(ReleaseCompleted, "finalize", now)
	}
}

// FinalPlanState computes the PlanManifest terminal state this release run
// implies: released on success, release_blocked if integration was blocked,
// release_failed otherwise.
func (m *ReleaseRunManifest) FinalPlanState() PlanState {
	switch {
	case m.IntegrationStatus != nil && *m.IntegrationStatus == IntegrationOK:
		return PlanReleased
	case m.IntegrationStatus != nil && *m.IntegrationStatus == IntegrationBlocked:
		return PlanReleaseBlocked
	default:
		return PlanReleaseFailed
	}
}

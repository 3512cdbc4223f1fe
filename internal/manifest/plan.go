package manifest

// NewPlanManifest constructs the initial PlanManifest for a freshly
// allocated plan, state "not_started".
func NewPlanManifest(runID, shortID, project, branch, prompt string, now int64) *PlanManifest {
	return &PlanManifest{
		RunID:         runID,
		ShortID:       shortID,
		Project:       project,
		Branch:        branch,
		Prompt:        prompt,
		State:         PlanNotStarted,
		Phase:         "planner",
		CreatedAtUnix: now,
		UpdatedAtUnix: now,
		Artifacts:     map[string]string{},
		RoleStatus:    map[string]RoleStatus{},
		Issues:        []Issue{},
		Replies:       []Reply{},
		Errors:        []string{},
	}
}

// SetState transitions state and phase, bumping UpdatedAtUnix.
func (m *PlanManifest) SetState(state PlanState, phase string, now int64) {
	m.State = state
	m.Phase = phase
	m.UpdatedAtUnix = now
}

// AppendError records an error string and bumps UpdatedAtUnix.
func (m *PlanManifest) AppendError(msg string, now int64) {
	m.Errors = append(m.Errors, msg)
	m.UpdatedAtUnix = now
}

// SetRoleStatus records a single plan artifact's verification result.
func (m *PlanManifest) SetRoleStatus(role string, status RoleStatus, now int64) {
	if m.RoleStatus == nil {
		m.RoleStatus = map[string]RoleStatus{}
	}
	m.RoleStatus[role] = status
	m.UpdatedAtUnix = now
}

// AllRolesOK reports whether every artifact named in PlanArtifactNames has
// RoleOK status.
func (m *PlanManifest) AllRolesOK() bool {
	for _, role := range PlanArtifactNames {
		if m.RoleStatus[role] != RoleOK {
			return false
		}
	}
	return true
}

// AddReply appends a free-text reply and, per spec §4.8, fills every
// currently-unanswered issue's Answer with the reply text.
func (m *PlanManifest) AddReply(text string, now int64) {
	m.Replies = append(m.Replies, Reply{SubmittedAtUnix: now, Text: text})
	for i := range m.Issues {
		if m.Issues[i].Answer == nil {
			answer := text
			m.Issues[i].Answer = &answer
		}
	}
	m.UpdatedAtUnix = now
}

// UnresolvedPlanIssues returns issues with no Answer set. Per the
// conservative reading of spec §4.3, a single free-text reply resolves
// every then-open issue (AddReply fills each nil Answer at reply time), so
// this is non-empty only for issues raised with no answer and never
// subsequently covered by a reply.
func UnresolvedPlanIssues(m *PlanManifest) []Issue {
	var unresolved []Issue
	for _, issue := range m.Issues {
		if issue.Answer == nil {
			unresolved = append(unresolved, issue)
		}
	}
	return unresolved
}

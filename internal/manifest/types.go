// Package manifest defines the typed JSON documents written to a spawn
// container's /state tree — PlanManifest, DevRunManifest,
// ReleaseRunManifest, and the assurance/review reports the assistant
// produces — along with their state setters and planner-artifact parsers.
package manifest

// PlanState enumerates PlanManifest.State values.
type PlanState string

const (
	PlanNotStarted    PlanState = "not_started"
	PlanInProgress    PlanState = "in_progress"
	PlanCompleted     PlanState = "completed"
	PlanFailed        PlanState = "failed"
	PlanReleased      PlanState = "released"
	PlanReleaseBlocked PlanState = "release_blocked"
	PlanReleaseFailed PlanState = "release_failed"
)

// RoleStatus enumerates a single plan artifact's verification result.
type RoleStatus string

const (
	RoleOK     RoleStatus = "ok"
	RoleFailed RoleStatus = "failed"
)

// PlanArtifactNames is the ordered, fixed set of role artifacts Plan verifies.
var PlanArtifactNames = []string{"producer", "architect", "designer", "planner"}

// Issue is one open question a planner artifact raised, and its eventual
// answer.
type Issue struct {
	ID       int     `json:"id"`
	Question string  `json:"question"`
	Answer   *string `json:"answer"`
}

// Reply is one free-text reply recorded against a plan via Review.
type Reply struct {
	SubmittedAtUnix int64  `json:"submitted_at_unix"`
	Text            string `json:"text"`
}

// PlanManifest is the durable record of one Plan run.
type PlanManifest struct {
	RunID          string            `json:"run_id"`
	ShortID        string            `json:"short_id"`
	Project        string            `json:"project"`
	Branch         string            `json:"branch"`
	Prompt         string            `json:"prompt"`
	State          PlanState         `json:"state"`
	Phase          string            `json:"phase"`
	CreatedAtUnix  int64             `json:"created_at_unix"`
	UpdatedAtUnix  int64             `json:"updated_at_unix"`
	Artifacts      map[string]string `json:"artifacts"`
	RoleStatus     map[string]RoleStatus `json:"role_status"`
	Summary        string            `json:"summary"`
	Issues         []Issue           `json:"issues"`
	Replies        []Reply           `json:"replies"`
	Errors         []string          `json:"errors"`
}

// DevRunState enumerates DevRunManifest.State values.
type DevRunState string

const (
	DevInProgress DevRunState = "in_progress"
	DevCompleted  DevRunState = "completed"
	DevFailed     DevRunState = "failed"
)

// Attempt is one develop/validate pass within a Develop run.
type Attempt struct {
	Attempt           int      `json:"attempt"`
	DevelopArtifact    string   `json:"develop_artifact"`
	AssuranceArtifact  string   `json:"assurance_artifact"`
	Verdict            string   `json:"verdict"`
	BlockingIssues     []string `json:"blocking_issues"`
	NonBlockingIssues  []string `json:"non_blocking_issues"`
}

// DevRunManifest is the durable record of one Develop run.
type DevRunManifest struct {
	DevRunID          string      `json:"dev_run_id"`
	ShortPlanID       string      `json:"short_plan_id"`
	Project           string      `json:"project"`
	Branch            string      `json:"branch"`
	Base              string      `json:"base"`
	PlanID            string      `json:"plan_id"`
	Task              string      `json:"task"`
	MaxValidatePasses int         `json:"max_validate_passes"`
	State             DevRunState `json:"state"`
	Phase             string      `json:"phase"`
	Attempts          []Attempt   `json:"attempts"`
	FinalVerdict      string      `json:"final_verdict,omitempty"`
	FinalCommit       string      `json:"final_commit,omitempty"`
	NonBlockingIssues []string    `json:"non_blocking_issues"`
	Errors            []string    `json:"errors"`
	CreatedAtUnix     int64       `json:"created_at_unix"`
	UpdatedAtUnix     int64       `json:"updated_at_unix"`
}

// ReleaseRunState enumerates ReleaseRunManifest.State values.
type ReleaseRunState string

const (
	ReleaseInProgress ReleaseRunState = "in_progress"
	ReleaseCompleted  ReleaseRunState = "completed"
	ReleaseFailed     ReleaseRunState = "failed"
)

// MergeStrategy enumerates ReleaseRunManifest.MergeStrategy values.
type MergeStrategy string

const (
	MergeFFOnly      MergeStrategy = "ff_only"
	MergeCommit      MergeStrategy = "merge_commit"
)

// IntegrationStatus enumerates ReleaseRunManifest.IntegrationStatus values.
type IntegrationStatus string

const (
	IntegrationOK      IntegrationStatus = "ok"
	IntegrationBlocked IntegrationStatus = "blocked"
	IntegrationFailed  IntegrationStatus = "failed"
)

// ReleaseRunManifest is the durable record of one Release run.
type ReleaseRunManifest struct {
	ReleaseRunID      string             `json:"release_run_id"`
	ShortPlanID       string             `json:"short_plan_id"`
	Project           string             `json:"project"`
	Branch            string             `json:"branch"`
	Base              string             `json:"base"`
	PlanID            string             `json:"plan_id"`
	DevRunID          string             `json:"dev_run_id"`
	State             ReleaseRunState    `json:"state"`
	Phase             string             `json:"phase"`
	ReviewReady       *bool              `json:"review_ready,omitempty"`
	MergeStrategy     *MergeStrategy     `json:"merge_strategy,omitempty"`
	MergeCommit       string             `json:"merge_commit,omitempty"`
	IntegrationStatus *IntegrationStatus `json:"integration_status,omitempty"`
	NonBlockingIssues []string           `json:"non_blocking_issues"`
	Errors            []string           `json:"errors"`
	CreatedAtUnix     int64              `json:"created_at_unix"`
	UpdatedAtUnix     int64              `json:"updated_at_unix"`
}

// Verdict enumerates AssuranceReport.Verdict values.
type Verdict string

const (
	VerdictPass Verdict = "pass"
	VerdictFail Verdict = "fail"
)

// AssuranceReport is the shape shared by develop's and release's
// machine-readable verdicts; release additionally sets ReleaseReady.
type AssuranceReport struct {
	Verdict           Verdict  `json:"verdict"`
	BlockingIssues    []string `json:"blocking_issues"`
	NonBlockingIssues []string `json:"non_blocking_issues"`
	ReleaseReady      *bool    `json:"release_ready,omitempty"`
}

// ReleaseReviewReport is review.json's shape.
type ReleaseReviewReport struct {
	ReleaseReady      bool     `json:"release_ready"`
	BlockingIssues    []string `json:"blocking_issues"`
	NonBlockingIssues []string `json:"non_blocking_issues"`
}

// IntegrateResult is integrate.json's shape.
type IntegrateResult struct {
	Status          string         `json:"status"`
	Reason          string         `json:"reason,omitempty"`
	Strategy        *MergeStrategy `json:"strategy,omitempty"`
	MergeCommit     string         `json:"merge_commit,omitempty"`
	Pushed          bool           `json:"pushed"`
	RawOutput       string         `json:"raw_output,omitempty"`
	GeneratedAtUnix int64          `json:"generated_at_unix"`
}

package manifest

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPlanManifestRoundTrip(t *testing.T) {
	m := NewPlanManifest("plan-abcd1234", "abcd1234", "demo", "feature/x", "add foo", 100)
	m.SetState(PlanInProgress, "planner", 101)
	m.SetRoleStatus("producer", RoleOK, 102)

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var round PlanManifest
	if err := json.Unmarshal(data, &round); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if round.RunID != m.RunID || round.State != m.State || round.RoleStatus["producer"] != RoleOK {
		t.Fatalf("round trip mismatch: got %+v, want %+v", round, m)
	}
}

func TestPlanManifestRunIDMatchesDirName(t *testing.T) {
	m := NewPlanManifest("plan-abcd1234", "abcd1234", "demo", "feature/x", "add foo", 100)
	if m.RunID != "plan-"+m.ShortID {
		t.Fatalf("run_id %q does not match plan-%s", m.RunID, m.ShortID)
	}
}

func TestAddReplyFillsUnansweredIssues(t *testing.T) {
	m := NewPlanManifest("plan-abcd1234", "abcd1234", "demo", "feature/x", "add foo", 100)
	m.Issues = []Issue{{ID: 1, Question: "Which database?"}}

	if got := UnresolvedPlanIssues(m); len(got) != 1 {
		t.Fatalf("expected 1 unresolved issue before reply, got %d", len(got))
	}

	m.AddReply("use postgres", 200)

	if got := UnresolvedPlanIssues(m); len(got) != 0 {
		t.Fatalf("expected 0 unresolved issues after reply, got %d", len(got))
	}
	if len(m.Replies) != 1 || m.Replies[0].Text != "use postgres" {
		t.Fatalf("reply not recorded: %+v", m.Replies)
	}
	if m.UpdatedAtUnix != 200 {
		t.Fatalf("expected updated_at_unix bumped to 200, got %d", m.UpdatedAtUnix)
	}
}

func TestExtractHighLevelSummaryFromPlannerJSON(t *testing.T) {
	raw := `{"summary": "Add a health check endpoint.", "open_questions": []}`
	if got := ExtractHighLevelSummaryFromPlanner(raw); got != "Add a health check endpoint." {
		t.Fatalf("got %q", got)
	}
}

func TestExtractHighLevelSummaryFromPlannerMarkdown(t *testing.T) {
	raw := "# Summary\n\nAdd a health check endpoint.\n\n## Actions\n\n- do it\n"
	if got := ExtractHighLevelSummaryFromPlanner(raw); got != "Add a health check endpoint." {
		t.Fatalf("got %q", got)
	}
}

func TestExtractPlanIssuesStableOrder(t *testing.T) {
	raw := "## Open Questions\n\n- Which database?\n- Which cache?\n"
	issues := ExtractPlanIssuesFromPlanner(raw)
	if len(issues) != 2 || issues[0].ID != 1 || issues[1].ID != 2 {
		t.Fatalf("unexpected issues: %+v", issues)
	}
	if !strings.Contains(issues[0].Question, "database") {
		t.Fatalf("unexpected first question: %q", issues[0].Question)
	}
}

func TestPlannerHasActionableSections(t *testing.T) {
	withActions := "## Actions\n\n- implement foo\n- test foo\n"
	if !PlannerHasActionableSections(withActions) {
		t.Fatalf("expected actionable sections to be detected")
	}
	withoutActions := "## Summary\n\nJust a paragraph, no list.\n"
	if PlannerHasActionableSections(withoutActions) {
		t.Fatalf("did not expect actionable sections")
	}
}

func TestParseDevAssuranceReportRejectsMissingVerdict(t *testing.T) {
	_, err := ParseDevAssuranceReport([]byte(`{"blocking_issues": [], "non_blocking_issues": []}`))
	if err == nil {
		t.Fatal("expected error for missing verdict")
	}
	if !strings.HasPrefix(err.Error(), "invalid assurance-report:") {
		t.Fatalf("expected stable error prefix, got %q", err.Error())
	}
}

func TestParseDevAssuranceReportAccepts(t *testing.T) {
	report, err := ParseDevAssuranceReport([]byte(`{"verdict": "pass", "blocking_issues": [], "non_blocking_issues": ["cosmetic"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Verdict != VerdictPass || len(report.NonBlockingIssues) != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if IsBlocking(report) {
		t.Fatalf("pass verdict with no blocking issues should not block")
	}
}

func TestParseReleaseReviewReportRejectsMissingReleaseReady(t *testing.T) {
	_, err := ParseReleaseReviewReport([]byte(`{"blocking_issues": [], "non_blocking_issues": []}`))
	if err == nil {
		t.Fatal("expected error for missing release_ready")
	}
	if !strings.HasPrefix(err.Error(), "invalid release-review-report:") {
		t.Fatalf("expected stable error prefix, got %q", err.Error())
	}
}

func TestReleaseFinalizeBlocked(t *testing.T) {
	m := NewReleaseRunManifest("release-1-abcd1234", "abcd1234", "demo", "feature/x", "main", "plan-abcd1234", "dev-1-abcd1234", 100)
	blocked := IntegrationBlocked
	m.IntegrationStatus = &blocked
	m.Finalize(200)
	if m.State != ReleaseFailed {
		t.Fatalf("expected release state failed on blocked integration, got %s", m.State)
	}
	if m.FinalPlanState() != PlanReleaseBlocked {
		t.Fatalf("expected plan state release_blocked, got %s", m.FinalPlanState())
	}
}

func TestReleaseFinalizeOK(t *testing.T) {
	m := NewReleaseRunManifest("release-1-abcd1234", "abcd1234", "demo", "feature/x", "main", "plan-abcd1234", "dev-1-abcd1234", 100)
	ok := IntegrationOK
	m.IntegrationStatus = &ok
	m.Finalize(200)
	if m.State != ReleaseCompleted {
		t.Fatalf("expected release state completed on ok integration, got %s", m.State)
	}
	if m.FinalPlanState() != PlanReleased {
		t.Fatalf("expected plan state released, got %s", m.FinalPlanState())
	}
}

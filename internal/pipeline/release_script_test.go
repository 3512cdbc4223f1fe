package pipeline

import (
	"strings"
	"testing"

	"github.com/jdharrison/smith/internal/manifest"
)

func TestParseIntegrateOutputOK(t *testing.T) {
	output := "SMITH_RELEASE_STRATEGY=ff_only\nSMITH_RELEASE_MERGE_COMMIT=deadbeef\nSMITH_RELEASE_STATUS=ok\nSMITH_RELEASE_PUSHED=true\n"
	result := parseIntegrateOutput(output, 100)
	if result.Status != string(manifest.IntegrationOK) {
		t.Fatalf("Status = %q, want ok", result.Status)
	}
	if result.Strategy == nil || *result.Strategy != manifest.MergeFFOnly {
		t.Fatalf("Strategy = %v, want ff_only", result.Strategy)
	}
	if result.MergeCommit != "deadbeef" {
		t.Fatalf("MergeCommit = %q", result.MergeCommit)
	}
	if !result.Pushed {
		t.Fatalf("Pushed = false, want true")
	}
}

func TestParseIntegrateOutputBlocked(t *testing.T) {
	output := "SMITH_RELEASE_STATUS=blocked\nSMITH_RELEASE_REASON=merge_conflict\nCONFLICT (content): Merge conflict in foo.go\n"
	result := parseIntegrateOutput(output, 100)
	if result.Status != string(manifest.IntegrationBlocked) {
		t.Fatalf("Status = %q, want blocked", result.Status)
	}
	if result.Reason != "merge_conflict" {
		t.Fatalf("Reason = %q", result.Reason)
	}
}

func TestParseIntegrateOutputMissingStatusDefaultsFailed(t *testing.T) {
	result := parseIntegrateOutput("fetch failed\n", 100)
	if result.Status != string(manifest.IntegrationFailed) {
		t.Fatalf("Status = %q, want failed", result.Status)
	}
}

func TestIntegrateScriptCoversBothStrategies(t *testing.T) {
	script := integrateScript("main", "feature/x")
	if !strings.Contains(script, "--ff-only") || !strings.Contains(script, "--no-ff") {
		t.Fatalf("integrateScript missing merge strategies: %s", script)
	}
	if !strings.Contains(script, "SMITH_RELEASE_STATUS=blocked") {
		t.Fatalf("integrateScript missing blocked path: %s", script)
	}
}

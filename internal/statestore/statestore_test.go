package statestore

import "testing"

func TestPlanDir(t *testing.T) {
	s := &Store{}
	got := s.PlanDir("ab12cd34")
	want := "/state/plan-ab12cd34"
	if got != want {
		t.Fatalf("PlanDir() = %q, want %q", got, want)
	}
}

func TestDevAndReleaseRunDir(t *testing.T) {
	s := &Store{}
	if got, want := s.DevRunDir("dev-1700000000-ab12cd34"), "/state/dev-1700000000-ab12cd34"; got != want {
		t.Fatalf("DevRunDir() = %q, want %q", got, want)
	}
	if got, want := s.ReleaseRunDir("release-1700000000-ab12cd34"), "/state/release-1700000000-ab12cd34"; got != want {
		t.Fatalf("ReleaseRunDir() = %q, want %q", got, want)
	}
}

func TestArtifactPath(t *testing.T) {
	got := ArtifactPath("/state/plan-ab12cd34", ManifestFile)
	want := "/state/plan-ab12cd34/manifest.json"
	if got != want {
		t.Fatalf("ArtifactPath() = %q, want %q", got, want)
	}
}

func TestDevelopAndAssuranceArtifactNames(t *testing.T) {
	if got, want := DevelopArtifact(1), "develop-1.json"; got != want {
		t.Fatalf("DevelopArtifact(1) = %q, want %q", got, want)
	}
	if got, want := AssuranceArtifact(2), "assurance-2.json"; got != want {
		t.Fatalf("AssuranceArtifact(2) = %q, want %q", got, want)
	}
}

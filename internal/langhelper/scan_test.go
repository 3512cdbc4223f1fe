package langhelper

import (
	"strings"
	"testing"
)

func TestParseScanOutputDetectsPrimaryLanguage(t *testing.T) {
	output := strings.Join([]string{
		"LANG_EXT .go=42",
		"LANG_EXT .md=3",
		"BUILD_MARKER=go.mod",
		"HAS_DOCKER=true",
		"SOURCE_DIR=internal",
		"TEST_DIR=test",
	}, "\n")

	info := parseScanOutput(output)
	if info.PrimaryLanguage() != "Go" {
		t.Fatalf("PrimaryLanguage() = %q, want Go", info.PrimaryLanguage())
	}
	if info.BuildSystem != "go" {
		t.Fatalf("BuildSystem = %q, want go", info.BuildSystem)
	}
	if !info.HasDocker {
		t.Fatal("expected HasDocker = true")
	}
	if info.HasCI {
		t.Fatal("expected HasCI = false (no line present)")
	}
	if len(info.SourceDirs) != 1 || info.SourceDirs[0] != "internal" {
		t.Fatalf("SourceDirs = %v", info.SourceDirs)
	}
	if len(info.TestDirs) != 1 || info.TestDirs[0] != "test" {
		t.Fatalf("TestDirs = %v", info.TestDirs)
	}
}

func TestParseScanOutputIgnoresUnknownExtensions(t *testing.T) {
	info := parseScanOutput("LANG_EXT .unknownext=5\n")
	if len(info.Languages) != 0 {
		t.Fatalf("expected no languages detected, got %v", info.Languages)
	}
}

func TestParseScanOutputEmpty(t *testing.T) {
	info := parseScanOutput("")
	if info.PrimaryLanguage() != "" {
		t.Fatalf("expected empty primary language, got %q", info.PrimaryLanguage())
	}
}

func TestSummarizeNilIsEmpty(t *testing.T) {
	if got := Summarize(nil); got != "" {
		t.Fatalf("Summarize(nil) = %q, want empty", got)
	}
}

func TestSummarizeIncludesDetectedSignals(t *testing.T) {
	info := &ProjectInfo{
		Languages:   []LanguageInfo{{Name: "Go", FileCount: 10}},
		BuildSystem: "go",
		HasDocker:   true,
	}
	got := Summarize(info)
	if !strings.Contains(got, "Primary language: Go.") {
		t.Fatalf("Summarize() missing language line: %q", got)
	}
	if !strings.Contains(got, "Build system: go.") {
		t.Fatalf("Summarize() missing build system line: %q", got)
	}
	if !strings.Contains(got, "Dockerfile") {
		t.Fatalf("Summarize() missing docker line: %q", got)
	}
}

func TestScanScriptEscapesBranchAndRepo(t *testing.T) {
	script := scanScript("https://example.com/repo.git", "feature/x")
	if !strings.Contains(script, "'feature/x'") {
		t.Fatalf("scanScript() did not quote branch: %q", script)
	}
	if !strings.Contains(script, "'https://example.com/repo.git'") {
		t.Fatalf("scanScript() did not quote repo: %q", script)
	}
}

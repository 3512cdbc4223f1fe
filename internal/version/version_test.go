package version

import (
	"strings"
	"testing"
)

func TestShort(t *testing.T) {
	if result := Short(); result != Version {
		t.Errorf("Short() = %q, want %q", result, Version)
	}
}

func TestInfo(t *testing.T) {
	result := Info()
	if !strings.Contains(result, "smith") {
		t.Errorf("Info() should contain 'smith', got %q", result)
	}
	if !strings.Contains(result, "commit:") {
		t.Errorf("Info() should contain 'commit:', got %q", result)
	}
}

func TestInfoCommitTruncation(t *testing.T) {
	originalCommit := Commit
	defer func() { Commit = originalCommit }()

	Commit = "abc123456789abcdef"
	result := Info()
	if !strings.Contains(result, "abc1234") {
		t.Errorf("Info() should contain truncated commit 'abc1234', got %q", result)
	}
	if strings.Contains(result, "abc123456789abcdef") {
		t.Errorf("Info() should NOT contain full commit, got %q", result)
	}
}

func TestFullMultiLine(t *testing.T) {
	result := Full()
	lines := strings.Split(result, "\n")
	if len(lines) < 5 {
		t.Errorf("Full() should have at least 5 lines, got %d: %q", len(lines), result)
	}
}

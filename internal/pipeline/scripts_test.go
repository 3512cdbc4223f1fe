package pipeline

import (
	"strings"
	"testing"
)

func TestShQuoteEscapesSingleQuotes(t *testing.T) {
	got := shQuote("it's a test")
	want := `'it'"'"'s a test'`
	if got != want {
		t.Fatalf("shQuote() = %q, want %q", got, want)
	}
}

func TestExtractCommitHashFindsTrailingHash(t *testing.T) {
	output := "Some log line\nAnother line\nabc1234\n"
	if got := extractCommitHash(output); got != "abc1234" {
		t.Fatalf("extractCommitHash() = %q, want %q", got, "abc1234")
	}
}

func TestExtractCommitHashIgnoresShortTokens(t *testing.T) {
	output := "ok\nabc12\n"
	if got := extractCommitHash(output); got != "" {
		t.Fatalf("extractCommitHash() = %q, want empty", got)
	}
}

func TestExtractCommitHashEmpty(t *testing.T) {
	if got := extractCommitHash(""); got != "" {
		t.Fatalf("extractCommitHash(\"\") = %q, want empty", got)
	}
}

func TestSingleLineCollapsesWhitespace(t *testing.T) {
	got := singleLine("fix   the\nbug\tplease")
	want := "fix the bug please"
	if got != want {
		t.Fatalf("singleLine() = %q, want %q", got, want)
	}
}

func TestDevelopSetupScriptEscapesBranchAndBase(t *testing.T) {
	script := developSetupScript("feature/x", "main")
	if !containsAll(script, "origin/'feature/x'", "origin/'main'", "git clean -fd") {
		t.Fatalf("developSetupScript missing expected content: %s", script)
	}
}

func TestCommitScriptIncludesNoChangesSentinel(t *testing.T) {
	script := commitScript("feature/x", "do the thing", "smith", "smith@localhost")
	if !containsAll(script, "SMITH_NO_CHANGES", "exit 3", "git config user.name") {
		t.Fatalf("commitScript missing expected content: %s", script)
	}
}

func containsAll(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

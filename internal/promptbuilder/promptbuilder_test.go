package promptbuilder

import (
	"strings"
	"testing"
)

func TestEscapeSingleQuotes(t *testing.T) {
	got := EscapeSingleQuotes(`it's a test`)
	want := `it'"'"'s a test`
	if got != want {
		t.Fatalf("EscapeSingleQuotes() = %q, want %q", got, want)
	}
}

func TestPlanPromptIsDeterministic(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	a := b.PlanPrompt("/state/plan-ab12cd34", "add a health endpoint")
	c := b.PlanPrompt("/state/plan-ab12cd34", "add a health endpoint")
	if a != c {
		t.Fatal("PlanPrompt is not deterministic for identical inputs")
	}
	if !strings.Contains(a, "/state/plan-ab12cd34") {
		t.Fatalf("PlanPrompt() missing plan_dir substitution: %q", a)
	}
	if !strings.Contains(a, "add a health endpoint") {
		t.Fatalf("PlanPrompt() missing task substitution: %q", a)
	}
}

func TestDevelopAndValidatePromptsDiffer(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	dev := b.DevelopPrompt("/state/plan-ab12cd34", "task", "/state/dev-1-ab12cd34/develop-1.json", 1, 3)
	val := b.ValidatePrompt("/state/dev-1-ab12cd34/assurance-1.json", 1, 3)
	if dev == val {
		t.Fatal("expected distinct prompts per stage")
	}
	if !strings.Contains(dev, "develop-1.json") {
		t.Fatalf("DevelopPrompt() missing artifact path: %q", dev)
	}
	if !strings.Contains(val, "assurance-1.json") {
		t.Fatalf("ValidatePrompt() missing artifact path: %q", val)
	}
}

func TestPromptsEscapeTaskQuotes(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	got := b.PlanPrompt("/state/plan-ab12cd34", "fix the user's login bug")
	if strings.Contains(got, "user's") {
		t.Fatalf("expected embedded single quote to be escaped, got %q", got)
	}
}

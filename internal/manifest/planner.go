package manifest

import (
	"encoding/json"
	"regexp"
	"strings"
)

// plannerJSON is the subset of planner.json's shape this package reads;
// planner.json carries additional assistant-specific fields this package
// ignores.
type plannerJSON struct {
	Summary   string   `json:"summary"`
	Questions []string `json:"open_questions"`
}

// summaryHeadingPattern matches a markdown heading introducing a summary
// section, e.g. "## Summary" or "# High-Level Summary".
var summaryHeadingPattern = regexp.MustCompile(`(?im)^#{1,6}\s*(high.level\s+)?summary\s*$`)

// actionHeadingPattern matches a markdown heading introducing concrete
// engineering tasks, e.g. "## Actions", "## Tasks", or a numbered heading.
var actionHeadingPattern = regexp.MustCompile(`(?im)^#{1,6}\s*(actions|tasks|\d+\.\s*\w+)`)

// listItemPattern matches a markdown list item or numbered line.
var listItemPattern = regexp.MustCompile(`(?m)^\s*(?:[-*]|\d+[.)])\s+\S`)

// questionPattern matches a markdown list item ending in a question mark.
// Lines that are not list items are not matched.
var questionPattern = regexp.MustCompile(`(?m)^\s*(?:[-*]|\d+[.)])\s+(.+\?)\s*$`)

// ExtractHighLevelSummaryFromPlanner scans a planner artifact (JSON or
// markdown) for a leading summary block. It returns the first non-empty
// paragraph under a recognized summary heading, falling back to the first
// non-empty paragraph in the document.
func ExtractHighLevelSummaryFromPlanner(raw string) string {
	var doc plannerJSON
	if err := json.Unmarshal([]byte(raw), &doc); err == nil && strings.TrimSpace(doc.Summary) != "" {
		return strings.TrimSpace(doc.Summary)
	}

	if loc := summaryHeadingPattern.FindStringIndex(raw); loc != nil {
		rest := raw[loc[1]:]
		if p := firstNonEmptyParagraph(rest); p != "" {
			return p
		}
	}

	return firstNonEmptyParagraph(raw)
}

func firstNonEmptyParagraph(text string) string {
	for _, para := range strings.Split(text, "\n\n") {
		trimmed := strings.TrimSpace(para)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// ExtractPlanIssuesFromPlanner returns a stable, 1-based-ID ordered list of
// open questions the planner raised.
func ExtractPlanIssuesFromPlanner(raw string) []Issue {
	var doc plannerJSON
	if err := json.Unmarshal([]byte(raw), &doc); err == nil && len(doc.Questions) > 0 {
		issues := make([]Issue, 0, len(doc.Questions))
		for i, q := range doc.Questions {
			q = strings.TrimSpace(q)
			if q == "" {
				continue
			}
			issues = append(issues, Issue{ID: i + 1, Question: q})
		}
		return issues
	}

	var issues []Issue
	for _, match := range questionPattern.FindAllStringSubmatch(raw, -1) {
		q := strings.TrimSpace(match[1])
		if q == "" {
			continue
		}
		issues = append(issues, Issue{ID: len(issues) + 1, Question: q})
	}
	return issues
}

// PlannerHasActionableSections reports whether the planner artifact
// contains at least one section describing concrete engineering tasks: a
// non-empty list under an "Actions"/"Tasks"/numbered heading.
func PlannerHasActionableSections(raw string) bool {
	loc := actionHeadingPattern.FindStringIndex(raw)
	if loc == nil {
		return false
	}
	rest := raw[loc[1]:]
	if nextHeading := summaryHeadingPattern.FindStringIndex(rest); nextHeading != nil {
		rest = rest[:nextHeading[0]]
	}
	return listItemPattern.MatchString(rest)
}

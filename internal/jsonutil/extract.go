// Package jsonutil extracts a single balanced JSON object from a larger
// string, used both by the manifest parsers (markdown/JSON planner
// artifacts) and the shell bridge (an assistant's inline sentinel block).
package jsonutil

import "fmt"

// ExtractObject returns the first complete, balanced JSON object in s
// starting at s's first "{". It is string- and escape-aware so braces
// inside quoted strings do not affect nesting depth.
func ExtractObject(s string) (string, error) {
	start := -1
	for i, c := range s {
		if c == '{' {
			start = i
			break
		}
	}
	if start == -1 {
		return "", fmt.Errorf("no JSON object found")
	}
	s = s[start:]

	depth := 0
	inString := false
	escaped := false

	for i, c := range s {
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		if c == '{' {
			depth++
		} else if c == '}' {
			depth--
			if depth == 0 {
				return s[:i+1], nil
			}
		}
	}

	return "", fmt.Errorf("incomplete JSON object")
}

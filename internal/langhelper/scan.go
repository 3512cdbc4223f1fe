package langhelper

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// scanScript builds the shell script a throwaway `docker run --rm` helper
// container executes: a shallow clone of repo at branch, an extension
// census, and a set of marker-file checks. Output is a fixed set of
// "KEY=value" lines, one convention with the integrate-result lines the
// Release stage parses.
func scanScript(repo, branch string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "set -e\n")
	fmt.Fprintf(&b, "git clone --depth 1 --branch %s %s /scan >/dev/null 2>&1 || git clone --depth 1 %s /scan >/dev/null 2>&1\n",
		shQuote(branch), shQuote(repo), shQuote(repo))
	b.WriteString("cd /scan\n")
	b.WriteString(`find . -type f -not -path './.git/*' | sed -n 's/.*\(\.[a-zA-Z0-9]*\)$/\1/p' | sort | uniq -c | awk '{print "LANG_EXT " $2 "=" $1}'` + "\n")
	for _, marker := range buildMarkers {
		fmt.Fprintf(&b, "test -f %s && echo %s\n", shQuote(marker.file), shQuote("BUILD_MARKER="+marker.file))
	}
	b.WriteString("test -f Dockerfile && echo HAS_DOCKER=true\n")
	b.WriteString("test -d .github/workflows && echo HAS_CI=true\n")
	for _, dir := range []string{"src", "lib", "cmd", "internal", "pkg"} {
		fmt.Fprintf(&b, "test -d %s && echo %s\n", shQuote(dir), shQuote("SOURCE_DIR="+dir))
	}
	for _, dir := range []string{"test", "tests", "spec", "__tests__"} {
		fmt.Fprintf(&b, "test -d %s && echo %s\n", shQuote(dir), shQuote("TEST_DIR="+dir))
	}
	return b.String()
}

func shQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// parseScanOutput turns scanScript's stdout into a ProjectInfo.
func parseScanOutput(output string) *ProjectInfo {
	info := &ProjectInfo{}
	langCounts := make(map[string]int)

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch {
		case strings.HasPrefix(key, "LANG_EXT "):
			ext := strings.TrimPrefix(key, "LANG_EXT ")
			lang, known := extensionLanguage[ext]
			if !known {
				continue
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				continue
			}
			langCounts[lang] += n
		case key == "BUILD_MARKER":
			if info.BuildSystem == "" {
				info.BuildSystem = buildSystemForMarker(value)
			}
		case key == "HAS_DOCKER":
			info.HasDocker = value == "true"
		case key == "HAS_CI":
			info.HasCI = value == "true"
		case key == "SOURCE_DIR":
			info.SourceDirs = append(info.SourceDirs, value)
		case key == "TEST_DIR":
			info.TestDirs = append(info.TestDirs, value)
		}
	}

	for lang, count := range langCounts {
		info.Languages = append(info.Languages, LanguageInfo{Name: lang, FileCount: count})
	}
	sort.Slice(info.Languages, func(i, j int) bool {
		return info.Languages[i].FileCount > info.Languages[j].FileCount
	})

	return info
}

func buildSystemForMarker(file string) string {
	for _, marker := range buildMarkers {
		if marker.file == file {
			return marker.name
		}
	}
	return ""
}

// Summarize renders info as a short auxiliary-context block for the Plan
// prompt.
func Summarize(info *ProjectInfo) string {
	if info == nil {
		return ""
	}
	var b strings.Builder
	if lang := info.PrimaryLanguage(); lang != "" {
		fmt.Fprintf(&b, "Primary language: %s.\n", lang)
	}
	if info.BuildSystem != "" {
		fmt.Fprintf(&b, "Build system: %s.\n", info.BuildSystem)
	}
	if len(info.SourceDirs) > 0 {
		fmt.Fprintf(&b, "Source directories: %s.\n", strings.Join(info.SourceDirs, ", "))
	}
	if len(info.TestDirs) > 0 {
		fmt.Fprintf(&b, "Test directories: %s.\n", strings.Join(info.TestDirs, ", "))
	}
	if info.HasDocker {
		b.WriteString("Has a Dockerfile.\n")
	}
	if info.HasCI {
		b.WriteString("Has CI workflows configured.\n")
	}
	return b.String()
}

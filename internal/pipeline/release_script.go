package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jdharrison/smith/internal/manifest"
)

// integrateScript builds the mechanical fast-forward/merge-commit script
// the Release stage's Integrate step runs directly, with no assistant
// invocation: it folds branch into base and pushes base, reporting the
// outcome as a fixed set of "SMITH_RELEASE_*=value" lines, the same
// KEY=value convention langhelper's scan script uses.
func integrateScript(base, branch string) string {
	var b strings.Builder
	b.WriteString("cd /workspace\n")
	fmt.Fprintf(&b, "git fetch origin %s %s\n", shQuote(base), shQuote(branch))
	fmt.Fprintf(&b, "git checkout -B %s origin/%s\n", shQuote(base), shQuote(base))
	fmt.Fprintf(&b, "if git merge --ff-only origin/%s >/tmp/merge.log 2>&1; then\n", shQuote(branch))
	b.WriteString("  echo SMITH_RELEASE_STRATEGY=ff_only\n")
	fmt.Fprintf(&b, "elif git merge --no-ff -m %s origin/%s >/tmp/merge.log 2>&1; then\n",
		shQuote(fmt.Sprintf("Merge branch '%s' into %s", branch, base)), shQuote(branch))
	b.WriteString("  echo SMITH_RELEASE_STRATEGY=merge_commit\n")
	b.WriteString("else\n")
	b.WriteString("  echo SMITH_RELEASE_STATUS=blocked\n")
	b.WriteString("  echo SMITH_RELEASE_REASON=merge_conflict\n")
	b.WriteString("  git merge --abort 2>/dev/null || true\n")
	b.WriteString("  cat /tmp/merge.log\n")
	b.WriteString("  exit 0\n")
	b.WriteString("fi\n")
	b.WriteString("echo SMITH_RELEASE_MERGE_COMMIT=$(git rev-parse HEAD)\n")
	fmt.Fprintf(&b, "if git push origin HEAD:refs/heads/%s >/tmp/push.log 2>&1; then\n", shQuote(base))
	b.WriteString("  echo SMITH_RELEASE_STATUS=ok\n")
	b.WriteString("  echo SMITH_RELEASE_PUSHED=true\n")
	b.WriteString("else\n")
	b.WriteString("  echo SMITH_RELEASE_STATUS=failed\n")
	b.WriteString("  echo SMITH_RELEASE_PUSHED=false\n")
	b.WriteString("  echo SMITH_RELEASE_REASON=push_failed\n")
	b.WriteString("  cat /tmp/push.log\n")
	b.WriteString("fi\n")
	return b.String()
}

// parseIntegrateOutput turns integrateScript's stdout into an
// IntegrateResult. A missing SMITH_RELEASE_STATUS line is reported as failed.
// The script has no set -e, so a failed fetch or checkout does not end it
// early; every path through it echoes a status line.
func parseIntegrateOutput(output string, now int64) *manifest.IntegrateResult {
	result := &manifest.IntegrateResult{
		Status:          "failed",
		Pushed:          false,
		RawOutput:       output,
		GeneratedAtUnix: now,
	}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		key, value, ok := strings.Cut(line, "=")
		if !ok || !strings.HasPrefix(key, "SMITH_RELEASE_") {
			continue
		}
		switch strings.TrimPrefix(key, "SMITH_RELEASE_") {
		case "STATUS":
			result.Status = value
		case "STRATEGY":
			strategy := manifest.MergeStrategy(value)
			result.Strategy = &strategy
		case "MERGE_COMMIT":
			result.MergeCommit = value
		case "PUSHED":
			result.Pushed, _ = strconv.ParseBool(value)
		case "REASON":
			result.Reason = value
		}
	}
	return result
}

package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

func shQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// developSetupScript asserts /workspace is a git work tree, fetches, checks
// out the work branch (preferring the remote copy, else forking from
// origin/{base}), hard-resets, cleans, and asserts a clean tree.
func developSetupScript(branch, base string) string {
	var b strings.Builder
	b.WriteString("set -e\n")
	b.WriteString("cd /workspace\n")
	b.WriteString("git rev-parse --is-inside-work-tree >/dev/null\n")
	b.WriteString("git fetch origin\n")
	fmt.Fprintf(&b, "git show-ref --verify --quiet refs/remotes/origin/%s && git checkout -B %s origin/%s || git checkout -B %s origin/%s\n",
		shQuote(branch), shQuote(branch), shQuote(branch), shQuote(branch), shQuote(base))
	fmt.Fprintf(&b, "git reset --hard HEAD\n")
	b.WriteString("git clean -fd\n")
	b.WriteString("test -z \"$(git status --porcelain)\"\n")
	return b.String()
}

// commitScript stages and commits any changes, rebasing onto the remote
// branch if it exists, and pushes. Exit code 3 with SMITH_NO_CHANGES means
// nothing to commit.
func commitScript(branch, commitMessage, gitName, gitEmail string) string {
	var b strings.Builder
	b.WriteString("set -e\n")
	b.WriteString("cd /workspace\n")
	fmt.Fprintf(&b, "git config user.name %s\n", shQuote(gitName))
	fmt.Fprintf(&b, "git config user.email %s\n", shQuote(gitEmail))
	b.WriteString("if [ -z \"$(git status --porcelain)\" ]; then echo SMITH_NO_CHANGES; exit 3; fi\n")
	b.WriteString("git add -A\n")
	fmt.Fprintf(&b, "git commit -m %s\n", shQuote(commitMessage))
	b.WriteString("git fetch origin\n")
	fmt.Fprintf(&b, "git show-ref --verify --quiet refs/remotes/origin/%s && git rebase origin/%s\n", shQuote(branch), shQuote(branch))
	fmt.Fprintf(&b, "git push origin HEAD:refs/heads/%s\n", shQuote(branch))
	b.WriteString("git rev-parse HEAD\n")
	return b.String()
}

// commitHashPattern matches a full or abbreviated git commit hash on its
// own line.
var commitHashPattern = regexp.MustCompile(`^[0-9a-f]{7,40}$`)

// extractCommitHash returns the last whitespace-trimmed line of output that
// looks like a commit hash, or "" if none match.
func extractCommitHash(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if commitHashPattern.MatchString(line) {
			return line
		}
	}
	return ""
}

// singleLine collapses task text to one line for use in a commit message.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

package langhelper

import (
	"context"
	"fmt"

	"github.com/jdharrison/smith/internal/shellbridge"
)

// Detect launches a throwaway `docker run --rm` helper container that
// shallow-clones repo at branch and scans it, returning the detected
// project signals. Any failure (image pull, clone, scan) is returned as an
// error; callers treat it as non-fatal and proceed without the extra
// context, per the language helper's optional status.
func Detect(ctx context.Context, dockerBin, image, repo, branch string) (*ProjectInfo, error) {
	res, err := shellbridge.Capture(ctx, dockerBin, "run", "--rm", image, "sh", "-c", scanScript(repo, branch))
	if err != nil {
		return nil, fmt.Errorf("language helper: %w", err)
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("language helper: exit %d: %s", res.ExitCode, res.Stderr)
	}
	return parseScanOutput(res.Stdout), nil
}

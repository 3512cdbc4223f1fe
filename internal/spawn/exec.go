package spawn

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jdharrison/smith/internal/pipelineerr"
	"github.com/jdharrison/smith/internal/shellbridge"
)

// Exec is the family of operations the state store and stage engines issue
// against a single running spawn container, all shelled out via `docker
// exec`/`docker cp`.
type Exec struct {
	Runtime *Runtime
	Project string
	Branch  string
}

func (e *Exec) containerName() string {
	return ContainerName(e.Project, e.Branch)
}

func (e *Exec) run(ctx context.Context, args ...string) (*shellbridge.Result, error) {
	full := append([]string{"exec", e.containerName()}, args...)
	res, err := shellbridge.Capture(ctx, e.Runtime.DockerBin, full...)
	if err != nil {
		return nil, fmt.Errorf("%w: docker exec: %v", pipelineerr.ErrRuntimeAbsent, err)
	}
	return res, nil
}

// EnsureDir creates path (and parents) inside the container.
func (e *Exec) EnsureDir(ctx context.Context, path string) error {
	res, err := e.run(ctx, "mkdir", "-p", path)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%w: mkdir -p %s: %s", pipelineerr.ErrUnexpected, path, res.Stderr)
	}
	return nil
}

// RemoveDir removes path recursively inside the container.
func (e *Exec) RemoveDir(ctx context.Context, path string) error {
	res, err := e.run(ctx, "rm", "-rf", path)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%w: rm -rf %s: %s", pipelineerr.ErrUnexpected, path, res.Stderr)
	}
	return nil
}

// FileExists reports whether path exists inside the container.
func (e *Exec) FileExists(ctx context.Context, path string) (bool, error) {
	res, err := e.run(ctx, "test", "-e", path)
	if err != nil {
		return false, err
	}
	return res.ExitCode == 0, nil
}

// ListPlanDirs returns the names of every "plan-*" directory under
// /state.
func (e *Exec) ListPlanDirs(ctx context.Context) ([]string, error) {
	res, err := e.run(ctx, "sh", "-c", "cd /state 2>/dev/null && ls -1d plan-*/ 2>/dev/null")
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 || strings.TrimSpace(res.Stdout) == "" {
		return nil, nil
	}
	var dirs []string
	for _, line := range strings.Split(strings.TrimSpace(res.Stdout), "\n") {
		dirs = append(dirs, strings.TrimSuffix(line, "/"))
	}
	return dirs, nil
}

// ReadFile returns the UTF-8 contents of path inside the container.
func (e *Exec) ReadFile(ctx context.Context, path string) (string, error) {
	res, err := e.run(ctx, "cat", path)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("%w: read %s: %s", pipelineerr.ErrArtifactInvalid, path, res.Stderr)
	}
	return res.Stdout, nil
}

// WriteFile writes content to path inside the container by first writing a
// host temp file, then `docker cp`ing it in. The writer is the sole owner
// of the (project, branch) key, so atomic rename is not required.
func (e *Exec) WriteFile(ctx context.Context, path, content string) error {
	tmp, err := os.CreateTemp("", "smith-write-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", pipelineerr.ErrUnexpected, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write temp file: %v", pipelineerr.ErrUnexpected, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp file: %v", pipelineerr.ErrUnexpected, err)
	}

	if err := e.EnsureDir(ctx, parentDir(path)); err != nil {
		return err
	}

	res, err := shellbridge.Capture(ctx, e.Runtime.DockerBin, "cp", tmp.Name(), e.containerName()+":"+path)
	if err != nil {
		return fmt.Errorf("%w: docker cp: %v", pipelineerr.ErrRuntimeAbsent, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%w: docker cp %s: %s", pipelineerr.ErrUnexpected, path, res.Stderr)
	}
	return nil
}

// RunShell executes script via `sh -c` inside the container and returns its
// result.
func (e *Exec) RunShell(ctx context.Context, script string) (*shellbridge.Result, error) {
	return e.run(ctx, "sh", "-c", script)
}

// RunPrompt streams an assistant invocation inside the container: `docker
// exec -i <name> assistant run ...`.
func (e *Exec) RunPrompt(ctx context.Context, workdir, model, prompt string) (*shellbridge.StreamResult, error) {
	args := []string{"exec", "-i", e.containerName(), "assistant", "run", "--dir", workdir, "--format", "json", "--print-logs"}
	if model != "" {
		args = append(args, "-m", model)
	}
	args = append(args, prompt)
	return shellbridge.StreamJSON(ctx, e.Runtime.DockerBin, args...)
}

func parentDir(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return "/"
	}
	return path[:idx]
}

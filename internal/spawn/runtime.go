package spawn

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jdharrison/smith/internal/pipelineerr"
	"github.com/jdharrison/smith/internal/security"
	"github.com/jdharrison/smith/internal/shellbridge"
)

// Runtime drives the host's container runtime CLI on behalf of the spawn
// lifecycle: start, stop, restart, list, and prune long-lived
// per-(project,branch) containers.
type Runtime struct {
	// DockerBin is the container runtime binary name, "docker" by default.
	DockerBin string
	// Security is applied to every container this Runtime starts.
	Security *security.ContainerSecurityOptions
	// Probe checks a container's assistant health endpoint.
	Probe HealthProbe
	// HealthPollInterval is how long Start waits between health probes.
	HealthPollInterval time.Duration
	// HealthPollTimeout bounds how long Start waits for the assistant to
	// become healthy before giving up.
	HealthPollTimeout time.Duration
}

// NewRuntime constructs a Runtime with production defaults.
func NewRuntime() *Runtime {
	return &Runtime{
		DockerBin:          "docker",
		Security:           security.DefaultContainerSecurityOptions(),
		Probe:              HTTPHealthProbe,
		HealthPollInterval: 1 * time.Second,
		HealthPollTimeout:  2 * time.Minute,
	}
}

// GitIdentity is the commit author recorded by in-container git operations.
type GitIdentity struct {
	Name  string
	Email string
}

// StartOptions configures Start.
type StartOptions struct {
	Project        string
	Branch         string
	Repo           string
	Image          string
	Port           int // explicit port; 0 picks one via AllocatePort
	SSHKeyPath     string
	CommitIdentity *GitIdentity
}

// Info describes one spawn container for List.
type Info struct {
	Project     string
	Branch      string
	ContainerID string
	Port        int
	Status      string
	Image       string
}

func (r *Runtime) docker(ctx context.Context, args ...string) (*shellbridge.Result, error) {
	return shellbridge.Capture(ctx, r.DockerBin, args...)
}

// Start ensures a running spawn container exists for (project, branch),
// returning its host-mapped port. If a container of that name is already
// running, its existing port is returned without relaunching anything.
func (r *Runtime) Start(ctx context.Context, opts StartOptions) (int, error) {
	name := ContainerName(opts.Project, opts.Branch)

	running, port, err := r.runningPort(ctx, name)
	if err != nil {
		return 0, err
	}
	if running {
		return port, nil
	}

	// Remove any stopped container of this name before relaunching.
	if _, err := r.docker(ctx, "rm", "-f", name); err != nil {
		return 0, fmt.Errorf("%w: remove stale container %s: %v", pipelineerr.ErrRuntimeAbsent, name, err)
	}

	assignedPort := opts.Port
	if assignedPort == 0 {
		assignedPort = AllocatePort(ctx, opts.Project, opts.Branch, r.Probe)
	}

	args := []string{
		"run", "-d",
		"--name", name,
		"--restart", "unless-stopped",
		"-p", fmt.Sprintf("%d:%d", assignedPort, assignedPort),
	}
	args = append(args, r.Security.ToDockerArgs()...)

	ssh := ResolveSSHProvisioning(opts.SSHKeyPath)
	for _, m := range ssh.Mounts {
		args = append(args, "-v", m)
	}
	for _, e := range ssh.Env {
		args = append(args, "-e", e)
	}

	args = append(args, "-e", fmt.Sprintf("AGENT_PORT=%d", assignedPort))
	args = append(args, opts.Image, "sh", "-c", bootstrapScript(opts.Repo, opts.Branch, opts.CommitIdentity, assignedPort))

	if _, err := r.docker(ctx, args...); err != nil {
		return 0, fmt.Errorf("%w: launch container %s: %v", pipelineerr.ErrRuntimeAbsent, name, err)
	}

	if err := r.waitHealthy(ctx, assignedPort); err != nil {
		return 0, err
	}

	return assignedPort, nil
}

// runningPort reports whether a container named name exists and is
// running, and if so, its mapped host port.
func (r *Runtime) runningPort(ctx context.Context, name string) (running bool, port int, err error) {
	res, err := r.docker(ctx, "inspect", "-f", "{{.State.Running}}", name)
	if err != nil || res.ExitCode != 0 {
		return false, 0, nil // container does not exist
	}
	if strings.TrimSpace(res.Stdout) != "true" {
		return false, 0, nil
	}

	portRes, err := r.docker(ctx, "port", name)
	if err != nil || portRes.ExitCode != 0 {
		return true, 0, fmt.Errorf("%w: inspect mapped port for %s", pipelineerr.ErrRuntimeAbsent, name)
	}
	p, parseErr := parseDockerPortOutput(portRes.Stdout)
	if parseErr != nil {
		return true, 0, fmt.Errorf("%w: %v", pipelineerr.ErrRuntimeAbsent, parseErr)
	}
	return true, p, nil
}

// parseDockerPortOutput extracts the host port from `docker port <name>`
// output, e.g. "4200/tcp -> 0.0.0.0:4200".
func parseDockerPortOutput(out string) (int, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return 0, fmt.Errorf("no port mapping found")
	}
	idx := strings.LastIndex(lines[0], ":")
	if idx == -1 {
		return 0, fmt.Errorf("unrecognized port mapping %q", lines[0])
	}
	return strconv.Atoi(strings.TrimSpace(lines[0][idx+1:]))
}

func (r *Runtime) waitHealthy(ctx context.Context, port int) error {
	deadline := time.Now().Add(r.HealthPollTimeout)
	for time.Now().Before(deadline) {
		if r.Probe(ctx, port) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.HealthPollInterval):
		}
	}
	return fmt.Errorf("%w: assistant on port %d never became healthy", pipelineerr.ErrRuntimeAbsent, port)
}

// Stop stops the spawn container for (project, branch). A missing
// container is not an error.
func (r *Runtime) Stop(ctx context.Context, project, branch string) error {
	name := ContainerName(project, branch)
	if _, err := r.docker(ctx, "stop", name); err != nil {
		return fmt.Errorf("%w: stop %s: %v", pipelineerr.ErrRuntimeAbsent, name, err)
	}
	return nil
}

// Restart restarts the spawn container for (project, branch).
func (r *Runtime) Restart(ctx context.Context, project, branch string) error {
	name := ContainerName(project, branch)
	if _, err := r.docker(ctx, "restart", name); err != nil {
		return fmt.Errorf("%w: restart %s: %v", pipelineerr.ErrRuntimeAbsent, name, err)
	}
	return nil
}

// List enumerates every spawn container on the host.
func (r *Runtime) List(ctx context.Context) ([]Info, error) {
	res, err := r.docker(ctx, "ps", "-a", "--filter", "name="+spawnPrefix, "--format", "{{.Names}}|{{.ID}}|{{.Status}}|{{.Image}}")
	if err != nil {
		return nil, fmt.Errorf("%w: list containers: %v", pipelineerr.ErrRuntimeAbsent, err)
	}

	var infos []Info
	for _, line := range strings.Split(strings.TrimSpace(res.Stdout), "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "|", 4)
		if len(fields) != 4 {
			continue
		}
		project, branch, ok := ParseContainerName(fields[0])
		if !ok {
			continue
		}
		port := 0
		if running, p, _ := r.runningPort(ctx, fields[0]); running {
			port = p
		}
		infos = append(infos, Info{
			Project:     project,
			Branch:      branch,
			ContainerID: fields[1],
			Port:        port,
			Status:      fields[2],
			Image:       fields[3],
		})
	}
	return infos, nil
}

// exitedStatusPrefixes are docker ps status strings that indicate a
// container is not running and is eligible for Prune.
var exitedStatusPrefixes = []string{"Exited", "Created", "Dead"}

// Prune removes every listed spawn container whose status indicates it is
// not running, returning the names removed.
func (r *Runtime) Prune(ctx context.Context) ([]string, error) {
	infos, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, info := range infos {
		if !isExitedStatus(info.Status) {
			continue
		}
		name := ContainerName(info.Project, info.Branch)
		if _, err := r.docker(ctx, "rm", "-f", name); err != nil {
			return removed, fmt.Errorf("%w: prune %s: %v", pipelineerr.ErrRuntimeAbsent, name, err)
		}
		removed = append(removed, name)
	}
	return removed, nil
}

func isExitedStatus(status string) bool {
	for _, prefix := range exitedStatusPrefixes {
		if strings.HasPrefix(status, prefix) {
			return true
		}
	}
	return false
}

// bootstrapScript builds the in-container entrypoint per spec §4.2: install
// git/openssh, provision known_hosts, normalize /state, clone if empty, set
// origin and checkout/create the branch, set git identity, exec the
// assistant HTTP server.
func bootstrapScript(repo, branch string, identity *GitIdentity, port int) string {
	var b strings.Builder
	b.WriteString("set +e\n")
	b.WriteString("apt-get update -qq && apt-get install -y -qq git openssh-client >/dev/null 2>&1\n")
	b.WriteString("mkdir -p /root/.ssh && chmod 700 /root/.ssh\n")
	b.WriteString("ssh-keyscan github.com gitlab.com bitbucket.org >> /root/.ssh/known_hosts 2>/dev/null\n")
	b.WriteString("mkdir -p /state\n")
	b.WriteString("if [ -d /workspace/state ] && [ ! -L /workspace/state ]; then rm -rf /workspace/state; fi\n")
	b.WriteString("ln -sfn /state /workspace/state\n")
	b.WriteString("mkdir -p /workspace\n")
	b.WriteString("if [ -z \"$(ls -A /workspace 2>/dev/null | grep -v '^state$')\" ]; then\n")
	fmt.Fprintf(&b, "  git clone %s /workspace\n", shQuote(repo))
	b.WriteString("fi\n")
	b.WriteString("cd /workspace\n")
	fmt.Fprintf(&b, "git remote set-url origin %s 2>/dev/null || git remote add origin %s\n", shQuote(repo), shQuote(repo))
	b.WriteString("git fetch origin\n")
	fmt.Fprintf(&b, "git show-ref --verify --quiet refs/remotes/origin/%s && git checkout -B %s origin/%s || git checkout -B %s\n",
		shQuote(branch), shQuote(branch), shQuote(branch), shQuote(branch))
	if identity != nil {
		fmt.Fprintf(&b, "git config user.name %s\n", shQuote(identity.Name))
		fmt.Fprintf(&b, "git config user.email %s\n", shQuote(identity.Email))
	}
	fmt.Fprintf(&b, "exec assistant serve --host 0.0.0.0 --port %d\n", port)
	return b.String()
}

// shQuote single-quotes s for safe interpolation into a POSIX shell
// command, escaping any embedded single quote.
func shQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// Package security provides container hardening and identifier/log sanitization
// for spawn containers and their exec traffic.
package security

import "strconv"

// ContainerSecurityOptions defines security settings applied to every spawn container.
type ContainerSecurityOptions struct {
	// DropCapabilities specifies Linux capabilities to drop.
	DropCapabilities []string

	// AddCapabilities specifies Linux capabilities to add back.
	AddCapabilities []string

	// NoNewPrivileges prevents processes from gaining new privileges.
	NoNewPrivileges bool

	// ReadOnlyRootFilesystem makes the root filesystem read-only.
	ReadOnlyRootFilesystem bool

	// PidsLimit limits the number of processes in the container.
	PidsLimit int

	// MemoryLimit sets the memory limit (e.g. "4g").
	MemoryLimit string

	// CPULimit sets the CPU limit (e.g. "2").
	CPULimit string

	// SecurityOpts are additional --security-opt values.
	SecurityOpts []string
}

// DefaultContainerSecurityOptions returns the hardening applied to every spawn
// container: the assistant and the workspace it edits never need more than
// file ownership changes inside /workspace and /state.
func DefaultContainerSecurityOptions() *ContainerSecurityOptions {
	return &ContainerSecurityOptions{
		DropCapabilities: []string{"ALL"},
		AddCapabilities: []string{
			"DAC_OVERRIDE",
			"CHOWN",
		},
		NoNewPrivileges:        true,
		ReadOnlyRootFilesystem: false, // package installs during workspace bootstrap need a writable root
		PidsLimit:              1000,
		MemoryLimit:            "4g",
		CPULimit:               "2",
		SecurityOpts:           []string{"no-new-privileges"},
	}
}

// ToDockerArgs converts the options into `docker run` flags.
func (o *ContainerSecurityOptions) ToDockerArgs() []string {
	var args []string

	for _, c := range o.DropCapabilities {
		args = append(args, "--cap-drop="+c)
	}
	for _, c := range o.AddCapabilities {
		args = append(args, "--cap-add="+c)
	}
	for _, opt := range o.SecurityOpts {
		args = append(args, "--security-opt="+opt)
	}
	if o.PidsLimit > 0 {
		args = append(args, "--pids-limit="+strconv.Itoa(o.PidsLimit))
	}
	if o.MemoryLimit != "" {
		args = append(args, "--memory="+o.MemoryLimit)
	}
	if o.CPULimit != "" {
		args = append(args, "--cpus="+o.CPULimit)
	}
	if o.ReadOnlyRootFilesystem {
		args = append(args, "--read-only")
	}

	return args
}

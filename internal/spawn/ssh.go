package spawn

import (
	"os"
	"path/filepath"
)

// SSHProvisioning is the set of docker-run arguments (volume mounts and
// environment variables) that provision a spawn container with SSH
// credentials for its git remote.
type SSHProvisioning struct {
	Mounts []string // "-v" values, e.g. "/host/path:/root/.ssh/id_rsa:ro"
	Env    []string // "-e" values, e.g. "GIT_SSH_COMMAND=ssh -i ..."
}

// ResolveSSHProvisioning picks the SSH strategy per spec §4.2: an explicit
// key path wins if it exists; otherwise fall back to forwarding the host's
// ssh-agent socket and mounting its ~/.ssh directory.
func ResolveSSHProvisioning(explicitKeyPath string) SSHProvisioning {
	if explicitKeyPath != "" {
		if _, err := os.Stat(explicitKeyPath); err == nil {
			return SSHProvisioning{
				Mounts: []string{explicitKeyPath + ":/root/.ssh/id_rsa:ro"},
				Env: []string{
					"GIT_SSH_COMMAND=ssh -i /root/.ssh/id_rsa -o StrictHostKeyChecking=no",
				},
			}
		}
	}

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		prov := SSHProvisioning{
			Mounts: []string{sock + ":" + sock},
			Env:    []string{"SSH_AUTH_SOCK=" + sock},
		}
		if home := os.Getenv("HOME"); home != "" {
			hostSSHDir := filepath.Join(home, ".ssh")
			if _, err := os.Stat(hostSSHDir); err == nil {
				prov.Mounts = append(prov.Mounts, hostSSHDir+":/root/.ssh:ro")
			}
		}
		return prov
	}

	return SSHProvisioning{}
}

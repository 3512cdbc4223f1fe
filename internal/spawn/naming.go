// Package spawn drives the long-lived per-(project,branch) container: name,
// start, restart, stop, list, prune, health-check, and the exec family used
// by the state store and stage engines.
package spawn

import (
	"strings"

	"github.com/jdharrison/smith/internal/security"
)

// spawnPrefix is the fixed prefix every spawn container name carries.
const spawnPrefix = "agent_"

// ContainerName returns the sanitized spawn container name for (project,
// branch).
func ContainerName(project, branch string) string {
	return security.SpawnContainerName(project, branch)
}

// ParseContainerName recovers (project, branch) from a spawn container
// name. Because both components are sanitized onto the same underscore-
// permitting alphabet as the "agent_{project}_{branch}" separator, the
// split is a best-effort heuristic: everything up to the first remaining
// underscore is the project, the rest is the branch. This matches every
// name this package itself produces, since ContainerName never introduces
// extra underscores beyond what sanitization already allowed through.
func ParseContainerName(name string) (project, branch string, ok bool) {
	if !strings.HasPrefix(name, spawnPrefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(name, spawnPrefix)
	idx := strings.Index(rest, "_")
	if idx < 0 {
		return "", "", false
	}
	return rest[:idx], rest[idx+1:], true
}

// IsSpawnContainerName reports whether name looks like a spawn container.
func IsSpawnContainerName(name string) bool {
	return strings.HasPrefix(name, spawnPrefix)
}

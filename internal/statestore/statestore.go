// Package statestore layers directory/file operations scoped to a spawn
// container's /state volume on top of internal/spawn's exec family:
// reading and writing the JSON manifests and artifacts that make up a
// plan/dev/release run directory.
package statestore

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/jdharrison/smith/internal/manifest"
	"github.com/jdharrison/smith/internal/pipelineerr"
	"github.com/jdharrison/smith/internal/spawn"
)

// stateRoot is the fixed root of the durable state tree inside every spawn
// container.
const stateRoot = "/state"

// Fixed artifact file names within a run directory, per the state tree.
const (
	ManifestFile   = "manifest.json"
	ProducerFile   = "producer.json"
	ArchitectFile  = "architect.json"
	DesignerFile   = "designer.json"
	PlannerFile    = "planner.json"
	ExecutionBrief = "execution-brief.json"
	ReviewFile     = "review.json"
	IntegrateFile  = "integrate.json"
	SyncFile       = "sync.json"
)

// DevelopArtifact returns the develop-<n>.json file name for attempt n.
func DevelopArtifact(attempt int) string {
	return fmt.Sprintf("develop-%d.json", attempt)
}

// AssuranceArtifact returns the assurance-<n>.json file name for attempt n.
func AssuranceArtifact(attempt int) string {
	return fmt.Sprintf("assurance-%d.json", attempt)
}

// Store is the JSON-manifest read/write surface stage engines use; it never
// writes outside stateRoot, per spec invariant 7.
type Store struct {
	Exec *spawn.Exec
}

// New constructs a Store bound to a single running spawn container.
func New(exec *spawn.Exec) *Store {
	return &Store{Exec: exec}
}

// EnsureStateRoot creates /state if it does not already exist.
func (s *Store) EnsureStateRoot(ctx context.Context) error {
	return s.Exec.EnsureDir(ctx, stateRoot)
}

// PlanDir returns the path of plan-<shortID>'s directory.
func (s *Store) PlanDir(shortID string) string {
	return path.Join(stateRoot, "plan-"+shortID)
}

// DevRunDir returns the path of a dev run's directory.
func (s *Store) DevRunDir(devRunID string) string {
	return path.Join(stateRoot, devRunID)
}

// ReleaseRunDir returns the path of a release run's directory.
func (s *Store) ReleaseRunDir(releaseRunID string) string {
	return path.Join(stateRoot, releaseRunID)
}

// ArtifactPath joins a run directory and an artifact file name.
func ArtifactPath(runDir, name string) string {
	return path.Join(runDir, name)
}

// ListPlanDirNames returns every "plan-*" directory name under /state,
// without the /state prefix.
func (s *Store) ListPlanDirNames(ctx context.Context) ([]string, error) {
	return s.Exec.ListPlanDirs(ctx)
}

// FileExists reports whether path exists inside /state.
func (s *Store) FileExists(ctx context.Context, path string) (bool, error) {
	return s.Exec.FileExists(ctx, path)
}

// ReadManifest reads path and unmarshals it into v.
func (s *Store) ReadManifest(ctx context.Context, path string, v interface{}) error {
	raw, err := s.Exec.ReadFile(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: %s: %v", pipelineerr.ErrArtifactInvalid, path, err)
	}
	return nil
}

// ReadRaw reads path's raw UTF-8 contents without decoding.
func (s *Store) ReadRaw(ctx context.Context, path string) (string, error) {
	return s.Exec.ReadFile(ctx, path)
}

// WriteManifest marshals v as indented JSON and writes it to path.
func (s *Store) WriteManifest(ctx context.Context, path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", pipelineerr.ErrUnexpected, path, err)
	}
	return s.Exec.WriteFile(ctx, path, string(data))
}

// WriteRaw writes content verbatim to path.
func (s *Store) WriteRaw(ctx context.Context, path, content string) error {
	return s.Exec.WriteFile(ctx, path, content)
}

// EnsureDir creates path (and parents) under /state.
func (s *Store) EnsureDir(ctx context.Context, path string) error {
	return s.Exec.EnsureDir(ctx, path)
}

// RemoveDir recursively removes path.
func (s *Store) RemoveDir(ctx context.Context, path string) error {
	return s.Exec.RemoveDir(ctx, path)
}

// ReadPlanManifest reads manifest.json from a plan directory.
func (s *Store) ReadPlanManifest(ctx context.Context, shortID string) (*manifest.PlanManifest, error) {
	var m manifest.PlanManifest
	if err := s.ReadManifest(ctx, ArtifactPath(s.PlanDir(shortID), ManifestFile), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// WritePlanManifest writes manifest.json to a plan directory.
func (s *Store) WritePlanManifest(ctx context.Context, m *manifest.PlanManifest) error {
	dir := s.PlanDir(m.ShortID)
	if err := s.EnsureDir(ctx, dir); err != nil {
		return err
	}
	return s.WriteManifest(ctx, ArtifactPath(dir, ManifestFile), m)
}

// ReadDevRunManifest reads manifest.json from a dev run directory.
func (s *Store) ReadDevRunManifest(ctx context.Context, devRunID string) (*manifest.DevRunManifest, error) {
	var m manifest.DevRunManifest
	if err := s.ReadManifest(ctx, ArtifactPath(s.DevRunDir(devRunID), ManifestFile), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// WriteDevRunManifest writes manifest.json to a dev run directory.
func (s *Store) WriteDevRunManifest(ctx context.Context, m *manifest.DevRunManifest) error {
	dir := s.DevRunDir(m.DevRunID)
	if err := s.EnsureDir(ctx, dir); err != nil {
		return err
	}
	return s.WriteManifest(ctx, ArtifactPath(dir, ManifestFile), m)
}

// ReadReleaseRunManifest reads manifest.json from a release run directory.
func (s *Store) ReadReleaseRunManifest(ctx context.Context, releaseRunID string) (*manifest.ReleaseRunManifest, error) {
	var m manifest.ReleaseRunManifest
	if err := s.ReadManifest(ctx, ArtifactPath(s.ReleaseRunDir(releaseRunID), ManifestFile), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// WriteReleaseRunManifest writes manifest.json to a release run directory.
func (s *Store) WriteReleaseRunManifest(ctx context.Context, m *manifest.ReleaseRunManifest) error {
	dir := s.ReleaseRunDir(m.ReleaseRunID)
	if err := s.EnsureDir(ctx, dir); err != nil {
		return err
	}
	return s.WriteManifest(ctx, ArtifactPath(dir, ManifestFile), m)
}

// ReadAssuranceReport reads a develop/release assurance report by file name
// (e.g. AssuranceArtifact(n)) from runDir.
func (s *Store) ReadAssuranceReport(ctx context.Context, runDir, fileName string) (*manifest.AssuranceReport, error) {
	raw, err := s.ReadRaw(ctx, ArtifactPath(runDir, fileName))
	if err != nil {
		return nil, err
	}
	return manifest.ParseDevAssuranceReport([]byte(raw))
}

// ReadReleaseReviewReport reads review.json from a release run directory.
func (s *Store) ReadReleaseReviewReport(ctx context.Context, runDir string) (*manifest.ReleaseReviewReport, error) {
	raw, err := s.ReadRaw(ctx, ArtifactPath(runDir, ReviewFile))
	if err != nil {
		return nil, err
	}
	return manifest.ParseReleaseReviewReport([]byte(raw))
}

// ReadIntegrateResult reads integrate.json from a release run directory.
func (s *Store) ReadIntegrateResult(ctx context.Context, runDir string) (*manifest.IntegrateResult, error) {
	raw, err := s.ReadRaw(ctx, ArtifactPath(runDir, IntegrateFile))
	if err != nil {
		return nil, err
	}
	return manifest.ParseIntegrateResult([]byte(raw))
}

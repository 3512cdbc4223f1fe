package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jdharrison/smith/internal/ids"
	"github.com/jdharrison/smith/internal/manifest"
	"github.com/jdharrison/smith/internal/pipelineerr"
	"github.com/jdharrison/smith/internal/roleconfig"
	"github.com/jdharrison/smith/internal/statestore"
)

const stageRelease = "release"

// ReleaseOptions configures one Release invocation.
type ReleaseOptions struct {
	Target   ContainerTarget
	PlanID   string // short plan ID; empty resolves the sole plan
	DevRunID string
	Base     string
}

// Release runs the Release stage engine end to end: review, integrate (when
// the review allows it), sync, and finalize, updating the plan manifest's
// terminal state in place.
func (e *Engine) Release(ctx context.Context, opts ReleaseOptions) (*manifest.ReleaseRunManifest, error) {
	store := e.store(opts.Target.Project, opts.Target.Branch)
	e.Logger.SetStage("release")

	if err := e.ensureRunning(ctx, opts.Target); err != nil {
		return nil, err
	}
	if err := store.EnsureStateRoot(ctx); err != nil {
		return nil, err
	}

	shortID, plan, err := e.resolvePlan(ctx, store, opts.PlanID)
	if err != nil {
		return nil, err
	}
	if plan.Project != opts.Target.Project || plan.Branch != opts.Target.Branch {
		return nil, fmt.Errorf("%w: plan %s belongs to %s/%s, not %s/%s", pipelineerr.ErrPrecondition,
			shortID, plan.Project, plan.Branch, opts.Target.Project, opts.Target.Branch)
	}
	dev, err := store.ReadDevRunManifest(ctx, opts.DevRunID)
	if err != nil {
		return nil, fmt.Errorf("%w: read dev run %q: %v", pipelineerr.ErrPrecondition, opts.DevRunID, err)
	}
	if dev.ShortPlanID != shortID {
		return nil, fmt.Errorf("%w: dev run %s belongs to plan %s, not %s", pipelineerr.ErrPrecondition, opts.DevRunID, dev.ShortPlanID, shortID)
	}
	if dev.State != manifest.DevCompleted {
		return nil, fmt.Errorf("%w: dev run %s is %q, not completed", pipelineerr.ErrPrecondition, opts.DevRunID, dev.State)
	}
	if dev.FinalCommit == "" {
		return nil, fmt.Errorf("%w: dev run %s produced no commit", pipelineerr.ErrPrecondition, opts.DevRunID)
	}

	trace, span := e.startStage(shortID, opts.Target.Repo, stageRelease)
	startedAt := e.Clock.Now()
	status := "completed"
	defer func() { e.endStage(trace, span, status, startedAt) }()

	now := e.now()
	releaseRunID := ids.ReleaseRunID(now, shortID)
	m := manifest.NewReleaseRunManifest(releaseRunID, shortID, opts.Target.Project, opts.Target.Branch, opts.Base, plan.RunID, opts.DevRunID, now)
	if err := store.WriteReleaseRunManifest(ctx, m); err != nil {
		return nil, err
	}
	runDir := store.ReleaseRunDir(releaseRunID)

	ex := e.exec(opts.Target.Project, opts.Target.Branch)
	reviewerModel := e.Roles.ForRole(roleconfig.RoleReviewer).Model.Model
	reviewPath := statestore.ArtifactPath(runDir, statestore.ReviewFile)
	reviewPrompt := e.Prompts.ReleaseReviewPrompt(reviewPath)
	if _, err := e.runPrompt(ctx, ex, span, "Reviewer", reviewerModel, reviewPrompt); err != nil {
		status = "failed"
		m.AppendError(err.Error(), e.now())
		m.SetState(manifest.ReleaseFailed, "review", e.now())
		_ = store.WriteReleaseRunManifest(ctx, m)
		return m, err
	}
	review, err := store.ReadReleaseReviewReport(ctx, runDir)
	if err != nil {
		status = "failed"
		m.AppendError(err.Error(), e.now())
		m.SetState(manifest.ReleaseFailed, "review", e.now())
		_ = store.WriteReleaseRunManifest(ctx, m)
		return m, fmt.Errorf("%w: %v", pipelineerr.ErrArtifactInvalid, err)
	}
	m.SetReview(review, e.now())
	if err := store.WriteReleaseRunManifest(ctx, m); err != nil {
		return nil, err
	}

	var integrateResult *manifest.IntegrateResult
	if manifest.ReviewBlocksRelease(review) {
		integrateResult = &manifest.IntegrateResult{
			Status:          string(manifest.IntegrationBlocked),
			Reason:          "release_review_blocked",
			GeneratedAtUnix: e.now(),
		}
	} else {
		m.SetPhase("integrate", e.now())
		if err := store.WriteReleaseRunManifest(ctx, m); err != nil {
			return nil, err
		}
		res, runErr := ex.RunShell(ctx, integrateScript(opts.Base, opts.Target.Branch))
		output := ""
		if res != nil {
			output = res.Stdout + res.Stderr
		}
		if runErr != nil {
			integrateResult = &manifest.IntegrateResult{
				Status:          string(manifest.IntegrationFailed),
				Reason:          runErr.Error(),
				RawOutput:       output,
				GeneratedAtUnix: e.now(),
			}
		} else {
			integrateResult = parseIntegrateOutput(output, e.now())
		}
	}

	if err := store.WriteRaw(ctx, statestore.ArtifactPath(runDir, statestore.IntegrateFile), mustMarshalIntegrateResult(integrateResult)); err != nil {
		return nil, err
	}
	m.SetIntegration(integrateResult, e.now())
	if err := store.WriteReleaseRunManifest(ctx, m); err != nil {
		return nil, err
	}

	m.SetPhase("sync", e.now())
	if err := store.WriteReleaseRunManifest(ctx, m); err != nil {
		return nil, err
	}
	syncModel := e.Roles.ForRole(roleconfig.RoleSync).Model.Model
	syncPath := statestore.ArtifactPath(runDir, statestore.SyncFile)
	syncPrompt := e.Prompts.SyncPrompt(syncPath, opts.Base)
	if _, err := e.runPrompt(ctx, ex, span, "Sync", syncModel, syncPrompt); err != nil {
		status = "failed"
		m.AppendError(err.Error(), e.now())
		m.SetState(manifest.ReleaseFailed, "sync", e.now())
		_ = store.WriteReleaseRunManifest(ctx, m)
		return m, err
	}
	if exists, err := store.FileExists(ctx, syncPath); err != nil {
		return nil, err
	} else if !exists {
		status = "failed"
		m.AppendError("sync step produced no sync.json", e.now())
		m.SetState(manifest.ReleaseFailed, "sync", e.now())
		_ = store.WriteReleaseRunManifest(ctx, m)
		return m, fmt.Errorf("%w: sync step produced no sync.json", pipelineerr.ErrArtifactInvalid)
	}

	m.Finalize(e.now())
	if err := store.WriteReleaseRunManifest(ctx, m); err != nil {
		return nil, err
	}

	plan.SetState(m.FinalPlanState(), "finalize", e.now())
	if err := store.WritePlanManifest(ctx, plan); err != nil {
		return nil, err
	}

	if m.State != manifest.ReleaseCompleted {
		if integrateResult.Status == string(manifest.IntegrationBlocked) {
			status = "blocked"
			return m, fmt.Errorf("%w: %s", pipelineerr.ErrBlocking, integrateResult.Reason)
		}
		status = "failed"
		return m, fmt.Errorf("%w: release failed: %s", pipelineerr.ErrUnexpected, integrateResult.Reason)
	}
	return m, nil
}

func mustMarshalIntegrateResult(r *manifest.IntegrateResult) string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"status":%q,"reason":"marshal failed: %s"}`, r.Status, err)
	}
	return string(data)
}

package pipeline

import (
	"context"
	"fmt"

	"github.com/jdharrison/smith/internal/ids"
	"github.com/jdharrison/smith/internal/manifest"
	"github.com/jdharrison/smith/internal/pipelineerr"
	"github.com/jdharrison/smith/internal/roleconfig"
	"github.com/jdharrison/smith/internal/statestore"
)

// DevelopOptions configures one Develop invocation.
type DevelopOptions struct {
	Target            ContainerTarget
	PlanID            string // short plan ID; empty resolves the sole plan
	Base              string // base branch to fork from if Target.Branch has no remote
	MaxValidatePasses int
	GitName           string
	GitEmail          string
}

const (
	defaultGitName  = "smith"
	defaultGitEmail = "smith@localhost"
	stageDevelop    = "develop"
)

// Develop runs the Develop stage engine end to end: verify preconditions,
// allocate a dev run, set up the work tree, loop the developer/validator
// pair up to MaxValidatePasses, commit, and finalize.
func (e *Engine) Develop(ctx context.Context, opts DevelopOptions) (*manifest.DevRunManifest, error) {
	if opts.MaxValidatePasses < 1 {
		return nil, fmt.Errorf("%w: max_validate_passes must be >= 1, got %d", pipelineerr.ErrPrecondition, opts.MaxValidatePasses)
	}
	gitName, gitEmail := opts.GitName, opts.GitEmail
	if gitName == "" {
		gitName = defaultGitName
	}
	if gitEmail == "" {
		gitEmail = defaultGitEmail
	}

	store := e.store(opts.Target.Project, opts.Target.Branch)
	e.Logger.SetStage("develop")

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
	if plan.State != manifest.PlanCompleted {
		return nil, fmt.Errorf("%w: plan %s is %q, not completed", pipelineerr.ErrPrecondition, shortID, plan.State)
	}
	if unresolved := manifest.UnresolvedPlanIssues(plan); len(unresolved) > 0 {
		return nil, fmt.Errorf("%w: plan %s has %d unresolved issue(s)", pipelineerr.ErrPrecondition, shortID, len(unresolved))
	}

	planDir := store.PlanDir(shortID)
	var plannerRaw string
	for _, role := range manifest.PlanArtifactNames {
		exists, err := store.FileExists(ctx, statestore.ArtifactPath(planDir, role+".json"))
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: plan %s is missing %s artifact", pipelineerr.ErrArtifactInvalid, shortID, role)
		}
	}
	plannerRaw, err = store.ReadRaw(ctx, statestore.ArtifactPath(planDir, statestore.PlannerFile))
	if err != nil {
		return nil, err
	}
	if !manifest.PlannerHasActionableSections(plannerRaw) {
		return nil, fmt.Errorf("%w: plan %s's planner artifact has no actionable sections", pipelineerr.ErrPrecondition, shortID)
	}

	trace, span := e.startStage(shortID, opts.Target.Repo, stageDevelop)
	startedAt := e.Clock.Now()
	status := "completed"
	defer func() { e.endStage(trace, span, status, startedAt) }()

	now := e.now()
	devRunID := ids.DevRunID(now, shortID)
	m := manifest.NewDevRunManifest(devRunID, shortID, opts.Target.Project, opts.Target.Branch, opts.Base, plan.RunID, plan.Prompt, opts.MaxValidatePasses, now)
	if err := store.WriteDevRunManifest(ctx, m); err != nil {
		return nil, err
	}
	runDir := store.DevRunDir(devRunID)
	if err := store.WriteRaw(ctx, statestore.ArtifactPath(runDir, statestore.ExecutionBrief), plannerRaw); err != nil {
		return nil, err
	}

	ex := e.exec(opts.Target.Project, opts.Target.Branch)
	setupRes, setupErr := ex.RunShell(ctx, developSetupScript(opts.Target.Branch, opts.Base))
	if setupErr != nil || setupRes.ExitCode != 0 {
		detail := setupErr
		if detail == nil {
			detail = fmt.Errorf("exit %d: %s", setupRes.ExitCode, setupRes.Stderr)
		}
		status = "failed"
		m.AppendError(fmt.Sprintf("setup failed: %v", detail), e.now())
		m.SetState(manifest.DevFailed, "setup", e.now())
		_ = store.WriteDevRunManifest(ctx, m)
		return m, fmt.Errorf("%w: develop setup: %v", pipelineerr.ErrRuntimeAbsent, detail)
	}

	m.SetPhase("develop", e.now())
	if err := store.WriteDevRunManifest(ctx, m); err != nil {
		return nil, err
	}

	developerModel := e.Roles.ForRole(roleconfig.RoleDeveloper).Model.Model
	validatorModel := e.Roles.ForRole(roleconfig.RoleValidator).Model.Model

	var lastReport *manifest.AssuranceReport
	blocked := true
	for attempt := 1; attempt <= opts.MaxValidatePasses; attempt++ {
		devArtifact := statestore.DevelopArtifact(attempt)
		assuranceArtifact := statestore.AssuranceArtifact(attempt)
		devPath := statestore.ArtifactPath(runDir, devArtifact)
		assurancePath := statestore.ArtifactPath(runDir, assuranceArtifact)

		developPrompt := e.Prompts.DevelopPrompt(planDir, plan.Prompt, devPath, attempt, opts.MaxValidatePasses)
		if _, err := e.runPrompt(ctx, ex, span, "Developer", developerModel, developPrompt); err != nil {
			status = "failed"
			m.AppendError(err.Error(), e.now())
			m.SetState(manifest.DevFailed, "develop", e.now())
			_ = store.WriteDevRunManifest(ctx, m)
			return m, err
		}
		if exists, err := store.FileExists(ctx, devPath); err != nil {
			return nil, err
		} else if !exists {
			status = "failed"
			m.AppendError(fmt.Sprintf("attempt %d: developer did not write %s", attempt, devArtifact), e.now())
			m.SetState(manifest.DevFailed, "develop", e.now())
			_ = store.WriteDevRunManifest(ctx, m)
			return m, fmt.Errorf("%w: missing %s", pipelineerr.ErrArtifactInvalid, devArtifact)
		}

		validatePrompt := e.Prompts.ValidatePrompt(assurancePath, attempt, opts.MaxValidatePasses)
		if _, err := e.runPrompt(ctx, ex, span, "Validator", validatorModel, validatePrompt); err != nil {
			status = "failed"
			m.AppendError(err.Error(), e.now())
			m.SetState(manifest.DevFailed, "validate", e.now())
			_ = store.WriteDevRunManifest(ctx, m)
			return m, err
		}
		report, err := store.ReadAssuranceReport(ctx, runDir, assuranceArtifact)
		if err != nil {
			status = "failed"
			m.AppendError(fmt.Sprintf("attempt %d: %v", attempt, err), e.now())
			m.SetState(manifest.DevFailed, "validate", e.now())
			_ = store.WriteDevRunManifest(ctx, m)
			return m, fmt.Errorf("%w: %v", pipelineerr.ErrArtifactInvalid, err)
		}
		lastReport = report

		m.AppendAttempt(manifest.Attempt{
			Attempt:           attempt,
			DevelopArtifact:   devArtifact,
			AssuranceArtifact: assuranceArtifact,
			Verdict:           string(report.Verdict),
			BlockingIssues:    report.BlockingIssues,
			NonBlockingIssues: report.NonBlockingIssues,
		}, e.now())
		if err := store.WriteDevRunManifest(ctx, m); err != nil {
			return nil, err
		}

		if !manifest.IsBlocking(report) {
			blocked = false
			break
		}
	}

	if blocked {
		status = "blocked"
		m.SetState(manifest.DevFailed, "validate", e.now())
		_ = store.WriteDevRunManifest(ctx, m)
		return m, fmt.Errorf("%w: blocking issues remain after %d attempt(s): %v", pipelineerr.ErrBlocking, opts.MaxValidatePasses, lastReport.BlockingIssues)
	}

	m.SetPhase("commit", e.now())
	if err := store.WriteDevRunManifest(ctx, m); err != nil {
		return nil, err
	}

	commitMessage := fmt.Sprintf("%s [plan:%s]", singleLine(plan.Prompt), shortID)
	res, err := ex.RunShell(ctx, commitScript(opts.Target.Branch, commitMessage, gitName, gitEmail))
	var commitHash string
	switch {
	case err != nil:
		status = "failed"
		m.AppendError(fmt.Sprintf("commit failed: %v", err), e.now())
		m.SetState(manifest.DevFailed, "commit", e.now())
		_ = store.WriteDevRunManifest(ctx, m)
		return m, fmt.Errorf("%w: commit: %v", pipelineerr.ErrRuntimeAbsent, err)
	case res.ExitCode == 3:
		status = "failed"
		m.AppendError("no changes to commit", e.now())
		m.SetState(manifest.DevFailed, "commit", e.now())
		_ = store.WriteDevRunManifest(ctx, m)
		return m, fmt.Errorf("%w: no changes to commit", pipelineerr.ErrArtifactInvalid)
	case res.ExitCode != 0:
		status = "failed"
		m.AppendError(fmt.Sprintf("commit failed: %s", res.Stderr), e.now())
		m.SetState(manifest.DevFailed, "commit", e.now())
		_ = store.WriteDevRunManifest(ctx, m)
		return m, fmt.Errorf("%w: commit exited %d: %s", pipelineerr.ErrRuntimeAbsent, res.ExitCode, res.Stderr)
	default:
		commitHash = extractCommitHash(res.Stdout)
		if commitHash == "" {
			status = "failed"
			m.AppendError("commit succeeded but no commit hash found in output", e.now())
			m.SetState(manifest.DevFailed, "commit", e.now())
			_ = store.WriteDevRunManifest(ctx, m)
			return m, fmt.Errorf("%w: commit produced no hash", pipelineerr.ErrArtifactInvalid)
		}
	}

	m.Finalize(string(lastReport.Verdict), commitHash, lastReport.NonBlockingIssues, e.now())
	if err := store.WriteDevRunManifest(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

package pipeline

import (
	"context"
	"fmt"

	"github.com/jdharrison/smith/internal/langhelper"
	"github.com/jdharrison/smith/internal/manifest"
	"github.com/jdharrison/smith/internal/pipelineerr"
	"github.com/jdharrison/smith/internal/roleconfig"
	"github.com/jdharrison/smith/internal/statestore"
)

const stagePlan = "plan"

// PlanOptions configures one Plan invocation.
type PlanOptions struct {
	Target      ContainerTarget
	Task        string
	HelperImage string // if set, run the language helper before prompting
}

// Plan runs the Plan stage engine end to end: allocate a short ID, invoke
// the assistant once, verify the four role artifacts, and extract the
// planner summary and open issues. Errors are also recorded on the
// returned manifest before it is persisted, so callers can inspect the
// terminal state even on failure.
func (e *Engine) Plan(ctx context.Context, opts PlanOptions) (*manifest.PlanManifest, error) {
	store := e.store(opts.Target.Project, opts.Target.Branch)
	e.Logger.SetStage("plan")

	if err := e.ensureRunning(ctx, opts.Target); err != nil {
		return nil, err
	}
	if err := store.EnsureStateRoot(ctx); err != nil {
		return nil, err
	}

	shortID, err := e.allocateShortID(ctx, store)
	if err != nil {
		return nil, err
	}
	dirName := shortIDToDirName(shortID)

	trace, span := e.startStage(shortID, opts.Target.Repo, stagePlan)
	startedAt := e.Clock.Now()
	status := "completed"
	defer func() { e.endStage(trace, span, status, startedAt) }()

	now := e.now()
	m := manifest.NewPlanManifest(dirName, shortID, opts.Target.Project, opts.Target.Branch, opts.Task, now)
	if err := store.WritePlanManifest(ctx, m); err != nil {
		return nil, err
	}

	m.SetState(manifest.PlanInProgress, "planner", e.now())
	if err := store.WritePlanManifest(ctx, m); err != nil {
		return nil, err
	}

	auxContext := ""
	if opts.HelperImage != "" {
		info, err := langhelper.Detect(ctx, e.Runtime.DockerBin, opts.HelperImage, opts.Target.Repo, opts.Target.Branch)
		if err != nil {
			e.Logger.Warning(fmt.Sprintf("language helper failed, proceeding without it: %v", err))
		} else {
			auxContext = langhelper.Summarize(info)
		}
	}

	planDir := store.PlanDir(shortID)
	prompt := e.Prompts.PlanPrompt(planDir, opts.Task)
	if auxContext != "" {
		prompt = auxContext + "\n" + prompt
	}

	model := e.Roles.ForRole(roleconfig.RolePlanner).Model.Model
	if _, err := e.runPrompt(ctx, e.exec(opts.Target.Project, opts.Target.Branch), span, "Planner", model, prompt); err != nil {
		status = "failed"
		m.AppendError(err.Error(), e.now())
		m.SetState(manifest.PlanFailed, "planner", e.now())
		_ = store.WritePlanManifest(ctx, m)
		return m, err
	}

	var missing []string
	for _, role := range manifest.PlanArtifactNames {
		exists, err := store.FileExists(ctx, statestore.ArtifactPath(planDir, role+".json"))
		if err != nil {
			return nil, err
		}
		if exists {
			m.SetRoleStatus(role, manifest.RoleOK, e.now())
		} else {
			m.SetRoleStatus(role, manifest.RoleFailed, e.now())
			missing = append(missing, role)
		}
	}
	if len(missing) > 0 {
		status = "failed"
		m.AppendError(fmt.Sprintf("missing planner role artifacts: %v", missing), e.now())
		m.SetState(manifest.PlanFailed, "finalize", e.now())
		_ = store.WritePlanManifest(ctx, m)
		return m, fmt.Errorf("%w: missing planner role artifacts: %v", pipelineerr.ErrArtifactInvalid, missing)
	}

	plannerRaw, err := store.ReadRaw(ctx, statestore.ArtifactPath(planDir, statestore.PlannerFile))
	if err != nil {
		return nil, err
	}
	if summary := manifest.ExtractHighLevelSummaryFromPlanner(plannerRaw); summary != "" {
		m.Summary = summary
	}
	m.Issues = manifest.ExtractPlanIssuesFromPlanner(plannerRaw)

	m.SetState(manifest.PlanCompleted, "finalize", e.now())
	if err := store.WritePlanManifest(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func shortIDToDirName(shortID string) string {
	return "plan-" + shortID
}

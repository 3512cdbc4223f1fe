// Package pipeline implements the four stage engines — Plan, Develop,
// Release, and Review — that drive one spawn container's assistant through
// a project's control-plane lifecycle.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jdharrison/smith/internal/cloudlog"
	"github.com/jdharrison/smith/internal/ids"
	"github.com/jdharrison/smith/internal/manifest"
	"github.com/jdharrison/smith/internal/observability"
	"github.com/jdharrison/smith/internal/pipelineerr"
	"github.com/jdharrison/smith/internal/promptbuilder"
	"github.com/jdharrison/smith/internal/roleconfig"
	"github.com/jdharrison/smith/internal/shellbridge"
	"github.com/jdharrison/smith/internal/spawn"
	"github.com/jdharrison/smith/internal/statestore"
)

// Engine bundles every dependency a stage needs: the container runtime, the
// prompt builder, role overrides, logging, tracing, and the clock short-ID
// allocation reads from.
type Engine struct {
	Runtime *spawn.Runtime
	Prompts *promptbuilder.Builder
	Roles   *roleconfig.Config
	Logger  cloudlog.Logger
	Tracer  observability.Tracer
	Clock   ids.Clock
}

// NewEngine constructs an Engine from its dependencies.
func NewEngine(runtime *spawn.Runtime, prompts *promptbuilder.Builder, roles *roleconfig.Config, logger cloudlog.Logger, tracer observability.Tracer, clock ids.Clock) *Engine {
	return &Engine{
		Runtime: runtime,
		Prompts: prompts,
		Roles:   roles,
		Logger:  logger,
		Tracer:  tracer,
		Clock:   clock,
	}
}

func (e *Engine) exec(project, branch string) *spawn.Exec {
	return &spawn.Exec{Runtime: e.Runtime, Project: project, Branch: branch}
}

func (e *Engine) store(project, branch string) *statestore.Store {
	return statestore.New(e.exec(project, branch))
}

func (e *Engine) now() int64 {
	return ids.UnixNow(e.Clock)
}

// ContainerTarget names the spawn key and container image an operation
// runs against.
type ContainerTarget struct {
	Project string
	Branch  string
	Repo    string
	Image   string
}

// ensureRunning starts (or reuses) the spawn container for target. It passes
// no SSH key path and no commit identity, so a newly started container uses
// the host ssh-agent fallback and its bootstrap sets no git identity.
func (e *Engine) ensureRunning(ctx context.Context, target ContainerTarget) error {
	_, err := e.Runtime.Start(ctx, spawn.StartOptions{
		Project: target.Project,
		Branch:  target.Branch,
		Repo:    target.Repo,
		Image:   target.Image,
	})
	return err
}

// allocateShortID lists existing plan-* directories to build the reserved
// set, then allocates a fresh short ID against it.
func (e *Engine) allocateShortID(ctx context.Context, store *statestore.Store) (string, error) {
	dirs, err := store.ListPlanDirNames(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: list plan directories: %v", pipelineerr.ErrRuntimeAbsent, err)
	}
	reserved := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		reserved[strings.TrimPrefix(d, "plan-")] = true
	}
	shortID, err := ids.Allocate(e.Clock, reserved)
	if err != nil {
		return "", fmt.Errorf("%w: %v", pipelineerr.ErrPrecondition, err)
	}
	return shortID, nil
}

// resolvePlan finds the unique plan directory matching a plan filter: an
// exact short ID, or (if filter is empty) the only plan dir present.
// Multiple matches with an empty filter is a precondition failure.
func (e *Engine) resolvePlan(ctx context.Context, store *statestore.Store, planFilter string) (string, *manifest.PlanManifest, error) {
	if planFilter != "" {
		m, err := store.ReadPlanManifest(ctx, planFilter)
		if err != nil {
			return "", nil, fmt.Errorf("%w: resolve plan %q: %v", pipelineerr.ErrPrecondition, planFilter, err)
		}
		return planFilter, m, nil
	}

	dirs, err := store.ListPlanDirNames(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("%w: list plan directories: %v", pipelineerr.ErrRuntimeAbsent, err)
	}
	if len(dirs) == 0 {
		return "", nil, fmt.Errorf("%w: no plans exist", pipelineerr.ErrPrecondition)
	}
	if len(dirs) > 1 {
		return "", nil, fmt.Errorf("%w: plan filter required, %d plans exist", pipelineerr.ErrPrecondition, len(dirs))
	}
	shortID := strings.TrimPrefix(dirs[0], "plan-")
	m, err := store.ReadPlanManifest(ctx, shortID)
	if err != nil {
		return "", nil, fmt.Errorf("%w: read plan %q: %v", pipelineerr.ErrArtifactInvalid, shortID, err)
	}
	return shortID, m, nil
}

// runPrompt invokes the assistant with prompt inside /workspace, streaming
// its JSON output. A detected hard-failure or cancellation surfaces as a
// classified error; the rendered text is otherwise discarded, since stage
// engines read back results from the artifact files the prompt asked the
// assistant to write. Every invocation is recorded as one generation under
// span, the calling stage's phase span.
func (e *Engine) runPrompt(ctx context.Context, exec *spawn.Exec, span observability.SpanContext, name, model, prompt string) (*shellbridge.StreamResult, error) {
	start := e.Clock.Now()
	res, err := exec.RunPrompt(ctx, "/workspace", model, prompt)
	duration := e.Clock.Now().Sub(start).Milliseconds()

	status, output := "completed", ""
	if err != nil {
		status, output = "error", err.Error()
	} else if res != nil {
		output = res.Rendered
	}
	e.Tracer.RecordGeneration(span, observability.GenerationInput{
		Name:       name,
		Model:      model,
		Input:      prompt,
		Output:     output,
		Status:     status,
		DurationMs: duration,
	})

	if err != nil {
		return nil, err
	}
	return res, nil
}

// startStage opens a trace for one stage invocation and its single phase
// span, grouped by taskID (the short plan ID).
func (e *Engine) startStage(taskID, repo, stage string) (observability.TraceContext, observability.SpanContext) {
	trace := e.Tracer.StartTrace(taskID, observability.TraceOptions{Workflow: stage, Repository: repo})
	span := e.Tracer.StartPhase(trace, stage, observability.SpanOptions{})
	return trace, span
}

// endStage closes the phase span and completes the trace with status.
func (e *Engine) endStage(trace observability.TraceContext, span observability.SpanContext, status string, startedAt time.Time) {
	e.Tracer.EndPhase(span, status, e.Clock.Now().Sub(startedAt).Milliseconds())
	e.Tracer.CompleteTrace(trace, observability.CompleteOptions{Status: status})
}

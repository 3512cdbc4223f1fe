package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jdharrison/smith/internal/manifest"
	"github.com/jdharrison/smith/internal/pipelineerr"
)

// ListOptions configures List.
type ListOptions struct {
	Target ContainerTarget
	State  manifest.PlanState // empty matches every state
	Limit  int                // 0 means unlimited
}

// List returns plan manifests for Target's container, newest plan first,
// optionally filtered by state and capped at Limit.
func (e *Engine) List(ctx context.Context, opts ListOptions) ([]*manifest.PlanManifest, error) {
	store := e.store(opts.Target.Project, opts.Target.Branch)

	dirs, err := store.ListPlanDirNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list plan directories: %v", pipelineerr.ErrRuntimeAbsent, err)
	}

	plans := make([]*manifest.PlanManifest, 0, len(dirs))
	for _, dir := range dirs {
		shortID := strings.TrimPrefix(dir, "plan-")
		m, err := store.ReadPlanManifest(ctx, shortID)
		if err != nil {
			continue
		}
		if opts.State != "" && m.State != opts.State {
			continue
		}
		plans = append(plans, m)
	}

	sortPlansNewestFirst(plans)

	if opts.Limit > 0 && len(plans) > opts.Limit {
		plans = plans[:opts.Limit]
	}
	return plans, nil
}

// sortPlansNewestFirst orders plans by CreatedAtUnix descending, breaking
// ties by ShortID descending for a stable, deterministic order.
func sortPlansNewestFirst(plans []*manifest.PlanManifest) {
	sort.Slice(plans, func(i, j int) bool {
		if plans[i].CreatedAtUnix != plans[j].CreatedAtUnix {
			return plans[i].CreatedAtUnix > plans[j].CreatedAtUnix
		}
		return plans[i].ShortID > plans[j].ShortID
	})
}

// ReplyOptions configures Reply.
type ReplyOptions struct {
	Target ContainerTarget
	PlanID string // short plan ID; empty resolves the sole plan
	Text   string
}

// Reply appends a free-text reply to a plan and fills every currently
// unanswered issue's Answer with it.
func (e *Engine) Reply(ctx context.Context, opts ReplyOptions) (*manifest.PlanManifest, error) {
	if strings.TrimSpace(opts.Text) == "" {
		return nil, fmt.Errorf("%w: reply text must not be empty", pipelineerr.ErrPrecondition)
	}
	store := e.store(opts.Target.Project, opts.Target.Branch)

	_, m, err := e.resolvePlan(ctx, store, opts.PlanID)
	if err != nil {
		return nil, err
	}
	m.AddReply(opts.Text, e.now())
	if err := store.WritePlanManifest(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jdharrison/smith/internal/manifest"
	"github.com/jdharrison/smith/internal/pipeline"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List plans for a branch",
	Long: `List prints every plan for a branch, newest first, optionally filtered
by state and capped to a limit.

Example:
  smith list --branch feature/x --state in_progress`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().String("branch", "", "branch to list plans for (required)")
	listCmd.Flags().String("state", "", "filter by plan state (not_started, in_progress, completed, failed, released, release_blocked, release_failed)")
	listCmd.Flags().Int("limit", 0, "cap the number of plans printed; 0 is unlimited")
	_ = listCmd.MarkFlagRequired("branch")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	branch, _ := cmd.Flags().GetString("branch")
	state, _ := cmd.Flags().GetString("state")
	limit, _ := cmd.Flags().GetInt("limit")

	engine, err := buildEngine(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}

	plans, err := engine.List(ctx, pipeline.ListOptions{
		Target: target(cfg, branch),
		State:  manifest.PlanState(state),
		Limit:  limit,
	})
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if len(plans) == 0 {
		fmt.Println("No plans found.")
		return nil
	}

	fmt.Printf("%-10s %-16s %-20s %s\n", "ID", "STATE", "CREATED", "TASK")
	fmt.Println(strings.Repeat("-", 80))
	for _, p := range plans {
		created := time.Unix(p.CreatedAtUnix, 0).Format(time.RFC3339)
		fmt.Printf("%-10s %-16s %-20s %s\n", p.ShortID, p.State, created, truncate(p.Prompt, 40))
	}
	fmt.Printf("\n%d plan(s) found.\n", len(plans))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jdharrison/smith/internal/pipeline"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Run the Plan stage for a task",
	Long: `Plan starts (or reuses) the spawn container for a branch and runs the
planner once, producing a plan manifest and its role artifacts.

Example:
  smith plan --branch feature/x --task "add rate limiting"`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().String("branch", "", "branch to plan against (required)")
	planCmd.Flags().String("task", "", "task description (required)")
	planCmd.Flags().String("helper-image", "", "language helper image to run before prompting")
	_ = planCmd.MarkFlagRequired("branch")
	_ = planCmd.MarkFlagRequired("task")
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	branch, _ := cmd.Flags().GetString("branch")
	task, _ := cmd.Flags().GetString("task")
	helperImage, _ := cmd.Flags().GetString("helper-image")

	engine, err := buildEngine(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}

	plan, err := engine.Plan(ctx, pipeline.PlanOptions{
		Target:      target(cfg, branch),
		Task:        task,
		HelperImage: helperImage,
	})
	if err != nil {
		return fmt.Errorf("plan failed: %w", err)
	}

	return printManifest(plan)
}

func printManifest(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

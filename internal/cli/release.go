package cli

import (
	"context"
	"fmt"

	"github.com/jdharrison/smith/internal/pipeline"
	"github.com/spf13/cobra"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Run the Release stage for a dev run",
	Long: `Release reviews a completed dev run, integrates it into the base branch
when the review allows it, and runs the post-integration sync step.

Example:
  smith release --branch feature/x --plan ab3k9f2q --dev-run dev-1700000000-ab3k9f2q`,
	RunE: runRelease,
}

func init() {
	rootCmd.AddCommand(releaseCmd)

	releaseCmd.Flags().String("branch", "", "branch to release (required)")
	releaseCmd.Flags().String("plan", "", "short plan ID; omit to resolve the sole plan")
	releaseCmd.Flags().String("dev-run", "", "dev run ID to release (required)")
	releaseCmd.Flags().String("base", "", "base branch to integrate into")
	_ = releaseCmd.MarkFlagRequired("branch")
	_ = releaseCmd.MarkFlagRequired("dev-run")
}

func runRelease(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	branch, _ := cmd.Flags().GetString("branch")
	planID, _ := cmd.Flags().GetString("plan")
	devRunID, _ := cmd.Flags().GetString("dev-run")
	base, _ := cmd.Flags().GetString("base")
	if base == "" {
		base = cfg.Pipeline.Base
	}

	engine, err := buildEngine(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}

	run, err := engine.Release(ctx, pipeline.ReleaseOptions{
		Target:   target(cfg, branch),
		PlanID:   planID,
		DevRunID: devRunID,
		Base:     base,
	})
	if err != nil {
		return fmt.Errorf("release failed: %w", err)
	}

	return printManifest(run)
}

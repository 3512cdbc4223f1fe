package cli

import (
	"context"
	"fmt"

	"github.com/jdharrison/smith/internal/pipeline"
	"github.com/spf13/cobra"
)

var developCmd = &cobra.Command{
	Use:   "develop",
	Short: "Run the Develop stage for a plan",
	Long: `Develop runs the develop/validate loop against a completed plan, then
commits and pushes the result.

Example:
  smith develop --branch feature/x --plan ab3k9f2q`,
	RunE: runDevelop,
}

func init() {
	rootCmd.AddCommand(developCmd)

	developCmd.Flags().String("branch", "", "branch to develop against (required)")
	developCmd.Flags().String("plan", "", "short plan ID; omit to resolve the sole plan")
	developCmd.Flags().String("base", "", "base branch to fork from if branch has no remote")
	developCmd.Flags().Int("max-validate-passes", 0, "override pipeline.max_validate_passes")
	developCmd.Flags().String("git-name", "", "override commit author name")
	developCmd.Flags().String("git-email", "", "override commit author email")
	_ = developCmd.MarkFlagRequired("branch")
}

func runDevelop(cmd *cobra.Command, args []string) error {
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
	base, _ := cmd.Flags().GetString("base")
	maxPasses, _ := cmd.Flags().GetInt("max-validate-passes")
	gitName, _ := cmd.Flags().GetString("git-name")
	gitEmail, _ := cmd.Flags().GetString("git-email")

	if base == "" {
		base = cfg.Pipeline.Base
	}
	if maxPasses == 0 {
		maxPasses = cfg.Pipeline.MaxValidatePasses
	}
	if gitName == "" {
		gitName = cfg.Git.Name
	}
	if gitEmail == "" {
		gitEmail = cfg.Git.Email
	}

	engine, err := buildEngine(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}

	run, err := engine.Develop(ctx, pipeline.DevelopOptions{
		Target:            target(cfg, branch),
		PlanID:            planID,
		Base:              base,
		MaxValidatePasses: maxPasses,
		GitName:           gitName,
		GitEmail:          gitEmail,
	})
	if err != nil {
		return fmt.Errorf("develop failed: %w", err)
	}

	return printManifest(run)
}

package cli

import (
	"context"
	"fmt"

	"github.com/jdharrison/smith/internal/pipeline"
	"github.com/spf13/cobra"
)

var replyCmd = &cobra.Command{
	Use:   "reply",
	Short: "Reply to a plan's open issues",
	Long: `Reply appends a free-text reply to a plan and fills every currently
unanswered issue's answer with it.

Example:
  smith reply --branch feature/x --plan ab3k9f2q --text "use redis for the limiter store"`,
	RunE: runReply,
}

func init() {
	rootCmd.AddCommand(replyCmd)

	replyCmd.Flags().String("branch", "", "branch the plan belongs to (required)")
	replyCmd.Flags().String("plan", "", "short plan ID (required)")
	replyCmd.Flags().String("text", "", "reply text (required)")
	_ = replyCmd.MarkFlagRequired("branch")
	_ = replyCmd.MarkFlagRequired("plan")
	_ = replyCmd.MarkFlagRequired("text")
}

func runReply(cmd *cobra.Command, args []string) error {
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
	text, _ := cmd.Flags().GetString("text")

	engine, err := buildEngine(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}

	plan, err := engine.Reply(ctx, pipeline.ReplyOptions{
		Target: target(cfg, branch),
		PlanID: planID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("reply failed: %w", err)
	}

	return printManifest(plan)
}

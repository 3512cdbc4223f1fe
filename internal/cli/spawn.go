package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var spawnCmd = &cobra.Command{
	Use:   "spawn",
	Short: "Manage spawn containers",
	Long:  `Spawn manages the long-lived per-(project,branch) containers the pipeline stages run against.`,
}

var spawnStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start (or reuse) the spawn container for a branch",
	RunE:  runSpawnStart,
}

var spawnStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the spawn container for a branch",
	RunE:  runSpawnStop,
}

var spawnRestartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the spawn container for a branch",
	RunE:  runSpawnRestart,
}

var spawnListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all spawn containers",
	RunE:  runSpawnList,
}

var spawnPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove stopped spawn containers",
	Long: `Prune removes every spawn container that is not currently running.

Example:
  smith spawn prune --force`,
	RunE: runSpawnPrune,
}

func init() {
	rootCmd.AddCommand(spawnCmd)
	spawnCmd.AddCommand(spawnStartCmd, spawnStopCmd, spawnRestartCmd, spawnListCmd, spawnPruneCmd)

	for _, c := range []*cobra.Command{spawnStartCmd, spawnStopCmd, spawnRestartCmd} {
		c.Flags().String("branch", "", "branch the container serves (required)")
		_ = c.MarkFlagRequired("branch")
	}
	spawnPruneCmd.Flags().BoolP("force", "f", false, "skip confirmation prompt")
}

func runSpawnStart(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	branch, _ := cmd.Flags().GetString("branch")
	runtime := buildRuntime(cfg)

	port, err := runtime.Start(ctx, containerStartOptions(cfg, branch))
	if err != nil {
		return fmt.Errorf("failed to start spawn container: %w", err)
	}

	fmt.Printf("Container for %s/%s is running on port %d\n", cfg.Project.Name, branch, port)
	return nil
}

func runSpawnStop(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	branch, _ := cmd.Flags().GetString("branch")
	runtime := buildRuntime(cfg)

	if err := runtime.Stop(ctx, cfg.Project.Name, branch); err != nil {
		return fmt.Errorf("failed to stop spawn container: %w", err)
	}

	fmt.Printf("Container for %s/%s stopped\n", cfg.Project.Name, branch)
	return nil
}

func runSpawnRestart(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	branch, _ := cmd.Flags().GetString("branch")
	runtime := buildRuntime(cfg)

	if err := runtime.Restart(ctx, cfg.Project.Name, branch); err != nil {
		return fmt.Errorf("failed to restart spawn container: %w", err)
	}

	fmt.Printf("Container for %s/%s restarted\n", cfg.Project.Name, branch)
	return nil
}

func runSpawnList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	runtime := buildRuntime(cfg)
	infos, err := runtime.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list spawn containers: %w", err)
	}

	if len(infos) == 0 {
		fmt.Println("No spawn containers found.")
		return nil
	}

	fmt.Printf("%-20s %-20s %-12s %-6s %s\n", "PROJECT", "BRANCH", "STATUS", "PORT", "IMAGE")
	fmt.Println(strings.Repeat("-", 80))
	for _, i := range infos {
		fmt.Printf("%-20s %-20s %-12s %-6d %s\n", i.Project, i.Branch, i.Status, i.Port, i.Image)
	}
	fmt.Printf("\n%d container(s) found.\n", len(infos))
	return nil
}

func runSpawnPrune(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	force, _ := cmd.Flags().GetBool("force")
	if !force {
		fmt.Println("This will remove every stopped spawn container.")
		fmt.Print("Are you sure? [y/N]: ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "y" && confirm != "Y" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	runtime := buildRuntime(cfg)
	removed, err := runtime.Prune(ctx)
	if err != nil {
		return fmt.Errorf("failed to prune spawn containers: %w", err)
	}

	if len(removed) == 0 {
		fmt.Println("Nothing to prune.")
		return nil
	}
	for _, name := range removed {
		fmt.Printf("removed %s\n", name)
	}
	return nil
}

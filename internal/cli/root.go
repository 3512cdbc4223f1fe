// Package cli implements the smith control-plane command line: spawn
// container lifecycle commands and the four pipeline stage commands
// (plan, develop, release, list, reply).
package cli

import (
	"fmt"
	"os"

	"github.com/jdharrison/smith/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "smith",
	Short: "smith - control plane for containerized coding-assistant pipelines",
	Long: `smith drives one long-lived container per (project, branch) through a
four-stage pipeline: Plan, Develop, Release, Review.

Example:
  smith plan --branch feature/x --task "add rate limiting"`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Version = version.Short()
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .smith.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error getting working directory:", err)
			os.Exit(1)
		}
		viper.AddConfigPath(cwd)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".smith")
	}

	viper.SetEnvPrefix("SMITH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// Package appconfig loads the control-plane's configuration from a YAML
// file, flags, and environment variables via viper, the way Agentium's
// internal/config does for its own session config.
package appconfig

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ProjectConfig names the project this control-plane instance drives.
type ProjectConfig struct {
	Name string `mapstructure:"name"`
	Repo string `mapstructure:"repo"`
}

// ContainerConfig controls how spawn containers are launched.
type ContainerConfig struct {
	Image              string        `mapstructure:"image"`
	DockerBin          string        `mapstructure:"docker_bin"`
	HealthPollInterval time.Duration `mapstructure:"health_poll_interval"`
	HealthPollTimeout  time.Duration `mapstructure:"health_poll_timeout"`
	SSHKeyPath         string        `mapstructure:"ssh_key_path"`
}

// GitConfig is the commit identity recorded by in-container git operations.
type GitConfig struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
}

// PipelineConfig controls stage defaults shared across invocations.
type PipelineConfig struct {
	Base              string `mapstructure:"base"`
	MaxValidatePasses int    `mapstructure:"max_validate_passes"`
	RolesFile         string `mapstructure:"roles_file"`
}

// LangfuseConfig enables Langfuse tracing when Enabled is true and both
// keys are set.
type LangfuseConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	PublicKey string `mapstructure:"public_key"`
	SecretKey string `mapstructure:"secret_key"`
	BaseURL   string `mapstructure:"base_url"`
}

// LoggingConfig controls where structured log lines go.
type LoggingConfig struct {
	GCPProjectID string `mapstructure:"gcp_project_id"`
	LogID        string `mapstructure:"log_id"`
}

// Config is the full control-plane configuration.
type Config struct {
	Project   ProjectConfig   `mapstructure:"project"`
	Container ContainerConfig `mapstructure:"container"`
	Git       GitConfig       `mapstructure:"git"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Langfuse  LangfuseConfig  `mapstructure:"langfuse"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// Load reads the control-plane configuration from an already-initialized
// viper instance (the CLI binds config search paths and env overrides
// ahead of time) and applies defaults to unset fields.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Container.DockerBin == "" {
		cfg.Container.DockerBin = "docker"
	}
	if cfg.Container.HealthPollInterval == 0 {
		cfg.Container.HealthPollInterval = 1 * time.Second
	}
	if cfg.Container.HealthPollTimeout == 0 {
		cfg.Container.HealthPollTimeout = 2 * time.Minute
	}
	if cfg.Git.Name == "" {
		cfg.Git.Name = "smith"
	}
	if cfg.Git.Email == "" {
		cfg.Git.Email = "smith@localhost"
	}
	if cfg.Pipeline.Base == "" {
		cfg.Pipeline.Base = "main"
	}
	if cfg.Pipeline.MaxValidatePasses == 0 {
		cfg.Pipeline.MaxValidatePasses = 3
	}
	if cfg.Logging.LogID == "" {
		cfg.Logging.LogID = "smith-pipeline"
	}
}

// Validate checks the fields every stage command needs regardless of which
// one is invoked.
func (c *Config) Validate() error {
	if c.Project.Name == "" {
		return fmt.Errorf("project.name is required")
	}
	if c.Project.Repo == "" {
		return fmt.Errorf("project.repo is required")
	}
	if c.Container.Image == "" {
		return fmt.Errorf("container.image is required")
	}
	return nil
}

// Package roleconfig loads per-role model and prompt overrides consumed by
// the stage engines: Develop's validator invocation and Release's reviewer
// invocation are both "resolved from pipeline roles config" rather than
// hardcoded to the planner/developer defaults.
package roleconfig

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Role names keyed in the config file and looked up by stage engines.
const (
	RolePlanner   = "planner"
	RoleDeveloper = "developer"
	RoleValidator = "validator"
	RoleReviewer  = "reviewer"
	RoleSync      = "sync"
)

// ModelConfig names an adapter and model pair, e.g. "claude-code:opus" split
// on the first colon.
type ModelConfig struct {
	Adapter string `json:"adapter" yaml:"adapter" mapstructure:"adapter"`
	Model   string `json:"model" yaml:"model" mapstructure:"model"`
}

// ParseModelSpec splits "adapter:model" into a ModelConfig. A spec with no
// colon is treated as a bare model name against an empty adapter.
func ParseModelSpec(spec string) ModelConfig {
	for i := 0; i < len(spec); i++ {
		if spec[i] == ':' {
			return ModelConfig{Adapter: spec[:i], Model: spec[i+1:]}
		}
	}
	return ModelConfig{Model: spec}
}

// RoleOverride is one role's model and prompt override.
type RoleOverride struct {
	Model                ModelConfig `yaml:"model" mapstructure:"model"`
	SystemPromptOverride string      `yaml:"system_prompt_override" mapstructure:"system_prompt_override"`
}

// Config is the full set of per-role overrides, keyed by role name.
type Config struct {
	Roles map[string]RoleOverride `yaml:"roles" mapstructure:"roles"`
}

// defaults returns the built-in role config used when no file is present.
func defaults() *Config {
	return &Config{
		Roles: map[string]RoleOverride{
			RolePlanner:   {Model: ModelConfig{Adapter: "claude-code", Model: "opus"}},
			RoleDeveloper: {Model: ModelConfig{Adapter: "claude-code", Model: "sonnet"}},
			RoleValidator: {Model: ModelConfig{Adapter: "claude-code", Model: "sonnet"}},
			RoleReviewer:  {Model: ModelConfig{Adapter: "claude-code", Model: "opus"}},
			RoleSync:      {Model: ModelConfig{Adapter: "claude-code", Model: "sonnet"}},
		},
	}
}

// Load reads a YAML pipeline-roles config from path. A missing file is not
// an error; it yields the built-in defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return defaults(), nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read roles config %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse roles config %q: %w", path, err)
	}
	return cfg, nil
}

// LoadViper reads the pipeline-roles config from an already-initialized
// viper instance (used by the CLI, which binds config search paths and env
// overrides ahead of time).
func LoadViper(v *viper.Viper) (*Config, error) {
	cfg := defaults()
	if err := v.UnmarshalKey("roles", &cfg.Roles); err != nil {
		return nil, fmt.Errorf("unmarshal roles config: %w", err)
	}
	return cfg, nil
}

// ForRole returns the override for role, or the zero value if unconfigured.
func (c *Config) ForRole(role string) RoleOverride {
	if c == nil {
		return RoleOverride{}
	}
	return c.Roles[role]
}

package appconfig

import (
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid config",
			config: Config{
				Project:   ProjectConfig{Name: "myapp", Repo: "github.com/org/myapp"},
				Container: ContainerConfig{Image: "smith/assistant:latest"},
			},
			wantErr: false,
		},
		{
			name:    "missing project name",
			config:  Config{Project: ProjectConfig{Repo: "github.com/org/myapp"}, Container: ContainerConfig{Image: "x"}},
			wantErr: true,
			errMsg:  "project.name is required",
		},
		{
			name:    "missing repo",
			config:  Config{Project: ProjectConfig{Name: "myapp"}, Container: ContainerConfig{Image: "x"}},
			wantErr: true,
			errMsg:  "project.repo is required",
		},
		{
			name:    "missing image",
			config:  Config{Project: ProjectConfig{Name: "myapp", Repo: "github.com/org/myapp"}},
			wantErr: true,
			errMsg:  "container.image is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("Validate() = nil, want error %q", tt.errMsg)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if tt.wantErr && err.Error() != tt.errMsg {
				t.Fatalf("Validate() = %q, want %q", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	if cfg.Container.DockerBin != "docker" {
		t.Errorf("Container.DockerBin = %q, want docker", cfg.Container.DockerBin)
	}
	if cfg.Container.HealthPollInterval != 1*time.Second {
		t.Errorf("Container.HealthPollInterval = %v, want 1s", cfg.Container.HealthPollInterval)
	}
	if cfg.Container.HealthPollTimeout != 2*time.Minute {
		t.Errorf("Container.HealthPollTimeout = %v, want 2m", cfg.Container.HealthPollTimeout)
	}
	if cfg.Git.Name != "smith" {
		t.Errorf("Git.Name = %q, want smith", cfg.Git.Name)
	}
	if cfg.Git.Email != "smith@localhost" {
		t.Errorf("Git.Email = %q, want smith@localhost", cfg.Git.Email)
	}
	if cfg.Pipeline.Base != "main" {
		t.Errorf("Pipeline.Base = %q, want main", cfg.Pipeline.Base)
	}
	if cfg.Pipeline.MaxValidatePasses != 3 {
		t.Errorf("Pipeline.MaxValidatePasses = %d, want 3", cfg.Pipeline.MaxValidatePasses)
	}
	if cfg.Logging.LogID != "smith-pipeline" {
		t.Errorf("Logging.LogID = %q, want smith-pipeline", cfg.Logging.LogID)
	}
}

func TestApplyDefaultsPreservesSetValues(t *testing.T) {
	cfg := &Config{
		Container: ContainerConfig{DockerBin: "podman"},
		Git:       GitConfig{Name: "alice", Email: "alice@example.com"},
		Pipeline:  PipelineConfig{Base: "develop", MaxValidatePasses: 5},
	}
	applyDefaults(cfg)

	if cfg.Container.DockerBin != "podman" {
		t.Errorf("Container.DockerBin = %q, want podman", cfg.Container.DockerBin)
	}
	if cfg.Git.Name != "alice" {
		t.Errorf("Git.Name = %q, want alice", cfg.Git.Name)
	}
	if cfg.Pipeline.Base != "develop" {
		t.Errorf("Pipeline.Base = %q, want develop", cfg.Pipeline.Base)
	}
	if cfg.Pipeline.MaxValidatePasses != 5 {
		t.Errorf("Pipeline.MaxValidatePasses = %d, want 5", cfg.Pipeline.MaxValidatePasses)
	}
}

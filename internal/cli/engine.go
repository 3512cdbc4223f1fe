package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jdharrison/smith/internal/appconfig"
	"github.com/jdharrison/smith/internal/cloudlog"
	"github.com/jdharrison/smith/internal/ids"
	"github.com/jdharrison/smith/internal/observability"
	"github.com/jdharrison/smith/internal/pipeline"
	"github.com/jdharrison/smith/internal/promptbuilder"
	"github.com/jdharrison/smith/internal/roleconfig"
	"github.com/jdharrison/smith/internal/security"
	"github.com/jdharrison/smith/internal/spawn"
	"github.com/spf13/viper"
)

// loadConfig reads the control-plane config from viper, which initConfig
// has already pointed at the resolved config file and environment prefix.
func loadConfig() (*appconfig.Config, error) {
	return appconfig.Load(viper.GetViper())
}

// buildRuntime constructs a spawn.Runtime from cfg.
func buildRuntime(cfg *appconfig.Config) *spawn.Runtime {
	rt := spawn.NewRuntime()
	rt.DockerBin = cfg.Container.DockerBin
	rt.Security = security.DefaultContainerSecurityOptions()
	rt.HealthPollInterval = cfg.Container.HealthPollInterval
	rt.HealthPollTimeout = cfg.Container.HealthPollTimeout
	return rt
}

// buildTracer constructs the Tracer configured in cfg, falling back to a
// no-op tracer when Langfuse credentials are absent.
func buildTracer(cfg *appconfig.Config) observability.Tracer {
	if !cfg.Langfuse.Enabled || cfg.Langfuse.PublicKey == "" || cfg.Langfuse.SecretKey == "" {
		return &observability.NoOpTracer{}
	}
	return observability.NewLangfuseTracer(observability.LangfuseConfig{
		PublicKey: cfg.Langfuse.PublicKey,
		SecretKey: cfg.Langfuse.SecretKey,
		BaseURL:   cfg.Langfuse.BaseURL,
	}, log.New(os.Stderr, "langfuse: ", log.LstdFlags))
}

// buildLogger constructs a Cloud Logging-backed logger when cfg names a
// GCP project, falling back to the stdout logger otherwise.
func buildLogger(ctx context.Context, cfg *appconfig.Config, runID string) cloudlog.Logger {
	if cfg.Logging.GCPProjectID == "" {
		return cloudlog.NewLogger(ctx, runID)
	}
	gcpLogger, err := cloudlog.NewGCPLogger(ctx, cfg.Logging.GCPProjectID, cfg.Logging.LogID, runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: falling back to stdout logging: %v\n", err)
		return cloudlog.NewLogger(ctx, runID)
	}
	return gcpLogger
}

// buildEngine assembles a pipeline.Engine from configuration, the way every
// stage command needs it.
func buildEngine(ctx context.Context, cfg *appconfig.Config) (*pipeline.Engine, error) {
	prompts, err := promptbuilder.New()
	if err != nil {
		return nil, err
	}
	roles, err := roleconfig.LoadViper(viper.GetViper())
	if err != nil {
		return nil, err
	}
	runID := ids.ShortID(time.Now().UnixNano(), 0)
	logger := buildLogger(ctx, cfg, runID)
	tracer := buildTracer(cfg)
	runtime := buildRuntime(cfg)

	return pipeline.NewEngine(runtime, prompts, roles, logger, tracer, ids.SystemClock{}), nil
}

// containerStartOptions builds spawn.StartOptions for a manual `spawn
// start` invocation, the way pipeline.Engine.ensureRunning does implicitly
// for every stage command.
func containerStartOptions(cfg *appconfig.Config, branch string) spawn.StartOptions {
	return spawn.StartOptions{
		Project:    cfg.Project.Name,
		Branch:     branch,
		Repo:       cfg.Project.Repo,
		Image:      cfg.Container.Image,
		SSHKeyPath: cfg.Container.SSHKeyPath,
		CommitIdentity: &spawn.GitIdentity{
			Name:  cfg.Git.Name,
			Email: cfg.Git.Email,
		},
	}
}

// target builds a ContainerTarget from cfg and the given branch.
func target(cfg *appconfig.Config, branch string) pipeline.ContainerTarget {
	return pipeline.ContainerTarget{
		Project: cfg.Project.Name,
		Branch:  branch,
		Repo:    cfg.Project.Repo,
		Image:   cfg.Container.Image,
	}
}

// Package secrets resolves named secrets (SSH deploy keys, role model
// credentials) from, in order: an explicit local file path, an environment
// variable, a cloud secret manager.
package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Fetcher retrieves a secret payload by its cloud secret manager path or name.
// Implemented by Client; a nil Fetcher is valid and simply skips that step of
// resolution.
type Fetcher interface {
	FetchSecret(ctx context.Context, secretPath string) (string, error)
	Close() error
}

// Source resolves named secrets using the local-path -> env-var -> cloud
// fallback chain.
type Source struct {
	// LocalPaths maps a secret name to a file on disk to read first.
	LocalPaths map[string]string
	// EnvVars maps a secret name to an environment variable to read second.
	EnvVars map[string]string
	// CloudPaths maps a secret name to a cloud secret manager path to read
	// last, via Cloud.
	CloudPaths map[string]string
	// Cloud is the secret manager client; may be nil if unconfigured.
	Cloud Fetcher
}

// Resolve returns the secret value for name, trying the local path, then the
// environment variable, then the cloud secret manager, in that order. It
// returns an error naming every step tried if all fail.
func (s *Source) Resolve(ctx context.Context, name string) (string, error) {
	var tried []string

	if path, ok := s.LocalPaths[name]; ok && path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			return strings.TrimSpace(string(data)), nil
		}
		tried = append(tried, fmt.Sprintf("local path %q: %v", path, err))
	}

	if envVar, ok := s.EnvVars[name]; ok && envVar != "" {
		if val := os.Getenv(envVar); val != "" {
			return val, nil
		}
		tried = append(tried, fmt.Sprintf("env var %q: unset", envVar))
	}

	if cloudPath, ok := s.CloudPaths[name]; ok && cloudPath != "" && s.Cloud != nil {
		val, err := s.Cloud.FetchSecret(ctx, cloudPath)
		if err == nil {
			return val, nil
		}
		tried = append(tried, fmt.Sprintf("secret manager %q: %v", cloudPath, err))
	}

	if len(tried) == 0 {
		return "", fmt.Errorf("secret %q: no resolution source configured", name)
	}
	return "", fmt.Errorf("secret %q: exhausted all sources: %s", name, strings.Join(tried, "; "))
}

// Close releases the underlying cloud client, if any.
func (s *Source) Close() error {
	if s.Cloud != nil {
		return s.Cloud.Close()
	}
	return nil
}

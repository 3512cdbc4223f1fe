package secrets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// Client wraps the GCP Secret Manager client as a Fetcher.
type Client struct {
	client    *secretmanager.Client
	projectID string
}

// NewClient creates a Secret Manager client, resolving the project ID from
// the environment or the instance metadata server.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create secret manager client: %w", err)
	}

	projectID, err := resolveProjectID(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve project id: %w", err)
	}

	return &Client{client: client, projectID: projectID}, nil
}

func resolveProjectID(ctx context.Context) (string, error) {
	for _, envVar := range []string{"GOOGLE_CLOUD_PROJECT", "GCP_PROJECT", "GCLOUD_PROJECT"} {
		if v := os.Getenv(envVar); v != "" {
			return v, nil
		}
	}
	return projectIDFromMetadata(ctx)
}

func projectIDFromMetadata(ctx context.Context) (string, error) {
	const metadataURL = "http://metadata.google.internal/computeMetadata/v1/project/project-id"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadataURL, nil)
	if err != nil {
		return "", fmt.Errorf("build metadata request: %w", err)
	}
	req.Header.Set("Metadata-Flavor", "Google")

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch project id from metadata server: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("metadata server returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read metadata response: %w", err)
	}

	projectID := strings.TrimSpace(string(body))
	if projectID == "" {
		return "", fmt.Errorf("empty project id from metadata server")
	}
	return projectID, nil
}

// FetchSecret retrieves the latest version of a secret. secretPath may be a
// full resource name (with or without a version) or a bare secret name, in
// which case it is resolved against the client's project ID at "latest".
func (c *Client) FetchSecret(ctx context.Context, secretPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req := &secretmanagerpb.AccessSecretVersionRequest{Name: c.normalizeSecretPath(secretPath)}

	result, err := c.client.AccessSecretVersion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("access secret version: %w", err)
	}
	return string(result.Payload.Data), nil
}

func (c *Client) normalizeSecretPath(secretPath string) string {
	if strings.HasPrefix(secretPath, "projects/") && strings.Contains(secretPath, "/versions/") {
		return secretPath
	}
	if strings.HasPrefix(secretPath, "projects/") && strings.Contains(secretPath, "/secrets/") {
		return secretPath + "/versions/latest"
	}
	secretName := path.Base(secretPath)
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", c.projectID, secretName)
}

// Close closes the underlying Secret Manager client.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

package cloudlog

import (
	"context"
	"fmt"
	"os"
	"sync"

	"cloud.google.com/go/logging"
	"google.golang.org/api/option"
)

// GCPLogger fans log entries to a real Cloud Logging log writer, in addition
// to a local FallbackLogger so stdout still carries a readable trace when
// tailing the process directly.
type GCPLogger struct {
	client   *logging.Client
	gcpLog   *logging.Logger
	fallback *FallbackLogger
	mu       sync.Mutex
	stage    string
}

// NewGCPLogger dials Cloud Logging for the given GCP project and log ID,
// fanning every entry to both Cloud Logging and local stdout.
func NewGCPLogger(ctx context.Context, projectID, logID, runID string, opts ...option.ClientOption) (*GCPLogger, error) {
	client, err := logging.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial cloud logging client: %w", err)
	}

	return &GCPLogger{
		client:   client,
		gcpLog:   client.Logger(logID),
		fallback: NewFallbackLogger(os.Stdout, runID),
	}, nil
}

func severityToGCP(s Severity) logging.Severity {
	switch s {
	case SeverityInfo:
		return logging.Info
	case SeverityWarning:
		return logging.Warning
	case SeverityError:
		return logging.Error
	case SeverityCritical:
		return logging.Critical
	default:
		return logging.Default
	}
}

func (l *GCPLogger) Log(severity Severity, message string, fields map[string]interface{}) {
	l.mu.Lock()
	stage := l.stage
	l.mu.Unlock()

	payload := map[string]interface{}{
		"message": message,
		"run_id":  l.fallback.runID,
		"stage":   stage,
	}
	for k, v := range fields {
		payload[k] = v
	}

	l.gcpLog.Log(logging.Entry{
		Severity: severityToGCP(severity),
		Payload:  payload,
		Labels:   l.fallback.labels,
	})

	// also emit locally, in case stdout is being tailed directly.
	if l.fallback.writer != nil {
		l.fallback.Log(severity, message, fields)
	}
}

func (l *GCPLogger) Info(message string)    { l.Log(SeverityInfo, message, nil) }
func (l *GCPLogger) Warning(message string) { l.Log(SeverityWarning, message, nil) }
func (l *GCPLogger) Error(message string)   { l.Log(SeverityError, message, nil) }

func (l *GCPLogger) SetStage(stage string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stage = stage
	l.fallback.SetStage(stage)
}

// Flush blocks until all buffered Cloud Logging entries are sent.
func (l *GCPLogger) Flush() error {
	return l.gcpLog.Flush()
}

// Close flushes and releases the Cloud Logging client.
func (l *GCPLogger) Close() error {
	if err := l.gcpLog.Flush(); err != nil {
		_ = l.client.Close()
		return fmt.Errorf("flush cloud logging client: %w", err)
	}
	return l.client.Close()
}

var _ Logger = (*GCPLogger)(nil)

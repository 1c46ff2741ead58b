// pkg/logging/logger.go
package logging

import (
	"context"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/logging"
)

// Logger writes structured entries to Google Cloud Logging when a project is
// configured and mirrors everything to stderr so local runs stay readable.
type Logger struct {
	client *logging.Client
	cloud  *logging.Logger
	std    *log.Logger
}

// New builds a logger for the given project. An empty projectID yields a
// stderr-only logger, which is what tests and local development use.
func New(ctx context.Context, projectID, logID string) (*Logger, error) {
	l := &Logger{std: log.New(os.Stderr, "", log.LstdFlags)}
	if projectID == "" {
		return l, nil
	}
	client, err := logging.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	l.client = client
	l.cloud = client.Logger(logID)
	return l, nil
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.logf(logging.Info, format, args...)
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.logf(logging.Warning, format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logf(logging.Error, format, args...)
}

func (l *Logger) logf(severity logging.Severity, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if l.cloud != nil {
		l.cloud.Log(logging.Entry{Severity: severity, Payload: msg})
	}
	l.std.Printf("%s: %s", severity, msg)
}

// Close flushes buffered entries and releases the Cloud Logging client.
func (l *Logger) Close() error {
	if l.client == nil {
		return nil
	}
	return l.client.Close()
}

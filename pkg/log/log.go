package log

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Fields is an alias for logrus.Fields.
type Fields = logrus.Fields

type contextKey string

// RunIDKey stores the correlation ID of one sync or publish run in the context.
const RunIDKey contextKey = "run_id"

const runIDField = "run_id"

// Setup configures the global logrus logger: full-timestamp text output and
// the level parsed from config (falling back to info).
func Setup(level string) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("invalid log level %q, using info", level)
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// WithRunID attaches a fresh run ID to the context and returns it. Every
// pipeline run gets its own so log lines from concurrent runs stay separable.
func WithRunID(ctx context.Context) (context.Context, string) {
	runID := uuid.New().String()
	return context.WithValue(ctx, RunIDKey, runID), runID
}

// RunID extracts the run ID from the context, empty if none was attached.
func RunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// ForContext returns a logrus entry carrying the context's run ID.
func ForContext(ctx context.Context) *logrus.Entry {
	if runID := RunID(ctx); runID != "" {
		return logrus.WithField(runIDField, runID)
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

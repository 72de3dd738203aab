package logger

import (
	"context"

	"go.uber.org/zap"

	"creatorpulse/pkg/trace"
)

var Log *zap.Logger

func NewLogger() *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	Log = l
	return l
}

// WithRun attaches the run_id from the context, so every log line of a
// delivery pass can be correlated.
func WithRun(ctx context.Context, logger *zap.Logger) *zap.Logger {
	runID := trace.FromContext(ctx)
	if runID != "" {
		return logger.With(zap.String("run_id", runID))
	}
	return logger
}

package trace

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

// NewRunID returns a fresh identifier for one delivery pass.
func NewRunID() string {
	return uuid.NewString()
}

// FromContext returns the run_id stored in ctx, or "".
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

// WithContext stores the run_id in ctx.
func WithContext(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, runID)
}

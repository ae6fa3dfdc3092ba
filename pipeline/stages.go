// Package pipeline: standard stages (stdlib-style) for common pipeline patterns.

package pipeline

import (
	"context"
	"time"
)

// Identity returns a stage that passes the input through unchanged.
// Useful as a no-op or as a placeholder in config-built pipelines.
func Identity() Stage {
	return func(ctx context.Context, input interface{}) (interface{}, error) {
		return input, nil
	}
}

// WithTimeout wraps inner so it runs with a context deadline of now+timeout.
// If inner does not return before the deadline, context.DeadlineExceeded is returned.
func WithTimeout(inner Stage, timeout time.Duration) Stage {
	return func(ctx context.Context, input interface{}) (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		out, err := inner(ctx, input)
		if err == nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return out, err
	}
}

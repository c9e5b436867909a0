package core

import (
	"context"
	"time"
)

// Context keys for execution options
type contextKey string

const (
	clockKey contextKey = "clock"
	quietKey contextKey = "quiet"
)

// WithClock fixes the time used for new submissions and consensus runs.
func WithClock(ctx context.Context, now func() time.Time) context.Context {
	return context.WithValue(ctx, clockKey, now)
}

// nowFrom returns the clock time from context, or time.Now.
func nowFrom(ctx context.Context) time.Time {
	if now, ok := ctx.Value(clockKey).(func() time.Time); ok && now != nil {
		return now()
	}
	return time.Now()
}

// WithQuiet suppresses warnings on stderr, for callers that report them in-band.
func WithQuiet(ctx context.Context) context.Context {
	return context.WithValue(ctx, quietKey, true)
}

// isQuiet returns whether warnings should be suppressed
func isQuiet(ctx context.Context) bool {
	quiet, ok := ctx.Value(quietKey).(bool)
	return ok && quiet
}

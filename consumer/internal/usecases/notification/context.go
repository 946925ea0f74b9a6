package notification

import "context"

type contextKey string

const attemptKey contextKey = "attempt"

// WithAttempt records the delivery attempt number on ctx.
func WithAttempt(ctx context.Context, attempt int) context.Context {
	return context.WithValue(ctx, attemptKey, attempt)
}

// AttemptFromContext returns the attempt stored by WithAttempt, or 0.
func AttemptFromContext(ctx context.Context) int {
	attempt, _ := ctx.Value(attemptKey).(int)
	return attempt
}

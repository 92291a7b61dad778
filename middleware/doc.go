// Package middleware decorates any provider.Client with caller-level
// concerns the core leaves out: structured logging, rate and concurrency
// limits, retries of transient failures and per-call deadlines.
//
// Decorators compose with Wrap. The first middleware is the outermost:
//
//	client := middleware.Wrap(backend,
//	    middleware.WithLogging(logger, "echo"),
//	    middleware.WithRetry(3, middleware.ExponentialBackoff(200*time.Millisecond, 5*time.Second)),
//	    middleware.WithRateLimit(middleware.PerMinute(60)),
//	    middleware.WithConcurrencyLimit(4),
//	    middleware.WithTimeout(time.Minute),
//	)
//
// ForConfig builds the same stack from a provider.Config.
//
// Logging, rate, concurrency and timeout decorators hand back the backend's
// own stream. They attach through Stream.OnRelease and Stream.OnFinish, so
// slots, deadlines and log records follow the stream's lifetime. WithRetry is
// the exception: it returns a stream of its own that ranges over the current
// attempt, because a retry replaces the backend's stream.
package middleware

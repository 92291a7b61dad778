package middleware

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/randalmurphal/llmcore/provider"
)

// PerMinute returns a token-bucket limiter allowing n requests per minute
// with a burst of n. n <= 0 returns nil, which WithRateLimit treats as
// unlimited.
func PerMinute(n int) *rate.Limiter {
	if n <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(float64(n)/60.0), n)
}

// WithRateLimit blocks each call until l allows it or the context is done.
// Opening a stream counts as one request.
func WithRateLimit(l *rate.Limiter) Middleware {
	return func(next provider.Client) provider.Client {
		if l == nil {
			return next
		}
		return Funcs{
			CompleteFunc: func(ctx context.Context, req provider.Request) (provider.Decision, error) {
				if err := l.Wait(ctx); err != nil {
					return nil, err
				}
				return next.Complete(ctx, req)
			},
			StreamFunc: func(ctx context.Context, req provider.Request) (*provider.Stream, error) {
				if err := l.Wait(ctx); err != nil {
					return nil, err
				}
				return next.StreamComplete(ctx, req)
			},
		}
	}
}

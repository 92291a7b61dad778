package middleware

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/randalmurphal/llmcore/provider"
)

// WithConcurrencyLimit allows at most n calls in flight. A Complete call
// holds a slot until it returns; a stream holds its slot until it releases
// its resources.
func WithConcurrencyLimit(n int64) Middleware {
	return func(next provider.Client) provider.Client {
		if n <= 0 {
			return next
		}
		sem := semaphore.NewWeighted(n)
		return Funcs{
			CompleteFunc: func(ctx context.Context, req provider.Request) (provider.Decision, error) {
				if err := sem.Acquire(ctx, 1); err != nil {
					return nil, err
				}
				defer sem.Release(1)
				return next.Complete(ctx, req)
			},
			StreamFunc: func(ctx context.Context, req provider.Request) (*provider.Stream, error) {
				if err := sem.Acquire(ctx, 1); err != nil {
					return nil, err
				}
				s, err := next.StreamComplete(ctx, req)
				if err != nil {
					sem.Release(1)
					return nil, err
				}
				s.OnRelease(func() { sem.Release(1) })
				return s, nil
			},
		}
	}
}

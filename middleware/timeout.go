package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/randalmurphal/llmcore/provider"
)

// WithTimeout bounds each Complete call by d. A stream gets the deadline on
// its context for its whole life. d <= 0 disables the limit.
//
// Running out of time fails with provider.ErrTimeout: a Complete call returns
// it, a stream ends in StreamFailed with it. Cancellation by the caller is
// passed through unchanged.
func WithTimeout(d time.Duration) Middleware {
	return func(next provider.Client) provider.Client {
		if d <= 0 {
			return next
		}
		return Funcs{
			CompleteFunc: func(ctx context.Context, req provider.Request) (provider.Decision, error) {
				tctx, cancel := context.WithTimeout(ctx, d)
				defer cancel()

				out, err := next.Complete(tctx, req)
				if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
					return nil, timeoutError(d, err)
				}
				return out, err
			},
			StreamFunc: func(ctx context.Context, req provider.Request) (*provider.Stream, error) {
				tctx, cancel := context.WithTimeoutCause(ctx, d, timeoutError(d, context.DeadlineExceeded))
				s, err := next.StreamComplete(tctx, req)
				if err != nil {
					cancel()
					return nil, err
				}
				s.OnRelease(cancel)
				return s, nil
			},
		}
	}
}

func timeoutError(d time.Duration, err error) error {
	return fmt.Errorf("%w after %s: %w", provider.ErrTimeout, d, err)
}

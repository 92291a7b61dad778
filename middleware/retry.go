package middleware

import (
	"context"
	"time"

	"github.com/randalmurphal/llmcore/provider"
)

// Backoff returns the delay before retry number attempt (1-based).
type Backoff func(attempt int) time.Duration

// DefaultBackoff is used by ForConfig.
var DefaultBackoff = ExponentialBackoff(500*time.Millisecond, 10*time.Second)

// ExponentialBackoff doubles base per attempt, capped at limit.
func ExponentialBackoff(base, limit time.Duration) Backoff {
	return func(attempt int) time.Duration {
		d := base
		for i := 1; i < attempt && d < limit; i++ {
			d *= 2
		}
		return min(d, limit)
	}
}

// ConstantBackoff waits d before every retry.
func ConstantBackoff(d time.Duration) Backoff {
	return func(int) time.Duration { return d }
}

// WithRetry makes up to attempts tries of a call whose failure
// provider.IsRetryable reports as transient. Other failures return at once.
//
// A stream is retried when it fails to open, or when it fails before
// delivering its first element. Once an element was delivered, a failure is
// passed through as is.
func WithRetry(attempts int, backoff Backoff) Middleware {
	if backoff == nil {
		backoff = DefaultBackoff
	}
	return func(next provider.Client) provider.Client {
		if attempts <= 1 {
			return next
		}
		r := retrier{next: next, attempts: attempts, backoff: backoff}
		return Funcs{CompleteFunc: r.complete, StreamFunc: r.stream}
	}
}

type retrier struct {
	next     provider.Client
	attempts int
	backoff  Backoff
}

func (r retrier) complete(ctx context.Context, req provider.Request) (provider.Decision, error) {
	for attempt := 1; ; attempt++ {
		d, err := r.next.Complete(ctx, req)
		if err == nil || !r.again(ctx, attempt, err) {
			return d, err
		}
	}
}

// open retries call-level failures of StreamComplete, starting at attempt.
func (r retrier) open(ctx context.Context, req provider.Request, attempt int) (*provider.Stream, int, error) {
	for ; ; attempt++ {
		s, err := r.next.StreamComplete(ctx, req)
		if err == nil || !r.again(ctx, attempt, err) {
			return s, attempt, err
		}
	}
}

func (r retrier) stream(ctx context.Context, req provider.Request) (*provider.Stream, error) {
	first, attempt, err := r.open(ctx, req, 1)
	if err != nil {
		return nil, err
	}

	out := provider.NewStream(ctx, func(yield func(provider.Decision, error) bool) {
		cur := first
		for {
			delivered := 0
			var failure error
			for d, err := range cur.All() {
				if err != nil {
					failure = err
					break
				}
				delivered++
				if !yield(d, nil) {
					return
				}
			}
			if failure == nil {
				return
			}
			if delivered > 0 || !r.again(ctx, attempt, failure) {
				yield(nil, failure)
				return
			}

			var err error
			cur, attempt, err = r.open(ctx, req, attempt+1)
			if err != nil {
				yield(nil, err)
				return
			}
		}
	}, nil)

	// The first stream was opened eagerly; close it if the caller never
	// pulls from out.
	out.OnFinish(func(provider.StreamState, int, error) { first.Close() })
	return out, nil
}

// again reports whether to retry after err on the given attempt, sleeping
// through the backoff. It returns false when the context ends first.
func (r retrier) again(ctx context.Context, attempt int, err error) bool {
	if attempt >= r.attempts || !provider.IsRetryable(err) {
		return false
	}
	return sleep(ctx, r.backoff(attempt)) == nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

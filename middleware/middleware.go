package middleware

import (
	"context"
	"log/slog"

	"github.com/randalmurphal/llmcore/provider"
)

// Middleware decorates a Client.
type Middleware func(next provider.Client) provider.Client

// Wrap applies mws to c. The first middleware is the outermost.
func Wrap(c provider.Client, mws ...Middleware) provider.Client {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			c = mws[i](c)
		}
	}
	return c
}

// StreamFunc is the shape of Client.StreamComplete.
type StreamFunc func(ctx context.Context, req provider.Request) (*provider.Stream, error)

// Funcs adapts a pair of functions to provider.Client.
type Funcs struct {
	CompleteFunc provider.CompleteFunc
	StreamFunc   StreamFunc
}

// Complete implements provider.Client.
func (f Funcs) Complete(ctx context.Context, req provider.Request) (provider.Decision, error) {
	return f.CompleteFunc(ctx, req)
}

// StreamComplete implements provider.Client.
func (f Funcs) StreamComplete(ctx context.Context, req provider.Request) (*provider.Stream, error) {
	return f.StreamFunc(ctx, req)
}

// WithRequestDefaults fills unset request fields from cfg before the call.
func WithRequestDefaults(cfg provider.Config) Middleware {
	return func(next provider.Client) provider.Client {
		return Funcs{
			CompleteFunc: func(ctx context.Context, req provider.Request) (provider.Decision, error) {
				return next.Complete(ctx, cfg.ApplyDefaults(req))
			},
			StreamFunc: func(ctx context.Context, req provider.Request) (*provider.Stream, error) {
				return next.StreamComplete(ctx, cfg.ApplyDefaults(req))
			},
		}
	}
}

// Config option keys read by ForConfig.
const (
	OptionRequestsPerMinute = "requests_per_minute"
	OptionMaxConcurrent     = "max_concurrent"
	OptionMaxAttempts       = "max_attempts"
)

// ForConfig returns the middleware stack cfg describes, outermost first:
// logging (when logger is non-nil), retry, rate limit, concurrency limit,
// timeout and request defaults. Unset limits are left out.
func ForConfig(cfg provider.Config, logger *slog.Logger) []Middleware {
	var mws []Middleware
	if logger != nil {
		mws = append(mws, WithLogging(logger, cfg.Provider))
	}
	if n := cfg.GetIntOption(OptionMaxAttempts, 0); n > 1 {
		mws = append(mws, WithRetry(n, DefaultBackoff))
	}
	if n := cfg.GetIntOption(OptionRequestsPerMinute, 0); n > 0 {
		mws = append(mws, WithRateLimit(PerMinute(n)))
	}
	if n := cfg.GetIntOption(OptionMaxConcurrent, 0); n > 0 {
		mws = append(mws, WithConcurrencyLimit(int64(n)))
	}
	if cfg.Timeout > 0 {
		mws = append(mws, WithTimeout(cfg.Timeout))
	}
	return append(mws, WithRequestDefaults(cfg))
}

// New creates the backend cfg names and wraps it in ForConfig's stack.
func New(cfg provider.Config, logger *slog.Logger) (provider.Client, error) {
	c, err := provider.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return Wrap(c, ForConfig(cfg, logger)...), nil
}

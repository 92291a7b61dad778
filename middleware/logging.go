package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/randalmurphal/llmcore/provider"
)

// WithLogging emits one structured record per call and per stream: Debug on
// success, Warn on failure. name identifies the backend in the records.
// A nil logger uses slog.Default().
func WithLogging(logger *slog.Logger, name string) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next provider.Client) provider.Client {
		return Funcs{
			CompleteFunc: func(ctx context.Context, req provider.Request) (provider.Decision, error) {
				start := time.Now()
				d, err := next.Complete(ctx, req)

				attrs := requestAttrs(name, "complete", req)
				attrs = append(attrs, slog.Duration("duration", time.Since(start)))
				if err != nil {
					logger.LogAttrs(ctx, slog.LevelWarn, "completion failed", append(attrs, slog.Any("error", err))...)
					return nil, err
				}
				logger.LogAttrs(ctx, slog.LevelDebug, "completion finished", append(attrs, decisionAttrs(d)...)...)
				return d, nil
			},
			StreamFunc: func(ctx context.Context, req provider.Request) (*provider.Stream, error) {
				start := time.Now()
				attrs := requestAttrs(name, "stream", req)

				s, err := next.StreamComplete(ctx, req)
				if err != nil {
					logger.LogAttrs(ctx, slog.LevelWarn, "stream failed to open",
						append(attrs, slog.Duration("duration", time.Since(start)), slog.Any("error", err))...)
					return nil, err
				}

				s.OnFinish(func(state provider.StreamState, delivered int, err error) {
					rec := append(attrs,
						slog.String("state", state.String()),
						slog.Int("delivered", delivered),
						slog.Duration("duration", time.Since(start)))
					if err != nil && state == provider.StreamFailed {
						logger.LogAttrs(context.Background(), slog.LevelWarn, "stream failed", append(rec, slog.Any("error", err))...)
						return
					}
					logger.LogAttrs(context.Background(), slog.LevelDebug, "stream finished", rec...)
				})
				return s, nil
			},
		}
	}
}

func requestAttrs(name, op string, req provider.Request) []slog.Attr {
	return []slog.Attr{
		slog.String("provider", name),
		slog.String("op", op),
		slog.Int("messages", len(req.Messages)),
		slog.Int("tools", len(req.Tools)),
	}
}

func decisionAttrs(d provider.Decision) []slog.Attr {
	attrs := []slog.Attr{slog.String("decision", string(d.Kind()))}
	if inv, ok := d.(provider.ToolInvocation); ok {
		attrs = append(attrs, slog.Any("tool_calls", inv.Names()))
	}
	return attrs
}

package mock

import (
	"context"
	"slices"
	"sync/atomic"

	"github.com/randalmurphal/llmcore/provider"
)

const (
	// DefaultPrefix is prepended to the echoed message.
	DefaultPrefix = "Echo: "

	// NoMessagesContent is the answer to an empty history.
	NoMessagesContent = "No messages provided"
)

// Echo is the reference backend. It is stateless per call and safe for
// concurrent use.
type Echo struct {
	prefix string
	open   atomic.Int64
}

// EchoOption configures an Echo.
type EchoOption func(*Echo)

// WithPrefix replaces DefaultPrefix.
func WithPrefix(prefix string) EchoOption {
	return func(e *Echo) { e.prefix = prefix }
}

// NewEcho creates an Echo backend.
func NewEcho(opts ...EchoOption) *Echo {
	e := &Echo{prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Complete implements provider.Client.
func (e *Echo) Complete(ctx context.Context, req provider.Request) (provider.Decision, error) {
	if err := req.Validate(); err != nil {
		return nil, provider.NewError("echo", "complete", err, false)
	}
	return e.reply(ctx, req.Messages)
}

// StreamComplete implements provider.Client. The stream holds one resource
// from the moment it is opened until it finishes, is closed, its context is
// canceled, or it is dropped.
func (e *Echo) StreamComplete(ctx context.Context, req provider.Request) (*provider.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, provider.NewError("echo", "stream", err, false)
	}

	messages := slices.Clone(req.Messages)
	e.open.Add(1)

	return provider.NewStream(ctx, func(yield func(provider.Decision, error) bool) {
		d, err := e.reply(ctx, messages)
		yield(d, err)
	}, func() {
		e.open.Add(-1)
	}), nil
}

// Open returns the number of streams that still hold resources.
func (e *Echo) Open() int {
	return int(e.open.Load())
}

func (e *Echo) reply(ctx context.Context, messages []provider.Message) (provider.Decision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return provider.NewRespond(NoMessagesContent), nil
	}
	return provider.NewRespond(e.prefix + messages[len(messages)-1].Content), nil
}

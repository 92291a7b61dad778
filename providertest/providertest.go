package providertest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/llmcore/provider"
)

// Factory returns a fresh client for one subtest.
type Factory func(t *testing.T) provider.Client

type suite struct {
	skipIdempotence bool
	concurrency     int
	request         provider.Request
}

// Option adjusts the suite.
type Option func(*suite)

// WithoutIdempotence skips the repeated-call check for backends whose answers
// legitimately differ between identical calls.
func WithoutIdempotence() Option {
	return func(s *suite) { s.skipIdempotence = true }
}

// WithConcurrency sets how many goroutines share one client in the
// concurrency check. The default is 16.
func WithConcurrency(n int) Option {
	return func(s *suite) { s.concurrency = n }
}

// WithRequest replaces the non-empty request the checks send.
func WithRequest(req provider.Request) Option {
	return func(s *suite) { s.request = req }
}

// Run runs the conformance suite against clients from newClient.
func Run(t *testing.T, newClient Factory, opts ...Option) {
	t.Helper()

	s := &suite{
		concurrency: 16,
		request: provider.NewRequest([]provider.Message{
			provider.NewMessage(provider.RoleSystem, "You are terse."),
			provider.NewMessage(provider.RoleUser, "Hello"),
		}),
	}
	for _, opt := range opts {
		opt(s)
	}

	t.Run("DecisionIsExhaustive", func(t *testing.T) { s.decisionIsExhaustive(t, newClient(t)) })
	t.Run("EmptyHistory", func(t *testing.T) { s.emptyHistory(t, newClient(t)) })
	t.Run("DuplicateToolsFailFast", func(t *testing.T) { s.duplicateTools(t, newClient(t)) })
	t.Run("StreamFoldsToComplete", func(t *testing.T) { s.streamFoldsToComplete(t, newClient) })
	if !s.skipIdempotence {
		t.Run("Idempotent", func(t *testing.T) { s.idempotent(t, newClient(t)) })
	}
	t.Run("Concurrent", func(t *testing.T) { s.concurrent(t, newClient(t)) })
	t.Run("StreamSinglePass", func(t *testing.T) { s.streamSinglePass(t, newClient(t)) })
	t.Run("StreamClose", func(t *testing.T) { s.streamClose(t, newClient(t)) })
	t.Run("CanceledContext", func(t *testing.T) { s.canceledContext(t, newClient(t)) })
}

// match is an exhaustive type switch; the default branch is the guard for a
// variant this suite does not know.
func match(d provider.Decision) (string, error) {
	switch d := d.(type) {
	case provider.Respond:
		return "respond", nil
	case provider.ToolInvocation:
		return fmt.Sprintf("tool_invocation(%d)", len(d.Calls)), nil
	case provider.Partial:
		return "", fmt.Errorf("%w: partial returned from Complete", provider.ErrMapping)
	default:
		return "", fmt.Errorf("%w: %T", provider.ErrUnhandledDecision, d)
	}
}

func (s *suite) decisionIsExhaustive(t *testing.T, c provider.Client) {
	d, err := c.Complete(context.Background(), s.request)
	require.NoError(t, err)
	require.NotNil(t, d)

	_, err = match(d)
	assert.NoError(t, err)
	assert.True(t, provider.IsFinal(d))
	assert.NoError(t, provider.ValidateDecision(d, s.request.Tools))
}

func (s *suite) emptyHistory(t *testing.T, c provider.Client) {
	d, err := c.Complete(context.Background(), provider.Request{})
	require.NoError(t, err, "an empty history must be answered, not rejected")
	_, err = match(d)
	assert.NoError(t, err)

	st, err := c.StreamComplete(context.Background(), provider.Request{})
	require.NoError(t, err)
	_, err = provider.Fold(st)
	assert.NoError(t, err)
}

func (s *suite) duplicateTools(t *testing.T, c provider.Client) {
	req := s.request
	req.Tools = []provider.Tool{
		provider.NewToolSpec("lookup", "first", nil),
		provider.NewToolSpec("lookup", "second", nil),
	}

	d, err := c.Complete(context.Background(), req)
	assert.Nil(t, d)
	assert.ErrorIs(t, err, provider.ErrDuplicateTool)

	st, err := c.StreamComplete(context.Background(), req)
	assert.Nil(t, st, "invalid input fails the call, not the stream")
	assert.ErrorIs(t, err, provider.ErrDuplicateTool)
}

func (s *suite) streamFoldsToComplete(t *testing.T, newClient Factory) {
	for name, req := range map[string]provider.Request{
		"empty":     {},
		"non-empty": s.request,
	} {
		t.Run(name, func(t *testing.T) {
			want, err := newClient(t).Complete(context.Background(), req)
			require.NoError(t, err)

			st, err := newClient(t).StreamComplete(context.Background(), req)
			require.NoError(t, err)
			got, err := provider.Fold(st)
			require.NoError(t, err)

			assert.Equal(t, want, got)
			assert.Equal(t, provider.StreamExhausted, st.State())
			assert.Positive(t, st.Delivered())
		})
	}
}

func (s *suite) idempotent(t *testing.T, c provider.Client) {
	req := s.request
	before := append([]provider.Message(nil), req.Messages...)

	first, err := c.Complete(context.Background(), req)
	require.NoError(t, err)
	second, err := c.Complete(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, req.Messages, "the history must not be modified")
}

func (s *suite) concurrent(t *testing.T, c provider.Client) {
	want, err := c.Complete(context.Background(), s.request)
	require.NoError(t, err)

	var g errgroup.Group
	for i := 0; i < s.concurrency; i++ {
		stream := i%2 == 1
		g.Go(func() error {
			var (
				d   provider.Decision
				err error
			)
			if stream {
				var st *provider.Stream
				if st, err = c.StreamComplete(context.Background(), s.request); err == nil {
					d, err = provider.Fold(st)
				}
			} else {
				d, err = c.Complete(context.Background(), s.request)
			}
			if err != nil {
				return err
			}
			if !s.skipIdempotence && !assert.ObjectsAreEqual(want, d) {
				return fmt.Errorf("concurrent call returned %v, want %v", d, want)
			}
			return nil
		})
	}
	assert.NoError(t, g.Wait())
}

func (s *suite) streamSinglePass(t *testing.T, c provider.Client) {
	st, err := c.StreamComplete(context.Background(), s.request)
	require.NoError(t, err)

	n := 0
	for _, err := range st.All() {
		require.NoError(t, err)
		n++
	}
	assert.Equal(t, st.Delivered(), n)
	assert.False(t, st.Next(), "an exhausted stream stays exhausted")

	for _, err := range st.All() {
		assert.ErrorIs(t, err, provider.ErrStreamConsumed)
	}
}

func (s *suite) streamClose(t *testing.T, c provider.Client) {
	st, err := c.StreamComplete(context.Background(), s.request)
	require.NoError(t, err)
	assert.Equal(t, provider.StreamPending, st.State())

	require.NoError(t, st.Close())
	assert.Equal(t, provider.StreamCanceled, st.State())
	assert.Zero(t, st.Delivered())
	assert.NoError(t, st.Err())
	require.NoError(t, st.Close(), "close is idempotent")

	_, err = provider.Fold(st)
	assert.ErrorIs(t, err, provider.ErrStreamConsumed)
}

func (s *suite) canceledContext(t *testing.T, c provider.Client) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d, err := c.Complete(ctx, s.request)
	assert.Nil(t, d)
	assert.ErrorIs(t, err, context.Canceled)

	st, err := c.StreamComplete(ctx, s.request)
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
		return
	}
	assert.False(t, st.Next())
	assert.Equal(t, provider.StreamCanceled, st.State())
	assert.ErrorIs(t, st.Err(), context.Canceled)
}

package provider

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func partials(deltas ...string) []Result {
	out := make([]Result, len(deltas))
	for i, d := range deltas {
		out[i] = Result{Decision: Partial{Delta: d}}
	}
	return out
}

func TestFold(t *testing.T) {
	call := ToolCall{ID: "1", Name: "search", Arguments: json.RawMessage(`{"q":"go"}`)}

	tests := []struct {
		name    string
		results []Result
		want    Decision
		wantErr error
	}{
		{
			name:    "single respond",
			results: []Result{{Decision: NewRespond("Echo: Hello")}},
			want:    NewRespond("Echo: Hello"),
		},
		{
			name:    "partials only",
			results: partials("Hel", "lo", "!"),
			want:    NewRespond("Hello!"),
		},
		{
			name:    "partials then empty respond",
			results: append(partials("Hi ", "there"), Result{Decision: NewRespond("")}),
			want:    NewRespond("Hi there"),
		},
		{
			name:    "final respond text wins",
			results: append(partials("draft"), Result{Decision: NewRespond("final")}),
			want:    NewRespond("final"),
		},
		{
			name:    "preamble then tool call",
			results: append(partials("Let me look."), Result{Decision: NewToolInvocation(call)}),
			want:    ToolInvocation{Calls: []ToolCall{call}, Content: "Let me look."},
		},
		{
			name:    "empty stream",
			results: nil,
			wantErr: ErrMapping,
		},
		{
			name:    "partial after final",
			results: []Result{{Decision: NewRespond("a")}, {Decision: Partial{Delta: "b"}}},
			wantErr: ErrMapping,
		},
		{
			name:    "two finals",
			results: []Result{{Decision: NewRespond("a")}, {Decision: NewRespond("b")}},
			wantErr: ErrMapping,
		},
		{
			name:    "unknown variant",
			results: []Result{{Decision: rogueDecision{}}},
			wantErr: ErrUnhandledDecision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fold(StreamOf(context.Background(), tt.results...))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got, "no partial result alongside an error")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFold_ElementFailure(t *testing.T) {
	boom := errors.New("stream broke")
	s := StreamOf(context.Background(), append(partials("a", "b"), Result{Err: boom})...)

	got, err := Fold(s)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
	assert.Equal(t, 2, s.Delivered())
}

func TestFold_ClosedStream(t *testing.T) {
	s := SingleStream(context.Background(), NewRespond("x"))
	require.NoError(t, s.Close())

	_, err := Fold(s)
	assert.ErrorIs(t, err, ErrStreamConsumed)
}

func TestCollect(t *testing.T) {
	boom := errors.New("boom")
	got, err := Collect(StreamOf(context.Background(),
		Result{Decision: Partial{Delta: "a"}},
		Result{Err: boom},
	))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []Decision{Partial{Delta: "a"}}, got)
}

func TestStreamFromComplete(t *testing.T) {
	ctx := context.Background()
	calls := 0
	complete := func(ctx context.Context, req Request) (Decision, error) {
		calls++
		return NewRespond("ok"), nil
	}

	s, err := StreamFromComplete(ctx, complete, Request{})
	require.NoError(t, err)
	got, err := Collect(s)
	require.NoError(t, err)
	assert.Equal(t, []Decision{NewRespond("ok")}, got)
	assert.Equal(t, 1, calls)

	dup := Request{Tools: []Tool{NewToolSpec("a", "", nil), NewToolSpec("a", "", nil)}}
	_, err = StreamFromComplete(ctx, complete, dup)
	assert.ErrorIs(t, err, ErrDuplicateTool)
	assert.Equal(t, 1, calls, "invalid input must not reach the backend")

	boom := errors.New("unreachable")
	failing := func(ctx context.Context, req Request) (Decision, error) { return nil, boom }
	s, err = StreamFromComplete(ctx, failing, Request{})
	require.NoError(t, err, "backend failures are reported in-band")
	assert.False(t, s.Next())
	assert.ErrorIs(t, s.Err(), boom)
	assert.Equal(t, StreamFailed, s.State())
}

type streamOnlyClient struct {
	results []Result
}

func (c streamOnlyClient) Complete(ctx context.Context, req Request) (Decision, error) {
	return CompleteFromStream(ctx, c, req)
}

func (c streamOnlyClient) StreamComplete(ctx context.Context, req Request) (*Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return StreamOf(ctx, c.results...), nil
}

func TestCompleteFromStream(t *testing.T) {
	c := streamOnlyClient{results: partials("Echo: ", "Hello")}

	d, err := c.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, NewRespond("Echo: Hello"), d)

	dup := Request{Tools: []Tool{NewToolSpec("a", "", nil), NewToolSpec("a", "", nil)}}
	_, err = c.Complete(context.Background(), dup)
	assert.ErrorIs(t, err, ErrDuplicateTool)
}

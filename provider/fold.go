package provider

import (
	"context"
	"fmt"
	"strings"
)

// Accumulator folds streamed decisions into the Decision Complete returns.
//
// Partial deltas are concatenated. A final Respond or ToolInvocation ends the
// turn; if it carries no text of its own it inherits the accumulated deltas.
// A stream of partials only folds into a Respond of their concatenation.
type Accumulator struct {
	text     strings.Builder
	partials int
	final    Decision
}

// Add folds one decision.
func (a *Accumulator) Add(d Decision) error {
	switch d := d.(type) {
	case nil:
		return fmt.Errorf("%w: nil decision", ErrMapping)
	case Partial:
		if a.final != nil {
			return fmt.Errorf("%w: partial after final %s decision", ErrMapping, a.final.Kind())
		}
		a.text.WriteString(d.Delta)
		a.partials++
	case Respond, ToolInvocation:
		if a.final != nil {
			return fmt.Errorf("%w: second final decision %s after %s", ErrMapping, d.Kind(), a.final.Kind())
		}
		a.final = d
	default:
		return unhandled(d)
	}
	return nil
}

// Result returns the folded decision.
func (a *Accumulator) Result() (Decision, error) {
	switch f := a.final.(type) {
	case nil:
		if a.partials == 0 {
			return nil, fmt.Errorf("%w: stream produced no decision", ErrMapping)
		}
		return NewRespond(a.text.String()), nil
	case Respond:
		if f.Response.Content == "" {
			f.Response.Content = a.text.String()
		}
		return f, nil
	case ToolInvocation:
		if f.Content == "" {
			f.Content = a.text.String()
		}
		return f, nil
	default:
		return nil, unhandled(f)
	}
}

// Fold consumes the whole stream and returns the decision it amounts to.
// The first element failure is returned as is; no partial result is returned
// alongside an error.
func Fold(s *Stream) (Decision, error) {
	var acc Accumulator
	for s.Next() {
		if err := acc.Add(s.Decision()); err != nil {
			s.Close()
			return nil, err
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if s.State() == StreamCanceled {
		return nil, fmt.Errorf("fold: %w", ErrStreamConsumed)
	}
	return acc.Result()
}

// Collect consumes the whole stream and returns every delivered decision
// together with the error that ended it, if any.
func Collect(s *Stream) ([]Decision, error) {
	var out []Decision
	for s.Next() {
		out = append(out, s.Decision())
	}
	return out, s.Err()
}

// CompleteFunc is the shape of Client.Complete.
type CompleteFunc func(ctx context.Context, req Request) (Decision, error)

// StreamFromComplete is the minimal legal streaming implementation: a
// single-element stream wrapping the one-shot result. Invalid input fails the
// call itself; any other failure becomes the stream's only element.
func StreamFromComplete(ctx context.Context, complete CompleteFunc, req Request) (*Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	d, err := complete(ctx, req)
	if err != nil {
		return FailedStream(ctx, err), nil
	}
	return SingleStream(ctx, d), nil
}

// CompleteFromStream is the inverse adapter for backends whose transport only
// streams: it opens the stream and folds it.
func CompleteFromStream(ctx context.Context, c Client, req Request) (Decision, error) {
	s, err := c.StreamComplete(ctx, req)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return Fold(s)
}

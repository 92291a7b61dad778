package provider

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"runtime"
	"sync"
)

// StreamState is the lifecycle state of a Stream.
type StreamState int

// Stream states. Exhausted, Failed and Canceled are terminal.
const (
	StreamPending StreamState = iota
	StreamYielding
	StreamExhausted
	StreamFailed
	StreamCanceled
)

// String returns the state name.
func (s StreamState) String() string {
	switch s {
	case StreamPending:
		return "pending"
	case StreamYielding:
		return "yielding"
	case StreamExhausted:
		return "exhausted"
	case StreamFailed:
		return "failed"
	case StreamCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("StreamState(%d)", int(s))
	}
}

// Terminal reports whether no further elements can be produced.
func (s StreamState) Terminal() bool {
	return s >= StreamExhausted
}

// Result is one stream element: a Decision or a failure.
type Result struct {
	Decision Decision
	Err      error
}

// Stream is a single-pass, lazily pulled sequence of decisions.
//
// The producer runs only as elements are pulled. An element failure ends the
// stream in StreamFailed without invalidating elements already delivered;
// Delivered tells "failed after N elements" apart from "empty".
//
// Resources tied to the stream are released exactly once on every exit path:
// exhaustion, failure, Close, breaking out of All, cancellation of the
// context passed to NewStream, or the stream being garbage collected after
// the caller dropped it.
//
// When the context ends, Err reports context.Cause. A cause wrapping
// ErrTimeout ends the stream in StreamFailed, like any other failure.
//
// A Stream has a single consumer. Next, All and Close must not be called
// concurrently; cancel the stream's context to abort it from elsewhere.
type Stream struct {
	ctx context.Context
	seq iter.Seq2[Decision, error]

	next func() (Decision, error, bool)
	stop func()

	state     StreamState
	cur       Decision
	err       error
	delivered int

	res         *streamResources
	finishHooks []func(state StreamState, delivered int, err error)
}

// streamResources is kept apart from Stream so neither the context callback
// nor the finalizer keeps the Stream itself reachable.
type streamResources struct {
	mu        sync.Mutex
	released  bool
	hooks     []func()
	stopAfter func() bool
}

func (r *streamResources) add(fn func()) {
	r.mu.Lock()
	if r.released {
		r.mu.Unlock()
		fn()
		return
	}
	r.hooks = append(r.hooks, fn)
	r.mu.Unlock()
}

// fire runs the hooks once, most recently added first.
func (r *streamResources) fire() {
	r.mu.Lock()
	if r.released {
		r.mu.Unlock()
		return
	}
	r.released = true
	hooks := r.hooks
	r.hooks = nil
	r.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}

// NewStream wraps seq as a Stream. release, if non-nil, frees resources the
// backend acquired before returning the stream; it also runs when ctx is done.
func NewStream(ctx context.Context, seq iter.Seq2[Decision, error], release func()) *Stream {
	res := &streamResources{}
	if release != nil {
		res.hooks = append(res.hooks, release)
	}
	res.stopAfter = context.AfterFunc(ctx, res.fire)
	s := &Stream{ctx: ctx, seq: seq, res: res}
	runtime.SetFinalizer(s, (*Stream).abandon)
	return s
}

// SingleStream returns a stream of exactly one decision.
func SingleStream(ctx context.Context, d Decision) *Stream {
	return StreamOf(ctx, Result{Decision: d})
}

// FailedStream returns a stream whose only element is err.
func FailedStream(ctx context.Context, err error) *Stream {
	return StreamOf(ctx, Result{Err: err})
}

// StreamOf returns a stream of the given results in order.
func StreamOf(ctx context.Context, results ...Result) *Stream {
	return NewStream(ctx, func(yield func(Decision, error) bool) {
		for _, r := range results {
			if !yield(r.Decision, r.Err) {
				return
			}
		}
	}, nil)
}

// Next advances to the next decision. It returns false when the stream is
// exhausted, failed or canceled; check Err afterwards.
func (s *Stream) Next() bool {
	if s.state.Terminal() {
		return false
	}
	if s.ctx.Err() != nil {
		s.finish(s.contextEnded())
		return false
	}
	if s.next == nil {
		s.next, s.stop = iter.Pull2(s.seq)
	}

	d, err, ok := s.next()
	switch {
	case !ok:
		s.finish(StreamExhausted, nil)
		return false
	case err != nil:
		if ctxErr := s.ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			s.finish(s.contextEnded())
		} else {
			s.finish(StreamFailed, err)
		}
		return false
	case d == nil:
		s.finish(StreamFailed, fmt.Errorf("%w: nil decision in stream", ErrMapping))
		return false
	}

	s.cur = d
	s.delivered++
	s.state = StreamYielding
	return true
}

// Decision returns the current decision. Valid after Next returned true.
func (s *Stream) Decision() Decision {
	return s.cur
}

// Err returns the failure that ended the stream, or nil if it was exhausted
// or closed by the caller.
func (s *Stream) Err() error {
	return s.err
}

// State returns the current lifecycle state.
func (s *Stream) State() StreamState {
	return s.state
}

// Delivered returns how many decisions have been yielded so far.
func (s *Stream) Delivered() int {
	return s.delivered
}

// Close stops the stream and releases its resources. Closing a finished
// stream is a no-op.
func (s *Stream) Close() error {
	if !s.state.Terminal() {
		s.finish(StreamCanceled, nil)
	}
	return nil
}

// OnRelease registers fn to run when the stream releases its resources, on
// the same exit paths as the release function given to NewStream. Hooks run
// once, most recent first, possibly on another goroutine. If the stream has
// already released, fn runs immediately.
//
// fn must not refer to the Stream, or an abandoned stream is never collected.
func (s *Stream) OnRelease(fn func()) {
	s.res.add(fn)
}

// OnFinish registers fn to run on the consumer's side once the stream
// reaches a terminal state, or when an abandoned stream is collected. If the
// stream has already finished, fn runs immediately. Like OnRelease, fn must
// not refer to the Stream.
func (s *Stream) OnFinish(fn func(state StreamState, delivered int, err error)) {
	if s.state.Terminal() {
		fn(s.state, s.delivered, s.err)
		return
	}
	s.finishHooks = append(s.finishHooks, fn)
}

// All returns the remaining elements as a range-over-func sequence.
// A failure is yielded as the final element. Breaking out of the loop closes
// the stream. Ranging over a finished stream yields ErrStreamConsumed.
func (s *Stream) All() iter.Seq2[Decision, error] {
	return func(yield func(Decision, error) bool) {
		if s.state.Terminal() {
			yield(nil, ErrStreamConsumed)
			return
		}
		for s.Next() {
			if !yield(s.cur, nil) {
				s.Close()
				return
			}
		}
		if s.err != nil {
			yield(nil, s.err)
		}
	}
}

func (s *Stream) finish(state StreamState, err error) {
	s.state = state
	s.err = err
	s.cur = nil
	if s.stop != nil {
		s.stop()
	}
	s.res.stopAfter()
	s.res.fire()
	runtime.SetFinalizer(s, nil)

	hooks := s.finishHooks
	s.finishHooks = nil
	for _, fn := range hooks {
		fn(state, s.delivered, err)
	}
}

// contextEnded classifies the end of the stream's context. A cause wrapping
// ErrTimeout is a failure; anything else is a cancellation.
func (s *Stream) contextEnded() (StreamState, error) {
	err := context.Cause(s.ctx)
	if errors.Is(err, ErrTimeout) {
		return StreamFailed, err
	}
	return StreamCanceled, err
}

// abandon runs when an unfinished stream becomes unreachable.
func (s *Stream) abandon() {
	if !s.state.Terminal() {
		s.finish(StreamCanceled, nil)
	}
}

package mock

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/randalmurphal/llmcore/parser"
	"github.com/randalmurphal/llmcore/provider"
)

// Scripted is a test double for provider.Client.
// It supports fixed responses, sequential responses, and custom handlers.
// Scripted text goes through the parser, so a script can emit tool calls.
type Scripted struct {
	mu           sync.Mutex
	parser       *parser.Parser
	responses    []string
	decisions    []provider.Decision
	responseIdx  int
	err          error
	completeFunc provider.CompleteFunc
	chunkSize    int

	// Calls tracks all requests for assertions. Tools are recorded as
	// descriptors, never as the caller's objects.
	Calls []provider.Request
}

// NewScripted creates a mock that returns a fixed response.
func NewScripted(response string) *Scripted {
	return &Scripted{parser: parser.NewParser(), responses: []string{response}}
}

// WithResponses configures sequential responses.
// Each call to Complete returns the next response in the list.
// Cycles back to the beginning after exhausting all responses.
func (m *Scripted) WithResponses(responses ...string) *Scripted {
	m.responses = responses
	return m
}

// WithDecisions configures sequential decisions. They take precedence over
// text responses and cycle the same way.
func (m *Scripted) WithDecisions(decisions ...provider.Decision) *Scripted {
	m.decisions = decisions
	return m
}

// WithError configures the mock to always return an error.
// StreamComplete reports it in-band.
func (m *Scripted) WithError(err error) *Scripted {
	m.err = err
	return m
}

// WithCompleteFunc sets a custom handler for Complete calls.
// This takes precedence over fixed responses.
func (m *Scripted) WithCompleteFunc(fn provider.CompleteFunc) *Scripted {
	m.completeFunc = fn
	return m
}

// WithChunks makes StreamComplete deliver the decision's text as Partial
// deltas of at most size runes, followed by the decision with its text moved
// into the deltas. Folding the stream gives back what Complete returns.
func (m *Scripted) WithChunks(size int) *Scripted {
	m.chunkSize = size
	return m
}

// Complete implements provider.Client.
func (m *Scripted) Complete(ctx context.Context, req provider.Request) (provider.Decision, error) {
	if err := req.Validate(); err != nil {
		return nil, provider.NewError("scripted", "complete", err, false)
	}

	m.mu.Lock()
	m.Calls = append(m.Calls, snapshot(req))

	// Check for context cancellation
	if err := ctx.Err(); err != nil {
		m.mu.Unlock()
		return nil, err
	}

	// Use custom function if provided
	if m.completeFunc != nil {
		fn := m.completeFunc
		m.mu.Unlock()
		d, err := fn(ctx, req)
		if err != nil {
			return nil, err
		}
		return checkResult(d, req.Tools)
	}

	// Return error if configured
	if m.err != nil {
		err := m.err
		m.mu.Unlock()
		return nil, err
	}

	d, err := m.nextLocked()
	m.mu.Unlock()
	if err != nil {
		return nil, provider.NewError("scripted", "complete", err, false)
	}
	return checkResult(d, req.Tools)
}

// StreamComplete implements provider.Client.
func (m *Scripted) StreamComplete(ctx context.Context, req provider.Request) (*provider.Stream, error) {
	m.mu.Lock()
	size := m.chunkSize
	m.mu.Unlock()

	if size <= 0 {
		return provider.StreamFromComplete(ctx, m.Complete, req)
	}

	d, err := m.Complete(ctx, req)
	if err != nil {
		if provider.IsInvalidInput(err) {
			return nil, err
		}
		return provider.FailedStream(ctx, err), nil
	}
	return provider.StreamOf(ctx, chunk(d, size)...), nil
}

// Reset clears the call history and response index.
func (m *Scripted) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = nil
	m.responseIdx = 0
}

// CallCount returns the number of times Complete or StreamComplete was called.
func (m *Scripted) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent request, or nil if no calls made.
func (m *Scripted) LastCall() *provider.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return nil
	}
	req := m.Calls[len(m.Calls)-1]
	return &req
}

func (m *Scripted) nextLocked() (provider.Decision, error) {
	if len(m.decisions) > 0 {
		d := m.decisions[m.responseIdx%len(m.decisions)]
		m.responseIdx++
		return d, nil
	}

	response := ""
	if len(m.responses) > 0 {
		response = m.responses[m.responseIdx%len(m.responses)]
		m.responseIdx++
	}
	return m.parser.ParseDecision(response)
}

// checkResult applies the result rules every backend owes its caller: a
// final decision naming only supplied tools.
func checkResult(d provider.Decision, tools []provider.Tool) (provider.Decision, error) {
	if d != nil && !provider.IsFinal(d) {
		return nil, provider.NewError("scripted", "complete",
			fmt.Errorf("%w: %s is not a final decision", provider.ErrMapping, d.Kind()), false)
	}
	if err := provider.ValidateDecision(d, tools); err != nil {
		return nil, provider.NewError("scripted", "complete", err, false)
	}
	return d, nil
}

func snapshot(req provider.Request) provider.Request {
	out := provider.Request{
		Messages:  slices.Clone(req.Messages),
		MaxTokens: req.MaxTokens,
	}
	for _, spec := range provider.DescribeAll(req.Tools) {
		out.Tools = append(out.Tools, spec)
	}
	return out
}

// chunk splits a final decision into Partial deltas plus the decision
// stripped of the text the deltas carry.
func chunk(d provider.Decision, size int) []provider.Result {
	var text string
	switch v := d.(type) {
	case provider.Respond:
		text = v.Response.Content
		v.Response.Content = ""
		d = v
	case provider.ToolInvocation:
		text = v.Content
		v.Content = ""
		d = v
	}

	runes := []rune(text)
	results := make([]provider.Result, 0, len(runes)/size+2)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		results = append(results, provider.Result{Decision: provider.Partial{Delta: string(runes[start:end])}})
	}
	return append(results, provider.Result{Decision: d})
}

// Package provider defines the provider-agnostic boundary between an agent
// runtime and any LLM backend.
//
// Callers depend only on the Client interface. A backend answers a Request
// (conversation history, tool descriptors, output cap) either with a single
// Decision from Complete or with a lazily pulled Stream of decisions from
// StreamComplete. The two paths are observably consistent: folding a stream
// yields what Complete returns for the same input and model state.
//
// # Usage
//
// Create a client using the registry. Backends register themselves when
// their package is imported:
//
//	import _ "github.com/randalmurphal/llmcore/mock"
//
//	client, err := provider.New("echo", provider.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	d, err := client.Complete(ctx, provider.NewRequest(history, tools...))
//	if err != nil {
//	    return err
//	}
//	switch d := d.(type) {
//	case provider.Respond:
//	    fmt.Println(d.Response.Content)
//	case provider.ToolInvocation:
//	    // run d.Calls, append tool results, call again
//	default:
//	    return fmt.Errorf("%w: %T", provider.ErrUnhandledDecision, d)
//	}
//
// Streaming:
//
//	s, err := client.StreamComplete(ctx, req)
//	if err != nil {
//	    return err
//	}
//	for d, err := range s.All() {
//	    if err != nil {
//	        return err // earlier decisions stay valid
//	    }
//	    render(d)
//	}
//
// # Errors
//
// Every failure is an error, never a default Decision. Invalid input
// (duplicate tool names, unknown roles) is reported before any backend I/O.
// Use IsInvalidInput, IsRejection, IsMappingError and IsRetryable to classify.
// This package never logs or retries; see the middleware package for that.
package provider

import "context"

// Client is the unified interface for completion backends.
// Implementations must be safe for concurrent use and must not retain the
// request's messages or tools after the call returns.
type Client interface {
	// Complete sends a request and returns exactly one Decision.
	// The context controls cancellation and timeouts.
	Complete(ctx context.Context, req Request) (Decision, error)

	// StreamComplete sends a request and returns a stream of decisions in
	// generation order. The returned error covers failures to start the
	// stream, including invalid input; later failures arrive in-band.
	StreamComplete(ctx context.Context, req Request) (*Stream, error)
}

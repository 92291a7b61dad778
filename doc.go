// Package llmcore is the provider-agnostic completion boundary of an agent
// runtime. Callers talk to any LLM backend through one interface and get back
// a closed set of decisions; everything around it is optional and imported
// à la carte:
//
//   - provider: the Client interface, Request/Message/Decision model, decision
//     streams, error taxonomy, backend registry and configuration
//   - mock: the network-free Echo reference backend and the Scripted test double
//   - providertest: the conformance suite every backend's tests run
//   - parser: maps raw model text, including fenced tool_call blocks, to a Decision
//   - tool: the caller-owned registry that executes tool invocations
//   - middleware: logging, rate and concurrency limits, retries and timeouts
//     layered over any Client
//
// # Quick Start
//
//	import (
//	    "github.com/randalmurphal/llmcore/middleware"
//	    _ "github.com/randalmurphal/llmcore/mock"
//	    "github.com/randalmurphal/llmcore/provider"
//	)
//
//	cfg, _ := provider.LoadConfigFile("llm.yaml")
//	cfg.LoadFromEnv()
//	client, err := middleware.New(cfg, slog.Default())
//
//	d, err := client.Complete(ctx, provider.NewRequest(history, reg.Tools()...))
//
// # Design Philosophy
//
//   - Callers depend on provider.Client only, never on a backend type
//   - Streaming and one-shot answers fold to the same Decision
//   - Failures are errors, never default decisions; the core never logs or retries
//   - Tools are descriptors to the backend; executing them is the caller's job
package llmcore

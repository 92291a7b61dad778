// Package mock provides network-free provider.Client implementations.
//
// Echo is the reference backend: it answers with the most recent message's
// content behind a fixed prefix and streams by wrapping its one-shot result
// in a single-element stream. New backends should hold their own streaming
// path to the same equivalence, see providertest.Run.
//
// Scripted is a test double with fixed or sequential responses, injected
// errors, custom handlers and call tracking:
//
//	client := mock.NewScripted("first").
//	    WithResponses("first", "```tool_call\n{\"name\":\"search\",\"arguments\":{}}\n```")
//
//	d, err := client.Complete(ctx, req)
//	...
//	last := client.LastCall()
//
// Both register themselves with the provider registry as "echo" and
// "scripted".
package mock

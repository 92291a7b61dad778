// Package providertest is the conformance suite for provider.Client
// implementations.
//
// Every backend's tests should run it:
//
//	func TestConformance(t *testing.T) {
//	    providertest.Run(t, func(t *testing.T) provider.Client {
//	        return mybackend.New(testConfig(t))
//	    })
//	}
//
// The suite checks exhaustive decisions, empty history handling, duplicate
// tool rejection before I/O, stream/one-shot equivalence, idempotence,
// concurrent invocation and stream cancellation.
package providertest

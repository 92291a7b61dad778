// Package parser maps raw model output to provider decisions.
//
// Backends whose transport only returns text emulate tool calling by asking
// the model to emit fenced tool_call blocks. Each block holds one call as
// JSON or YAML:
//
//	```tool_call
//	{"name": "search", "arguments": {"query": "golang iterators"}}
//	```
//
//	```tool_call
//	name: read_file
//	arguments:
//	  path: main.go
//	```
//
// Text with no tool_call block becomes a Respond decision; otherwise the
// blocks become a ToolInvocation and the remaining text its Content.
//
// Example usage:
//
//	p := parser.NewParser()
//	d, err := p.ParseDecision(modelOutput)
//	if err != nil {
//	    // provider.ErrMapping: malformed block
//	}
//
// Convenience functions:
//
//	d, err := parser.ParseDecision(modelOutput)
//	blocks := parser.ExtractAllCode(modelOutput)
package parser

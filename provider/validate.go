package provider

import (
	"encoding/json"
	"fmt"
)

// Validate checks the request for caller errors.
// Backends call it before any I/O so that invalid input never reaches the
// network.
func (r Request) Validate() error {
	if r.MaxTokens < 0 {
		return fmt.Errorf("%w: max_tokens must be >= 0, got %d", ErrInvalidInput, r.MaxTokens)
	}
	for i, m := range r.Messages {
		if !m.Role.Valid() {
			return fmt.Errorf("%w: message %d has unknown role %q", ErrInvalidInput, i, m.Role)
		}
	}
	return ValidateTools(r.Tools)
}

// ValidateDecision checks that a backend result is a well-formed Decision for
// the given tool set: every tool call names a supplied tool and carries a JSON
// object as arguments. Failures wrap ErrMapping.
func ValidateDecision(d Decision, tools []Tool) error {
	switch d := d.(type) {
	case nil:
		return fmt.Errorf("%w: nil decision", ErrMapping)
	case Respond, Partial:
		return nil
	case ToolInvocation:
		if len(d.Calls) == 0 {
			return fmt.Errorf("%w: tool invocation without calls", ErrMapping)
		}
		for _, call := range d.Calls {
			if FindTool(tools, call.Name) == nil {
				return fmt.Errorf("%w: %q", ErrUnknownTool, call.Name)
			}
			if !isJSONObject(call.Arguments) {
				return fmt.Errorf("%w: tool %q arguments are not a JSON object", ErrMapping, call.Name)
			}
		}
		return nil
	default:
		return unhandled(d)
	}
}

func isJSONObject(raw json.RawMessage) bool {
	var obj map[string]json.RawMessage
	return json.Unmarshal(raw, &obj) == nil && obj != nil
}

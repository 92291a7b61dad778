package provider

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Tool describes a capability the model may invoke.
//
// Tools are owned by the caller and borrowed by a backend for the duration of
// one call. The completion interface only reads their descriptions; running
// them is the caller's job after it receives a ToolInvocation.
type Tool interface {
	// Name is the stable identifier the model uses to select the tool.
	Name() string

	// Description tells the model what the tool does.
	Description() string

	// InputSchema is the JSON Schema of the tool's arguments.
	InputSchema() json.RawMessage
}

// ToolSpec is a plain Tool descriptor.
type ToolSpec struct {
	ToolName        string          `json:"name"`
	ToolDescription string          `json:"description"`
	Parameters      json.RawMessage `json:"parameters"` // JSON Schema
}

// NewToolSpec creates a descriptor. A nil schema advertises an empty object.
func NewToolSpec(name, description string, schema json.RawMessage) ToolSpec {
	if len(schema) == 0 {
		schema = json.RawMessage(`{"type":"object"}`)
	}
	return ToolSpec{ToolName: name, ToolDescription: description, Parameters: schema}
}

// Name implements Tool.
func (t ToolSpec) Name() string { return t.ToolName }

// Description implements Tool.
func (t ToolSpec) Description() string { return t.ToolDescription }

// InputSchema implements Tool.
func (t ToolSpec) InputSchema() json.RawMessage { return t.Parameters }

// Describe snapshots any Tool into a ToolSpec, e.g. for serializing the set
// into a provider payload without holding on to the caller's objects.
func Describe(t Tool) ToolSpec {
	return ToolSpec{
		ToolName:        t.Name(),
		ToolDescription: t.Description(),
		Parameters:      append(json.RawMessage(nil), t.InputSchema()...),
	}
}

// DescribeAll snapshots a tool set, preserving order.
func DescribeAll(tools []Tool) []ToolSpec {
	specs := make([]ToolSpec, len(tools))
	for i, t := range tools {
		specs[i] = Describe(t)
	}
	return specs
}

// ValidateTools checks that every tool is non-nil, named, and that no two
// tools share a name.
func ValidateTools(tools []Tool) error {
	seen := make(map[string]struct{}, len(tools))
	for i, t := range tools {
		if isNilTool(t) {
			return fmt.Errorf("%w: tool %d is nil", ErrInvalidInput, i)
		}
		name := t.Name()
		if name == "" {
			return fmt.Errorf("%w: tool %d has empty name", ErrInvalidInput, i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateTool, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// FindTool returns the tool named name, or nil.
func FindTool(tools []Tool, name string) Tool {
	for _, t := range tools {
		if !isNilTool(t) && t.Name() == name {
			return t
		}
	}
	return nil
}

// isNilTool reports whether t is nil or a nil pointer stored in the
// interface.
func isNilTool(t Tool) bool {
	if t == nil {
		return true
	}
	v := reflect.ValueOf(t)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/randalmurphal/llmcore/provider"
)

// Handler runs a tool with the model's arguments and returns the text fed
// back to the model.
type Handler func(ctx context.Context, args json.RawMessage) (string, error)

// Tool pairs a descriptor with the handler that executes it. It implements
// provider.Tool, so it can be passed in a Request directly.
type Tool struct {
	provider.ToolSpec
	Handler Handler
}

// NewTool creates a tool from a descriptor and handler.
func NewTool(spec provider.ToolSpec, h Handler) Tool {
	return Tool{ToolSpec: spec, Handler: h}
}

// New creates a typed tool. The input schema is reflected from T and the
// model's arguments are decoded into T strictly: unknown fields are rejected.
func New[T any](name, description string, fn func(ctx context.Context, args T) (string, error)) Tool {
	return Tool{
		ToolSpec: provider.NewToolSpec(name, description, SchemaFor[T]()),
		Handler: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args T
			if err := decodeStrict(raw, &args); err != nil {
				return "", fmt.Errorf("%w: tool %q arguments: %v", provider.ErrInvalidInput, name, err)
			}
			return fn(ctx, args)
		},
	}
}

// reflector inlines every type, so the root schema is self-contained for
// named structs, anonymous structs and maps alike.
var reflector = &jsonschema.Reflector{
	Anonymous:      true,
	DoNotReference: true,
}

// SchemaFor reflects the JSON Schema of T's JSON encoding.
func SchemaFor[T any]() json.RawMessage {
	var zero T
	schema := reflector.ReflectFromType(reflect.TypeFor[T]())
	schema.Version = ""
	data, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("tool: reflect schema for %T: %v", zero, err))
	}
	return data
}

func decodeStrict(raw json.RawMessage, dst any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage(`{}`)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

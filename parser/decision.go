package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/llmcore/provider"
)

// callIDNamespace seeds the name-based IDs minted for calls without an id.
var callIDNamespace = uuid.MustParse("6f1d5c8e-2b7a-4c3e-9a0f-3d2e1b4c5a69")

// toolCallBlock is the YAML body of a tool_call fence.
type toolCallBlock struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Arguments any    `yaml:"arguments"`
}

// jsonToolCallBlock is the JSON body of a tool_call fence.
type jsonToolCallBlock struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ParseDecision maps model output to a Decision.
//
// Output without tool_call blocks is a Respond carrying the text unchanged.
// Otherwise every block becomes a ToolCall, in order, and the text outside
// the tool blocks (trimmed) becomes the invocation's Content. A malformed
// block fails with provider.ErrMapping rather than being dropped.
func (p *Parser) ParseDecision(output string) (provider.Decision, error) {
	var (
		calls []provider.ToolCall
		rest  strings.Builder
		last  int
	)

	for _, b := range p.extractCodeBlocks(output) {
		if !p.IsToolBlock(b) {
			continue
		}
		call, err := p.parseToolCall(b.Content, len(calls))
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
		rest.WriteString(output[last:b.start])
		last = b.end
	}

	if len(calls) == 0 {
		return provider.NewRespond(output), nil
	}
	rest.WriteString(output[last:])

	return provider.ToolInvocation{
		Calls:   calls,
		Content: strings.TrimSpace(rest.String()),
	}, nil
}

// parseToolCall decodes one block body. JSON is tried first so arguments keep
// their exact encoding; YAML is the fallback.
func (p *Parser) parseToolCall(body string, index int) (provider.ToolCall, error) {
	var (
		id, name string
		args     json.RawMessage
		err      error
	)

	var jb jsonToolCallBlock
	if jerr := json.Unmarshal([]byte(body), &jb); jerr == nil {
		id, name = jb.ID, jb.Name
		args, err = checkArguments(jb.Arguments)
	} else {
		var yb toolCallBlock
		if yerr := yaml.Unmarshal([]byte(body), &yb); yerr != nil {
			return provider.ToolCall{}, fmt.Errorf("%w: tool call %d: %v", provider.ErrMapping, index, yerr)
		}
		id, name = yb.ID, yb.Name
		args, err = encodeArguments(yb.Arguments)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return provider.ToolCall{}, fmt.Errorf("%w: tool call %d has no name", provider.ErrMapping, index)
	}
	if err != nil {
		return provider.ToolCall{}, fmt.Errorf("%w: tool %q: %v", provider.ErrMapping, name, err)
	}

	if id == "" {
		id = callID(index, name, args)
	}
	return provider.ToolCall{ID: id, Name: name, Arguments: args}, nil
}

// checkArguments accepts a JSON object as is. Missing or null arguments
// become an empty object.
func checkArguments(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return json.RawMessage(`{}`), nil
	}
	// Some models encode the arguments object as a JSON string.
	var encoded string
	if json.Unmarshal(raw, &encoded) == nil {
		return checkArguments(json.RawMessage(encoded))
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("arguments must be an object: %v", err)
	}
	return json.RawMessage(trimmed), nil
}

// encodeArguments re-encodes YAML-decoded arguments as a JSON object.
// Missing arguments become an empty object.
func encodeArguments(v any) (json.RawMessage, error) {
	switch v.(type) {
	case nil:
		return json.RawMessage(`{}`), nil
	case map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return data, nil
	default:
		return nil, fmt.Errorf("arguments must be an object, got %T", v)
	}
}

// callID derives a stable ID from the call's position and content so the same
// output always maps to the same Decision.
func callID(index int, name string, args json.RawMessage) string {
	seed := fmt.Sprintf("%d\x00%s\x00%s", index, name, args)
	return "call_" + uuid.NewSHA1(callIDNamespace, []byte(seed)).String()
}

// ParseDecision is a convenience function using the default parser.
func ParseDecision(output string) (provider.Decision, error) {
	return NewParser().ParseDecision(output)
}

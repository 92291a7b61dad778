package provider

import (
	"encoding/json"
	"fmt"
	"time"
)

// Request configures a completion call.
// This is the provider-agnostic request format every backend accepts.
type Request struct {
	// Messages is the conversation history in conversation order.
	// Empty is legal; backends must answer it rather than reject it.
	Messages []Message `json:"messages"`

	// Tools lists the capabilities the model may invoke this turn.
	// Empty means no tool calling is available. Names must be unique.
	Tools []Tool `json:"-"`

	// MaxTokens caps the generated output length.
	// Zero means the backend default.
	MaxTokens int `json:"max_tokens,omitempty"`
}

// NewRequest creates a request for the given history and tools.
func NewRequest(messages []Message, tools ...Tool) Request {
	return Request{Messages: messages, Tools: tools}
}

// WithMaxTokens returns a copy of the request with the output cap set.
func (r Request) WithMaxTokens(n int) Request {
	r.MaxTokens = n
	return r
}

// Message is a conversation turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// Name is the tool name for RoleTool messages.
	Name string `json:"name,omitempty"`

	// ToolCallID links a tool result to the ToolCall it answers.
	ToolCallID string `json:"tool_call_id,omitempty"`

	// Timestamp marks when the turn was created.
	Timestamp time.Time `json:"timestamp"`

	// Metadata holds provider-specific annotations.
	Metadata Metadata `json:"metadata,omitempty"`
}

// NewMessage creates a text message stamped with the current time.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content, Timestamp: time.Now()}
}

// NewToolResultMessage creates the tool-role message that feeds a tool's
// output back to the model on the next call.
func NewToolResultMessage(call ToolCall, content string) Message {
	return Message{
		Role:       RoleTool,
		Content:    content,
		Name:       call.Name,
		ToolCallID: call.ID,
		Timestamp:  time.Now(),
	}
}

// Role identifies the message sender.
type Role string

// Standard message roles supported across all backends.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Valid reports whether r is one of the standard roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem, RoleTool:
		return true
	}
	return false
}

// AssistantResponse is the payload of a Respond decision.
type AssistantResponse struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// ToolCall is one tool invocation requested by the model.
type ToolCall struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Arguments is the tool input as a JSON object.
	Arguments json.RawMessage `json:"arguments"`
}

// DecodeArguments unmarshals the call arguments into dst.
func (c ToolCall) DecodeArguments(dst any) error {
	if len(c.Arguments) == 0 {
		return fmt.Errorf("tool %q: no arguments", c.Name)
	}
	if err := json.Unmarshal(c.Arguments, dst); err != nil {
		return fmt.Errorf("tool %q: decode arguments: %w", c.Name, err)
	}
	return nil
}

// Metadata is an open set of annotations keyed by string.
// Values are stored as JSON so every entry stays serializable.
type Metadata map[string]json.RawMessage

// Set stores v under key, encoding it as JSON.
// Set on a nil Metadata panics like any nil map write; use make or Clone first.
func (m Metadata) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("metadata %q: %w", key, err)
	}
	m[key] = data
	return nil
}

// Get decodes the value stored under key into dst.
// Returns false if the key is absent.
func (m Metadata) Get(key string, dst any) (bool, error) {
	raw, ok := m[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("metadata %q: %w", key, err)
	}
	return true, nil
}

// Has reports whether key is present.
func (m Metadata) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// Clone returns a deep copy. Cloning nil returns nil.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

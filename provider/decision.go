package provider

import "fmt"

// Decision is the outcome of one completion step.
//
// The set of variants is closed: Respond, ToolInvocation and Partial.
// Callers handle them either with a type switch that reports
// ErrUnhandledDecision in its default branch, or by implementing
// DecisionVisitor, which turns a new variant into a compile error.
type Decision interface {
	// Kind names the variant.
	Kind() DecisionKind

	// Accept dispatches to the visitor method for this variant.
	Accept(v DecisionVisitor) error

	isDecision()
}

// DecisionKind names a Decision variant.
type DecisionKind string

// Decision kinds.
const (
	KindRespond        DecisionKind = "respond"
	KindToolInvocation DecisionKind = "tool_invocation"
	KindPartial        DecisionKind = "partial"
)

// DecisionVisitor has one method per Decision variant.
type DecisionVisitor interface {
	VisitRespond(Respond) error
	VisitToolInvocation(ToolInvocation) error
	VisitPartial(Partial) error
}

// Respond is a final textual answer for this turn.
type Respond struct {
	Response AssistantResponse
}

// NewRespond creates a Respond decision with the given content.
func NewRespond(content string) Respond {
	return Respond{Response: AssistantResponse{Content: content}}
}

func (Respond) Kind() DecisionKind { return KindRespond }
func (d Respond) Accept(v DecisionVisitor) error { return v.VisitRespond(d) }
func (Respond) isDecision() {}
func (d Respond) String() string { return fmt.Sprintf("Respond(%q)", d.Response.Content) }

// ToolInvocation asks the caller to run one or more of the supplied tools.
// Calls are in the order the model emitted them.
type ToolInvocation struct {
	Calls []ToolCall

	// Content is any text the model produced alongside the calls.
	Content string
}

// NewToolInvocation creates a ToolInvocation decision.
func NewToolInvocation(calls ...ToolCall) ToolInvocation {
	return ToolInvocation{Calls: calls}
}

func (ToolInvocation) Kind() DecisionKind { return KindToolInvocation }
func (d ToolInvocation) Accept(v DecisionVisitor) error { return v.VisitToolInvocation(d) }
func (ToolInvocation) isDecision() {}

// Names returns the tool names in call order.
func (d ToolInvocation) Names() []string {
	names := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		names[i] = c.Name
	}
	return names
}

// Partial is an incremental piece of streamed text.
// It only appears inside a Stream; Fold turns a run of partials into the
// Decision Complete would have returned.
type Partial struct {
	Delta string
}

func (Partial) Kind() DecisionKind { return KindPartial }
func (d Partial) Accept(v DecisionVisitor) error { return v.VisitPartial(d) }
func (Partial) isDecision() {}

// IsFinal reports whether d ends a turn (anything but Partial).
func IsFinal(d Decision) bool {
	_, partial := d.(Partial)
	return d != nil && !partial
}

// unhandled builds the error type switches return for unknown variants.
func unhandled(d Decision) error {
	return fmt.Errorf("%w: %T", ErrUnhandledDecision, d)
}

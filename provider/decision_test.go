package provider

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kindVisitor records which visitor method ran. Adding a Decision variant
// adds a method to DecisionVisitor and stops this from compiling.
type kindVisitor struct {
	got DecisionKind
}

func (v *kindVisitor) VisitRespond(Respond) error {
	v.got = KindRespond
	return nil
}

func (v *kindVisitor) VisitToolInvocation(ToolInvocation) error {
	v.got = KindToolInvocation
	return nil
}

func (v *kindVisitor) VisitPartial(Partial) error {
	v.got = KindPartial
	return nil
}

// describe is the type-switch form of exhaustive handling.
func describe(d Decision) (string, error) {
	switch d := d.(type) {
	case Respond:
		return "respond:" + d.Response.Content, nil
	case ToolInvocation:
		return "tools:" + d.Calls[0].Name, nil
	case Partial:
		return "partial:" + d.Delta, nil
	default:
		return "", unhandled(d)
	}
}

// rogueDecision cannot exist outside this package because isDecision is
// unexported; inside it stands in for a variant callers do not know.
type rogueDecision struct{}

func (rogueDecision) Kind() DecisionKind { return "rogue" }
func (rogueDecision) Accept(v DecisionVisitor) error { return nil }
func (rogueDecision) isDecision() {}

func allVariants() []Decision {
	return []Decision{
		NewRespond("hi"),
		NewToolInvocation(ToolCall{ID: "1", Name: "search", Arguments: json.RawMessage(`{}`)}),
		Partial{Delta: "h"},
	}
}

func TestDecision_EveryVariantVisitable(t *testing.T) {
	for _, d := range allVariants() {
		t.Run(string(d.Kind()), func(t *testing.T) {
			var v kindVisitor
			require.NoError(t, d.Accept(&v))
			assert.Equal(t, d.Kind(), v.got)
		})
	}
}

func TestDecision_TypeSwitchExhaustive(t *testing.T) {
	for _, d := range allVariants() {
		_, err := describe(d)
		assert.NoError(t, err, "variant %s not handled", d.Kind())
	}

	_, err := describe(rogueDecision{})
	assert.True(t, errors.Is(err, ErrUnhandledDecision))
}

func TestDecision_VariantsDistinguishable(t *testing.T) {
	seen := make(map[DecisionKind]bool)
	for _, d := range allVariants() {
		assert.False(t, seen[d.Kind()], "duplicate kind %s", d.Kind())
		seen[d.Kind()] = true
	}
	assert.Len(t, seen, 3)
}

func TestIsFinal(t *testing.T) {
	assert.True(t, IsFinal(NewRespond("")))
	assert.True(t, IsFinal(NewToolInvocation()))
	assert.False(t, IsFinal(Partial{Delta: "x"}))
	assert.False(t, IsFinal(nil))
}

func TestToolInvocation_Names(t *testing.T) {
	d := NewToolInvocation(
		ToolCall{Name: "read"},
		ToolCall{Name: "write"},
	)
	assert.Equal(t, []string{"read", "write"}, d.Names())
}

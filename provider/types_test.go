package provider

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_Valid(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleUser, true},
		{RoleAssistant, true},
		{RoleSystem, true},
		{RoleTool, true},
		{Role(""), false},
		{Role("USER"), false},
		{Role("moderator"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Valid())
		})
	}
}

func TestNewMessage(t *testing.T) {
	before := time.Now()
	m := NewMessage(RoleUser, "")

	assert.Equal(t, RoleUser, m.Role)
	assert.Equal(t, "", m.Content, "empty content is legal")
	assert.False(t, m.Timestamp.Before(before))
	assert.Nil(t, m.Metadata)
}

func TestNewToolResultMessage(t *testing.T) {
	call := ToolCall{ID: "call_1", Name: "search", Arguments: json.RawMessage(`{}`)}
	m := NewToolResultMessage(call, "3 results")

	assert.Equal(t, RoleTool, m.Role)
	assert.Equal(t, "search", m.Name)
	assert.Equal(t, "call_1", m.ToolCallID)
	assert.Equal(t, "3 results", m.Content)
}

func TestMetadata_SetGet(t *testing.T) {
	md := Metadata{}
	require.NoError(t, md.Set("finish_reason", "stop"))
	require.NoError(t, md.Set("usage", map[string]int{"input_tokens": 10}))

	var reason string
	ok, err := md.Get("finish_reason", &reason)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "stop", reason)

	var usage map[string]int
	ok, err = md.Get("usage", &usage)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 10, usage["input_tokens"])

	ok, err = md.Get("missing", &reason)
	assert.NoError(t, err)
	assert.False(t, ok)

	var wrong int
	ok, err = md.Get("finish_reason", &wrong)
	assert.True(t, ok)
	assert.Error(t, err)
}

func TestMetadata_SetUnserializable(t *testing.T) {
	md := Metadata{}
	err := md.Set("ch", make(chan int))
	assert.Error(t, err)
	assert.False(t, md.Has("ch"))
}

func TestMetadata_Clone(t *testing.T) {
	var nilMD Metadata
	assert.Nil(t, nilMD.Clone())

	md := Metadata{"k": json.RawMessage(`"v"`)}
	clone := md.Clone()
	clone["k"][1] = 'X'
	clone["other"] = json.RawMessage(`1`)

	assert.Equal(t, `"v"`, string(md["k"]))
	assert.False(t, md.Has("other"))
}

func TestMessage_JSONRoundTripKeepsMetadata(t *testing.T) {
	m := NewMessage(RoleAssistant, "hi")
	m.Metadata = Metadata{}
	require.NoError(t, m.Metadata.Set("model", "x-1"))

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var back Message
	require.NoError(t, json.Unmarshal(data, &back))

	var model string
	ok, err := back.Metadata.Get("model", &model)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x-1", model)
	assert.True(t, m.Timestamp.Equal(back.Timestamp))
}

func TestToolCall_DecodeArguments(t *testing.T) {
	call := ToolCall{Name: "add", Arguments: json.RawMessage(`{"a":1,"b":2}`)}

	var args struct{ A, B int }
	require.NoError(t, call.DecodeArguments(&args))
	assert.Equal(t, 1, args.A)
	assert.Equal(t, 2, args.B)

	empty := ToolCall{Name: "add"}
	assert.Error(t, empty.DecodeArguments(&args))

	bad := ToolCall{Name: "add", Arguments: json.RawMessage(`{`)}
	assert.Error(t, bad.DecodeArguments(&args))
}

func TestRequest_WithMaxTokens(t *testing.T) {
	req := NewRequest([]Message{NewMessage(RoleUser, "hi")})
	capped := req.WithMaxTokens(100)

	assert.Equal(t, 0, req.MaxTokens)
	assert.Equal(t, 100, capped.MaxTokens)
}

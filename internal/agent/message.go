package agent

import (
	"fmt"
	"strings"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ContentBlock is one typed piece of structured message content.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Message is a single conversation entry.
//
// Content holds plain text; Blocks holds structured content as returned by
// the model. A message uses one or the other.
type Message struct {
	Role       Role           `json:"role"`
	Content    string         `json:"content,omitempty"`
	Blocks     []ContentBlock `json:"blocks,omitempty"`
	ToolCalls  []ToolCall     `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	ToolName   string         `json:"tool_name,omitempty"`
}

// ToolCall is a model request to run a named tool.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
	// Signature is opaque provider state that must be echoed back with the call.
	Signature []byte `json:"-"`
}

func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: text}
}

func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// Text joins the plain content and every text block.
func (m Message) Text() string {
	parts := make([]string, 0, len(m.Blocks)+1)
	if m.Content != "" {
		parts = append(parts, m.Content)
	}
	for _, b := range m.Blocks {
		if b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// String renders the whole message, including tool call metadata.
func (m Message) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "role=%s content=%q", m.Role, m.Content)
	if len(m.Blocks) > 0 {
		fmt.Fprintf(&b, " blocks=%v", m.Blocks)
	}
	for _, tc := range m.ToolCalls {
		fmt.Fprintf(&b, " tool_call=%s(%v)", tc.Name, tc.Arguments)
	}
	if m.ToolCallID != "" || m.ToolName != "" {
		fmt.Fprintf(&b, " tool_call_id=%s tool_name=%s", m.ToolCallID, m.ToolName)
	}
	return b.String()
}

package dodo

import (
	"encoding/json"
	"time"
)

// Role tags the author of a message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
	RoleModel  Role = "model"
)

// Message is a role-tagged sequence of content parts. Tool calls are only
// meaningful in model messages; tool results only in user messages.
type Message struct {
	Role      Role
	Content   []Content
	Timestamp time.Time
}

// NewSystemMessage creates a system message.
func NewSystemMessage(parts ...Content) Message {
	return Message{Role: RoleSystem, Content: parts, Timestamp: time.Now()}
}

// NewUserMessage creates a user message.
func NewUserMessage(parts ...Content) Message {
	return Message{Role: RoleUser, Content: parts, Timestamp: time.Now()}
}

// NewModelMessage creates a model message.
func NewModelMessage(parts ...Content) Message {
	return Message{Role: RoleModel, Content: parts, Timestamp: time.Now()}
}

// Text returns the first non-empty text part, or "". For model messages
// this is the reasoning shown in compacted summaries.
func (m Message) Text() string {
	for _, c := range m.Content {
		if t, ok := c.(*Text); ok && t.Text != "" {
			return t.Text
		}
	}
	return ""
}

// ToolCalls returns the tool call parts in order.
func (m Message) ToolCalls() []*ToolCall {
	var calls []*ToolCall
	for _, c := range m.Content {
		if tc, ok := c.(*ToolCall); ok {
			calls = append(calls, tc)
		}
	}
	return calls
}

// ToolResults returns the tool result parts in order.
func (m Message) ToolResults() []*ToolResult {
	var results []*ToolResult
	for _, c := range m.Content {
		if tr, ok := c.(*ToolResult); ok {
			results = append(results, tr)
		}
	}
	return results
}

type messageJSON struct {
	Role      Role              `json:"role"`
	Content   []json.RawMessage `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
}

// MarshalJSON encodes the message with typed content parts.
func (m Message) MarshalJSON() ([]byte, error) {
	enc := messageJSON{Role: m.Role, Timestamp: m.Timestamp}
	for _, c := range m.Content {
		data, err := MarshalContent(c)
		if err != nil {
			return nil, err
		}
		enc.Content = append(enc.Content, data)
	}
	return json.Marshal(enc)
}

// UnmarshalJSON decodes a message written by MarshalJSON.
func (m *Message) UnmarshalJSON(data []byte) error {
	var dec messageJSON
	if err := json.Unmarshal(data, &dec); err != nil {
		return err
	}
	m.Role = dec.Role
	m.Timestamp = dec.Timestamp
	m.Content = nil
	for _, raw := range dec.Content {
		c, err := UnmarshalContent(raw)
		if err != nil {
			return err
		}
		m.Content = append(m.Content, c)
	}
	return nil
}

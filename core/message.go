package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleUser marks messages authored by the user (including tool results,
	// which the wire protocol requires to be carried in a user-role message).
	RoleUser Role = "user"
	// RoleAssistant marks messages authored by the model.
	RoleAssistant Role = "assistant"
)

// ContentBlock represents a polymorphic segment of message content. Concrete
// block types implement the unexported isBlock marker enabling a closed set.
type ContentBlock interface{ isBlock() }

// TextBlock is a plain text content segment.
type TextBlock struct {
	Text string `json:"text"`
}

// isBlock implements the ContentBlock interface for TextBlock.
func (TextBlock) isBlock() {}

// ToolUse describes a model-requested invocation of a named tool.
type ToolUse struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

// ToolUseBlock wraps a ToolUse as a content block.
type ToolUseBlock struct {
	ToolUse ToolUse `json:"tool_use"`
}

// isBlock implements the ContentBlock interface for ToolUseBlock.
func (ToolUseBlock) isBlock() {}

// ToolResult describes the outcome of a tool use, correlated by ToolUseID.
// IsError marks handler or validation failures that the model should see and
// self-correct from; it never aborts the surrounding conversation.
type ToolResult struct {
	ToolUseID string `json:"tool_use_id"`
	Content   string `json:"content"`
	IsError   bool   `json:"is_error,omitempty"`
}

// ToolResultBlock wraps a ToolResult as a content block.
type ToolResultBlock struct {
	ToolResult ToolResult `json:"tool_result"`
}

// isBlock implements the ContentBlock interface for ToolResultBlock.
func (ToolResultBlock) isBlock() {}

// Message is a single conversation entry. Content is an ordered sequence of
// blocks; a plain text message is a single TextBlock. Invariant: every
// ToolUseBlock emitted by an assistant message must be answered by exactly one
// ToolResultBlock (matched by id) in the next user-role message before a
// further assistant turn is requested.
type Message struct {
	ID        string         `json:"id"`
	Role      Role           `json:"role"`
	Blocks    []ContentBlock `json:"blocks"`
	CreatedAt time.Time      `json:"createdAt"`
}

// NewID generates a new unique identifier for messages, suggestions and
// other correlated records.
func NewID() string { return uuid.NewString() }

// NewUserMessage creates a user message with a single text block.
func NewUserMessage(text string) Message {
	return Message{
		ID:        NewID(),
		Role:      RoleUser,
		Blocks:    []ContentBlock{TextBlock{Text: text}},
		CreatedAt: time.Now().UTC(),
	}
}

// NewAssistantMessage creates an empty assistant message ready to accumulate
// streamed text and tool-use blocks.
func NewAssistantMessage() Message {
	return Message{
		ID:        NewID(),
		Role:      RoleAssistant,
		CreatedAt: time.Now().UTC(),
	}
}

// NewToolResultMessage packages a batch of tool results as the user-role
// message the wire protocol expects to follow an assistant tool-use turn.
func NewToolResultMessage(results []ToolResult) Message {
	m := Message{
		ID:        NewID(),
		Role:      RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	for _, r := range results {
		m.Blocks = append(m.Blocks, ToolResultBlock{ToolResult: r})
	}
	return m
}

// AppendText appends a streamed text chunk, extending the trailing TextBlock
// when one exists so chunk boundaries never fragment the content.
func (m *Message) AppendText(chunk string) {
	if chunk == "" {
		return
	}
	if n := len(m.Blocks); n > 0 {
		if tb, ok := m.Blocks[n-1].(TextBlock); ok {
			tb.Text += chunk
			m.Blocks[n-1] = tb
			return
		}
	}
	m.Blocks = append(m.Blocks, TextBlock{Text: chunk})
}

// AppendToolUse appends a completed tool-use block.
func (m *Message) AppendToolUse(tu ToolUse) {
	m.Blocks = append(m.Blocks, ToolUseBlock{ToolUse: tu})
}

// Text concatenates all text blocks in order.
func (m Message) Text() string {
	var sb strings.Builder
	for _, b := range m.Blocks {
		if tb, ok := b.(TextBlock); ok {
			sb.WriteString(tb.Text)
		}
	}
	return sb.String()
}

// ToolUses returns all tool-use blocks in order.
func (m Message) ToolUses() []ToolUse {
	var uses []ToolUse
	for _, b := range m.Blocks {
		if tu, ok := b.(ToolUseBlock); ok {
			uses = append(uses, tu.ToolUse)
		}
	}
	return uses
}

// ToolResults returns all tool-result blocks in order.
func (m Message) ToolResults() []ToolResult {
	var results []ToolResult
	for _, b := range m.Blocks {
		if tr, ok := b.(ToolResultBlock); ok {
			results = append(results, tr.ToolResult)
		}
	}
	return results
}

// IsEmpty reports whether the message accumulated no text and no tool uses.
// The loop controller removes empty in-progress assistant messages after a
// transport failure so no dangling turn remains in history.
func (m Message) IsEmpty() bool {
	for _, b := range m.Blocks {
		switch v := b.(type) {
		case TextBlock:
			if v.Text != "" {
				return false
			}
		case ToolUseBlock, ToolResultBlock:
			return false
		}
	}
	return true
}

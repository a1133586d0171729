package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendTextExtendsTrailingBlock(t *testing.T) {
	m := NewAssistantMessage()
	m.AppendText("Hello ")
	m.AppendText("world")

	require.Len(t, m.Blocks, 1)
	assert.Equal(t, "Hello world", m.Text())
}

func TestAppendTextAfterToolUseStartsNewBlock(t *testing.T) {
	m := NewAssistantMessage()
	m.AppendText("Let me check.")
	m.AppendToolUse(ToolUse{ID: "tu-1", Name: "read_document", Input: map[string]any{}})
	m.AppendText("Done.")

	require.Len(t, m.Blocks, 3)
	assert.Equal(t, "Let me check.Done.", m.Text())
}

func TestToolUseAndResultExtraction(t *testing.T) {
	m := NewAssistantMessage()
	m.AppendToolUse(ToolUse{ID: "a", Name: "x", Input: map[string]any{}})
	m.AppendToolUse(ToolUse{ID: "b", Name: "y", Input: map[string]any{}})

	uses := m.ToolUses()
	require.Len(t, uses, 2)
	assert.Equal(t, "a", uses[0].ID)
	assert.Equal(t, "b", uses[1].ID)
	assert.Empty(t, m.ToolResults())

	rm := NewToolResultMessage([]ToolResult{
		{ToolUseID: "a", Content: "ok"},
		{ToolUseID: "b", Content: "boom", IsError: true},
	})
	assert.Equal(t, RoleUser, rm.Role)
	results := rm.ToolResults()
	require.Len(t, results, 2)
	assert.True(t, results[1].IsError)
}

func TestIsEmpty(t *testing.T) {
	m := NewAssistantMessage()
	assert.True(t, m.IsEmpty())

	m.AppendText("")
	assert.True(t, m.IsEmpty())

	m.AppendText("x")
	assert.False(t, m.IsEmpty())

	tu := NewAssistantMessage()
	tu.AppendToolUse(ToolUse{ID: "a", Name: "x"})
	assert.False(t, tu.IsEmpty())
}

func TestParseStage(t *testing.T) {
	for _, s := range Stages() {
		parsed, err := ParseStage(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseStage("publishing")
	assert.Error(t, err)
}

func TestRangeOverlaps(t *testing.T) {
	assert.True(t, Range{0, 5}.Overlaps(Range{4, 6}))
	assert.False(t, Range{0, 5}.Overlaps(Range{5, 6}))
	assert.False(t, Range{2, 2}.Overlaps(Range{2, 2}), "same-point insertions do not overlap")
	assert.True(t, Range{0, 10}.Overlaps(Range{3, 4}))
}

func TestNewIDUnique(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
}

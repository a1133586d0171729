package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftloop/draftloop/core"
	"github.com/draftloop/draftloop/tool"
)

func TestBuildMessagesRolesAndBlocks(t *testing.T) {
	user := core.NewUserMessage("hello")
	assistant := core.NewAssistantMessage()
	assistant.AppendText("checking")
	assistant.AppendToolUse(core.ToolUse{ID: "tu-1", Name: "read_document", Input: map[string]any{}})
	results := core.NewToolResultMessage([]core.ToolResult{{ToolUseID: "tu-1", Content: "{}"}})

	out := buildMessages([]core.Message{user, assistant, results})
	require.Len(t, out, 3)
	assert.Equal(t, "user", string(out[0].Role))
	assert.Equal(t, "assistant", string(out[1].Role))
	assert.Equal(t, "user", string(out[2].Role))
	assert.Len(t, out[1].Content, 2)
}

func TestBuildMessagesSkipsEmpty(t *testing.T) {
	empty := core.NewAssistantMessage()
	out := buildMessages([]core.Message{empty, core.NewUserMessage("hi")})
	require.Len(t, out, 1)
}

func TestBuildTools(t *testing.T) {
	defs := []tool.Definition{{
		Name:        "update_stage",
		Description: "Move the document to a different writing stage.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"stage": map[string]any{"type": "string"},
			},
			"required": []string{"stage"},
		},
	}}

	tools := buildTools(defs)
	require.Len(t, tools, 1)
	require.NotNil(t, tools[0].OfTool)
	assert.Equal(t, "update_stage", tools[0].OfTool.Name)
	assert.Equal(t, []string{"stage"}, tools[0].OfTool.InputSchema.Required)
}

func TestRequiredListShapes(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, requiredList(map[string]any{"required": []string{"a", "b"}}))
	assert.Equal(t, []string{"a"}, requiredList(map[string]any{"required": []any{"a", 1}}))
	assert.Nil(t, requiredList(map[string]any{}))
}

func TestParseInput(t *testing.T) {
	assert.Equal(t, map[string]any{"x": "y"}, parseInput(`{"x":"y"}`))
	assert.Equal(t, map[string]any{}, parseInput(""))
	assert.Equal(t, map[string]any{}, parseInput("{not json"))
}

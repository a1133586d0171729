package draftloop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftloop/draftloop/internal/testutil"
	"github.com/draftloop/draftloop/loop"
	"github.com/draftloop/draftloop/tool"
	"github.com/draftloop/draftloop/transport"
)

func TestFacadeWiresDocumentTools(t *testing.T) {
	tp := testutil.NewScriptedTransport(
		testutil.NewTurn().
			Chunk("Locking the concept in.").
			ToolUse("tu-1", "update_concept", map[string]any{
				"title":        "Blackout",
				"coreArgument": "A city rediscovers itself when the grid fails.",
				"audience":     "Literary fiction readers",
				"tone":         "Quiet, observational",
			}).
			Stop(transport.StopToolUse).
			Build(),
		testutil.NewTurn().Chunk("Concept is set.").Stop(transport.StopEndTurn).Build(),
	)

	var chunks string
	dl := New(func(o *Options) {
		o.Transport = tp
		o.Hooks = loop.Hooks{
			OnChunk: func(c string) { chunks += c },
		}
	})

	err := dl.SendMessage(context.Background(), "Let's settle the concept.")
	require.NoError(t, err)

	concept := dl.Store().Concept()
	require.NotNil(t, concept)
	assert.Equal(t, "Blackout", concept.Title)
	assert.Contains(t, chunks, "Concept is set.")
	assert.Equal(t, loop.StateIdle, dl.State())
	require.Len(t, dl.Messages(), 4)
}

func TestFacadeForwardsToolDefinitions(t *testing.T) {
	tp := testutil.NewScriptedTransport(
		testutil.NewTurn().Chunk("hi").Stop(transport.StopEndTurn).Build(),
	)
	dl := New(func(o *Options) { o.Transport = tp })

	require.NoError(t, dl.SendMessage(context.Background(), "hello"))

	reqs := tp.Requests()
	require.Len(t, reqs, 1)
	names := make([]string, 0, len(reqs[0].Tools))
	for _, d := range reqs[0].Tools {
		names = append(names, d.Name)
	}
	assert.Contains(t, names, "read_document")
	assert.Contains(t, names, "update_document")
	assert.Contains(t, names, "update_concept")
	assert.Contains(t, names, "update_outline")
	assert.Contains(t, names, "update_stage")
	assert.Contains(t, names, "add_edit_suggestion")
	assert.NotEmpty(t, reqs[0].System, "instruction payload built for the turn")
}

func TestFacadeExtraTools(t *testing.T) {
	tp := testutil.NewScriptedTransport(
		testutil.NewTurn().Stop(transport.StopEndTurn).Build(),
	)
	dl := New(func(o *Options) {
		o.Transport = tp
		o.ExtraTools = []tool.Tool{toolStub{}}
	})

	require.NoError(t, dl.SendMessage(context.Background(), "hello"))
	reqs := tp.Requests()
	require.Len(t, reqs, 1)

	var found bool
	for _, d := range reqs[0].Tools {
		if d.Name == "word_count" {
			found = true
		}
	}
	assert.True(t, found)
}

type toolStub struct{}

func (toolStub) Name() string        { return "word_count" }
func (toolStub) Description() string { return "Count words in the document." }
func (toolStub) InputSchema() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}
func (toolStub) Call(context.Context, map[string]any) (string, error) { return "0", nil }

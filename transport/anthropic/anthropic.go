// Package anthropic implements the streaming transport over the Anthropic
// Messages API using the official client.
package anthropic

import (
	"context"
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"

	"github.com/draftloop/draftloop/core"
	"github.com/draftloop/draftloop/tool"
	"github.com/draftloop/draftloop/transport"
)

// DefaultModel is used when no model is configured.
const DefaultModel = anthropic.Model("claude-sonnet-4-20250514")

// Options configures the Anthropic transport (model id, max tokens,
// temperature, API key).
type Options struct {
	Model       anthropic.Model
	MaxTokens   int64
	Temperature float64
	APIKey      string
}

// Transport wraps the Anthropic Messages API behind the generic
// transport.Transport interface.
type Transport struct {
	client *anthropic.Client
	opts   Options
}

// New creates a new Anthropic transport using the official client.
func New(optFns ...func(o *Options)) *Transport {
	opts := Options{
		Model:       DefaultModel,
		MaxTokens:   4096,
		Temperature: 1.0,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Transport{client: &client, opts: opts}
}

// NewFromClient creates a transport from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Transport {
	opts := Options{
		Model:       DefaultModel,
		MaxTokens:   4096,
		Temperature: 1.0,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Transport{client: client, opts: opts}
}

// toolUseState accumulates a streamed tool_use block until its stop event.
type toolUseState struct {
	id        string
	name      string
	inputJSON string
}

// Stream sends one turn and adapts the SSE event stream into ordered
// transport events: text deltas, completed tool uses, then the stop reason.
func (t *Transport) Stream(ctx context.Context, req transport.Request) (<-chan transport.Event, <-chan error) {
	out := make(chan transport.Event, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		params := anthropic.MessageNewParams{
			Model:       t.opts.Model,
			MaxTokens:   t.opts.MaxTokens,
			Temperature: anthropic.Float(t.opts.Temperature),
			Messages:    buildMessages(req.Messages),
		}
		if req.System != "" {
			params.System = []anthropic.TextBlockParam{{Text: req.System}}
		}
		if len(req.Tools) > 0 {
			params.Tools = buildTools(req.Tools)
		}

		stream := t.client.Messages.NewStreaming(ctx, params)

		stopReason := transport.StopEndTurn
		sawToolUse := false
		var current *toolUseState

		for stream.Next() {
			event := stream.Current()
			switch ev := event.AsAny().(type) {
			case anthropic.ContentBlockStartEvent:
				if ev.ContentBlock.Type == "tool_use" {
					current = &toolUseState{id: ev.ContentBlock.ID, name: ev.ContentBlock.Name}
				}
			case anthropic.ContentBlockDeltaEvent:
				switch delta := ev.Delta.AsAny().(type) {
				case anthropic.TextDelta:
					if delta.Text != "" {
						if !send(ctx, out, transport.Event{Kind: transport.EventChunk, Chunk: delta.Text}) {
							return
						}
					}
				case anthropic.InputJSONDelta:
					if current != nil {
						current.inputJSON += delta.PartialJSON
					}
				}
			case anthropic.ContentBlockStopEvent:
				if current == nil {
					continue
				}
				use := core.ToolUse{ID: current.id, Name: current.name, Input: parseInput(current.inputJSON)}
				current = nil
				sawToolUse = true
				if !send(ctx, out, transport.Event{Kind: transport.EventToolUse, ToolUse: &use}) {
					return
				}
			case anthropic.MessageDeltaEvent:
				if ev.Delta.StopReason != "" {
					stopReason = string(ev.Delta.StopReason)
				}
			}
		}

		if err := stream.Err(); err != nil {
			errCh <- transport.Classify(err)
			return
		}

		// Some terminations report end_turn even though tool uses were
		// streamed; normalize so the loop executes them.
		if sawToolUse && stopReason == transport.StopEndTurn {
			stopReason = transport.StopToolUse
		}
		send(ctx, out, transport.Event{Kind: transport.EventStop, StopReason: stopReason})
	}()

	return out, errCh
}

func send(ctx context.Context, out chan<- transport.Event, ev transport.Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// parseInput decodes accumulated tool input JSON, degrading to an empty
// object when the model emitted nothing or malformed JSON.
func parseInput(raw string) map[string]any {
	input := map[string]any{}
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &input)
	}
	return input
}

// buildMessages converts conversation messages to the Anthropic wire format.
// Tool results ride in user messages, matched to the assistant tool uses of
// the preceding turn by id.
func buildMessages(messages []core.Message) []anthropic.MessageParam {
	var out []anthropic.MessageParam
	for _, m := range messages {
		var blocks []anthropic.ContentBlockParamUnion
		for _, b := range m.Blocks {
			switch block := b.(type) {
			case core.TextBlock:
				if block.Text != "" {
					blocks = append(blocks, anthropic.NewTextBlock(block.Text))
				}
			case core.ToolUseBlock:
				blocks = append(blocks, anthropic.NewToolUseBlock(
					block.ToolUse.ID,
					block.ToolUse.Input,
					block.ToolUse.Name,
				))
			case core.ToolResultBlock:
				blocks = append(blocks, anthropic.NewToolResultBlock(
					block.ToolResult.ToolUseID,
					block.ToolResult.Content,
					block.ToolResult.IsError,
				))
			}
		}
		if len(blocks) == 0 {
			continue
		}
		switch m.Role {
		case core.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		default:
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}
	return out
}

// buildTools converts tool definitions to the Anthropic tool format.
func buildTools(defs []tool.Definition) []anthropic.ToolUnionParam {
	tools := make([]anthropic.ToolUnionParam, len(defs))
	for i, def := range defs {
		schema := anthropic.ToolInputSchemaParam{Type: constant.Object("object")}
		if properties, ok := def.InputSchema["properties"]; ok {
			schema.Properties = properties
		}
		schema.Required = requiredList(def.InputSchema)

		tools[i] = anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        def.Name,
			Description: anthropic.String(def.Description),
			InputSchema: schema,
		}}
	}
	return tools
}

func requiredList(schema map[string]any) []string {
	switch req := schema["required"].(type) {
	case []string:
		return req
	case []any:
		out := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

var _ transport.Transport = (*Transport)(nil)

// Package openai implements the streaming transport over the OpenAI Chat
// Completions API (including tool calling). Tool-call arguments stream as
// partial deltas, so completed tool uses are only emitted once the finish
// reason arrives.
package openai

import (
	"context"
	"encoding/json"

	"github.com/openai/openai-go"

	"github.com/draftloop/draftloop/core"
	"github.com/draftloop/draftloop/tool"
	"github.com/draftloop/draftloop/transport"
)

// Options configures the OpenAI transport.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Transport wraps the OpenAI Chat Completions API behind the generic
// transport.Transport interface.
type Transport struct {
	client *openai.Client
	opts   Options
}

// New creates a new OpenAI transport using the default client, which reads
// the API key from the environment.
func New(optFns ...func(o *Options)) *Transport {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a transport from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Transport {
	opts := Options{
		Model:               openai.ChatModelGPT4o,
		Temperature:         1.0,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Transport{client: client, opts: opts}
}

// aggCall aggregates partial tool call deltas (id, name, arguments) until the
// finish reason marks them complete.
type aggCall struct{ id, name, args string }

// Stream sends one turn and adapts the completion chunk stream into ordered
// transport events.
func (t *Transport) Stream(ctx context.Context, req transport.Request) (<-chan transport.Event, <-chan error) {
	out := make(chan transport.Event, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		params := openai.ChatCompletionNewParams{
			Model:               t.opts.Model,
			Messages:            buildMessages(req),
			Temperature:         openai.Float(t.opts.Temperature),
			MaxCompletionTokens: openai.Int(t.opts.MaxCompletionTokens),
		}
		if len(req.Tools) > 0 {
			params.Tools = buildTools(req.Tools)
		}

		stream := t.client.Chat.Completions.NewStreaming(ctx, params)

		agg := map[int64]*aggCall{}
		var order []int64
		finish := ""

		for stream.Next() {
			chunk := stream.Current()
			for _, choice := range chunk.Choices {
				if choice.Delta.Content != "" {
					if !send(ctx, out, transport.Event{Kind: transport.EventChunk, Chunk: choice.Delta.Content}) {
						return
					}
				}
				for _, tc := range choice.Delta.ToolCalls {
					ac, ok := agg[tc.Index]
					if !ok {
						ac = &aggCall{}
						agg[tc.Index] = ac
						order = append(order, tc.Index)
					}
					if tc.ID != "" {
						ac.id = tc.ID
					}
					if tc.Function.Name != "" {
						ac.name = tc.Function.Name
					}
					ac.args += tc.Function.Arguments
				}
				if choice.FinishReason != "" {
					finish = choice.FinishReason
				}
			}
		}
		if err := stream.Err(); err != nil {
			errCh <- transport.Classify(err)
			return
		}

		for _, idx := range order {
			ac := agg[idx]
			use := core.ToolUse{ID: ac.id, Name: ac.name, Input: parseArgs(ac.args)}
			if !send(ctx, out, transport.Event{Kind: transport.EventToolUse, ToolUse: &use}) {
				return
			}
		}

		send(ctx, out, transport.Event{Kind: transport.EventStop, StopReason: stopReason(finish, len(order) > 0)})
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

func stopReason(finish string, sawToolUse bool) string {
	switch finish {
	case "tool_calls":
		return transport.StopToolUse
	case "length":
		return transport.StopMaxTokens
	}
	if sawToolUse {
		return transport.StopToolUse
	}
	return transport.StopEndTurn
}

func parseArgs(raw string) map[string]any {
	input := map[string]any{}
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &input)
	}
	return input
}

// buildMessages converts the request into OpenAI chat messages. Tool results
// become tool-role messages correlated by call id.
func buildMessages(req transport.Request) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}

	for _, m := range req.Messages {
		switch m.Role {
		case core.RoleAssistant:
			toolCalls := assistantToolCalls(m)
			if len(toolCalls) == 0 {
				if text := m.Text(); text != "" {
					messages = append(messages, openai.AssistantMessage(text))
				}
				continue
			}
			messages = append(messages, openai.ChatCompletionMessageParamUnion{OfAssistant: &openai.ChatCompletionAssistantMessageParam{
				Role:      "assistant",
				ToolCalls: toolCalls,
			}})
		default:
			for _, r := range m.ToolResults() {
				messages = append(messages, openai.ToolMessage(r.Content, r.ToolUseID))
			}
			if text := m.Text(); text != "" {
				messages = append(messages, openai.UserMessage(text))
			}
		}
	}
	return messages
}

func assistantToolCalls(m core.Message) []openai.ChatCompletionMessageToolCallParam {
	var calls []openai.ChatCompletionMessageToolCallParam
	for _, use := range m.ToolUses() {
		args, err := json.Marshal(use.Input)
		if err != nil {
			args = []byte("{}")
		}
		calls = append(calls, openai.ChatCompletionMessageToolCallParam{
			ID:   use.ID,
			Type: "function",
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      use.Name,
				Arguments: string(args),
			},
		})
	}
	return calls
}

func buildTools(defs []tool.Definition) []openai.ChatCompletionToolParam {
	tools := make([]openai.ChatCompletionToolParam, len(defs))
	for i, def := range defs {
		tools[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        def.Name,
				Description: openai.String(def.Description),
				Parameters:  def.InputSchema,
			},
		}
	}
	return tools
}

var _ transport.Transport = (*Transport)(nil)

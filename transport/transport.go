// Package transport defines the streaming contract between the loop
// controller and a tool-calling inference service. A request yields a single
// ordered event channel — text chunks, completed tool uses, then exactly one
// stop event — consumed solely by the loop controller, plus a terminal error
// channel. After an error no further events are delivered for that request,
// and a torn-down stream is never resumed.
package transport

import (
	"context"

	"github.com/draftloop/draftloop/core"
	"github.com/draftloop/draftloop/tool"
)

// Well-known stop reasons.
const (
	StopEndTurn   = "end_turn"
	StopToolUse   = "tool_use"
	StopMaxTokens = "max_tokens"
)

// EventKind identifies the type of a stream event.
type EventKind string

const (
	// EventChunk carries a text delta to append to the in-progress
	// assistant message.
	EventChunk EventKind = "chunk"
	// EventToolUse carries a completed tool invocation request.
	EventToolUse EventKind = "tool_use"
	// EventStop is the terminal event of a successful stream.
	EventStop EventKind = "stop"
)

// Event is one element of the ordered stream for a request.
type Event struct {
	Kind       EventKind
	Chunk      string        // set for EventChunk
	ToolUse    *core.ToolUse // set for EventToolUse
	StopReason string        // set for EventStop
}

// Request is a full conversation turn submitted to the inference service.
type Request struct {
	// System is the instruction payload built for this turn.
	System string
	// Messages is the conversation so far, alternating user and assistant.
	Messages []core.Message
	// Tools are the static declarations forwarded verbatim.
	Tools []tool.Definition
}

// Transport streams one model turn. Chunk and tool-use events arrive in
// order before the stop event; implementations close both channels when the
// request finishes either way.
type Transport interface {
	Stream(ctx context.Context, req Request) (<-chan Event, <-chan error)
}

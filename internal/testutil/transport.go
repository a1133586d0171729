package testutil

import (
	"context"
	"sync"

	"github.com/draftloop/draftloop/core"
	"github.com/draftloop/draftloop/transport"
)

// Turn is one scripted model response: the events to emit followed by an
// optional terminal error.
type Turn struct {
	Events []transport.Event
	Err    error
}

// TurnBuilder provides a fluent helper for scripting transport turns in
// tests. Example:
//
//	turn := testutil.NewTurn().Chunk("hello").Stop(transport.StopEndTurn).Build()
//
// Chain only the parts you need.
type TurnBuilder struct {
	turn Turn
}

// NewTurn creates an empty turn builder.
func NewTurn() *TurnBuilder { return &TurnBuilder{} }

// Chunk appends a text chunk event (chainable).
func (b *TurnBuilder) Chunk(text string) *TurnBuilder {
	b.turn.Events = append(b.turn.Events, transport.Event{Kind: transport.EventChunk, Chunk: text})
	return b
}

// ToolUse appends a tool-use event (chainable).
func (b *TurnBuilder) ToolUse(id, name string, input map[string]any) *TurnBuilder {
	if input == nil {
		input = map[string]any{}
	}
	b.turn.Events = append(b.turn.Events, transport.Event{
		Kind:    transport.EventToolUse,
		ToolUse: &core.ToolUse{ID: id, Name: name, Input: input},
	})
	return b
}

// Stop appends the terminal stop event (chainable).
func (b *TurnBuilder) Stop(reason string) *TurnBuilder {
	b.turn.Events = append(b.turn.Events, transport.Event{Kind: transport.EventStop, StopReason: reason})
	return b
}

// Fail sets the terminal error delivered after the scripted events (chainable).
func (b *TurnBuilder) Fail(err error) *TurnBuilder {
	b.turn.Err = err
	return b
}

// Build returns the scripted turn.
func (b *TurnBuilder) Build() Turn { return b.turn }

// ScriptedTransport replays pre-scripted turns, one per Stream call, and
// records every request it receives. When the script is exhausted the last
// turn repeats, which lets a single tool-calling turn exercise iteration
// ceilings.
type ScriptedTransport struct {
	mu       sync.Mutex
	turns    []Turn
	calls    int
	requests []transport.Request
}

// NewScriptedTransport creates a transport that plays the given turns in order.
func NewScriptedTransport(turns ...Turn) *ScriptedTransport {
	return &ScriptedTransport{turns: turns}
}

// Calls returns how many times Stream has been invoked.
func (t *ScriptedTransport) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Requests returns every request passed to Stream, in order.
func (t *ScriptedTransport) Requests() []transport.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]transport.Request, len(t.requests))
	copy(out, t.requests)
	return out
}

// Stream implements transport.Transport.
func (t *ScriptedTransport) Stream(ctx context.Context, req transport.Request) (<-chan transport.Event, <-chan error) {
	t.mu.Lock()
	idx := t.calls
	if idx >= len(t.turns) {
		idx = len(t.turns) - 1
	}
	var turn Turn
	if idx >= 0 {
		turn = t.turns[idx]
	}
	t.calls++
	t.requests = append(t.requests, req)
	t.mu.Unlock()

	out := make(chan transport.Event, len(turn.Events))
	errCh := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errCh)
		for _, ev := range turn.Events {
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
		if turn.Err != nil {
			errCh <- turn.Err
		}
	}()
	return out, errCh
}

var _ transport.Transport = (*ScriptedTransport)(nil)

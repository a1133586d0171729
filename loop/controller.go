package loop

import (
	"context"
	"errors"
	"sync"

	"github.com/draftloop/draftloop/core"
	"github.com/draftloop/draftloop/logging"
	"github.com/draftloop/draftloop/prompt"
	"github.com/draftloop/draftloop/tool"
	"github.com/draftloop/draftloop/transport"
)

// DefaultMaxIterations caps the number of model turns a single SendMessage
// may take. Reaching the ceiling is a normal, silent termination.
const DefaultMaxIterations = 10

// ErrBusy is returned by SendMessage while a previous call is still running.
var ErrBusy = errors.New("loop: a message is already being processed")

// State describes where the controller is in its turn lifecycle.
type State string

const (
	StateIdle             State = "idle"
	StateBuildingContext  State = "building_context"
	StateAwaitingResponse State = "awaiting_response"
	StateToolExecution    State = "tool_execution"
	StateTerminated       State = "terminated"
	StateFailed           State = "failed"
)

// Hooks are optional callbacks for live progress reporting. Any field may be
// nil. Callbacks are invoked synchronously from the loop goroutine, so they
// must return quickly.
type Hooks struct {
	OnChunk       func(chunk string)
	OnError       func(err error)
	OnToolUse     func(use core.ToolUse)
	OnMessageStop func(stopReason string)
}

// Options configures a Controller instance.
//
// Use functional options with NewController to override defaults.
type Options struct {
	Logger        logging.Logger
	Builder       *prompt.Builder
	Hooks         Hooks
	MaxIterations int
}

// Controller is the agent loop state machine. It owns the conversation
// message history; document state lives in the injected store and is only
// touched through it.
type Controller struct {
	transport transport.Transport
	executor  *tool.Executor
	store     core.DocumentStore
	builder   *prompt.Builder
	logger    logging.Logger
	hooks     Hooks
	maxIters  int

	mu      sync.Mutex
	busy    bool
	state   State
	history []core.Message
}

// NewController creates a controller with sensible defaults: the default
// prompt builder, a no-op logger, no hooks, and an iteration ceiling of
// DefaultMaxIterations.
func NewController(tp transport.Transport, executor *tool.Executor, store core.DocumentStore, optFns ...func(o *Options)) *Controller {
	opts := Options{
		Logger:        logging.NoOpLogger{},
		Builder:       prompt.NewBuilder(),
		MaxIterations: DefaultMaxIterations,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	return &Controller{
		transport: tp,
		executor:  executor,
		store:     store,
		builder:   opts.Builder,
		logger:    opts.Logger,
		hooks:     opts.Hooks,
		maxIters:  opts.MaxIterations,
		state:     StateIdle,
	}
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Messages returns a copy of the conversation history so far.
func (c *Controller) Messages() []core.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Message, len(c.history))
	copy(out, c.history)
	return out
}

// SendMessage appends a user message and runs the turn loop until the model
// signals completion, a transport error occurs, or the iteration ceiling is
// hit. Only one call may be in flight at a time; concurrent calls get
// ErrBusy. A new last-seen snapshot is recorded on every exit path so the
// next turn's recent-changes diff has the right baseline.
func (c *Controller) SendMessage(ctx context.Context, userText string) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.busy = true
	c.history = append(c.history, core.NewUserMessage(userText))
	c.mu.Unlock()

	defer func() {
		c.store.RecordLastSeen()
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	c.logger.Debug("loop.send.start", "history_len", len(c.Messages()))

	for iter := 0; iter < c.maxIters; iter++ {
		done, err := c.runIteration(ctx, iter)
		if err != nil {
			c.setState(StateFailed)
			if c.hooks.OnError != nil {
				c.hooks.OnError(err)
			}
			return err
		}
		if done {
			c.setState(StateIdle)
			return nil
		}
	}

	c.logger.Warn("loop.ceiling.reached", "max_iterations", c.maxIters)
	c.setState(StateTerminated)
	return nil
}

// runIteration executes one model turn. It returns done=true when the model
// finished naturally and no tool results need to be fed back.
func (c *Controller) runIteration(ctx context.Context, iter int) (bool, error) {
	c.setState(StateBuildingContext)
	system := c.builder.Build(prompt.Input{
		Stage:    c.store.Stage(),
		Concept:  c.store.Concept(),
		Outline:  c.store.Outline(),
		Content:  c.store.Content(),
		LastSeen: c.store.LastSeen(),
	})

	req := transport.Request{
		System:   system,
		Messages: c.Messages(),
		Tools:    c.executor.Definitions(),
	}

	c.setState(StateAwaitingResponse)
	c.logger.Debug("loop.turn.start", "iteration", iter)

	events, errCh := c.transport.Stream(ctx, req)

	assistant := core.NewAssistantMessage()
	stopReason := ""
	for ev := range events {
		switch ev.Kind {
		case transport.EventChunk:
			assistant.AppendText(ev.Chunk)
			if c.hooks.OnChunk != nil {
				c.hooks.OnChunk(ev.Chunk)
			}
		case transport.EventToolUse:
			assistant.AppendToolUse(*ev.ToolUse)
			if c.hooks.OnToolUse != nil {
				c.hooks.OnToolUse(*ev.ToolUse)
			}
		case transport.EventStop:
			stopReason = ev.StopReason
			if c.hooks.OnMessageStop != nil {
				c.hooks.OnMessageStop(ev.StopReason)
			}
		}
	}

	if err := <-errCh; err != nil {
		// An assistant message that accumulated nothing is dropped so no
		// dangling empty turn remains in history.
		if !assistant.IsEmpty() {
			c.appendMessage(assistant)
		}
		c.logger.Error("loop.turn.error", "iteration", iter, "error", err.Error())
		return false, err
	}

	c.appendMessage(assistant)

	uses := assistant.ToolUses()
	if len(uses) == 0 || stopReason != transport.StopToolUse {
		c.logger.Debug("loop.turn.complete", "iteration", iter, "stop_reason", stopReason)
		return true, nil
	}

	c.setState(StateToolExecution)
	c.logger.Debug("loop.tools.start", "iteration", iter, "count", len(uses))
	results := c.executor.ExecuteBatch(ctx, uses)
	c.appendMessage(core.NewToolResultMessage(results))
	return false, nil
}

func (c *Controller) appendMessage(m core.Message) {
	c.mu.Lock()
	c.history = append(c.history, m)
	c.mu.Unlock()
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

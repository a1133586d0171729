// Package draftloop provides a high-level façade over the loop controller and
// its collaborators (document store, tool executor, prompt builder, streaming
// transport) for building agentic writing assistants. Most applications
// interact with this package by:
//  1. Creating a DraftLoop via New() (optionally overriding the defaults)
//  2. Registering any extra tools beyond the built-in document tools
//  3. Calling SendMessage and observing progress via hooks and the store
//
// The façade delegates orchestration to loop.Controller while keeping setup
// ergonomics concise. All defaults are safe for local development: an
// in-memory document store, the Anthropic streaming transport configured from
// the environment, and a no-op logger.
package draftloop

import (
	"context"

	"github.com/draftloop/draftloop/core"
	"github.com/draftloop/draftloop/logging"
	"github.com/draftloop/draftloop/loop"
	"github.com/draftloop/draftloop/prompt"
	"github.com/draftloop/draftloop/store"
	"github.com/draftloop/draftloop/tool"
	"github.com/draftloop/draftloop/transport"
	anthropictransport "github.com/draftloop/draftloop/transport/anthropic"
)

// Options configures the DraftLoop instance.
type Options struct {
	// Transport streams model turns. Defaults to the Anthropic transport
	// configured from the environment.
	Transport transport.Transport

	// Store holds document/outline/concept state. Defaults to an in-memory
	// implementation.
	Store core.DocumentStore

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// Hooks receive live progress callbacks from the loop.
	Hooks loop.Hooks

	// MaxIterations caps model turns per SendMessage. Zero means the loop
	// default.
	MaxIterations int

	// PreviewLimit caps the document preview in the instruction payload.
	// Zero means the prompt default.
	PreviewLimit int

	// ExtraTools are registered alongside the built-in document tools.
	ExtraTools []tool.Tool
}

// DraftLoop is the high-level façade aggregating the loop controller and the
// services it depends on.
type DraftLoop struct {
	store      core.DocumentStore
	executor   *tool.Executor
	controller *loop.Controller
}

// New creates a new DraftLoop with optional overrides. Any unset collaborator
// is initialized with its default implementation, and the built-in document
// tools are registered against the store.
func New(optFns ...func(o *Options)) *DraftLoop {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Store == nil {
		opts.Store = store.NewInMemory()
	}
	if opts.Transport == nil {
		opts.Transport = anthropictransport.New()
	}

	executor := tool.NewExecutor(opts.Logger, tool.DocumentTools(opts.Store)...)
	for _, t := range opts.ExtraTools {
		executor.Register(t)
	}

	var builderOpts []prompt.Option
	if opts.PreviewLimit > 0 {
		builderOpts = append(builderOpts, prompt.WithPreviewLimit(opts.PreviewLimit))
	}

	controller := loop.NewController(opts.Transport, executor, opts.Store, func(o *loop.Options) {
		o.Logger = opts.Logger
		o.Builder = prompt.NewBuilder(builderOpts...)
		o.Hooks = opts.Hooks
		if opts.MaxIterations > 0 {
			o.MaxIterations = opts.MaxIterations
		}
	})

	return &DraftLoop{
		store:      opts.Store,
		executor:   executor,
		controller: controller,
	}
}

// SendMessage runs one full writing turn. See loop.Controller.SendMessage.
func (d *DraftLoop) SendMessage(ctx context.Context, userText string) error {
	return d.controller.SendMessage(ctx, userText)
}

// Messages returns the conversation history so far.
func (d *DraftLoop) Messages() []core.Message {
	return d.controller.Messages()
}

// State returns the controller's current lifecycle state.
func (d *DraftLoop) State() loop.State {
	return d.controller.State()
}

// Store returns the document store the tools operate on.
func (d *DraftLoop) Store() core.DocumentStore {
	return d.store
}

// RegisterTools adds tools to the executor beyond the built-in document set.
func (d *DraftLoop) RegisterTools(tools ...tool.Tool) {
	for _, t := range tools {
		d.executor.Register(t)
	}
}

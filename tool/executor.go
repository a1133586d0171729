package tool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/draftloop/draftloop/core"
	"github.com/draftloop/draftloop/internal/schema"
	"github.com/draftloop/draftloop/logging"
)

// Executor routes tool uses to a fixed registry of handlers. It holds no
// document state of its own; every handler reads and mutates the externally
// owned store. All failures surface as is_error tool results rather than Go
// errors so the loop can report them back to the model.
type Executor struct {
	tools  map[string]Tool
	order  []string
	logger logging.Logger
}

// NewExecutor builds an executor over the given tools. A nil logger defaults
// to the no-op logger.
func NewExecutor(logger logging.Logger, tools ...Tool) *Executor {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	e := &Executor{tools: make(map[string]Tool), logger: logger}
	for _, t := range tools {
		e.Register(t)
	}
	return e
}

// Register adds a tool to the registry, replacing any tool of the same name.
func (e *Executor) Register(t Tool) {
	if _, exists := e.tools[t.Name()]; !exists {
		e.order = append(e.order, t.Name())
	}
	e.tools[t.Name()] = t
}

// Definitions returns the static tool declarations in registration order,
// ready to be forwarded to the transport.
func (e *Executor) Definitions() []Definition {
	defs := make([]Definition, 0, len(e.order))
	for _, name := range e.order {
		t := e.tools[name]
		defs = append(defs, Definition{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.InputSchema(),
		})
	}
	return defs
}

// Execute validates and runs a single tool use, always returning a result
// correlated by the tool use id. Unknown names and validation or handler
// failures produce an error result, never a panic or partial mutation.
func (e *Executor) Execute(ctx context.Context, use core.ToolUse) core.ToolResult {
	t, ok := e.tools[use.Name]
	if !ok {
		e.logger.Warn("tool.unknown", "tool", use.Name, "tool_use_id", use.ID)
		return errorResult(use.ID, &ToolError{
			Tool:    use.Name,
			Message: fmt.Sprintf("unknown tool %q", use.Name),
			Code:    CodeUnknownTool,
		})
	}

	if err := schema.Validate(use.Input, t.InputSchema()); err != nil {
		e.logger.Warn("tool.validation_failed", "tool", use.Name, "error", err.Error())
		return errorResult(use.ID, &ToolError{
			Tool:    use.Name,
			Message: fmt.Sprintf("input validation failed: %v", err),
			Code:    CodeValidationError,
		})
	}

	start := time.Now()
	content, err := t.Call(ctx, use.Input)
	if err != nil {
		e.logger.Error("tool.execution_failed", "tool", use.Name, "error", err.Error())
		if toolErr, ok := err.(*ToolError); ok {
			return errorResult(use.ID, toolErr)
		}
		return errorResult(use.ID, &ToolError{
			Tool:    use.Name,
			Message: err.Error(),
			Code:    CodeExecutionError,
		})
	}

	e.logger.Info("tool.executed", "tool", use.Name, "duration_ms", time.Since(start).Milliseconds())

	return core.ToolResult{ToolUseID: use.ID, Content: content}
}

// ExecuteBatch runs every tool use concurrently and returns results in input
// order. Sibling executions are independent: one failing handler never aborts
// the others, and the batch only returns once all outcomes are captured.
func (e *Executor) ExecuteBatch(ctx context.Context, uses []core.ToolUse) []core.ToolResult {
	results := make([]core.ToolResult, len(uses))
	var wg sync.WaitGroup
	for i, use := range uses {
		wg.Add(1)
		go func(i int, use core.ToolUse) {
			defer wg.Done()
			results[i] = e.Execute(ctx, use)
		}(i, use)
	}
	wg.Wait()
	return results
}

func errorResult(toolUseID string, err *ToolError) core.ToolResult {
	return core.ToolResult{ToolUseID: toolUseID, Content: err.Message, IsError: true}
}

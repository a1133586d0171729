// Package tool implements the tool-calling subsystem that lets the model
// mutate document state through named, schema-validated operations. The
// Executor validates every input against the tool's declared schema before
// dispatch and converts all failures — unknown names, malformed inputs,
// handler errors — into is_error tool results the loop feeds back to the
// model, so a bad tool call never interrupts the conversation.
package tool

import (
	"context"
	"fmt"
)

// Error codes attached to ToolError for categorization.
const (
	CodeUnknownTool     = "UNKNOWN_TOOL"
	CodeValidationError = "VALIDATION_ERROR"
	CodeExecutionError  = "EXECUTION_ERROR"
)

// Tool defines a single operation the model can invoke against document state.
//
// Tool implementations should:
//   - Provide clear, descriptive names (snake_case) and descriptions
//   - Declare a JSON schema for their input
//   - Mutate only through the injected DocumentStore, never own state copies
//   - Be safe for concurrent use; batch siblings may run in parallel
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description provided to the model
	// to help it decide when and how to use the tool.
	Description() string

	// InputSchema returns a JSON schema describing the expected input.
	// It is used for validation and forwarded to the transport.
	InputSchema() map[string]any

	// Call executes the tool with already-validated input and returns the
	// textual result delivered back to the model.
	Call(ctx context.Context, input map[string]any) (string, error)
}

// Definition is the static declaration of a tool forwarded to the transport.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// ToolError represents a categorized failure during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

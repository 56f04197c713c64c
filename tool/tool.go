// Package tool implements the callable-capability subsystem that lets agent
// sessions invoke structured functions (computations, APIs, other agents)
// with schema-validated arguments and consistent error handling.
package tool

import (
	"context"
	"fmt"

	"github.com/pweide/agentcall/internal/util"
)

// Tool is the single capability contract an agent's session can invoke.
// Plain functions and agents-wrapped-as-tools both implement it; callers that
// need the set of child agents filter on the agent-tool variant rather than
// inspecting runtime types ad hoc.
//
// Implementations should:
//   - Provide clear, descriptive names and descriptions (the description is
//     surfaced to the parent model for tool selection)
//   - Declare a JSON schema for their parameters
//   - Be safe for concurrent use; a single model turn may invoke several
//     tools in parallel
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of what this tool
	// does, provided to the model to guide tool selection.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the tool with already-decoded arguments. Implementations
	// must respect ctx cancellation.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// ValidationError represents parameter validation errors with detailed information.
type ValidationError = util.ValidationError

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}

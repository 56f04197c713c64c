// Package session defines the opaque conversational capability an agent
// dispatches prompts to, and provides ModelSession, the concrete
// implementation that drives a model.Model through a tool-calling loop.
package session

import (
	"context"

	"github.com/pweide/agentcall/core"
	"github.com/pweide/agentcall/tool"
)

// Session is the conversational capability consumed by an agent. Given a
// prompt it asynchronously produces a final text response or fails. While
// responding it may decide, following its own tool-selection protocol, to
// invoke zero or more tools from the supplied list before returning.
//
// Conversation history accumulates across Respond calls and is never cleared
// automatically between top-level runs; callers needing isolation must Reset
// explicitly.
type Session interface {
	// Respond dispatches the prompt and returns the final text response.
	Respond(ctx context.Context, prompt string, tools []tool.Tool) (string, error)

	// Transcript returns a copy of the ordered prompt / response / tool-call
	// / tool-output log accumulated so far.
	Transcript() []core.Entry

	// Reset discards the accumulated conversation history and transcript.
	Reset()
}

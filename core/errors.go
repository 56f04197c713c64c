package core

import "fmt"

// TurnBudgetExceededError reports that the shared turn budget for a top-level
// run is exhausted. The failing increment still counts against the budget, so
// callers must not retry against the same monitor.
//
// An agent-as-tool boundary converts this error into an in-band tool result
// so the parent agent can still produce a best-effort answer.
type TurnBudgetExceededError struct {
	Max int // Configured maximum number of model invocations
}

func (e *TurnBudgetExceededError) Error() string {
	return fmt.Sprintf("turn budget exceeded: at most %d model invocations allowed per run", e.Max)
}

// ModelInvocationError reports that the underlying conversational session
// failed for any reason (network, content policy, malformed tool arguments).
// Agent is the name of the agent whose session failed.
type ModelInvocationError struct {
	Agent string
	Err   error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("model invocation failed for agent %q: %v", e.Agent, e.Err)
}

// Unwrap exposes the underlying session failure for errors.Is / errors.As.
func (e *ModelInvocationError) Unwrap() error { return e.Err }

package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/pweide/agentcall/core"
	"github.com/pweide/agentcall/tool"
)

// AsToolOptions configures AsTool.
type AsToolOptions struct {
	// Name overrides the tool identifier exposed to the parent model.
	// Defaults to the agent's own name.
	Name string
}

// AsTool exposes the agent as a tool callable by another agent's session.
// The description is surfaced to the parent model for tool selection.
//
// Calling AsTool twice (with different names) produces two independent tool
// adapters wrapping the same underlying agent, so conversation-history
// effects are visible through both.
func (a *Agent) AsTool(description string, optFns ...func(o *AsToolOptions)) tool.Tool {
	opts := AsToolOptions{Name: a.name}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &agentTool{
		name:        opts.Name,
		description: description,
		agent:       a,
	}
}

// agentTool adapts an agent into the tool.Tool contract. It is stateless
// beyond the non-owning agent reference; the wrapped agent is the same
// process-lifetime instance the caller configured.
type agentTool struct {
	name        string
	description string
	agent       *Agent
}

func (t *agentTool) Name() string { return t.name }

func (t *agentTool) Description() string { return t.description }

func (t *agentTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prompt": map[string]any{
				"type":        "string",
				"description": "The request to forward to the agent",
			},
		},
		"required": []string{"prompt"},
	}
}

// Call translates a tool invocation into a nested agent run. On success the
// response text is returned verbatim. Any run failure (turn budget exhausted
// or model invocation failure) is converted into a descriptive text result
// instead of an error, so the parent session observes it as ordinary tool
// output and can still produce a best-effort answer. Raw propagation happens
// only at the top-level Run boundary.
func (t *agentTool) Call(ctx context.Context, args map[string]any) (any, error) {
	raw, ok := args["prompt"]
	if !ok {
		return nil, fmt.Errorf("missing required field 'prompt'")
	}
	prompt, ok := raw.(string)
	if !ok || prompt == "" {
		return nil, fmt.Errorf("field 'prompt' must be a non-empty string")
	}

	text, err := t.agent.run(ctx, prompt)
	if err != nil {
		return failureResult(t.agent.name, err), nil
	}

	return text, nil
}

// failureResult renders a run failure as tool-result text: the error
// description plus a recovery hint for the parent model.
func failureResult(agentName string, err error) string {
	var budgetErr *core.TurnBudgetExceededError
	if errors.As(err, &budgetErr) {
		return fmt.Sprintf(
			"agent %s could not answer: %v. Do not call this tool again; answer with the information you already have.",
			agentName, err,
		)
	}

	return fmt.Sprintf(
		"agent %s failed: %v. Answer with the information you already have.",
		agentName, err,
	)
}

package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pweide/agentcall/core"
	"github.com/pweide/agentcall/model"
	"github.com/pweide/agentcall/session"
	"github.com/pweide/agentcall/tool"
)

func TestAsTool_DefaultsAndOverride(t *testing.T) {
	a := New("MathTutor", textSession("42"))

	defaulted := a.AsTool("Ask the math tutor")
	assert.Equal(t, "MathTutor", defaulted.Name())
	assert.Equal(t, "Ask the math tutor", defaulted.Description())

	named := a.AsTool("Ask the math tutor", func(o *AsToolOptions) { o.Name = "math" })
	assert.Equal(t, "math", named.Name())

	params := named.Parameters()
	props := params["properties"].(map[string]any)
	assert.Contains(t, props, "prompt")
}

func TestAsTool_TwiceSharesAgentState(t *testing.T) {
	sess := textSession("ok")
	a := New("Shared", sess)

	first := a.AsTool("handle one", func(o *AsToolOptions) { o.Name = "one" })
	second := a.AsTool("handle two", func(o *AsToolOptions) { o.Name = "two" })

	_, err := first.Call(context.Background(), map[string]any{"prompt": "via one"})
	require.NoError(t, err)
	_, err = second.Call(context.Background(), map[string]any{"prompt": "via two"})
	require.NoError(t, err)

	// Both adapters drive the same session; history effects are shared.
	assert.Equal(t, []string{"via one", "via two"}, sess.Prompts())
}

func TestAgentTool_SuccessReturnsTextVerbatim(t *testing.T) {
	a := New("MathTutor", textSession("the answer is 4"))

	result, err := a.AsTool("math").Call(context.Background(), map[string]any{"prompt": "2+2?"})
	require.NoError(t, err)
	assert.Equal(t, "the answer is 4", result)
}

func TestAgentTool_MissingPromptRejected(t *testing.T) {
	a := New("MathTutor", textSession("unused"))
	at := a.AsTool("math")

	_, err := at.Call(context.Background(), map[string]any{})
	assert.Error(t, err)

	_, err = at.Call(context.Background(), map[string]any{"prompt": 7})
	assert.Error(t, err)
}

func TestAgentTool_BudgetFailureBecomesToolText(t *testing.T) {
	child := New("Child", textSession("never reached"))
	childTool := child.AsTool("helper")

	// Parent spends the whole budget before delegating.
	parent := New("Parent", newMockSession(func(ctx context.Context, _ string, tools []tool.Tool) (string, error) {
		result, err := tools[0].Call(ctx, map[string]any{"prompt": "help me"})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("child said: %v", result), nil
	}), func(o *Options) {
		o.Tools = []tool.Tool{childTool}
	})

	text, err := parent.Run(context.Background(), "go", WithMaxTurns(1))
	require.NoError(t, err)

	// The nested failure shows up as data, not as an error.
	assert.Contains(t, text, "could not answer")
	assert.Contains(t, text, "turn budget exceeded")

	// Parent turn + failed child attempt are both counted.
	assert.Equal(t, 2, parent.currentMonitor().Count())
}

func TestAgentTool_ModelFailureBecomesToolText(t *testing.T) {
	child := New("Child", newMockSession(func(context.Context, string, []tool.Tool) (string, error) {
		return "", errors.New("content filter tripped")
	}))

	parent := New("Parent", newMockSession(func(ctx context.Context, _ string, tools []tool.Tool) (string, error) {
		result, err := tools[0].Call(ctx, map[string]any{"prompt": "help"})
		if err != nil {
			return "", err
		}
		return result.(string), nil
	}), func(o *Options) {
		o.Tools = []tool.Tool{child.AsTool("helper")}
	})

	text, err := parent.Run(context.Background(), "go", WithMaxTurns(5))
	require.NoError(t, err)
	assert.Contains(t, text, "Child failed")
	assert.Contains(t, text, "content filter tripped")
}

// TestAgentTool_ConcurrentSiblingsRaceForBudget drives a real ModelSession:
// the orchestrator's first model turn fans out to two sub-agents in
// parallel with only one turn left in the budget. Exactly one sibling
// succeeds; the other's failure is embedded as tool-result text and the
// overall request still completes.
func TestAgentTool_ConcurrentSiblingsRaceForBudget(t *testing.T) {
	math := New("MathTutor", textSession("it is 4"))
	english := New("EnglishTutor", textSession("a fine essay"))

	llm := model.NewMockModel("orchestrator-model")
	llm.EnqueueFunctionCalls(
		core.FunctionCall{ID: "fc1", Name: "math", Arguments: `{"prompt":"2+2?"}`},
		core.FunctionCall{ID: "fc2", Name: "english", Arguments: `{"prompt":"write an essay"}`},
	)
	llm.EnqueueText("combined best-effort answer")

	orchestrator := New("Orchestrator", session.NewModelSession(llm), func(o *Options) {
		o.Tools = []tool.Tool{
			math.AsTool("Solve math problems", func(o *AsToolOptions) { o.Name = "math" }),
			english.AsTool("Write prose", func(o *AsToolOptions) { o.Name = "english" }),
		}
	})

	text, err := orchestrator.Run(context.Background(), "homework please", WithMaxTurns(2))
	require.NoError(t, err)
	assert.Equal(t, "combined best-effort answer", text)

	// 1 orchestrator turn + 2 sub-agent attempts, one of which failed.
	monitor := orchestrator.currentMonitor()
	assert.Equal(t, 3, monitor.Count())

	var failures, successes int
	for _, e := range orchestrator.Transcript() {
		if e.Kind != core.EntryToolOutput {
			continue
		}
		if strings.Contains(e.Text, "could not answer") {
			failures++
		} else {
			successes++
		}
	}
	assert.Equal(t, 1, failures)
	assert.Equal(t, 1, successes)
}

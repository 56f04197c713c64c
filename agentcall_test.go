package agentcall

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pweide/agentcall/agent"
	"github.com/pweide/agentcall/core"
	"github.com/pweide/agentcall/model"
	"github.com/pweide/agentcall/tool"
)

func TestNewAgent_OrchestratorWithSubAgent(t *testing.T) {
	mathModel := model.NewMockModel("math-model")
	mathModel.EnqueueText("2+2 is 4")
	mathTutor := NewAgent("MathTutor", mathModel, func(o *Options) {
		o.Instruction = "You are a math tutor."
	})

	orchModel := model.NewMockModel("orchestrator-model")
	orchModel.EnqueueFunctionCalls(core.FunctionCall{ID: "fc1", Name: "math", Arguments: `{"prompt":"what is 2+2?"}`})
	orchModel.EnqueueText("The math tutor says 2+2 is 4.")

	orchestrator := NewAgent("Orchestrator", orchModel, func(o *Options) {
		o.Instruction = "Delegate to your tutors."
		o.Tools = []tool.Tool{
			mathTutor.AsTool("Solve math problems", func(o *agent.AsToolOptions) { o.Name = "math" }),
		}
	})

	text, err := orchestrator.Run(context.Background(), "help with homework", agent.WithMaxTurns(4))
	require.NoError(t, err)
	assert.Equal(t, "The math tutor says 2+2 is 4.", text)

	// Both agents ran and logged their turns.
	assert.NotEmpty(t, orchestrator.Transcript())
	assert.NotEmpty(t, mathTutor.Transcript())
}

func TestNewAgent_TransformerWiredThrough(t *testing.T) {
	llm := model.NewMockModel("m")
	llm.EnqueueText("ok")

	a := NewAgent("Prefixer", llm, func(o *Options) {
		o.Transformer = func(prompt string) string { return "[student] " + prompt }
	})

	_, err := a.Run(context.Background(), "hello")
	require.NoError(t, err)

	entries := a.Transcript()
	require.NotEmpty(t, entries)
	assert.Equal(t, core.EntryPrompt, entries[0].Kind)
	assert.Equal(t, "[student] hello", entries[0].Text)
}

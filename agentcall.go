// Package agentcall provides a high-level façade for building trees of
// cooperating model-backed agents in which one agent can invoke others as
// callable tools, recursively, under a shared turn budget. Most applications
// interact with it by:
//  1. Creating leaf agents via NewAgent (model + instruction + plain tools)
//  2. Wrapping them with Agent.AsTool and handing them to an orchestrator
//     agent, again via NewAgent
//  3. Invoking the orchestrator's Run with agent.WithMaxTurns to bound the
//     total number of model invocations across the whole call tree
//
// The façade wires a session.ModelSession to an agent.Agent; applications
// needing a custom session implementation can use the agent package
// directly.
package agentcall

import (
	"github.com/pweide/agentcall/agent"
	"github.com/pweide/agentcall/logging"
	"github.com/pweide/agentcall/model"
	"github.com/pweide/agentcall/session"
	"github.com/pweide/agentcall/tool"
)

// Options configures an agent built by NewAgent.
type Options struct {
	// Instruction is the system prompt for the agent's session.
	Instruction string

	// Tools is the ordered capability list the session may invoke, including
	// other agents wrapped via Agent.AsTool.
	Tools []tool.Tool

	// Transformer optionally rewrites each incoming prompt before dispatch.
	Transformer agent.PromptTransformer

	// Logger is shared by the session and the agent. Defaults to no-op.
	Logger logging.Logger
}

// NewAgent wires a model-backed session to a named agent in one call.
func NewAgent(name string, llm model.Model, optFns ...func(o *Options)) *agent.Agent {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	sess := session.NewModelSession(llm, func(o *session.ModelSessionOptions) {
		o.Name = name
		o.Instruction = opts.Instruction
		o.Logger = opts.Logger
	})

	return agent.New(name, sess, func(o *agent.Options) {
		o.Tools = opts.Tools
		o.Transformer = opts.Transformer
		o.Logger = opts.Logger
	})
}

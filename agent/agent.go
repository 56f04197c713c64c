package agent

import (
	"context"
	"errors"
	"sync"

	"github.com/pweide/agentcall/core"
	"github.com/pweide/agentcall/logging"
	"github.com/pweide/agentcall/session"
	"github.com/pweide/agentcall/tool"
)

// PromptTransformer maps an incoming prompt to the prompt actually dispatched
// to the session. It must be a pure function; it is applied exactly once per
// invocation, before dispatch.
type PromptTransformer func(prompt string) string

// Options configures an Agent instance.
//
// Use functional options with New to override defaults.
type Options struct {
	// Tools is the ordered collection of capabilities the session may
	// invoke. Tools created via Agent.AsTool make the wrapped agents part of
	// this agent's call tree.
	Tools []tool.Tool

	// Transformer optionally rewrites each incoming prompt before dispatch.
	Transformer PromptTransformer

	// Logger defaults to a no-op logger.
	Logger logging.Logger
}

// Agent is a named entity wrapping one conversational session, an optional
// prompt transformer and a set of callable tools, some of which may be other
// agents wrapped as tools.
//
// Configuration (name, session, transformer, tool list) is immutable after
// New. The only mutable state is the reference to the turn monitor of the
// in-flight top-level run, which is guarded for the concurrent nested
// invocations a single run may fan out. Concurrent top-level Run calls on
// one agent tree are not supported.
type Agent struct {
	name        string
	session     session.Session
	transformer PromptTransformer
	tools       []tool.Tool
	logger      logging.Logger

	mu      sync.Mutex
	monitor *core.TurnMonitor
	running bool
}

// New creates an agent with a fixed name and session. The agent lives for
// the process lifetime; its session's conversation history accumulates
// across runs and is never reset automatically.
func New(name string, sess session.Session, optFns ...func(o *Options)) *Agent {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Agent{
		name:        name,
		session:     sess,
		transformer: opts.Transformer,
		tools:       append([]tool.Tool(nil), opts.Tools...),
		logger:      logging.OrNoOp(opts.Logger),
	}
}

// Name returns the agent's identifier, used for tool naming and logging.
func (a *Agent) Name() string { return a.name }

// Tools returns a copy of the agent's tool list for safe iteration.
func (a *Agent) Tools() []tool.Tool {
	return append([]tool.Tool(nil), a.tools...)
}

// ChildAgents returns the agents wrapped by this agent's agent-tools, in
// tool-list order. Used for monitor propagation.
func (a *Agent) ChildAgents() []*Agent {
	var children []*Agent
	for _, t := range a.tools {
		if at, ok := t.(*agentTool); ok {
			children = append(children, at.agent)
		}
	}
	return children
}

// Running reports whether an invocation against this agent's session is in
// flight. Read-only presentation surface.
func (a *Agent) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// Transcript returns a copy of the session's accumulated run log.
func (a *Agent) Transcript() []core.Entry { return a.session.Transcript() }

// ResetSession discards the session's conversation history and transcript.
// History otherwise carries over between runs.
func (a *Agent) ResetSession() { a.session.Reset() }

// RunOptions configures one top-level run.
type RunOptions struct {
	// MaxTurns bounds the total number of model invocations across the whole
	// agent call tree for this run. 0 means unbounded.
	MaxTurns int
}

// WithMaxTurns sets the shared turn budget for a top-level run.
func WithMaxTurns(n int) func(o *RunOptions) {
	return func(o *RunOptions) { o.MaxTurns = n }
}

// Run is the orchestration entry point for a top-level request. It creates a
// fresh TurnMonitor when a budget is requested (clearing any prior monitor
// otherwise), broadcasts it to every agent reachable through agent-tool
// edges, and performs the recursive run.
//
// Both failure kinds (*core.TurnBudgetExceededError,
// *core.ModelInvocationError) propagate unchanged to the caller at this
// boundary; graceful degradation happens only at nested agent-tool
// boundaries.
func (a *Agent) Run(ctx context.Context, prompt string, optFns ...func(o *RunOptions)) (string, error) {
	opts := RunOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	var monitor *core.TurnMonitor
	if opts.MaxTurns > 0 {
		monitor = core.NewTurnMonitor(opts.MaxTurns)
	}
	a.broadcastMonitor(monitor, make(map[*Agent]struct{}))

	a.logger.Debug("agent.run.start", "agent", a.name, "max_turns", opts.MaxTurns)

	text, err := a.run(ctx, prompt)
	if err != nil {
		a.logger.Error("agent.run.error", "agent", a.name, "error", err.Error())
		return "", err
	}

	a.logger.Debug("agent.run.complete", "agent", a.name)

	return text, nil
}

// broadcastMonitor distributes the monitor reference depth-first across the
// tool graph. Every reachable agent ends up holding the same instance (or
// nil for an unbounded run). The visited set makes the traversal terminate
// even on a cyclic configuration, which otherwise remains a configuration
// error.
func (a *Agent) broadcastMonitor(m *core.TurnMonitor, visited map[*Agent]struct{}) {
	if _, ok := visited[a]; ok {
		return
	}
	visited[a] = struct{}{}

	a.mu.Lock()
	a.monitor = m
	a.mu.Unlock()

	for _, child := range a.ChildAgents() {
		child.broadcastMonitor(m, visited)
	}
}

// currentMonitor returns the monitor for the in-flight run, if any.
func (a *Agent) currentMonitor() *core.TurnMonitor {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.monitor
}

func (a *Agent) setRunning(v bool) {
	a.mu.Lock()
	a.running = v
	a.mu.Unlock()
}

// run is the internal invocation shared by top-level runs and agent-tool
// calls: spend a turn if a monitor is set, transform the prompt, dispatch to
// the session. Failures propagate raw to the immediate caller; converting
// them into in-band tool results is the agent-tool boundary's job, so a
// direct caller of Run still sees the original error.
func (a *Agent) run(ctx context.Context, prompt string) (string, error) {
	if monitor := a.currentMonitor(); monitor != nil {
		if err := monitor.CheckAndIncrement(); err != nil {
			a.logger.Warn(
				"agent.turn_budget.exceeded",
				"agent", a.name,
				"max_turns", monitor.Max(),
				"attempts", monitor.Count(),
			)
			return "", err
		}
	}

	effective := prompt
	if a.transformer != nil {
		effective = a.transformer(prompt)
	}

	a.setRunning(true)
	defer a.setRunning(false)

	text, err := a.session.Respond(ctx, effective, a.tools)
	if err != nil {
		var budgetErr *core.TurnBudgetExceededError
		var modelErr *core.ModelInvocationError
		if errors.As(err, &budgetErr) || errors.As(err, &modelErr) {
			return "", err
		}
		return "", &core.ModelInvocationError{Agent: a.name, Err: err}
	}

	return text, nil
}

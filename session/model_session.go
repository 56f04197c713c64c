package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/pweide/agentcall/core"
	"github.com/pweide/agentcall/logging"
	"github.com/pweide/agentcall/model"
	"github.com/pweide/agentcall/tool"
)

// ModelSessionOptions configures a ModelSession instance.
//
// Use functional options with NewModelSession to override defaults.
type ModelSessionOptions struct {
	Name          string        // Author label for transcript entries (defaults to the model name)
	Instruction   string        // System prompt
	MaxToolRounds int           // Guard against runaway tool loops
	ToolTimeout   time.Duration // Per tool call; 0 disables the timeout
	Logger        logging.Logger
}

// ModelSession drives a language model through a tool-calling loop: it
// dispatches the prompt together with the accumulated history and the tool
// definitions, executes any tool calls the model requests (concurrently,
// with order-preserving results), feeds the results back, and repeats until
// the model produces a final text response.
//
// Tool failures are embedded as in-band tool results and never surface as
// session errors; only model/provider failures do.
//
// A ModelSession serializes its Respond calls. Concurrent nested tool
// invocations within one run always target distinct child sessions, so this
// never blocks a single run against itself.
type ModelSession struct {
	llm           model.Model
	name          string
	instruction   string
	maxToolRounds int
	toolTimeout   time.Duration
	logger        logging.Logger

	mu         sync.Mutex
	history    []core.Content
	transcript *core.Transcript
}

// NewModelSession creates a session over the given model with sensible
// defaults: a 10-round tool loop guard, a 30-second per-tool timeout, and
// no-op logging.
func NewModelSession(llm model.Model, optFns ...func(o *ModelSessionOptions)) *ModelSession {
	opts := ModelSessionOptions{
		Name:          llm.Info().Name,
		MaxToolRounds: 10,
		ToolTimeout:   30 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &ModelSession{
		llm:           llm,
		name:          opts.Name,
		instruction:   opts.Instruction,
		maxToolRounds: opts.MaxToolRounds,
		toolTimeout:   opts.ToolTimeout,
		logger:        logging.OrNoOp(opts.Logger),
		transcript:    core.NewTranscript(),
	}
}

// Respond implements Session.
func (s *ModelSession) Respond(ctx context.Context, prompt string, tools []tool.Tool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, core.NewUserContent(prompt))
	s.transcript.Append(core.NewEntry(core.EntryPrompt, s.name, prompt))

	defs := toolDefinitions(tools)
	registry := make(map[string]tool.Tool, len(tools))
	for _, t := range tools {
		registry[t.Name()] = t
	}

	for round := 0; round < s.maxToolRounds; round++ {
		req := model.Request{
			Instructions: s.instruction,
			Contents:     append([]core.Content(nil), s.history...),
			Tools:        defs,
		}

		start := time.Now()
		resp, err := s.llm.Generate(ctx, req)
		if err != nil {
			s.logger.Error(
				"session.model.error",
				"session", s.name,
				"model", s.llm.Info().Name,
				"error", err.Error(),
			)

			return "", fmt.Errorf("session dispatch failed: %w", err)
		}

		s.logger.Debug(
			"session.model.completed",
			"session", s.name,
			"model", s.llm.Info().Name,
			"duration_ms", time.Since(start).Milliseconds(),
			"finish_reason", resp.FinishReason,
		)

		s.history = append(s.history, resp.Content)

		calls := resp.Content.FunctionCalls()
		if len(calls) == 0 {
			text := resp.Content.Text()
			s.transcript.Append(core.NewEntry(core.EntryResponse, s.name, text))
			return text, nil
		}

		s.history = append(s.history, s.executeCalls(ctx, registry, calls)...)
	}

	return "", fmt.Errorf("tool loop exceeded %d rounds without a final response", s.maxToolRounds)
}

// executeCalls runs a batch of tool calls in parallel and returns one tool
// content per call in the original order. Each failure is captured in the
// corresponding FunctionResponse, never returned as an error.
func (s *ModelSession) executeCalls(ctx context.Context, registry map[string]tool.Tool, calls []core.FunctionCall) []core.Content {
	for _, fc := range calls {
		s.transcript.Append(core.NewEntry(core.EntryToolCall, fc.Name, fc.Arguments))
	}

	results := make([]core.FunctionResponse, len(calls))

	var wg sync.WaitGroup
	for i := range calls {
		wg.Add(1)
		go func(idx int, fc core.FunctionCall) {
			defer wg.Done()

			start := time.Now()
			text, err := s.executeCall(ctx, registry, fc)

			fr := core.FunctionResponse{ID: fc.ID, Name: fc.Name}
			if err != nil {
				fr.Error = err.Error()
			} else {
				fr.Response = text
			}
			results[idx] = fr

			s.logger.Info(
				"session.tool.executed",
				"session", s.name,
				"tool", fc.Name,
				"duration_ms", time.Since(start).Milliseconds(),
				"error", err != nil,
			)
		}(i, calls[i])
	}
	wg.Wait()

	contents := make([]core.Content, len(results))
	for i, fr := range results {
		text := fr.Response
		if fr.Error != "" {
			text = fmt.Sprintf("error: %s", fr.Error)
		}
		s.transcript.Append(core.NewEntry(core.EntryToolOutput, fr.Name, text))

		contents[i] = core.Content{
			Role:  "tool",
			Parts: []core.Part{core.FunctionResponsePart{FunctionResponse: fr}},
		}
	}

	return contents
}

// executeCall resolves, decodes and invokes a single tool call with panic
// recovery and the configured per-call timeout.
func (s *ModelSession) executeCall(ctx context.Context, registry map[string]tool.Tool, fc core.FunctionCall) (result string, err error) {
	impl, ok := registry[fc.Name]
	if !ok {
		return "", fmt.Errorf("tool %s not found", fc.Name)
	}

	argMap := map[string]any{}
	if fc.Arguments != "" {
		if err := json.Unmarshal([]byte(fc.Arguments), &argMap); err != nil {
			return "", fmt.Errorf("failed to unmarshal args: %w", err)
		}
	}

	callCtx := ctx
	if s.toolTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.toolTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("session.tool.panic", "session", s.name, "tool", fc.Name, "recover", fmt.Sprintf("%v", r))
			err = fmt.Errorf("tool %s panicked: %v", fc.Name, r)
		}
	}()

	raw, err := impl.Call(callCtx, argMap)
	if err != nil {
		return "", err
	}

	return stringifyResult(raw), nil
}

// Transcript implements Session.
func (s *ModelSession) Transcript() []core.Entry { return s.transcript.Entries() }

// Reset implements Session.
func (s *ModelSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.transcript.Reset()
}

// History returns a copy of the accumulated model-facing conversation.
func (s *ModelSession) History() []core.Content {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Content(nil), s.history...)
}

// toolDefinitions converts tools into the declarative form sent to models.
func toolDefinitions(tools []tool.Tool) []model.ToolDefinition {
	if len(tools) == 0 {
		return nil
	}
	defs := make([]model.ToolDefinition, len(tools))
	for i, t := range tools {
		defs[i] = model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		}
	}
	return defs
}

// stringifyResult renders a tool result for the model: strings pass through,
// everything else is JSON encoded when possible.
func stringifyResult(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", v)
	}
}

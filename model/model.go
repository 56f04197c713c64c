// Package model defines the provider-agnostic language model interface
// consumed by sessions, plus a scripted in-memory implementation for tests
// and offline examples. Concrete providers live in subpackages (openai,
// anthropic).
package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/pweide/agentcall/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// Request captures the normalized model input produced by a session.
type Request struct {
	Instructions string           `json:"instructions"` // System prompt
	Contents     []core.Content   `json:"contents"`     // Conversation history, oldest first
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the completed model output for one request.
type Response struct {
	Content      core.Content `json:"content"`
	FinishReason string       `json:"finish_reason"` // "stop", "length", "tool_calls", etc.
	Usage        *TokenUsage  `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by sessions to drive generation.
// Implementations must be safe for concurrent use; an agent tree may invoke
// several sessions against the same Model in parallel.
type Model interface {
	// Generate produces a single completed response for the request or fails
	// with a provider error.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a scripted in-memory Model for tests and offline examples.
// Results are consumed in FIFO order; when the script is empty it echoes the
// last user text.
type MockModel struct {
	mu    sync.Mutex
	info  Info
	queue []mockResult
}

type mockResult struct {
	resp *Response
	err  error
}

// NewMockModel constructs a MockModel with tool support enabled.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info: Info{
			Name:          name,
			Provider:      "mock",
			SupportsTools: true,
		},
	}
}

// EnqueueText scripts a plain assistant text response.
func (m *MockModel) EnqueueText(text string) {
	m.enqueue(&Response{
		Content:      core.Content{Role: "assistant", Parts: []core.Part{core.TextPart{Text: text}}},
		FinishReason: "stop",
	}, nil)
}

// EnqueueFunctionCalls scripts an assistant turn requesting the given tool calls.
func (m *MockModel) EnqueueFunctionCalls(calls ...core.FunctionCall) {
	parts := make([]core.Part, 0, len(calls))
	for _, fc := range calls {
		parts = append(parts, core.FunctionCallPart{FunctionCall: fc})
	}
	m.enqueue(&Response{
		Content:      core.Content{Role: "assistant", Parts: parts},
		FinishReason: "tool_calls",
	}, nil)
}

// EnqueueError scripts a provider failure.
func (m *MockModel) EnqueueError(err error) {
	m.enqueue(nil, err)
}

func (m *MockModel) enqueue(resp *Response, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockResult{resp: resp, err: err})
}

// Remaining returns how many scripted results are still unconsumed.
func (m *MockModel) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Generate implements Model. It pops the next scripted result, falling back
// to echoing the last user text when the script is exhausted.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()
		return next.resp, next.err
	}
	m.mu.Unlock()

	if len(req.Contents) == 0 {
		return nil, fmt.Errorf("no contents provided")
	}

	var lastUser string
	for _, c := range req.Contents {
		if c.Role == "user" {
			lastUser = c.Text()
		}
	}

	return &Response{
		Content: core.Content{
			Role:  "assistant",
			Parts: []core.Part{core.TextPart{Text: fmt.Sprintf("Mock response to: %s", lastUser)}},
		},
		FinishReason: "stop",
	}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumParams() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
			"b": map[string]any{"type": "number"},
		},
		"required": []string{"a", "b"},
	}
}

func TestFunctionTool_Success(t *testing.T) {
	sumTool := NewFunctionTool("sum", "Add numbers", sumParams(), func(_ context.Context, args map[string]any) (any, error) {
		return args["a"].(float64) + args["b"].(float64), nil
	})

	result, err := sumTool.Call(context.Background(), map[string]any{"a": 2.0, "b": 3.0})
	assert.NoError(t, err)
	assert.Equal(t, 5.0, result)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	sumTool := NewFunctionTool("sum", "Add numbers", sumParams(), func(_ context.Context, _ map[string]any) (any, error) {
		t.Fatal("fn must not run on invalid args")
		return nil, nil
	})

	_, err := sumTool.Call(context.Background(), map[string]any{"a": 2.0})
	require.Error(t, err)

	toolErr, ok := err.(*ToolError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
	assert.Equal(t, "sum", toolErr.Tool)
}

func TestFunctionTool_ExecutionError(t *testing.T) {
	boom := errors.New("boom")
	failTool := NewFunctionTool("fail", "Always fails", map[string]any{"type": "object"}, func(_ context.Context, _ map[string]any) (any, error) {
		return nil, boom
	})

	_, err := failTool.Call(context.Background(), map[string]any{})
	require.Error(t, err)

	toolErr, ok := err.(*ToolError)
	require.True(t, ok)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Equal(t, "boom", toolErr.Message)
}

func TestFunctionTool_CustomToolErrorForwarded(t *testing.T) {
	custom := NewToolError("lookup", "not found", "NOT_FOUND")
	lookupTool := NewFunctionTool("lookup", "Lookup things", map[string]any{"type": "object"}, func(_ context.Context, _ map[string]any) (any, error) {
		return nil, custom
	})

	_, err := lookupTool.Call(context.Background(), map[string]any{})
	require.Error(t, err)
	assert.Same(t, custom, err)
}

func TestFunctionToolFromStruct(t *testing.T) {
	type greetArgs struct {
		Name string `json:"name" description:"Who to greet"`
	}

	greetTool := NewFunctionToolFromStruct("greet", "Greet someone", greetArgs{}, func(_ context.Context, args map[string]any) (any, error) {
		return "hello " + args["name"].(string), nil
	})

	schema := greetTool.Parameters()
	props := schema["properties"].(map[string]any)
	assert.Contains(t, props, "name")

	result, err := greetTool.Call(context.Background(), map[string]any{"name": "ada"})
	require.NoError(t, err)
	assert.Equal(t, "hello ada", result)
}

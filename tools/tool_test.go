package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addInput struct {
	X int `json:"x" jsonschema:"required"`
	Y int `json:"y" jsonschema:"required"`
}

func addTool() Tool {
	return Must("add", "Adds two integers",
		func(ctx context.Context, in addInput) (int, error) {
			return in.X + in.Y, nil
		},
	)
}

func TestTypedToolExecute(t *testing.T) {
	tool := addTool()
	assert.Equal(t, "add", tool.Name())
	assert.Equal(t, "Adds two integers", tool.Description())

	out, err := tool.Execute(context.Background(), json.RawMessage(`{"x":2,"y":3}`))
	require.NoError(t, err)
	assert.Equal(t, 5, out)
}

func TestTypedToolExecuteEmptyArgs(t *testing.T) {
	tool := addTool()
	out, err := tool.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, out)
}

func TestTypedToolExecuteBadArgs(t *testing.T) {
	tool := addTool()
	_, err := tool.Execute(context.Background(), json.RawMessage(`{"x":"two"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "add")
}

func TestTypedToolSchema(t *testing.T) {
	tool := addTool()
	s := tool.Parameters()
	require.NotNil(t, s)

	encoded, err := json.Marshal(s)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(encoded, &wire))
	assert.Equal(t, "object", wire["type"])

	props, ok := wire["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "x")
	assert.Contains(t, props, "y")
}

func TestDeclarations(t *testing.T) {
	decls, err := Declarations(addTool())
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, "add", decls[0].Name)
	assert.Equal(t, "Adds two integers", decls[0].Description)
	assert.NotEmpty(t, decls[0].Parameters)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Add(addTool())

	tool, ok := reg.Get("add")
	require.True(t, ok)
	assert.Equal(t, "add", tool.Name())

	_, ok = reg.Get("missing")
	assert.False(t, ok)

	assert.Len(t, reg.All(), 1)

	decls, err := reg.Declarations()
	require.NoError(t, err)
	assert.Len(t, decls, 1)
}

func TestRegistryReplacesByName(t *testing.T) {
	reg := NewRegistry()
	reg.Add(addTool())
	reg.Add(Must("add", "Replacement",
		func(ctx context.Context, in addInput) (int, error) { return 0, nil },
	))

	tool, ok := reg.Get("add")
	require.True(t, ok)
	assert.Equal(t, "Replacement", tool.Description())
	assert.Len(t, reg.All(), 1)
}

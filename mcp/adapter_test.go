package mcp

import (
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
)

func TestFlattenResult(t *testing.T) {
	tests := []struct {
		name     string
		content  []mcp.Content
		expected string
	}{
		{
			name:     "empty content",
			content:  []mcp.Content{},
			expected: "",
		},
		{
			name: "single text content",
			content: []mcp.Content{
				&mcp.TextContent{Text: "Hello, World!"},
			},
			expected: "Hello, World!",
		},
		{
			name: "multiple text contents joined with newline",
			content: []mcp.Content{
				&mcp.TextContent{Text: "Line 1"},
				&mcp.TextContent{Text: "Line 2"},
			},
			expected: "Line 1\nLine 2",
		},
		{
			name: "image content summarized",
			content: []mcp.Content{
				&mcp.ImageContent{MIMEType: "image/png", Data: []byte("imagedata")},
			},
			expected: "[image image/png, 9 bytes]",
		},
		{
			name: "audio content summarized",
			content: []mcp.Content{
				&mcp.AudioContent{MIMEType: "audio/wav", Data: []byte("wav")},
			},
			expected: "[audio audio/wav, 3 bytes]",
		},
		{
			name: "resource link keeps its uri",
			content: []mcp.Content{
				&mcp.ResourceLink{URI: "file:///data.json"},
			},
			expected: "[resource file:///data.json]",
		},
		{
			name: "embedded text resource inlined",
			content: []mcp.Content{
				&mcp.EmbeddedResource{
					Resource: &mcp.ResourceContents{URI: "file:///notes.txt", Text: "note body"},
				},
			},
			expected: "note body",
		},
		{
			name: "embedded binary resource keeps its uri",
			content: []mcp.Content{
				&mcp.EmbeddedResource{
					Resource: &mcp.ResourceContents{URI: "file:///binary.dat"},
				},
			},
			expected: "[resource file:///binary.dat]",
		},
		{
			name: "mixed content types",
			content: []mcp.Content{
				&mcp.TextContent{Text: "Here is the data:"},
				&mcp.ImageContent{MIMEType: "image/jpeg", Data: []byte("jpeg")},
				&mcp.ResourceLink{URI: "file:///data.json"},
			},
			expected: "Here is the data:\n[image image/jpeg, 4 bytes]\n[resource file:///data.json]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, flattenResult(tt.content))
		})
	}
}

func TestToolError(t *testing.T) {
	err := &ToolError{Tool: "lookup", Message: "backend unavailable"}
	assert.Equal(t, `mcp tool "lookup" failed: backend unavailable`, err.Error())

	bare := &ToolError{Tool: "lookup"}
	assert.Equal(t, `mcp tool "lookup" failed`, bare.Error())
}

func TestServerToolParameters(t *testing.T) {
	tool := &serverTool{
		mcpTool: &mcp.Tool{
			Name:        "lookup",
			Description: "Looks things up",
		},
	}

	assert.Equal(t, "lookup", tool.Name())
	assert.Equal(t, "Looks things up", tool.Description())

	// A tool without an input schema still yields a usable object schema.
	s := tool.Parameters()
	assert.NotNil(t, s)
}

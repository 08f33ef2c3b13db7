// Package mcp bridges Model Context Protocol servers into the function
// registry, so the automatic function loop can execute tools an MCP server
// exposes.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lumenlabs/interactions-go/tools"
)

// Client wraps an MCP client session.
type Client struct {
	mcpClient *mcp.Client
	session   *mcp.ClientSession
	timeout   time.Duration
}

// Option configures the MCP client.
type Option func(*clientConfig)

type clientConfig struct {
	timeout time.Duration
}

// WithTimeout sets the per-call timeout for tool execution.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// NewStdioClient starts an MCP server subprocess and connects over stdio.
//
// Example:
//
//	client, err := mcp.NewStdioClient(ctx, "./my-mcp-server", nil)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	serverTools, err := client.Tools(ctx)
func NewStdioClient(ctx context.Context, command string, args []string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	mcpClient := mcp.NewClient(&mcp.Implementation{
		Name:    "interactions-go",
		Version: "0.1.0",
	}, nil)

	cmd := exec.Command(command, args...)
	transport := &mcp.CommandTransport{
		Command: cmd,
	}

	session, err := mcpClient.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to MCP server: %w", err)
	}

	return &Client{
		mcpClient: mcpClient,
		session:   session,
		timeout:   cfg.timeout,
	}, nil
}

// Tools returns the server's tools adapted to the registry's Tool
// interface. Register them with a tools.Registry and the runner resolves
// and executes them like any local function.
func (c *Client) Tools(ctx context.Context) ([]tools.Tool, error) {
	result, err := c.session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		return nil, fmt.Errorf("listing MCP tools: %w", err)
	}

	adapted := make([]tools.Tool, 0, len(result.Tools))
	for i := range result.Tools {
		adapted = append(adapted, &serverTool{
			client:  c,
			mcpTool: result.Tools[i],
		})
	}
	return adapted, nil
}

// Close closes the session to the server.
func (c *Client) Close() error {
	return c.session.Close()
}

// serverTool adapts one MCP tool to tools.Tool.
type serverTool struct {
	client  *Client
	mcpTool *mcp.Tool
}

func (t *serverTool) Name() string {
	return t.mcpTool.Name
}

func (t *serverTool) Description() string {
	return t.mcpTool.Description
}

func (t *serverTool) Parameters() *jsonschema.Schema {
	schemaBytes, err := json.Marshal(t.mcpTool.InputSchema)
	if err != nil {
		return &jsonschema.Schema{Type: "object"}
	}

	var s jsonschema.Schema
	if err := json.Unmarshal(schemaBytes, &s); err != nil {
		return &jsonschema.Schema{Type: "object"}
	}
	return &s
}

// ToolError reports that the server executed the tool and returned a
// failure. Through the registry it becomes an error-shaped function result
// the model can react to, not an aborted round.
type ToolError struct {
	Tool    string
	Message string
}

func (e *ToolError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("mcp tool %q failed", e.Tool)
	}
	return fmt.Sprintf("mcp tool %q failed: %s", e.Tool, e.Message)
}

// Execute runs the tool on the server. When the server returns structured
// output it is passed through as-is, so the function result carries JSON the
// model can address field by field; otherwise the content blocks are
// flattened to text.
func (t *serverTool) Execute(ctx context.Context, args json.RawMessage) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, t.client.timeout)
	defer cancel()

	var arguments map[string]any
	if len(args) > 0 {
		if err := json.Unmarshal(args, &arguments); err != nil {
			return nil, fmt.Errorf("mcp: parsing arguments for %q: %w", t.mcpTool.Name, err)
		}
	}

	result, err := t.client.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      t.mcpTool.Name,
		Arguments: arguments,
	})
	if err != nil {
		return nil, fmt.Errorf("mcp: calling %q: %w", t.mcpTool.Name, err)
	}

	if result.IsError {
		return nil, &ToolError{Tool: t.mcpTool.Name, Message: flattenResult(result.Content)}
	}
	if result.StructuredContent != nil {
		return result.StructuredContent, nil
	}
	return flattenResult(result.Content), nil
}

// flattenResult joins the result's content blocks into one text payload.
// Binary blocks are summarized rather than inlined; linked and embedded
// resources keep their URI so the model can ask for them.
func flattenResult(content []mcp.Content) string {
	var parts []string
	for _, c := range content {
		switch item := c.(type) {
		case *mcp.TextContent:
			parts = append(parts, item.Text)
		case *mcp.ImageContent:
			parts = append(parts, fmt.Sprintf("[image %s, %d bytes]", item.MIMEType, len(item.Data)))
		case *mcp.AudioContent:
			parts = append(parts, fmt.Sprintf("[audio %s, %d bytes]", item.MIMEType, len(item.Data)))
		case *mcp.ResourceLink:
			parts = append(parts, fmt.Sprintf("[resource %s]", item.URI))
		case *mcp.EmbeddedResource:
			if item.Resource == nil {
				parts = append(parts, "[embedded resource]")
				continue
			}
			if item.Resource.Text != "" {
				parts = append(parts, item.Resource.Text)
			} else {
				parts = append(parts, fmt.Sprintf("[resource %s]", item.Resource.URI))
			}
		}
	}
	return strings.Join(parts, "\n")
}

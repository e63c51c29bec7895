// Package mcpserver exposes the mentorship tools over the Model Context
// Protocol so desktop assistants can search mentors and manage sessions.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/samyuktha-jana/SAP-hackathon/internal/agent"
	"github.com/samyuktha-jana/SAP-hackathon/internal/llm"
)

const (
	Name    = "mentormatch"
	Version = "1.0.0"
)

// New registers every agent tool on a fresh MCP server. All calls act as
// userEmail.
func New(tools *agent.Toolbox, userEmail string) *server.MCPServer {
	s := server.NewMCPServer(Name, Version)
	for _, decl := range agent.Declarations() {
		s.AddTool(toolFor(decl), Handler(tools, userEmail, decl.Name))
	}
	return s
}

func toolFor(decl llm.FunctionDeclaration) mcp.Tool {
	tool := mcp.NewTool(decl.Name, mcp.WithDescription(decl.Description))
	schema := mcp.ToolInputSchema{Type: "object", Properties: map[string]interface{}{}}
	if props, ok := decl.Parameters["properties"].(map[string]interface{}); ok {
		schema.Properties = props
	}
	if req, ok := decl.Parameters["required"].([]string); ok {
		schema.Required = req
	}
	tool.InputSchema = schema
	return tool
}

// Handler adapts one toolbox tool to an MCP tool handler.
func Handler(tools *agent.Toolbox, userEmail, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]interface{}{}
		if request.Params.Arguments != nil {
			m, ok := request.Params.Arguments.(map[string]interface{})
			if !ok {
				return mcp.NewToolResultError("invalid arguments format"), nil
			}
			args = m
		}

		res, err := tools.Run(ctx, userEmail, llm.FunctionCall{Name: name, Args: args})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", name, err)), nil
		}
		return mcp.NewToolResultText(res.Text), nil
	}
}

// ServeStdio blocks serving s on stdin/stdout.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// Package mcpserver adapts the connector facade to the Model Context
// Protocol: every namespaced tool ("connector.tool") the facade exposes is
// registered as one MCP tool with its connector-declared JSON schema.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/arivu/arivu/internal/common"
	"github.com/arivu/arivu/internal/facade"
)

// New builds an MCP server with one tool registered per namespaced facade
// tool. Tool registration is a snapshot taken at startup; a connector whose
// own tool list depends on runtime state (none in the current roster) would
// need a restart to pick up changes.
func New(ctx context.Context, f *facade.Facade, logger arbor.ILogger) (*server.MCPServer, error) {
	tools, err := f.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing facade tools: %w", err)
	}

	mcpServer := server.NewMCPServer(
		"arivu",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	for _, t := range tools {
		schema := t.InputSchema
		if len(schema) == 0 {
			schema = json.RawMessage(`{"type":"object"}`)
		}
		mcpServer.AddTool(
			mcp.NewToolWithRawSchema(t.Name, t.Description, schema),
			dispatch(f, t.Name, logger),
		)
	}

	return mcpServer, nil
}

func dispatch(f *facade.Facade, name string, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := decodeArguments(request)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("decoding arguments: %v", err)), nil
		}

		result, err := f.Call(ctx, name, args)
		if err != nil {
			logger.Warn().Err(err).Str("tool", name).Msg("tool call failed")
			return mcp.NewToolResultError(err.Error()), nil
		}

		if len(result.StructuredContent) > 0 {
			return mcp.NewToolResultText(string(result.StructuredContent)), nil
		}
		return mcp.NewToolResultText("{}"), nil
	}
}

func decodeArguments(request mcp.CallToolRequest) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(request.GetArguments())
	if err != nil {
		return nil, err
	}
	var args map[string]json.RawMessage
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	return args, nil
}

// Serve blocks on stdio, exactly like mcp-go's standard stdio transport.
func Serve(mcpServer *server.MCPServer) error {
	return server.ServeStdio(mcpServer)
}

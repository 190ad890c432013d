package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"toolgate/internal/domain"
)

// Ingest pulls the full tool list from a connected MCP server, following
// pagination cursors, and converts it into catalog definitions.
func Ingest(ctx context.Context, session *mcp.ClientSession) ([]domain.ToolDefinition, error) {
	var tools []domain.ToolDefinition
	params := &mcp.ListToolsParams{}
	for {
		result, err := session.ListTools(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("list tools: %w", err)
		}
		for _, tool := range result.Tools {
			tools = append(tools, ToolFromMCP(tool))
		}
		if result.NextCursor == "" {
			return tools, nil
		}
		params = &mcp.ListToolsParams{Cursor: result.NextCursor}
	}
}

// ToolFromMCP converts an MCP tool to a catalog definition. Only the fields
// the ranking index consumes are kept.
func ToolFromMCP(tool *mcp.Tool) domain.ToolDefinition {
	if tool == nil {
		return domain.ToolDefinition{}
	}
	return domain.ToolDefinition{
		Name:        tool.Name,
		Description: tool.Description,
		InputSchema: schemaAsMap(tool.InputSchema),
	}
}

// schemaAsMap normalizes whatever schema representation the SDK carries into
// the plain JSON object form the rest of the system works with.
func schemaAsMap(schema any) map[string]any {
	if schema == nil {
		return nil
	}
	if m, ok := schema.(map[string]any); ok {
		return domain.CloneJSONValue(m).(map[string]any)
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

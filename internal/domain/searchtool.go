package domain

// SearchToolName is the reserved name of the synthetic search tool offered to
// the model in place of the full catalog. Catalog tools must not use it.
const SearchToolName = "tool_search"

const searchToolDescription = "Search for available tools by describing what you want to do. " +
	"Use this before attempting to call a tool you haven't discovered yet. " +
	"Returns the names and descriptions of matching tools which will then " +
	"become available for you to use."

const searchQueryDescription = "A natural language description of the action you want to " +
	"perform. Be specific — e.g. 'send an email' or 'get weather forecast'."

// SearchTool returns the definition of the reserved search tool. Each call
// returns a fresh value so callers cannot mutate shared state.
func SearchTool() ToolDefinition {
	return ToolDefinition{
		Name:        SearchToolName,
		Description: searchToolDescription,
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": searchQueryDescription,
				},
			},
			"required": []any{"query"},
		},
	}
}

// IsSearchCall reports whether a tool call targets the reserved search tool.
func IsSearchCall(call ToolCallRequest) bool {
	return call.Name == SearchToolName
}

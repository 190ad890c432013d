package domain

import "encoding/json"

// ToolDefinition is the canonical representation of one callable tool.
// Catalog sources (files, MCP servers, SDK callers) are normalized into this
// shape once at registration; nothing downstream sees source format variance.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
}

type toolDefinitionWire struct {
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	InputSchema    map[string]any `json:"input_schema,omitempty"`
	InputSchemaMCP map[string]any `json:"inputSchema,omitempty"`
}

// UnmarshalJSON accepts both schema key spellings: snake_case "input_schema"
// and camelCase "inputSchema". The camelCase key wins when both are present,
// matching MCP precedence.
func (t *ToolDefinition) UnmarshalJSON(data []byte) error {
	var wire toolDefinitionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	t.Name = wire.Name
	t.Description = wire.Description
	t.InputSchema = wire.InputSchemaMCP
	if t.InputSchema == nil {
		t.InputSchema = wire.InputSchema
	}
	return nil
}

// MarshalJSON always emits the snake_case spelling.
func (t ToolDefinition) MarshalJSON() ([]byte, error) {
	return json.Marshal(toolDefinitionWire{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: t.InputSchema,
	})
}

// CloneToolDefinition deep-copies a tool definition.
func CloneToolDefinition(tool ToolDefinition) ToolDefinition {
	cloned := tool
	if tool.InputSchema != nil {
		cloned.InputSchema, _ = CloneJSONValue(tool.InputSchema).(map[string]any)
	}
	return cloned
}

// CloneToolDefinitions deep-copies a slice of tool definitions.
func CloneToolDefinitions(tools []ToolDefinition) []ToolDefinition {
	if tools == nil {
		return nil
	}
	cloned := make([]ToolDefinition, len(tools))
	for i, tool := range tools {
		cloned[i] = CloneToolDefinition(tool)
	}
	return cloned
}

// CloneJSONValue deep-copies a JSON-shaped value (maps, slices, scalars).
func CloneJSONValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		cloned := make(map[string]any, len(v))
		for key, val := range v {
			cloned[key] = CloneJSONValue(val)
		}
		return cloned
	case []any:
		cloned := make([]any, len(v))
		for i, val := range v {
			cloned[i] = CloneJSONValue(val)
		}
		return cloned
	default:
		return v
	}
}

// ToolCallRequest is one tool invocation extracted from a provider response,
// normalized across API families.
type ToolCallRequest struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// Query returns the search query argument of a call, or "".
func (c ToolCallRequest) Query() string {
	if c.Arguments == nil {
		return ""
	}
	query, _ := c.Arguments["query"].(string)
	return query
}

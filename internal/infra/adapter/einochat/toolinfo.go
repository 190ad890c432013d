package einochat

import (
	"github.com/cloudwego/eino/schema"

	"toolgate/internal/domain"
)

// toolInfo converts a tool definition into an eino ToolInfo, mapping the JSON
// Schema properties onto eino parameter infos.
func toolInfo(tool domain.ToolDefinition) *schema.ToolInfo {
	return &schema.ToolInfo{
		Name:        tool.Name,
		Desc:        tool.Description,
		ParamsOneOf: schema.NewParamsOneOfByParams(parameterInfos(tool.InputSchema)),
	}
}

func parameterInfos(jsonSchema map[string]any) map[string]*schema.ParameterInfo {
	properties, ok := jsonSchema["properties"].(map[string]any)
	if !ok {
		return map[string]*schema.ParameterInfo{}
	}
	required := requiredSet(jsonSchema)

	params := make(map[string]*schema.ParameterInfo, len(properties))
	for name, raw := range properties {
		prop, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		params[name] = parameterInfo(prop, required[name])
	}
	return params
}

func parameterInfo(prop map[string]any, isRequired bool) *schema.ParameterInfo {
	info := &schema.ParameterInfo{
		Type:     dataType(prop),
		Required: isRequired,
	}
	if desc, ok := prop["description"].(string); ok {
		info.Desc = desc
	}
	if enum, ok := prop["enum"].([]any); ok {
		for _, value := range enum {
			if s, ok := value.(string); ok {
				info.Enum = append(info.Enum, s)
			}
		}
	}
	switch info.Type {
	case schema.Object:
		info.SubParams = parameterInfos(prop)
	case schema.Array:
		if items, ok := prop["items"].(map[string]any); ok {
			info.ElemInfo = parameterInfo(items, false)
		}
	}
	return info
}

func dataType(prop map[string]any) schema.DataType {
	switch prop["type"] {
	case "object":
		return schema.Object
	case "array":
		return schema.Array
	case "number":
		return schema.Number
	case "integer":
		return schema.Integer
	case "boolean":
		return schema.Boolean
	case "null":
		return schema.Null
	default:
		return schema.String
	}
}

func requiredSet(jsonSchema map[string]any) map[string]bool {
	set := make(map[string]bool)
	raw, ok := jsonSchema["required"].([]any)
	if !ok {
		return set
	}
	for _, value := range raw {
		if name, ok := value.(string); ok {
			set[name] = true
		}
	}
	return set
}

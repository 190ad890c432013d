package catalog

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// expandEnv substitutes $VAR and ${VAR} references in every scalar of the
// document and returns the expanded YAML plus the sorted names of variables
// that were referenced but unset. Expansion walks the parsed node tree so
// substitution never corrupts quoting or structure.
func expandEnv(raw []byte) ([]byte, []string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, nil, fmt.Errorf("parse catalog: %w", err)
	}

	missing := make(map[string]struct{})
	walkNodes(&root, func(node *yaml.Node) {
		expandScalar(node, missing)
	})

	expanded, err := yaml.Marshal(&root)
	if err != nil {
		return nil, nil, fmt.Errorf("encode expanded catalog: %w", err)
	}

	names := make([]string, 0, len(missing))
	for name := range missing {
		names = append(names, name)
	}
	sort.Strings(names)
	return expanded, names, nil
}

func walkNodes(node *yaml.Node, visit func(*yaml.Node)) {
	switch node.Kind {
	case yaml.ScalarNode:
		visit(node)
	case yaml.MappingNode:
		// Only values are expanded; keys stay literal.
		for i := 1; i < len(node.Content); i += 2 {
			walkNodes(node.Content[i], visit)
		}
	case yaml.AliasNode:
		if node.Alias != nil {
			walkNodes(node.Alias, visit)
		}
	default:
		for _, child := range node.Content {
			walkNodes(child, visit)
		}
	}
}

func expandScalar(node *yaml.Node, missing map[string]struct{}) {
	if node.Tag != "" && node.Tag != "!!str" {
		return
	}
	if !strings.Contains(node.Value, "$") {
		return
	}

	expanded := os.Expand(node.Value, func(key string) string {
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		missing[key] = struct{}{}
		return ""
	})
	if expanded == node.Value {
		return
	}

	// A quoted scalar stays a string no matter what the value looks like.
	if node.Style != 0 {
		node.Tag = "!!str"
		node.Value = expanded
		return
	}
	node.Tag, node.Value = retypeScalar(expanded)
}

// retypeScalar lets an unquoted expansion become a number or bool again, so
// `topK: $TOP_K` decodes as an int.
func retypeScalar(value string) (string, string) {
	if strings.TrimSpace(value) == "" {
		return "!!str", value
	}

	var parsed any
	if err := yaml.Unmarshal([]byte(value), &parsed); err != nil {
		return "!!str", value
	}

	switch v := parsed.(type) {
	case bool:
		return "!!bool", strconv.FormatBool(v)
	case int:
		return "!!int", strconv.Itoa(v)
	case int64:
		return "!!int", strconv.FormatInt(v, 10)
	case float64:
		return "!!float", strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return "!!str", value
	}
}

package index

import (
	"regexp"
	"sort"
	"strings"

	"toolgate/internal/domain"
)

// Document is the normalized term sequence derived from one tool definition.
// It exists only for ranking; it carries no schema structure.
type Document struct {
	Terms []string
}

// Length returns the document length in terms.
func (d Document) Length() int { return len(d.Terms) }

var (
	nonAlnumPattern  = regexp.MustCompile(`[^a-zA-Z0-9]+`)
	separatorPattern = regexp.MustCompile(`[_\-]+`)
	camelPattern     = regexp.MustCompile(`([a-z])([A-Z])`)
)

// BuildDocument extracts searchable terms from a tool definition: the name
// (split on separators and camelCase boundaries), the description, and the
// input schema (property names, descriptions, string enum values, nested
// objects and array items). Pure and deterministic: the same definition
// always yields the same document.
func BuildDocument(tool domain.ToolDefinition) Document {
	terms := splitIdentifier(tool.Name)
	terms = append(terms, tokenizeText(tool.Description)...)
	terms = appendSchemaTerms(terms, tool.InputSchema)
	return Document{Terms: terms}
}

// TokenizeQuery normalizes a free-text search query into terms.
func TokenizeQuery(query string) []string {
	return tokenizeText(query)
}

// splitIdentifier splits a snake_case, kebab-case, or camelCase identifier
// into lowercase terms.
func splitIdentifier(name string) []string {
	var terms []string
	for _, part := range separatorPattern.Split(name, -1) {
		spaced := camelPattern.ReplaceAllString(part, "$1 $2")
		for _, word := range strings.Fields(spaced) {
			lower := strings.ToLower(word)
			if lower != "" {
				terms = append(terms, lower)
			}
		}
	}
	return terms
}

// tokenizeText lowercases text and splits on non-alphanumeric runs.
func tokenizeText(text string) []string {
	var terms []string
	for _, word := range nonAlnumPattern.Split(strings.ToLower(text), -1) {
		if word != "" {
			terms = append(terms, word)
		}
	}
	return terms
}

// appendSchemaTerms walks a JSON Schema object. Property names are visited in
// sorted order so the resulting document is deterministic.
func appendSchemaTerms(terms []string, schema map[string]any) []string {
	properties, ok := schema["properties"].(map[string]any)
	if !ok {
		return terms
	}
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		terms = append(terms, splitIdentifier(name)...)
		prop, ok := properties[name].(map[string]any)
		if !ok {
			continue
		}
		if desc, ok := prop["description"].(string); ok {
			terms = append(terms, tokenizeText(desc)...)
		}
		if enum, ok := prop["enum"].([]any); ok {
			for _, value := range enum {
				if s, ok := value.(string); ok {
					terms = append(terms, tokenizeText(s)...)
				}
			}
		}
		if prop["type"] == "object" {
			terms = appendSchemaTerms(terms, prop)
		}
		if items, ok := prop["items"].(map[string]any); ok && items["type"] == "object" {
			terms = appendSchemaTerms(terms, items)
		}
	}
	return terms
}

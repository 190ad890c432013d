package index

import (
	"fmt"
	"math"
	"sort"

	"toolgate/internal/domain"
)

// BM25 constants.
const (
	k1 = 1.5
	b  = 0.75
)

// Index ranks tool definitions against free-text queries with BM25.
//
// All corpus statistics are computed once at construction; the index is
// read-only afterwards and safe for concurrent use. Catalog changes require
// building a new index.
type Index struct {
	tools map[string]domain.ToolDefinition
	names []string // registration order, the ranking tie-break
	freqs []map[string]int
	lens  []int
	df    map[string]int
	avgdl float64
}

// New builds an index over the full tool catalog. Duplicate names are
// rejected; an empty catalog is rejected.
func New(tools []domain.ToolDefinition) (*Index, error) {
	if len(tools) == 0 {
		return nil, domain.Wrap(domain.CodeInvalidArgument, "index.new", domain.ErrEmptyCatalog)
	}

	idx := &Index{
		tools: make(map[string]domain.ToolDefinition, len(tools)),
		names: make([]string, 0, len(tools)),
		freqs: make([]map[string]int, 0, len(tools)),
		lens:  make([]int, 0, len(tools)),
		df:    make(map[string]int),
	}

	totalLen := 0
	for _, tool := range tools {
		if _, exists := idx.tools[tool.Name]; exists {
			return nil, domain.E(domain.CodeInvalidArgument, "index.new",
				fmt.Sprintf("duplicate tool name %q", tool.Name), domain.ErrDuplicateToolName)
		}
		doc := BuildDocument(tool)

		freq := make(map[string]int, len(doc.Terms))
		for _, term := range doc.Terms {
			freq[term]++
		}
		for term := range freq {
			idx.df[term]++
		}

		idx.tools[tool.Name] = domain.CloneToolDefinition(tool)
		idx.names = append(idx.names, tool.Name)
		idx.freqs = append(idx.freqs, freq)
		idx.lens = append(idx.lens, doc.Length())
		totalLen += doc.Length()
	}
	idx.avgdl = float64(totalLen) / float64(len(tools))

	return idx, nil
}

// Search returns up to topK tool names ranked by BM25 relevance. Only tools
// with a positive score are returned; ties keep catalog registration order.
// A query with no recognizable terms returns nil.
func (x *Index) Search(query string, topK int) []string {
	terms := TokenizeQuery(query)
	if len(terms) == 0 || topK < 1 {
		return nil
	}

	type scoredName struct {
		name  string
		score float64
	}
	var scored []scoredName
	for i, name := range x.names {
		score := x.score(i, terms)
		if score > 0 {
			scored = append(scored, scoredName{name: name, score: score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	names := make([]string, len(scored))
	for i, s := range scored {
		names[i] = s.name
	}
	return names
}

// score sums BM25 contributions of the query terms present in document i.
// Absent terms contribute zero, never a negative value.
func (x *Index) score(i int, terms []string) float64 {
	norm := k1 * (1 - b + b*float64(x.lens[i])/x.avgdl)
	total := 0.0
	for _, term := range terms {
		tf := x.freqs[i][term]
		if tf == 0 {
			continue
		}
		total += x.idf(term) * float64(tf) * (k1 + 1) / (float64(tf) + norm)
	}
	return total
}

func (x *Index) idf(term string) float64 {
	n := float64(len(x.names))
	df := float64(x.df[term])
	return math.Log((n-df+0.5)/(df+0.5) + 1)
}

// Tools resolves names to full definitions, preserving input order. A name
// the index does not hold is a lookup failure: it means the caller's state
// has diverged from the catalog.
func (x *Index) Tools(names []string) ([]domain.ToolDefinition, error) {
	tools := make([]domain.ToolDefinition, 0, len(names))
	for _, name := range names {
		tool, ok := x.tools[name]
		if !ok {
			return nil, domain.E(domain.CodeNotFound, "index.tools",
				fmt.Sprintf("tool %q", name), domain.ErrToolNotFound)
		}
		tools = append(tools, domain.CloneToolDefinition(tool))
	}
	return tools, nil
}

// Tool returns a single definition by name.
func (x *Index) Tool(name string) (domain.ToolDefinition, bool) {
	tool, ok := x.tools[name]
	if !ok {
		return domain.ToolDefinition{}, false
	}
	return domain.CloneToolDefinition(tool), true
}

// Names returns all indexed tool names in registration order.
func (x *Index) Names() []string {
	names := make([]string, len(x.names))
	copy(names, x.names)
	return names
}

// Len returns the number of indexed tools.
func (x *Index) Len() int { return len(x.names) }

package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"toolgate/internal/domain"
)

type exportFile struct {
	Tools           []exportTool         `yaml:"tools"`
	TopK            int                  `yaml:"topK"`
	AlwaysAvailable []string             `yaml:"alwaysAvailable,omitempty"`
	MaxSearchRounds int                  `yaml:"maxSearchRounds"`
	Observability   *exportObservability `yaml:"observability,omitempty"`
}

type exportTool struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	InputSchema map[string]any `yaml:"inputSchema,omitempty"`
}

type exportObservability struct {
	ListenAddress  string `yaml:"listenAddress,omitempty"`
	MetricsEnabled bool   `yaml:"metricsEnabled"`
	HealthzEnabled bool   `yaml:"healthzEnabled"`
}

// Marshal renders a catalog as YAML in the shape Load accepts, so an ingested
// MCP catalog can be written to disk and reloaded later.
func Marshal(cat domain.Catalog) ([]byte, error) {
	out := exportFile{
		Tools:           make([]exportTool, 0, len(cat.Tools)),
		TopK:            cat.Options.TopK,
		AlwaysAvailable: cat.Options.AlwaysAvailable,
		MaxSearchRounds: cat.Options.MaxSearchRounds,
	}
	for _, tool := range cat.Tools {
		out.Tools = append(out.Tools, exportTool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		})
	}
	if cat.Observability.ListenAddress != "" {
		out.Observability = &exportObservability{
			ListenAddress:  cat.Observability.ListenAddress,
			MetricsEnabled: cat.Observability.MetricsEnabled,
			HealthzEnabled: cat.Observability.HealthzEnabled,
		}
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return data, nil
}

// Save writes a catalog file with owner-only permissions.
func Save(path string, cat domain.Catalog) error {
	data, err := Marshal(cat)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

// Package catalog loads tool catalogs from YAML or JSON files, ingests them
// from live MCP servers, and watches catalog files for changes.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"toolgate/internal/domain"
)

type Loader struct {
	logger *zap.Logger
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		return &Loader{logger: zap.NewNop()}
	}
	return &Loader{logger: logger.Named("catalog")}
}

func newCatalogViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("topK", domain.DefaultTopK)
	v.SetDefault("maxSearchRounds", domain.DefaultMaxSearchRounds)
	v.SetDefault("observability.listenAddress", domain.DefaultObservabilityListenAddress)
	v.SetDefault("observability.metricsEnabled", true)
	v.SetDefault("observability.healthzEnabled", true)
	return v
}

// rawOptions is decoded through viper so defaults apply.
type rawOptions struct {
	TopK            int                    `mapstructure:"topK"`
	AlwaysAvailable []string               `mapstructure:"alwaysAvailable"`
	MaxSearchRounds int                    `mapstructure:"maxSearchRounds"`
	Observability   rawObservabilityConfig `mapstructure:"observability"`
}

// rawToolsDoc is decoded with yaml.v3 rather than viper: viper lowercases
// nested map keys, which would corrupt camelCase property names inside tool
// schemas.
type rawToolsDoc struct {
	Tools []rawToolSpec `yaml:"tools"`
}

// rawToolSpec accepts both schema spellings; the camelCase key wins when both
// are present.
type rawToolSpec struct {
	Name            string         `yaml:"name"`
	Description     string         `yaml:"description"`
	InputSchema     map[string]any `yaml:"inputSchema"`
	InputSchemaSnek map[string]any `yaml:"input_schema"`
}

type rawObservabilityConfig struct {
	ListenAddress  string `mapstructure:"listenAddress"`
	MetricsEnabled bool   `mapstructure:"metricsEnabled"`
	HealthzEnabled bool   `mapstructure:"healthzEnabled"`
}

// Load reads, env-expands, decodes, and validates a catalog file. Both YAML
// and JSON parse here; JSON is a YAML subset.
func (l *Loader) Load(path string) (domain.Catalog, error) {
	if path == "" {
		return domain.Catalog{}, errors.New("catalog path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("read catalog: %w", err)
	}

	expanded, missing, err := expandEnv(data)
	if err != nil {
		return domain.Catalog{}, err
	}
	if len(missing) > 0 {
		l.logger.Warn("missing environment variables in catalog",
			zap.String("path", path),
			zap.Strings("missing", missing),
		)
	}

	v := newCatalogViper()
	if err := v.ReadConfig(bytes.NewReader(expanded)); err != nil {
		return domain.Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}

	var opts rawOptions
	if err := v.Unmarshal(&opts); err != nil {
		return domain.Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}

	var doc rawToolsDoc
	if err := yaml.Unmarshal(expanded, &doc); err != nil {
		return domain.Catalog{}, fmt.Errorf("decode tools: %w", err)
	}

	return normalizeCatalog(doc.Tools, opts)
}

func normalizeCatalog(rawTools []rawToolSpec, cfg rawOptions) (domain.Catalog, error) {
	var validationErrors []string

	tools := make([]domain.ToolDefinition, 0, len(rawTools))
	nameSeen := make(map[string]struct{}, len(rawTools))
	for i, raw := range rawTools {
		name := strings.TrimSpace(raw.Name)
		if name == "" {
			validationErrors = append(validationErrors, fmt.Sprintf("tools[%d]: name is required", i))
			continue
		}
		if name == domain.SearchToolName {
			validationErrors = append(validationErrors, fmt.Sprintf("tools[%d]: name %q is reserved", i, name))
			continue
		}
		if _, exists := nameSeen[name]; exists {
			validationErrors = append(validationErrors, fmt.Sprintf("tools[%d]: duplicate name %q", i, name))
			continue
		}
		nameSeen[name] = struct{}{}

		schema := raw.InputSchema
		if schema == nil {
			schema = raw.InputSchemaSnek
		}
		tools = append(tools, domain.ToolDefinition{
			Name:        name,
			Description: raw.Description,
			InputSchema: schema,
		})
	}

	if cfg.TopK < 1 {
		validationErrors = append(validationErrors, "topK must be >= 1")
	}
	if cfg.MaxSearchRounds < 1 {
		validationErrors = append(validationErrors, "maxSearchRounds must be >= 1")
	}
	for i, name := range cfg.AlwaysAvailable {
		if _, ok := nameSeen[name]; !ok {
			validationErrors = append(validationErrors, fmt.Sprintf("alwaysAvailable[%d]: unknown tool %q", i, name))
		}
	}

	if len(validationErrors) > 0 {
		return domain.Catalog{}, errors.New(strings.Join(validationErrors, "; "))
	}

	return domain.Catalog{
		Tools: tools,
		Options: domain.Options{
			TopK:            cfg.TopK,
			AlwaysAvailable: cfg.AlwaysAvailable,
			MaxSearchRounds: cfg.MaxSearchRounds,
		},
		Observability: domain.ObservabilityConfig{
			ListenAddress:  strings.TrimSpace(cfg.Observability.ListenAddress),
			MetricsEnabled: cfg.Observability.MetricsEnabled,
			HealthzEnabled: cfg.Observability.HealthzEnabled,
		},
	}, nil
}

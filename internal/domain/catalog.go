package domain

const DefaultObservabilityListenAddress = "0.0.0.0:9090"

// ObservabilityConfig controls the /metrics and /healthz endpoints.
type ObservabilityConfig struct {
	ListenAddress  string
	MetricsEnabled bool
	HealthzEnabled bool
}

// Catalog is a loaded tool catalog plus the search options that go with it.
type Catalog struct {
	Tools         []ToolDefinition
	Options       Options
	Observability ObservabilityConfig
}

// Names returns the tool names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c.Tools))
	for i, tool := range c.Tools {
		names[i] = tool.Name
	}
	return names
}

package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolgate/internal/domain"
)

func TestNewPrometheusMetrics(t *testing.T) {
	m := NewPrometheusMetrics(prometheus.NewRegistry())
	assert.NotNil(t, m)
	assert.NotNil(t, m.searchRounds)
	assert.NotNil(t, m.searchQueries)
	assert.NotNil(t, m.searchMatches)
	assert.NotNil(t, m.searchDuration)
	assert.NotNil(t, m.roundsExhausted)
	assert.NotNil(t, m.indexSize)
	assert.NotNil(t, m.discoveredTools)
}

func TestPrometheusMetricsRegisterAndObserve(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewPrometheusMetrics(registry)
	m.ObserveSearchRound(domain.SearchRoundMetric{
		Provider: "anthropic",
		Round:    1,
		Queries:  2,
		Matched:  5,
		Duration: 3 * time.Millisecond,
	})
	m.ObserveRoundLimitExhausted("anthropic")
	m.SetIndexSize(42)
	m.SetDiscoveredTools(5)

	metrics, err := registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(metrics))
	for _, mf := range metrics {
		names = append(names, mf.GetName())
	}

	assert.Contains(t, names, "toolgate_search_rounds_total")
	assert.Contains(t, names, "toolgate_search_queries_total")
	assert.Contains(t, names, "toolgate_search_matches")
	assert.Contains(t, names, "toolgate_search_round_duration_seconds")
	assert.Contains(t, names, "toolgate_search_round_limit_exhausted_total")
	assert.Contains(t, names, "toolgate_index_tools")
	assert.Contains(t, names, "toolgate_discovered_tools")
}

func TestNoopMetricsImplementsInterface(t *testing.T) {
	var m domain.Metrics = NewNoopMetrics()
	m.ObserveSearchRound(domain.SearchRoundMetric{})
	m.ObserveRoundLimitExhausted("mock")
	m.SetIndexSize(1)
	m.SetDiscoveredTools(1)
}

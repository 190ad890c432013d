// Package telemetry provides the metrics sinks and the observability HTTP
// server exposing /metrics and /healthz.
package telemetry

import (
	"toolgate/internal/domain"
)

type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (n *NoopMetrics) ObserveSearchRound(_ domain.SearchRoundMetric) {}

func (n *NoopMetrics) ObserveRoundLimitExhausted(_ string) {}

func (n *NoopMetrics) SetIndexSize(_ int) {}

func (n *NoopMetrics) SetDiscoveredTools(_ int) {}

var _ domain.Metrics = (*NoopMetrics)(nil)

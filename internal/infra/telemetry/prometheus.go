package telemetry

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"toolgate/internal/domain"
)

type PrometheusMetrics struct {
	searchRounds    *prometheus.CounterVec
	searchQueries   *prometheus.CounterVec
	searchMatches   *prometheus.HistogramVec
	searchDuration  *prometheus.HistogramVec
	roundsExhausted *prometheus.CounterVec
	indexSize       prometheus.Gauge
	discoveredTools prometheus.Gauge
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		searchRounds: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolgate_search_rounds_total",
				Help: "Total number of intercepted search rounds",
			},
			[]string{"provider", "round"},
		),
		searchQueries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolgate_search_queries_total",
				Help: "Total number of search-tool calls answered",
			},
			[]string{"provider"},
		),
		searchMatches: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "toolgate_search_matches",
				Help:    "Number of tools matched per search round",
				Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
			},
			[]string{"provider"},
		),
		searchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "toolgate_search_round_duration_seconds",
				Help:    "Duration of local search round handling in seconds",
				Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05},
			},
			[]string{"provider"},
		),
		roundsExhausted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolgate_search_round_limit_exhausted_total",
				Help: "Total number of conversations that hit the search round limit",
			},
			[]string{"provider"},
		),
		indexSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "toolgate_index_tools",
				Help: "Number of searchable tools in the ranking index",
			},
		),
		discoveredTools: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "toolgate_discovered_tools",
				Help: "Current number of discovered tools",
			},
		),
	}
}

func (p *PrometheusMetrics) ObserveSearchRound(m domain.SearchRoundMetric) {
	p.searchRounds.WithLabelValues(m.Provider, strconv.Itoa(m.Round)).Inc()
	p.searchQueries.WithLabelValues(m.Provider).Add(float64(m.Queries))
	p.searchMatches.WithLabelValues(m.Provider).Observe(float64(m.Matched))
	p.searchDuration.WithLabelValues(m.Provider).Observe(m.Duration.Seconds())
}

func (p *PrometheusMetrics) ObserveRoundLimitExhausted(provider string) {
	p.roundsExhausted.WithLabelValues(provider).Inc()
}

func (p *PrometheusMetrics) SetIndexSize(count int) {
	p.indexSize.Set(float64(count))
}

func (p *PrometheusMetrics) SetDiscoveredTools(count int) {
	p.discoveredTools.Set(float64(count))
}

var _ domain.Metrics = (*PrometheusMetrics)(nil)

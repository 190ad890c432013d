package interceptor

import (
	"go.uber.org/zap"

	"toolgate/internal/domain"
	"toolgate/internal/infra/telemetry"
)

type settings struct {
	logger  *zap.Logger
	metrics domain.Metrics
}

func newSettings(opts []Setting) settings {
	cfg := settings{
		logger:  zap.NewNop(),
		metrics: telemetry.NewNoopMetrics(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Setting customizes a client beyond the required constructor arguments.
type Setting func(*settings)

// WithLogger attaches a logger; a nop logger is used otherwise.
func WithLogger(logger *zap.Logger) Setting {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches a metrics sink; a no-op sink is used otherwise.
func WithMetrics(metrics domain.Metrics) Setting {
	return func(s *settings) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

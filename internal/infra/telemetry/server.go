package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// HealthReport is the /healthz payload.
type HealthReport struct {
	Status     string `json:"status"`
	IndexTools int    `json:"indexTools"`
	Discovered int    `json:"discovered"`
}

// HealthTracker collects the live numbers the health endpoint reports.
type HealthTracker struct {
	mu     sync.Mutex
	report HealthReport
}

func NewHealthTracker() *HealthTracker {
	return &HealthTracker{report: HealthReport{Status: "ok"}}
}

func (t *HealthTracker) SetIndexTools(count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.report.IndexTools = count
}

func (t *HealthTracker) SetDiscovered(count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.report.Discovered = count
}

func (t *HealthTracker) Report() HealthReport {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.report
}

type HTTPServerOptions struct {
	Addr          string
	EnableMetrics bool
	EnableHealthz bool
	Health        *HealthTracker
	Registry      prometheus.Gatherer
}

// StartHTTPServer serves /metrics and /healthz until ctx is canceled. It
// returns immediately when both endpoints are disabled.
func StartHTTPServer(ctx context.Context, opts HTTPServerOptions, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !opts.EnableMetrics && !opts.EnableHealthz {
		return nil
	}

	addr := opts.Addr
	if addr == "" {
		addr = "0.0.0.0:9090"
	}

	registry := opts.Registry
	if registry == nil {
		registry = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()
	if opts.EnableMetrics {
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
	if opts.EnableHealthz {
		mux.Handle("/healthz", healthHandler(opts.Health))
	}

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("observability server listening",
			zap.String("addr", server.Addr),
			zap.Bool("metrics", opts.EnableMetrics),
			zap.Bool("healthz", opts.EnableHealthz),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("observability server failed to start: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("observability server shutdown error", zap.Error(err))
			return err
		}
		logger.Info("observability server stopped")
		return nil
	}
}

func healthHandler(tracker *HealthTracker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		report := HealthReport{Status: "ok"}
		if tracker != nil {
			report = tracker.Report()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(report)
	})
}

// Package app assembles the catalog, ranking index, and serving surfaces.
package app

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"toolgate/internal/domain"
	"toolgate/internal/infra/catalog"
	"toolgate/internal/infra/index"
	"toolgate/internal/infra/telemetry"
)

// Config selects the catalog file and serving behavior.
type Config struct {
	CatalogPath string
	ListenAddr  string
	Watch       bool
}

// snapshot pairs a catalog with the index built from it so readers always see
// a consistent view across reloads.
type snapshot struct {
	catalog domain.Catalog
	index   *index.Index
}

// Application owns the loaded catalog and serves search over it.
type Application struct {
	logger  *zap.Logger
	loader  *catalog.Loader
	cfg     Config
	metrics domain.Metrics
	health  *telemetry.HealthTracker

	state atomic.Value
}

// New loads the catalog, builds the index, and wires the metrics sinks.
func New(cfg Config, logger *zap.Logger, metrics domain.Metrics) (*Application, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}

	application := &Application{
		logger:  logger.Named("app"),
		loader:  catalog.NewLoader(logger),
		cfg:     cfg,
		metrics: metrics,
		health:  telemetry.NewHealthTracker(),
	}
	if err := application.Reload(); err != nil {
		return nil, err
	}
	return application, nil
}

// Reload re-reads the catalog file and swaps in a fresh index. The previous
// snapshot stays live until the new one is ready, so a broken edit never
// takes the search surface down.
func (a *Application) Reload() error {
	cat, err := a.loader.Load(a.cfg.CatalogPath)
	if err != nil {
		return err
	}
	idx, err := index.New(cat.Tools)
	if err != nil {
		return err
	}

	a.state.Store(snapshot{catalog: cat, index: idx})
	a.metrics.SetIndexSize(idx.Len())
	a.health.SetIndexTools(idx.Len())
	a.logger.Info("catalog loaded",
		zap.String("path", a.cfg.CatalogPath),
		zap.Int("tools", idx.Len()),
		zap.Int("topK", cat.Options.TopK),
	)
	return nil
}

func (a *Application) current() snapshot {
	return a.state.Load().(snapshot)
}

// Catalog returns the current catalog snapshot.
func (a *Application) Catalog() domain.Catalog {
	return a.current().catalog
}

// Search ranks the catalog against a query using the configured topK.
func (a *Application) Search(query string) ([]domain.ToolDefinition, error) {
	snap := a.current()
	names := snap.index.Search(query, snap.catalog.Options.TopK)
	return snap.index.Tools(names)
}

// Tools resolves names to definitions, preserving input order.
func (a *Application) Tools(names []string) ([]domain.ToolDefinition, error) {
	return a.current().index.Tools(names)
}

// Run serves the HTTP API plus the observability endpoints until ctx is done.
// With Watch enabled the catalog file is reloaded on change.
func (a *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	obs := a.current().catalog.Observability
	errChan := make(chan error, 2)

	go func() {
		errChan <- telemetry.StartHTTPServer(ctx, telemetry.HTTPServerOptions{
			Addr:          obs.ListenAddress,
			EnableMetrics: obs.MetricsEnabled,
			EnableHealthz: obs.HealthzEnabled,
			Health:        a.health,
		}, a.logger)
	}()

	if a.cfg.Watch {
		watcher := catalog.NewWatcher(a.cfg.CatalogPath, func() {
			if err := a.Reload(); err != nil {
				a.logger.Warn("catalog reload failed", zap.Error(err))
			}
		}, a.logger)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				a.logger.Warn("catalog watcher failed", zap.Error(err))
			}
		}()
	}

	go func() {
		errChan <- a.serveAPI(ctx)
	}()

	select {
	case err := <-errChan:
		cancel()
		return err
	case <-ctx.Done():
		return nil
	}
}

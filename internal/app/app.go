package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tradewindow/config"
	"github.com/guttosm/tradewindow/internal/api"
	"github.com/guttosm/tradewindow/internal/metrics"
	"github.com/guttosm/tradewindow/internal/service"
	"github.com/guttosm/tradewindow/internal/storage"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds the trade service (with history storage when enabled).
//   - Creates the HTTP handler layer and the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to close resources (e.g., DB connection).
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp(ctx context.Context) (*gin.Engine, func(), error) {
	cfg := config.AppConfig
	reg := metrics.New()

	svc, repo, cleanup, err := buildService(ctx, cfg, reg)
	if err != nil {
		return nil, nil, err
	}

	handler := api.NewHandler(svc).WithMetrics(reg)

	router := api.NewRouter(handler, api.RouterOptions{
		Metrics:        reg,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		HistoryEnabled: svc.HistoryEnabled(),
	})

	// Register health and readiness probes
	var ping func(context.Context) error
	if repo != nil {
		ping = repo.Ping
	}
	api.NewHealthHandler(ping).Register(router)

	return router, cleanup, nil
}

// BuildService wires a TradeService for callers outside the HTTP server (CLI).
// m may be nil. The returned cleanup is never nil.
func BuildService(ctx context.Context, cfg config.Config, m *metrics.Registry) (service.TradeService, func(), error) {
	svc, _, cleanup, err := buildService(ctx, cfg, m)
	return svc, cleanup, err
}

func buildService(ctx context.Context, cfg config.Config, m *metrics.Registry) (service.TradeService, storage.AnalysisRepository, func(), error) {
	if !cfg.History.Enabled {
		return service.NewTradeService(nil, m), nil, func() {}, nil
	}

	// indirection for unit testing
	db, err := postgresOpener(ctx, cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}
	if err := migrator(db); err != nil {
		_ = db.Close()
		return nil, nil, nil, fmt.Errorf("failed to migrate postgres: %w", err)
	}

	repo := storage.NewAnalysisRepository(db)
	cleanup := func() {
		_ = db.Close()
	}
	return service.NewTradeService(repo, m), repo, cleanup, nil
}

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/tradewindow/internal/metrics"
	"github.com/guttosm/tradewindow/internal/middleware"
	"github.com/guttosm/tradewindow/web"
)

// RouterOptions carries the HTTP settings resolved from config.
type RouterOptions struct {
	Metrics        *metrics.Registry
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
	MaxUploadBytes int64
	HistoryEnabled bool
}

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, CORS, RateLimiter).
//   - Records Prometheus metrics and exposes them on /metrics when a registry is given.
//   - Bounds each request with opts.RequestTimeout and the body with opts.MaxUploadBytes.
//   - Mounts Swagger docs (/swagger/*any) and the front-end page (/).
//   - Configures the /api routes; history routes only when opts.HistoryEnabled.
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
	)
	if opts.Metrics != nil {
		router.Use(middleware.Metrics(opts.Metrics))
	}
	router.Use(
		cors.New(corsConfig(opts.AllowedOrigins)),
		middleware.RateLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
		middleware.Timeout(opts.RequestTimeout),
		middleware.MaxBodySize(opts.MaxUploadBytes),
	)

	// ─── Static / docs ────────────────────────────
	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", web.Index())
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	// ─── API ──────────────────────────────────────
	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/process_csv", handler.ProcessCSV)
		apiGroup.POST("/process_json", handler.ProcessJSON)

		if opts.HistoryEnabled {
			apiGroup.GET("/analyses", handler.ListAnalyses)
			apiGroup.GET("/analyses/:id", handler.GetAnalysis)
		}
	}

	return router
}

// corsConfig allows every origin for an empty list or "*".
func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}

	var allowed []string
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}
	if len(allowed) == 0 || (len(allowed) == 1 && allowed[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = allowed
	return cfg
}

package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/seoaudit/api/handler"
	"github.com/use-agent/seoaudit/api/middleware"
	"github.com/use-agent/seoaudit/audit"
	"github.com/use-agent/seoaudit/config"
	"github.com/use-agent/seoaudit/jobs"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	Page:    RateLimit
//	API:     Auth (if enabled) → RateLimit
//
// Health is outside auth so monitoring probes always work. The HTML page is
// outside auth because a browser form cannot send an API key.
func NewRouter(a *audit.Auditor, store *jobs.Store, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.SetHTMLTemplate(handler.PageTemplate())

	limit := middleware.RateLimit(cfg.RateLimit)
	maxURLs := cfg.Audit.MaxURLs

	// Page
	r.GET("/", handler.Index(maxURLs))
	r.POST("/audit", limit, handler.FormAudit(a, maxURLs))

	v1 := r.Group("/api/v1")

	// Health: no auth required.
	v1.GET("/health", handler.Health(store, startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(limit)

	// Synchronous audit
	protected.POST("/audit", handler.PostAudit(a, maxURLs))

	// Async jobs
	protected.POST("/audit/jobs", handler.PostJob(a, store, maxURLs))
	protected.GET("/audit/jobs/:id", handler.GetJob(store))
	protected.GET("/audit/jobs/:id/csv", handler.GetJobCSV(store))

	return r
}

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/seoaudit/jobs"
	"github.com/use-agent/seoaudit/models"
)

// Health returns a handler for GET /api/v1/health.
func Health(store *jobs.Store, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:  "healthy",
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Jobs:    store.Len(),
			Version: models.Version,
		})
	}
}

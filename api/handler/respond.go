package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/seoaudit/audit"
	"github.com/use-agent/seoaudit/models"
)

// bindAuditRequest parses the JSON body and returns the request together
// with its cleaned URL list.
func bindAuditRequest(c *gin.Context, maxURLs int) (*models.AuditRequest, []string, error) {
	var req models.AuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, nil, models.NewAuditError(models.ErrCodeInvalidInput, err.Error(), err)
	}

	urls := audit.CleanLines(req.Lines())
	if len(urls) == 0 {
		return nil, nil, models.NewAuditError(models.ErrCodeInvalidInput, "no URLs given: provide urls or text", nil)
	}
	if maxURLs > 0 && len(urls) > maxURLs {
		return nil, nil, models.NewAuditError(models.ErrCodeInvalidInput,
			fmt.Sprintf("maximum %d URLs per request", maxURLs), nil)
	}
	return &req, urls, nil
}

// respondError maps an AuditError to the correct HTTP status code and writes
// a structured JSON error response.
func respondError(c *gin.Context, err error) {
	ae := models.AsAuditError(err)
	c.JSON(mapErrorToStatus(ae), models.AuditResponse{
		Success: false,
		Error:   ae.ToDetail(),
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.AuditError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	case models.ErrCodeNotFound:
		return http.StatusNotFound // 404
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	default:
		return http.StatusInternalServerError // 500
	}
}

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/seoaudit/audit"
	"github.com/use-agent/seoaudit/models"
	"github.com/use-agent/seoaudit/report"
)

// PostAudit returns a handler for POST /api/v1/audit.
//
// The audit runs synchronously inside the request, one URL at a time with the
// configured pause between URLs. With ?format=csv the records are streamed as
// a CSV attachment; otherwise the full AuditResponse is returned as JSON.
func PostAudit(a *audit.Auditor, maxURLs int) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		_, urls, err := bindAuditRequest(c, maxURLs)
		if err != nil {
			respondError(c, err)
			return
		}

		rep, err := a.Run(c.Request.Context(), urls, audit.Hooks{})
		if err != nil {
			respondError(c, models.NewAuditError(models.ErrCodeInternal, "audit interrupted", err))
			return
		}

		if c.Query("format") == "csv" {
			writeCSV(c, rep.Records)
			return
		}
		c.JSON(http.StatusOK, toAuditResponse(rep, time.Since(start)))
	}
}

func toAuditResponse(rep *audit.Report, elapsed time.Duration) models.AuditResponse {
	return models.AuditResponse{
		Success:    true,
		Records:    rep.Records,
		Failures:   rep.Failures,
		Total:      rep.Total,
		Processed:  rep.Processed,
		Skipped:    rep.Skipped,
		Empty:      rep.Empty(),
		DurationMs: elapsed.Milliseconds(),
	}
}

// writeCSV streams records as a seo_audit_report.csv attachment.
func writeCSV(c *gin.Context, records []models.AuditRecord) {
	c.Header("Content-Disposition", `attachment; filename="`+report.Filename+`"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := report.WriteCSV(c.Writer, records); err != nil {
		slog.Warn("csv write failed", "error", err)
	}
}

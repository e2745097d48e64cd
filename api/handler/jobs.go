package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/seoaudit/audit"
	"github.com/use-agent/seoaudit/jobs"
	"github.com/use-agent/seoaudit/models"
	"github.com/use-agent/seoaudit/webhook"
)

// PostJob returns a handler for POST /api/v1/audit/jobs.
// It validates the request, stores a new job and runs the audit in the
// background. Progress is visible through GetJob while the job runs.
func PostJob(a *audit.Auditor, store *jobs.Store, maxURLs int) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, urls, err := bindAuditRequest(c, maxURLs)
		if err != nil {
			respondError(c, err)
			return
		}

		job := &models.AuditJob{
			ID:            jobs.NewID(),
			Status:        models.JobProcessing,
			Total:         len(urls),
			Records:       []models.AuditRecord{},
			Failures:      []models.Failure{},
			CreatedAt:     time.Now().Unix(),
			WebhookURL:    req.WebhookURL,
			WebhookSecret: req.WebhookSecret,
		}
		store.Put(job)

		go runJob(a, store, job.ID, urls)

		c.JSON(http.StatusOK, models.JobResponse{
			ID:     job.ID,
			Status: job.Status,
			Total:  job.Total,
		})
	}
}

// GetJob returns a handler for GET /api/v1/audit/jobs/:id.
func GetJob(store *jobs.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		job, ok := store.Get(c.Param("id"))
		if !ok {
			respondError(c, models.NewAuditError(models.ErrCodeNotFound, "audit job not found", nil))
			return
		}
		c.JSON(http.StatusOK, job.ToStatus())
	}
}

// GetJobCSV returns a handler for GET /api/v1/audit/jobs/:id/csv.
// A running job yields the records gathered so far.
func GetJobCSV(store *jobs.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		job, ok := store.Get(c.Param("id"))
		if !ok {
			respondError(c, models.NewAuditError(models.ErrCodeNotFound, "audit job not found", nil))
			return
		}
		writeCSV(c, job.Records)
	}
}

// runJob audits urls and folds every outcome into the stored job.
func runJob(a *audit.Auditor, store *jobs.Store, id string, urls []string) {
	hooks := audit.Hooks{
		OnOutcome: func(o audit.Outcome) {
			store.Update(id, func(j *models.AuditJob) {
				if o.OK() {
					j.Records = append(j.Records, *o.Record)
				} else {
					j.Failures = append(j.Failures, o.Failure())
				}
			})
		},
		OnProgress: func(done, _ int) {
			store.Update(id, func(j *models.AuditJob) { j.Completed = done })
		},
	}

	rep, err := a.Run(context.Background(), urls, hooks)
	if err != nil {
		slog.Error("audit job interrupted", "id", id, "error", err)
	}

	store.Update(id, func(j *models.AuditJob) {
		j.Completed = j.Total
		switch {
		case err != nil || len(j.Records) == 0:
			j.Status = models.JobFailed
		case len(j.Failures) > 0:
			j.Status = models.JobPartial
		default:
			j.Status = models.JobCompleted
		}
	})

	job, ok := store.Get(id)
	if !ok {
		// Evicted while running.
		return
	}

	slog.Info("audit job finished",
		"id", id,
		"status", job.Status,
		"records", len(job.Records),
		"failed", len(job.Failures),
		"skipped", rep.Skipped,
		"total", job.Total,
	)

	if job.WebhookURL != "" {
		webhook.DeliverAsync(job.WebhookURL, job.WebhookSecret, &webhook.Event{
			Type:      webhook.EventAuditCompleted,
			JobID:     job.ID,
			Timestamp: time.Now().Unix(),
			Data:      job.ToStatus(),
		})
	}
}

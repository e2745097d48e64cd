package models

// Job statuses.
const (
	JobProcessing = "processing"
	JobCompleted  = "completed" // every URL produced a record
	JobPartial    = "partial"   // some URLs failed
	JobFailed     = "failed"    // nothing succeeded
)

// JobResponse is the immediate response for POST /api/v1/audit/jobs.
type JobResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// JobStatusResponse is the response for GET /api/v1/audit/jobs/:id.
type JobStatusResponse struct {
	ID        string        `json:"id"`
	Status    string        `json:"status"`
	Completed int           `json:"completed"`
	Total     int           `json:"total"`
	Progress  float64       `json:"progress"`
	Records   []AuditRecord `json:"records,omitempty"`
	Failures  []Failure     `json:"failures,omitempty"`
}

// AuditJob tracks an in-progress asynchronous audit run.
type AuditJob struct {
	ID     string
	Status string
	Total  int

	// Completed is the 1-based input position of the last processed URL.
	Completed int

	Records  []AuditRecord
	Failures []Failure

	CreatedAt     int64 // unix timestamp
	WebhookURL    string
	WebhookSecret string
}

// Clone returns a copy that shares no slices with j.
func (j *AuditJob) Clone() *AuditJob {
	c := *j
	c.Records = append([]AuditRecord(nil), j.Records...)
	c.Failures = append([]Failure(nil), j.Failures...)
	return &c
}

// ToStatus converts the job into its API shape.
func (j *AuditJob) ToStatus() JobStatusResponse {
	progress := 0.0
	if j.Total > 0 {
		progress = float64(j.Completed) / float64(j.Total)
	}
	return JobStatusResponse{
		ID:        j.ID,
		Status:    j.Status,
		Completed: j.Completed,
		Total:     j.Total,
		Progress:  progress,
		Records:   j.Records,
		Failures:  j.Failures,
	}
}

package models

// Version is reported by the health endpoint and the MCP server.
const Version = "1.0.0"

// Failure is a per-URL failure notice. Message is the user-visible notice;
// the cause is only logged.
type Failure struct {
	URL     string `json:"url"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AuditResponse is the response for POST /api/v1/audit.
type AuditResponse struct {
	// Success is false only when the request itself was rejected.
	// A run in which every URL failed is still a success with Empty set.
	Success bool `json:"success"`

	Records  []AuditRecord `json:"records"`
	Failures []Failure     `json:"failures"`

	Total     int `json:"total"`
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`

	// Empty reports the "nothing succeeded" condition.
	Empty bool `json:"empty"`

	// DurationMs is the wall-clock duration of the whole run.
	DurationMs int64 `json:"duration_ms"`

	Error *ErrorDetail `json:"error,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Jobs    int    `json:"jobs"`
	Version string `json:"version"`
}

package models

import "strings"

// AuditRequest is the payload for POST /api/v1/audit and POST /api/v1/audit/jobs.
//
// Either URLs or Text must be given. Text is a multi-line block with one URL
// per line, as pasted into the form.
type AuditRequest struct {
	URLs []string `json:"urls,omitempty"`
	Text string   `json:"text,omitempty"`

	// WebhookURL receives an audit.completed event when an async job ends.
	// Ignored by the synchronous endpoint.
	WebhookURL    string `json:"webhook_url,omitempty" binding:"omitempty,url"`
	WebhookSecret string `json:"webhook_secret,omitempty"`
}

// Lines returns the raw input lines: URLs if given, otherwise Text split on
// newlines. The caller is responsible for trimming and dropping blanks.
func (r *AuditRequest) Lines() []string {
	if len(r.URLs) > 0 {
		return r.URLs
	}
	if r.Text == "" {
		return nil
	}
	return strings.Split(r.Text, "\n")
}

package audit

import "github.com/use-agent/seoaudit/models"

// FailureNotice is the user-visible notice for a URL that produced no record.
func FailureNotice(url string) string {
	return "Failed to crawl: " + url
}

// Outcome is the typed result of auditing one URL: exactly one of Record
// and Err is set.
type Outcome struct {
	URL string

	// Position is the 1-based index of URL in the input list.
	Position int

	Record *models.AuditRecord
	Err    error
}

// OK reports whether the URL produced a record.
func (o Outcome) OK() bool { return o.Err == nil && o.Record != nil }

// Failure converts a failed outcome into its user-facing notice.
func (o Outcome) Failure() models.Failure {
	return models.Failure{
		URL:     o.URL,
		Code:    models.AsAuditError(o.Err).Code,
		Message: FailureNotice(o.URL),
	}
}

// Report is the result of one audit run.
type Report struct {
	Records  []models.AuditRecord `json:"records"`
	Failures []models.Failure     `json:"failures"`

	// Total is the length of the input list, duplicates included.
	Total int `json:"total"`

	// Processed counts distinct URLs that were fetched.
	Processed int `json:"processed"`

	// Skipped counts duplicate input lines.
	Skipped int `json:"skipped"`
}

// Empty reports the "nothing succeeded" condition.
func (r *Report) Empty() bool { return len(r.Records) == 0 }

func (r *Report) add(o Outcome) {
	r.Processed++
	if o.OK() {
		r.Records = append(r.Records, *o.Record)
		return
	}
	r.Failures = append(r.Failures, o.Failure())
}

package models

import (
	"strconv"
	"strings"
)

// Sentinels written in place of absent page elements.
const (
	NoTitle           = "No Title"
	NoMetaDescription = "No Meta Description"
	NoCanonical       = "No Canonical"
	NoMetaRobots      = "None"
)

// CSVHeader is the column order of the exported report.
var CSVHeader = []string{
	"URL",
	"Status Code",
	"Title",
	"Meta Description",
	"Canonical",
	"H1 Count",
	"Word Count",
	"Image Count",
	"Missing ALT Count",
	"Meta Robots",
	"External Link Count",
	"Page Load Time (sec)",
	"Has JSON-LD Schema",
	"Has Microdata Schema",
	"Has RDFa Schema",
}

// AuditRecord is one row of the audit report: the on-page SEO signals of a
// single successfully fetched URL.
type AuditRecord struct {
	// URL is the input string, unmodified.
	URL string `json:"url"`

	// StatusCode is the HTTP status of the final response (after redirects).
	StatusCode int `json:"status_code"`

	Title           string `json:"title"`
	MetaDescription string `json:"meta_description"`
	Canonical       string `json:"canonical"`

	H1Count   int `json:"h1_count"`
	WordCount int `json:"word_count"`

	ImageCount      int `json:"image_count"`
	MissingAltCount int `json:"missing_alt_count"`

	MetaRobots        string `json:"meta_robots"`
	ExternalLinkCount int    `json:"external_link_count"`

	// PageLoadTimeSeconds is the fetch wall-clock time rounded to 2 decimals.
	PageLoadTimeSeconds float64 `json:"page_load_time_sec"`

	HasJSONLDSchema    bool `json:"has_json_ld_schema"`
	HasMicrodataSchema bool `json:"has_microdata_schema"`
	HasRDFaSchema      bool `json:"has_rdfa_schema"`
}

// CSVRow renders the record in CSVHeader order.
func (r *AuditRecord) CSVRow() []string {
	return []string{
		r.URL,
		strconv.Itoa(r.StatusCode),
		r.Title,
		r.MetaDescription,
		r.Canonical,
		strconv.Itoa(r.H1Count),
		strconv.Itoa(r.WordCount),
		strconv.Itoa(r.ImageCount),
		strconv.Itoa(r.MissingAltCount),
		r.MetaRobots,
		strconv.Itoa(r.ExternalLinkCount),
		FormatSeconds(r.PageLoadTimeSeconds),
		FormatBool(r.HasJSONLDSchema),
		FormatBool(r.HasMicrodataSchema),
		FormatBool(r.HasRDFaSchema),
	}
}

// FormatSeconds prints a float with at least one decimal digit ("1.0", "0.25").
func FormatSeconds(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// FormatBool prints "True" or "False".
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

package report

import (
	"embed"
	"html/template"
	"io"

	"github.com/use-agent/seoaudit/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates holds the parsed report templates. "table" renders a records
// table fragment; callers may add their own templates on a Clone.
var Templates = template.Must(template.New("report").Funcs(template.FuncMap{
	"header":  func() []string { return models.CSVHeader },
	"seconds": models.FormatSeconds,
	"yesno":   models.FormatBool,
}).ParseFS(templateFS, "templates/*.html"))

// RenderHTML writes the records as an HTML <table>.
func RenderHTML(w io.Writer, records []models.AuditRecord) error {
	return Templates.ExecuteTemplate(w, "table", records)
}

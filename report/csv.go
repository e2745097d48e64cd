package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/use-agent/seoaudit/models"
)

// Filename is the suggested name of the exported CSV.
const Filename = "seo_audit_report.csv"

// WriteCSV writes the header row followed by one row per record.
// There is no index column.
func WriteCSV(w io.Writer, records []models.AuditRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.CSVHeader); err != nil {
		return fmt.Errorf("report: write csv header: %w", err)
	}
	for i := range records {
		if err := cw.Write(records[i].CSVRow()); err != nil {
			return fmt.Errorf("report: write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

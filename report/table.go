package report

import (
	"io"
	"unicode/utf8"

	"github.com/rodaine/table"
	"github.com/use-agent/seoaudit/models"
)

// maxCell bounds free-text columns in the terminal view.
const maxCell = 48

// WriteTable prints records as an aligned text table.
func WriteTable(w io.Writer, records []models.AuditRecord) {
	header := make([]interface{}, len(models.CSVHeader))
	for i, h := range models.CSVHeader {
		header[i] = h
	}
	tbl := table.New(header...).WithWriter(w)

	for i := range records {
		row := records[i].CSVRow()
		cells := make([]interface{}, len(row))
		for j, c := range row {
			cells[j] = truncate(c, maxCell)
		}
		tbl.AddRow(cells...)
	}
	tbl.Print()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	mdtable "github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/use-agent/seoaudit/models"
)

// mdConverter is goroutine-safe and reused across calls.
var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		mdtable.NewTablePlugin(
			mdtable.WithCellPaddingBehavior(mdtable.CellPaddingBehaviorMinimal),
		),
	),
)

// WriteMarkdown renders the HTML table and converts it to a Markdown table.
func WriteMarkdown(w io.Writer, records []models.AuditRecord) error {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, records); err != nil {
		return fmt.Errorf("report: render html: %w", err)
	}
	md, err := mdConverter.ConvertString(buf.String())
	if err != nil {
		return fmt.Errorf("report: markdown conversion: %w", err)
	}
	_, err = io.WriteString(w, md+"\n")
	return err
}

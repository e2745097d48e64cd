package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/seoaudit/audit"
	"github.com/use-agent/seoaudit/config"
	"github.com/use-agent/seoaudit/engine"
	"github.com/use-agent/seoaudit/models"
	"github.com/use-agent/seoaudit/report"
)

func main() {
	cfg := config.Load()

	// stdout carries the protocol.
	slog.SetDefault(config.NewLogger(cfg.Log, os.Stderr))

	auditor := audit.New(engine.NewHTTPEngine())

	s := server.NewMCPServer(
		"seoaudit",
		models.Version,
		server.WithToolCapabilities(false),
	)
	s.AddTool(auditURLsTool(), handleAuditURLs(auditor, cfg.Audit.MaxURLs))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func auditURLsTool() mcp.Tool {
	return mcp.NewTool("audit_urls",
		mcp.WithDescription("Audit on-page SEO signals (title, meta description, canonical, robots, headings, word count, images, external links, structured data, load time) of a list of URLs. URLs are fetched one at a time with a short pause between them."),
		mcp.WithArray("urls",
			mcp.Required(),
			mcp.Description("List of page URLs to audit"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("format",
			mcp.Description("Report format: 'table' (default), 'csv', 'json' or 'markdown'"),
			mcp.Enum("table", "csv", "json", "markdown"),
		),
	)
}

func handleAuditURLs(a *audit.Auditor, maxURLs int) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		urls, err := request.RequireStringSlice("urls")
		if err != nil {
			return mcp.NewToolResultError("urls is required and must be an array of strings"), nil
		}
		urls = audit.CleanLines(urls)
		if len(urls) == 0 {
			return mcp.NewToolResultError("urls must contain at least one URL"), nil
		}
		if maxURLs > 0 && len(urls) > maxURLs {
			return mcp.NewToolResultError(fmt.Sprintf("maximum %d URLs per audit", maxURLs)), nil
		}

		rep, err := a.Run(ctx, urls, audit.Hooks{})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("audit interrupted: %v", err)), nil
		}

		text, err := renderReport(rep, request.GetString("format", "table"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to render report: %v", err)), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}

// renderReport formats rep. Every format except json is preceded by a
// summary line and the failure notices.
func renderReport(rep *audit.Report, format string) (string, error) {
	var sb strings.Builder
	if format == "json" {
		err := report.WriteJSON(&sb, rep)
		return sb.String(), err
	}

	fmt.Fprintf(&sb, "Audited %d of %d URLs: %d succeeded, %d failed, %d duplicates skipped.\n",
		rep.Processed, rep.Total, len(rep.Records), len(rep.Failures), rep.Skipped)
	for _, f := range rep.Failures {
		sb.WriteString(f.Message + "\n")
	}
	if rep.Empty() {
		sb.WriteString("No pages were successfully audited. Please check your URLs and try again.\n")
		return sb.String(), nil
	}
	sb.WriteString("\n")

	var err error
	switch format {
	case "csv":
		err = report.WriteCSV(&sb, rep.Records)
	case "markdown":
		err = report.WriteMarkdown(&sb, rep.Records)
	default:
		report.WriteTable(&sb, rep.Records)
	}
	return sb.String(), err
}

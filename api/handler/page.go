package handler

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/seoaudit/audit"
	"github.com/use-agent/seoaudit/report"
)

//go:embed assets/page.html assets/theme.css
var assets embed.FS

// themeCSS is read once at startup and inlined into every page.
var themeCSS = template.CSS(mustReadAsset("assets/theme.css"))

var pageTemplate = template.Must(template.Must(report.Templates.Clone()).ParseFS(assets, "assets/page.html"))

// PageTemplate returns the template set used by Index and FormAudit. It must
// be installed on the engine with SetHTMLTemplate.
func PageTemplate() *template.Template { return pageTemplate }

type pageData struct {
	CSS     template.CSS
	MaxURLs int
	Input   string
	Error   string

	// Report is nil until an audit has run.
	Report  *audit.Report
	CSVLink template.URL
}

// Index returns a handler for GET /.
func Index(maxURLs int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "page", pageData{CSS: themeCSS, MaxURLs: maxURLs})
	}
}

// FormAudit returns a handler for POST /audit, the form submit of the page.
// An input with no URLs re-renders the empty form.
func FormAudit(a *audit.Auditor, maxURLs int) gin.HandlerFunc {
	return func(c *gin.Context) {
		input := c.PostForm("urls")
		data := pageData{CSS: themeCSS, MaxURLs: maxURLs, Input: input}

		urls := audit.ParseURLList(input)
		if len(urls) == 0 {
			c.HTML(http.StatusOK, "page", data)
			return
		}
		if maxURLs > 0 && len(urls) > maxURLs {
			data.Error = fmt.Sprintf("Too many URLs: at most %d per audit.", maxURLs)
			c.HTML(http.StatusBadRequest, "page", data)
			return
		}

		rep, err := a.Run(c.Request.Context(), urls, audit.Hooks{})
		if err != nil {
			data.Error = "The audit was interrupted."
			c.HTML(http.StatusInternalServerError, "page", data)
			return
		}
		data.Report = rep

		if !rep.Empty() {
			var buf bytes.Buffer
			if err := report.WriteCSV(&buf, rep.Records); err != nil {
				slog.Warn("csv render failed", "error", err)
			} else {
				data.CSVLink = template.URL("data:text/csv;charset=utf-8;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()))
			}
		}
		c.HTML(http.StatusOK, "page", data)
	}
}

func mustReadAsset(name string) string {
	b, err := assets.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(b)
}

package extractor

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/seoaudit/models"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Extract parses a fetched page and derives its audit record.
//
// contentType is the response Content-Type header and is used, together with
// any <meta charset>, to decode the body to UTF-8. StatusCode and
// PageLoadTimeSeconds are left zero for the caller to fill in.
//
// An empty body is a valid, empty document. Any failure yields an
// EXTRACTION_FAILED error and no record.
func Extract(pageURL string, body []byte, contentType string) (rec *models.AuditRecord, err error) {
	defer recoverExtraction(&rec, &err)

	var r io.Reader = bytes.NewReader(body)
	if len(body) > 0 {
		// charset.NewReader reports io.EOF for zero bytes.
		r, err = charset.NewReader(r, contentType)
		if err != nil {
			return nil, extractionError("could not decode body", fmt.Errorf("extractor: charset: %w", err))
		}
	}

	// Scripting disabled so <noscript> content is parsed as markup, not text.
	root, err := html.ParseWithOptions(r, html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, extractionError("could not parse HTML", fmt.Errorf("extractor: parse: %w", err))
	}

	return ExtractDocument(pageURL, goquery.NewDocumentFromNode(root))
}

// ExtractDocument derives the audit record from an already parsed document.
// Every field is read independently; a missing element yields its sentinel
// or zero. A panic while reading the document is returned as an
// EXTRACTION_FAILED error.
func ExtractDocument(pageURL string, doc *goquery.Document) (rec *models.AuditRecord, err error) {
	defer recoverExtraction(&rec, &err)

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, extractionError("invalid page URL", fmt.Errorf("extractor: parse url: %w", err))
	}

	imgs := doc.FindMatcher(selImage)
	missingAlt := 0
	imgs.Each(func(_ int, s *goquery.Selection) {
		if alt, ok := s.Attr("alt"); !ok || alt == "" {
			missingAlt++
		}
	})

	wordCount := 0
	if len(doc.Nodes) > 0 {
		wordCount = CountWords(doc.Nodes[0])
	}

	return &models.AuditRecord{
		URL:                pageURL,
		Title:              title(doc),
		MetaDescription:    metaContent(doc, selMetaDescription, models.NoMetaDescription),
		Canonical:          canonical(doc),
		H1Count:            doc.FindMatcher(selH1).Length(),
		WordCount:          wordCount,
		ImageCount:         imgs.Length(),
		MissingAltCount:    missingAlt,
		MetaRobots:         metaContent(doc, selMetaRobots, models.NoMetaRobots),
		ExternalLinkCount:  CountExternalLinks(doc, base),
		HasJSONLDSchema:    doc.FindMatcher(selJSONLD).Length() > 0,
		HasMicrodataSchema: doc.FindMatcher(selMicrodata).Length() > 0,
		HasRDFaSchema:      doc.FindMatcher(selRDFa).Length() > 0,
	}, nil
}

func title(doc *goquery.Document) string {
	t := strings.TrimSpace(doc.FindMatcher(selTitle).First().Text())
	if t == "" {
		return models.NoTitle
	}
	return t
}

// metaContent returns the trimmed content of the first element matched by m.
// Only the first match is consulted.
func metaContent(doc *goquery.Document, m goquery.Matcher, sentinel string) string {
	content, ok := doc.FindMatcher(m).First().Attr("content")
	if !ok {
		return sentinel
	}
	return strings.TrimSpace(content)
}

func canonical(doc *goquery.Document) string {
	href, ok := doc.FindMatcher(selCanonical).First().Attr("href")
	if !ok {
		return models.NoCanonical
	}
	return href
}

func recoverExtraction(rec **models.AuditRecord, err *error) {
	if r := recover(); r != nil {
		*rec = nil
		*err = extractionError("panic while extracting", fmt.Errorf("extractor: %v", r))
	}
}

func extractionError(message string, err error) *models.AuditError {
	return models.NewAuditError(models.ErrCodeExtraction, message, err)
}

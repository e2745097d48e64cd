package extractor

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CountExternalLinks counts a[href] targets that resolve to an http(s) URL
// whose host does not contain the page's host.
//
// Only the page host has a leading "www." stripped; the candidate host is
// compared raw. The check is substring containment, so sub.example.com is
// internal to example.com.
func CountExternalLinks(doc *goquery.Document, base *url.URL) int {
	pageHost := strings.TrimPrefix(base.Host, "www.")

	count := 0
	doc.FindMatcher(selAnchor).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		resolved, err := base.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		if !strings.Contains(resolved.Host, pageHost) {
			count++
		}
	})
	return count
}

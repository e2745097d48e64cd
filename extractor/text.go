package extractor

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CountWords counts whitespace-delimited tokens in the visible text below n.
//
// Text nodes are concatenated without separators, so words split only by
// markup ("<b>foo</b>bar") count once. Script, style and template contents
// and comments are not visible text.
func CountWords(n *html.Node) int {
	var buf strings.Builder
	collectText(n, &buf)
	return len(strings.Fields(buf.String()))
}

func collectText(n *html.Node, buf *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		buf.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Template:
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, buf)
	}
}

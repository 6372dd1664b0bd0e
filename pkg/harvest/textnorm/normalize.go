package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	markdownLink = regexp.MustCompile(`\[.*?\]\(.*?\)`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Normalize cleans raw free text from the content API so downstream keyword
// matching and classification see plain prose. Transforms, in order: line
// breaks become spaces, markdown hyperlinks [label](url) are dropped, the
// ampersand entity is decoded, and whitespace runs collapse to one space.
// Only &amp; is decoded; other entities pass through untouched.
// Idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.ReplaceAll(raw, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = markdownLink.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// StripHTML extracts the text content of an HTML fragment. The content API
// serves some bodies as rendered HTML; this flattens them before Normalize.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String())
}

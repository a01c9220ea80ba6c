// Package htmlutil reads and sanitizes the HTML bodies of draft emails.
package htmlutil

import (
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// Title returns the trimmed text of the document's <title>, or "" when the
// markup has none or cannot be parsed.
func Title(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// Text returns the visible text of the body with whitespace collapsed.
func Text(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}
	doc.Find("script, style, head").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Summary shortens Text to at most n runes.
func Summary(html string, n int) string {
	text := []rune(Text(html))
	if len(text) <= n {
		return string(text)
	}
	return strings.TrimSpace(string(text[:n])) + "…"
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func previewPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowStyling()
		p.AllowAttrs("style").Globally()
		p.AllowElements("html", "head", "body", "title", "center", "font")
		p.AllowAttrs("align", "valign", "bgcolor", "width", "height", "cellpadding", "cellspacing", "border").Globally()
		p.AllowAttrs("color", "face", "size").OnElements("font")
		policy = p
	})
	return policy
}

// Sanitize applies the preview allow-list. Scripts, event handlers and
// javascript: URLs never survive.
func Sanitize(html string) string {
	return previewPolicy().Sanitize(html)
}

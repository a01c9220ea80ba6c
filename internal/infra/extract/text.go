// Package extract turns downloaded documents into plain text. It does not
// parse PDF or Word structure; the bytes are read as UTF-8 text.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	lineBreaks = regexp.MustCompile(`[\r\n]+`)
	spaceRuns  = regexp.MustCompile(`\s{2,}`)
)

// Text decodes body and, for pdf, doc and docx, folds line breaks and runs of
// whitespace into single spaces. Other types are returned as decoded.
func Text(fileType string, body []byte) string {
	text := string(body)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}

	switch strings.ToLower(fileType) {
	case "pdf", "doc", "docx":
		text = lineBreaks.ReplaceAllString(text, " ")
		text = spaceRuns.ReplaceAllString(text, " ")
		return strings.TrimSpace(text)
	default:
		return text
	}
}

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextCollapsesWhitespaceForDocuments(t *testing.T) {
	raw := []byte("  John Smith\r\n\r\nSenior   Go Engineer\n\tLondon  ")

	for _, ft := range []string{"pdf", "doc", "DOCX"} {
		assert.Equal(t, "John Smith Senior Go Engineer London", Text(ft, raw), ft)
	}
}

func TestTextKeepsOtherTypesRaw(t *testing.T) {
	raw := []byte("line one\n\nline  two\n")
	assert.Equal(t, "line one\n\nline  two\n", Text("txt", raw))
	assert.Equal(t, "line one\n\nline  two\n", Text("", raw))
}

func TestTextReplacesInvalidUTF8(t *testing.T) {
	out := Text("pdf", []byte{'%', 'P', 'D', 'F', 0xff, 0xfe, ' ', 'o', 'k'})
	assert.Equal(t, "%PDF� ok", out)
}

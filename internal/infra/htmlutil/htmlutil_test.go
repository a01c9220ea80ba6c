package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitle(t *testing.T) {
	assert.Equal(t, "Meet John", Title(`<html><head><title> Meet John </title></head><body>x</body></html>`))
	assert.Equal(t, "", Title(`<p>no title</p>`))
	assert.Equal(t, "", Title(""))
}

func TestText(t *testing.T) {
	html := `<html><head><title>T</title><style>p{}</style></head><body><p>Hello
	   <b>Jane</b></p><script>alert(1)</script></body></html>`
	assert.Equal(t, "Hello Jane", Text(html))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Hello", Summary("<p>Hello</p>", 10))
	assert.Equal(t, "Hello…", Summary("<p>Hello world</p>", 6))
}

func TestSanitizeStripsActiveContent(t *testing.T) {
	in := `<p style="color:red" onclick="steal()">Hi <a href="javascript:alert(1)">x</a></p><script>alert(1)</script>`
	out := Sanitize(in)

	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, "Hi")
}

func TestSanitizeKeepsEmailLayout(t *testing.T) {
	in := `<table width="600" cellpadding="0"><tr><td align="center"><strong>Candidate</strong></td></tr></table>`
	out := Sanitize(in)

	assert.Contains(t, out, `width="600"`)
	assert.Contains(t, out, `align="center"`)
	assert.Contains(t, out, "<strong>Candidate</strong>")
}

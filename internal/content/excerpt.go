package content

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var stripTags = bluemonday.StrictPolicy()

// Excerpt derives a plain-text preview from the first paragraph of a
// markdown body: render the paragraph, strip every tag, unescape entities.
func Excerpt(body string) string {
	para, _, _ := strings.Cut(strings.TrimLeft(body, "\n"), "\n\n")

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(para), &buf); err != nil {
		// not renderable as markdown, fall back to the raw text
		return strings.TrimSpace(para)
	}

	text := stripTags.Sanitize(buf.String())
	return strings.TrimSpace(html.UnescapeString(text))
}

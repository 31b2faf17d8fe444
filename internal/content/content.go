// Package content loads structured content files from disk. A content file
// is a YAML metadata block and a markdown body separated by a blank-line run.
package content

import (
	"html/template"
	"time"
)

// Meta is the typed metadata block shared by posts and pages. The pair
// (ID, Locale) identifies a record within its kind; records sharing an ID
// across locales are translations of the same logical content.
type Meta struct {
	ID     string    `yaml:"id"`
	Locale string    `yaml:"locale"`
	Title  string    `yaml:"title"`
	Date   time.Time `yaml:"date"`
	URLs   []string  `yaml:"url"`
	Tags   []string  `yaml:"tags"`
}

// CanonicalURL returns the first URL slug, used when linking to this record
// from another locale. Empty when the record declares no URLs.
func (m Meta) CanonicalURL() string {
	if len(m.URLs) == 0 {
		return ""
	}
	return m.URLs[0]
}

// Post is a blog post. Body is the raw markdown source; HTML is set once
// during the explicit render phase and is never recomputed lazily.
type Post struct {
	Meta

	Body    string
	Excerpt string
	HTML    template.HTML
}

// Page is a standalone page. The ID doubles as the page's URL slug.
type Page struct {
	ID     string
	Locale string
	Title  string

	Body string
	HTML template.HTML
}

// Key returns the qualified "id.locale" identity of the post.
func (p *Post) Key() string { return p.ID + "." + p.Locale }

// Key returns the qualified "id.locale" identity of the page.
func (p *Page) Key() string { return p.ID + "." + p.Locale }

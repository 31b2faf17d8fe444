// Package pages builds the id+locale page index. Pages have no URL map and
// no ordering; the id doubles as the slug.
package pages

import (
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/RagibHasin/mudawanah/internal/content"
	"github.com/RagibHasin/mudawanah/internal/render"
)

// ErrMissingNotFoundPage indicates a configured locale without a "404" page.
// The not-found flow depends on it, so its absence is a startup error.
var ErrMissingNotFoundPage = errors.New("pages: missing 404 page for locale")

// ErrUnknownLocale indicates a page whose locale is not configured.
var ErrUnknownLocale = errors.New("pages: locale not in configured set")

// NotFoundID is the conventional per-locale not-found page id.
const NotFoundID = "404"

// Index holds the id+locale page lookup.
type Index struct {
	byKey map[string]*content.Page
	all   []*content.Page
}

// Build constructs the index from loaded records.
func Build(records []*content.Page, locales []string) (*Index, error) {
	known := make(map[string]struct{}, len(locales))
	for _, l := range locales {
		known[l] = struct{}{}
	}

	x := &Index{
		byKey: make(map[string]*content.Page, len(records)),
		all:   append([]*content.Page(nil), records...),
	}
	for _, p := range records {
		if _, ok := known[p.Locale]; !ok {
			return nil, fmt.Errorf("%w: page %s has locale %q", ErrUnknownLocale, p.ID, p.Locale)
		}
		x.byKey[p.Key()] = p
	}
	return x, nil
}

// ValidateNotFound checks that every configured locale has its 404 page.
func (x *Index) ValidateNotFound(locales []string) error {
	for _, locale := range locales {
		if _, ok := x.Page(NotFoundID, locale); !ok {
			return fmt.Errorf("%w: %s", ErrMissingNotFoundPage, locale)
		}
	}
	return nil
}

// Render runs the explicit, full render pass over every page, folding the
// transforms over the base renderer per page.
func (x *Index) Render(ctx context.Context, base render.Renderer, transforms []render.Transform[*content.Page], store *render.Store) error {
	for _, p := range x.all {
		key := "pages/" + p.Key()
		hash := render.HashBody([]byte(p.Body))

		var html []byte
		if len(transforms) == 0 {
			if cached, ok := store.Cached(key, hash); ok {
				html = cached
			}
		}

		if html == nil {
			r := render.Apply(p, base, transforms)
			var err error
			html, err = r.Render(ctx, []byte(p.Body))
			if err != nil {
				return fmt.Errorf("pages: rendering %s: %w", p.Key(), err)
			}
		}

		if err := store.Persist(key, hash, html); err != nil {
			return err
		}
		p.HTML = template.HTML(html)
	}
	return nil
}

// Page resolves an id within a locale. Absence is a normal outcome.
func (x *Index) Page(id, locale string) (*content.Page, bool) {
	p, ok := x.byKey[id+"."+locale]
	return p, ok
}

// Translations returns, for a page id, the slug (the id itself) in every
// locale that has a translation. Callers filter out their own locale.
func (x *Index) Translations(id string) map[string]string {
	out := make(map[string]string)
	for _, p := range x.all {
		if p.ID == id {
			out[p.Locale] = p.ID
		}
	}
	return out
}

// All returns every page in load order.
func (x *Index) All() []*content.Page {
	return append([]*content.Page(nil), x.all...)
}

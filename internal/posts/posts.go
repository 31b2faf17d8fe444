// Package posts builds and serves the locale-aware post index. The index is
// constructed once at startup and is read-only afterwards; only the explicit
// render phase sets the cached HTML on its records.
package posts

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"sort"

	"github.com/RagibHasin/mudawanah/internal/content"
	"github.com/RagibHasin/mudawanah/internal/render"
)

var (
	// ErrDuplicateURL indicates two posts claiming the same slug within one
	// locale.
	ErrDuplicateURL = errors.New("posts: duplicate url within locale")

	// ErrUnknownLocale indicates a post whose locale is not configured.
	ErrUnknownLocale = errors.New("posts: locale not in configured set")
)

// Index holds every post lookup structure.
type Index struct {
	// qualified "id.locale" to post
	byKey map[string]*content.Post
	// locale to posts, newest first
	byLocale map[string][]*content.Post
	// url slug to locale to post id
	urlToID map[string]map[string]string
	// post id to locale to canonical url
	translations map[string]map[string]string
	// all posts in load order, for render passes and snapshots
	all []*content.Post
}

// Build constructs the index from loaded records in one pass. locales is the
// configured locale set; a record outside it is rejected.
func Build(records []*content.Post, locales []string) (*Index, error) {
	known := make(map[string]struct{}, len(locales))
	for _, l := range locales {
		known[l] = struct{}{}
	}

	x := &Index{
		byKey:        make(map[string]*content.Post, len(records)),
		byLocale:     make(map[string][]*content.Post),
		urlToID:      make(map[string]map[string]string),
		translations: make(map[string]map[string]string),
		all:          append([]*content.Post(nil), records...),
	}

	for _, p := range records {
		if _, ok := known[p.Locale]; !ok {
			return nil, fmt.Errorf("%w: post %s has locale %q", ErrUnknownLocale, p.ID, p.Locale)
		}

		x.byKey[p.Key()] = p
		x.byLocale[p.Locale] = append(x.byLocale[p.Locale], p)

		for _, url := range p.URLs {
			byLocale, ok := x.urlToID[url]
			if !ok {
				byLocale = make(map[string]string)
				x.urlToID[url] = byLocale
			}
			if prev, taken := byLocale[p.Locale]; taken {
				return nil, fmt.Errorf("%w: %q claimed by %s and %s in %s",
					ErrDuplicateURL, url, prev, p.ID, p.Locale)
			}
			byLocale[p.Locale] = p.ID
		}

		byLocale, ok := x.translations[p.ID]
		if !ok {
			byLocale = make(map[string]string)
			x.translations[p.ID] = byLocale
		}
		byLocale[p.Locale] = p.CanonicalURL()
	}

	// newest first; ties keep load order
	for _, list := range x.byLocale {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Date.After(list[j].Date)
		})
	}

	return x, nil
}

// Render runs the explicit, full render pass: for every post the transforms
// are folded over the base renderer, the body is converted, and the result
// is set as the post's cached HTML and handed to the store. The pass is
// idempotent; rendering twice with the same inputs yields identical output.
//
// The store's persisted cache is only consulted when no transforms are in
// play, since a transform may change the output for an unchanged body.
func (x *Index) Render(ctx context.Context, base render.Renderer, transforms []render.Transform[*content.Post], store *render.Store) error {
	for _, p := range x.all {
		key := "posts/" + p.Key()
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
				return fmt.Errorf("posts: rendering %s: %w", p.Key(), err)
			}
		}

		if err := store.Persist(key, hash, html); err != nil {
			return err
		}
		p.HTML = template.HTML(html)
	}
	return nil
}

// PostsByLocale returns the date-descending post list for a locale. An
// unknown locale yields an empty list, never an error.
func (x *Index) PostsByLocale(locale string) []*content.Post {
	return append([]*content.Post(nil), x.byLocale[locale]...)
}

// PostByURL resolves a slug within a locale. Absence is a normal outcome.
func (x *Index) PostByURL(url, locale string) (*content.Post, bool) {
	byLocale, ok := x.urlToID[url]
	if !ok {
		return nil, false
	}
	id, ok := byLocale[locale]
	if !ok {
		return nil, false
	}
	p, ok := x.byKey[id+"."+locale]
	return p, ok
}

// TranslationsOf returns, for a post id, the canonical URL in every locale
// that has a translation, the caller's own locale included. Callers building
// cross-locale links filter out the locale they are serving.
func (x *Index) TranslationsOf(id string) map[string]string {
	out := make(map[string]string, len(x.translations[id]))
	for locale, url := range x.translations[id] {
		out[locale] = url
	}
	return out
}

// All returns every post in load order.
func (x *Index) All() []*content.Post {
	return append([]*content.Post(nil), x.all...)
}

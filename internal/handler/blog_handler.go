package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RagibHasin/mudawanah/internal/compose"
	"github.com/RagibHasin/mudawanah/internal/config"
	"github.com/RagibHasin/mudawanah/internal/logger"
	"github.com/RagibHasin/mudawanah/internal/middleware"
	"github.com/RagibHasin/mudawanah/internal/pages"
	"github.com/RagibHasin/mudawanah/internal/plugin"
	"github.com/RagibHasin/mudawanah/internal/posts"
	"github.com/RagibHasin/mudawanah/internal/view"
)

// BlogHandler resolves requests against the content indexes, runs the
// composed plugin chains, and hands the view-model to the templates.
type BlogHandler struct {
	cfg      *config.Config
	posts    *posts.Index
	pages    *pages.Index
	registry *plugin.Registry
	view     *view.View
	log      logger.Logger
}

// NewBlogHandler creates a new BlogHandler with the given dependencies.
func NewBlogHandler(cfg *config.Config, px *posts.Index, gx *pages.Index, reg *plugin.Registry, v *view.View, log logger.Logger) *BlogHandler {
	return &BlogHandler{
		cfg:      cfg,
		posts:    px,
		pages:    gx,
		registry: reg,
		view:     v,
		log:      log,
	}
}

// TranslationLink is one cross-locale link in a view-model.
type TranslationLink struct {
	Locale string
	Name   string
	URL    string
}

// localeMiddleware resolves the locale from the URL path segment. An
// unrecognized locale redirects to the default locale's index; this is the
// one locale-discovery rule, applied to every route under /{locale}.
func (h *BlogHandler) localeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := chi.URLParam(r, "locale")
		if !h.cfg.HasLocale(locale) {
			http.Redirect(w, r, "/"+h.cfg.Blog.DefaultLocale+"/", http.StatusFound)
			return
		}
		ctx := middleware.WithLocale(r.Context(), locale)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// rootHandler redirects the bare root to the default locale's index.
func (h *BlogHandler) rootHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/"+h.cfg.Blog.DefaultLocale+"/", http.StatusFound)
}

// indexHandler serves the per-locale post listing.
func (h *BlogHandler) indexHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	locale := middleware.Locale(r.Context())

	c := plugin.IndexContext{
		Locale: locale,
		Posts:  h.posts.PostsByLocale(locale),
		Data:   map[string]any{},
	}
	if err := h.registry.IndexChain()(r.Context(), &c, h.cfg, nil); err != nil {
		return chainError(err, "index hook chain failed")
	}

	// the index view links to every other locale's index
	var translations []TranslationLink
	for _, tag := range h.cfg.LocaleTags() {
		if tag == locale {
			continue
		}
		translations = append(translations, TranslationLink{
			Locale: tag,
			Name:   h.cfg.Blog.Locales[tag],
			URL:    "/" + tag + "/",
		})
	}

	data := h.viewData(locale, map[string]interface{}{
		"Posts":        c.Posts,
		"PluginData":   c.Data,
		"Translations": translations,
	})
	if err := h.view.Render(w, "index.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render index", Code: http.StatusInternalServerError}
	}
	return nil
}

// postHandler serves a single post resolved by slug within the locale.
func (h *BlogHandler) postHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	locale := middleware.Locale(r.Context())
	slug := chi.URLParam(r, "slug")

	post, ok := h.posts.PostByURL(slug, locale)
	if !ok {
		// absence is not an error, it is the not-found flow
		return h.renderNotFound(w, r, locale)
	}

	c := plugin.PostContext{Locale: locale, Post: post, Data: map[string]any{}}
	if err := h.registry.PostChain()(r.Context(), &c, h.cfg, nil); err != nil {
		return chainError(err, "post hook chain failed")
	}

	var translations []TranslationLink
	trs := h.posts.TranslationsOf(post.ID)
	for _, tag := range h.cfg.LocaleTags() {
		url, has := trs[tag]
		if !has || tag == locale {
			continue
		}
		translations = append(translations, TranslationLink{
			Locale: tag,
			Name:   h.cfg.Blog.Locales[tag],
			URL:    "/" + tag + "/posts/" + url,
		})
	}

	data := h.viewData(locale, map[string]interface{}{
		"Post":         c.Post,
		"HTML":         c.Post.HTML,
		"PluginData":   c.Data,
		"Translations": translations,
	})
	if err := h.view.Render(w, "post.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render post", Code: http.StatusInternalServerError}
	}
	return nil
}

// pageHandler serves a standalone page by id. Ids outside the configured
// allow-list are treated as not found.
func (h *BlogHandler) pageHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	locale := middleware.Locale(r.Context())
	id := chi.URLParam(r, "page")

	if !h.cfg.PageAllowed(id) {
		return h.renderNotFound(w, r, locale)
	}
	page, ok := h.pages.Page(id, locale)
	if !ok {
		return h.renderNotFound(w, r, locale)
	}

	c := plugin.PageContext{Locale: locale, Page: page, Data: map[string]any{}}
	if err := h.registry.PageChain()(r.Context(), &c, h.cfg, nil); err != nil {
		return chainError(err, "page hook chain failed")
	}

	var translations []TranslationLink
	trs := h.pages.Translations(id)
	for _, tag := range h.cfg.LocaleTags() {
		slug, has := trs[tag]
		if !has || tag == locale {
			continue
		}
		translations = append(translations, TranslationLink{
			Locale: tag,
			Name:   h.cfg.Blog.Locales[tag],
			URL:    "/" + tag + "/" + slug,
		})
	}

	data := h.viewData(locale, map[string]interface{}{
		"Page":         c.Page,
		"HTML":         c.Page.HTML,
		"PluginData":   c.Data,
		"Translations": translations,
	})
	if err := h.view.Render(w, "page.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render page", Code: http.StatusInternalServerError}
	}
	return nil
}

// renderNotFound serves the locale's 404 page. The flow never fails: the 404
// page's existence is validated at startup, translations may be empty, and a
// failing page chain is only logged.
func (h *BlogHandler) renderNotFound(w http.ResponseWriter, r *http.Request, locale string) *middleware.AppError {
	page, ok := h.pages.Page(pages.NotFoundID, locale)
	if !ok {
		// startup validation makes this unreachable, but don't panic on it
		return &middleware.AppError{
			Error:   fmt.Errorf("no 404 page for locale %q", locale),
			Message: "Not Found",
			Code:    http.StatusNotFound,
		}
	}

	c := plugin.PageContext{Locale: locale, Page: page, Data: map[string]any{}}
	if err := h.registry.PageChain()(r.Context(), &c, h.cfg, nil); err != nil {
		h.log.Warn(fmt.Sprintf("page hook chain failed on the 404 page for %s: %v", locale, err))
	}

	w.WriteHeader(http.StatusNotFound)
	data := h.viewData(locale, map[string]interface{}{
		"Page":         c.Page,
		"HTML":         c.Page.HTML,
		"PluginData":   c.Data,
		"Translations": []TranslationLink(nil),
	})
	if err := h.view.Render(w, "page.html", data); err != nil {
		h.log.Error(err, "Failed to render the 404 page")
	}
	return nil
}

// viewData merges the per-route locals with the locale presentation config
// every template needs.
func (h *BlogHandler) viewData(locale string, locals map[string]interface{}) map[string]interface{} {
	lc := h.cfg.Locales[locale]
	locals["Locale"] = lc
	locals["Fmt"] = view.NewFormatter(lc)
	locals["Locales"] = h.cfg.Blog.Locales
	return locals
}

// chainError maps a failed hook chain to the response the route must serve:
// a timeout mid-chain becomes 504, anything else 500. Partially transformed
// content is never rendered.
func chainError(err error, msg string) *middleware.AppError {
	code := http.StatusInternalServerError
	if errors.Is(err, compose.ErrMiddlewareTimeout) {
		code = http.StatusGatewayTimeout
	}
	return &middleware.AppError{Error: err, Message: msg, Code: code}
}

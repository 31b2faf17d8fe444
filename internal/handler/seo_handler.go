package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/RagibHasin/mudawanah/internal/config"
	"github.com/RagibHasin/mudawanah/internal/posts"
)

// SeoHandler holds dependencies for SEO-related handlers.
type SeoHandler struct {
	cfg   *config.Config
	posts *posts.Index
}

// NewSeoHandler creates a new SeoHandler.
func NewSeoHandler(cfg *config.Config, px *posts.Index) *SeoHandler {
	return &SeoHandler{cfg: cfg, posts: px}
}

// robotsHandler serves a static robots.txt file.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Sitemap: %s/sitemap.xml\n", h.cfg.Server.BaseURL)
}

const sitemapDateFormat = "2006-01-02"

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler generates and serves a dynamic sitemap.xml covering every
// locale's index and each post's canonical URL.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	base := h.cfg.Server.BaseURL

	sitemap := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
	}
	for _, locale := range h.cfg.LocaleTags() {
		sitemap.URLs = append(sitemap.URLs, sitemapURL{
			Loc: fmt.Sprintf("%s/%s/", base, locale),
		})
		for _, post := range h.posts.PostsByLocale(locale) {
			sitemap.URLs = append(sitemap.URLs, sitemapURL{
				Loc:     fmt.Sprintf("%s/%s/posts/%s", base, locale, post.CanonicalURL()),
				LastMod: post.Date.Format(sitemapDateFormat),
			})
		}
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(sitemap); err != nil {
		http.Error(w, "Failed to encode sitemap", http.StatusInternalServerError)
	}
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/RagibHasin/mudawanah/internal/middleware"
)

// NewRouter creates and configures a new chi router.
func NewRouter(blogHandler *BlogHandler, seoHandler *SeoHandler, errorMiddleware func(middleware.AppHandler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	// The bare root has no locale; redirect to the default locale's index.
	r.Get("/", blogHandler.rootHandler)

	r.Get("/robots.txt", seoHandler.robotsHandler)
	r.Get("/sitemap.xml", seoHandler.sitemapHandler)

	// Every content route lives under a locale path segment.
	r.Route("/{locale}", func(r chi.Router) {
		r.Use(blogHandler.localeMiddleware)

		r.Method(http.MethodGet, "/", errorMiddleware(blogHandler.indexHandler))
		r.Method(http.MethodGet, "/posts/{slug}", errorMiddleware(blogHandler.postHandler))
		r.Method(http.MethodGet, "/{page}", errorMiddleware(blogHandler.pageHandler))
	})

	return r
}

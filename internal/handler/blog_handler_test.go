//go:build unit

package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/RagibHasin/mudawanah/internal/compose"
	"github.com/RagibHasin/mudawanah/internal/config"
	"github.com/RagibHasin/mudawanah/internal/content"
	"github.com/RagibHasin/mudawanah/internal/logger"
	"github.com/RagibHasin/mudawanah/internal/middleware"
	"github.com/RagibHasin/mudawanah/internal/pages"
	"github.com/RagibHasin/mudawanah/internal/plugin"
	"github.com/RagibHasin/mudawanah/internal/posts"
	"github.com/RagibHasin/mudawanah/internal/render"
	"github.com/RagibHasin/mudawanah/internal/view"
	"github.com/RagibHasin/mudawanah/web"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "8080", BaseURL: "http://blog.test"},
		Blog: config.BlogConfig{
			DefaultLocale: "en",
			Locales:       map[string]string{"en": "English", "fr": "Français"},
			Pages:         []string{"about", "404"},
		},
		Plugins: map[string]map[string]any{},
		Locales: map[string]config.LocaleConfig{
			"en": {Locale: "en", Name: "English", Title: "Test Blog", DateLayout: "January 2, 2006", Dictionary: map[string]string{}},
			"fr": {Locale: "fr", Name: "Français", Title: "Blog de test", DateLayout: "2 January 2006", Dictionary: map[string]string{}},
		},
	}
}

func testContent(t *testing.T) (*posts.Index, *pages.Index) {
	t.Helper()

	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	postRecords := []*content.Post{
		{
			Meta: content.Meta{ID: "hello", Locale: "en", Title: "Hello, world", Date: date, URLs: []string{"hello-world"}},
			Body: "The **English** body.",
		},
		{
			Meta: content.Meta{ID: "hello", Locale: "fr", Title: "Bonjour", Date: date, URLs: []string{"bonjour"}},
			Body: "Le corps **français**.",
		},
	}
	pageRecords := []*content.Page{
		{ID: "about", Locale: "en", Title: "About", Body: "All about it."},
		{ID: "404", Locale: "en", Title: "Not Found", Body: "Nothing here."},
		{ID: "404", Locale: "fr", Title: "Introuvable", Body: "Rien ici."},
	}

	px, err := posts.Build(postRecords, []string{"en", "fr"})
	if err != nil {
		t.Fatalf("failed to build post index: %v", err)
	}
	gx, err := pages.Build(pageRecords, []string{"en", "fr"})
	if err != nil {
		t.Fatalf("failed to build page index: %v", err)
	}

	base := render.NewGoldmark()
	if err := px.Render(context.Background(), base, nil, nil); err != nil {
		t.Fatalf("failed to render posts: %v", err)
	}
	if err := gx.Render(context.Background(), base, nil, nil); err != nil {
		t.Fatalf("failed to render pages: %v", err)
	}
	return px, gx
}

func newTestRouter(t *testing.T, reg *plugin.Registry) http.Handler {
	t.Helper()

	cfg := testConfig()
	px, gx := testContent(t)
	log := logger.New(config.LogConfig{Level: "fatal", Format: "json"})

	if reg == nil {
		reg = plugin.NewRegistry(log)
	}

	v, err := view.New(web.TemplateFS)
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}

	blogHandler := NewBlogHandler(cfg, px, gx, reg, v, log)
	seoHandler := NewSeoHandler(cfg, px)
	return NewRouter(blogHandler, seoHandler, middleware.Error(log, v))
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRootRedirectsToDefaultLocale(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := get(t, router, "/")
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/en/" {
		t.Errorf("expected redirect to /en/, got %q", loc)
	}
}

func TestUnknownLocaleRedirectsToDefault(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, path := range []string{"/de/", "/de/posts/hello-world", "/de/about"} {
		rec := get(t, router, path)
		if rec.Code != http.StatusFound {
			t.Errorf("%s: expected 302, got %d", path, rec.Code)
			continue
		}
		if loc := rec.Header().Get("Location"); loc != "/en/" {
			t.Errorf("%s: expected redirect to /en/, got %q", path, loc)
		}
	}
}

func TestIndexRoute(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := get(t, router, "/en/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Hello, world") {
		t.Error("index should list the English post")
	}
	if strings.Contains(body, "Bonjour") {
		t.Error("index must not list posts from other locales")
	}
	if !strings.Contains(body, `href="/fr/"`) {
		t.Error("index should link to the French index")
	}
}

func TestPostRouteEndToEnd(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := get(t, router, "/en/posts/hello-world")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<strong>English</strong>") {
		t.Error("post route should serve the cached rendered HTML")
	}
	if !strings.Contains(body, `href="/fr/posts/bonjour"`) {
		t.Error("post view should link to the French translation's canonical URL")
	}
	if strings.Contains(body, `href="/en/posts/hello-world"`) {
		t.Error("translation links must exclude the current locale")
	}

	// the same slug does not exist in French
	rec = get(t, router, "/fr/posts/hello-world")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected the not-found flow, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Rien ici.") {
		t.Error("the not-found flow should serve the locale's 404 page")
	}
}

func TestPageRoute(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := get(t, router, "/en/about")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "All about it.") {
		t.Error("page route should serve the page HTML")
	}
}

func TestPageRouteOutsideAllowListIsNotFound(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := get(t, router, "/en/secret")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Nothing here.") {
		t.Error("expected the English 404 page")
	}
}

func TestPageRouteMissingTranslationIsNotFound(t *testing.T) {
	router := newTestRouter(t, nil)

	// "about" is allow-listed but has no French translation
	rec := get(t, router, "/fr/about")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Rien ici.") {
		t.Error("expected the French 404 page")
	}
}

// failingHooks is a plugin whose hooks always fail.
type failingHooks struct{ err error }

func (p *failingHooks) Name() string               { return "failing" }
func (p *failingHooks) Init(plugin.Snapshot) error { return nil }

func (p *failingHooks) PostHook() compose.Middleware[plugin.PostContext] {
	return func(ctx context.Context, c *plugin.PostContext, cfg *config.Config, next func() error) error {
		return p.err
	}
}

func TestFailingPostChainYieldsErrorPage(t *testing.T) {
	log := logger.New(config.LogConfig{Level: "fatal", Format: "json"})
	reg := plugin.NewRegistry(log)
	reg.Register(&failingHooks{err: errors.New("plugin exploded")})

	router := newTestRouter(t, reg)

	rec := get(t, router, "/en/posts/hello-world")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "<strong>English</strong>") {
		t.Error("a failed chain must not serve the post content")
	}
}

func TestReadingTimeAnnotatesPost(t *testing.T) {
	log := logger.New(config.LogConfig{Level: "fatal", Format: "json"})
	reg := plugin.NewRegistry(log)
	reg.Register(plugin.NewReadingTime())

	router := newTestRouter(t, reg)

	rec := get(t, router, "/en/posts/hello-world")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "reading-time") {
		t.Error("expected the reading time annotation in the post view")
	}
}

func TestSitemap(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := get(t, router, "/sitemap.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"http://blog.test/en/",
		"http://blog.test/en/posts/hello-world",
		"http://blog.test/fr/posts/bonjour",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("sitemap should contain %s", want)
		}
	}
}

func TestRobots(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := get(t, router, "/robots.txt")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Sitemap: http://blog.test/sitemap.xml") {
		t.Error("robots.txt should advertise the sitemap")
	}
}

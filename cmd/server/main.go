package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/RagibHasin/mudawanah/internal/cache"
	"github.com/RagibHasin/mudawanah/internal/config"
	"github.com/RagibHasin/mudawanah/internal/content"
	"github.com/RagibHasin/mudawanah/internal/handler"
	"github.com/RagibHasin/mudawanah/internal/logger"
	"github.com/RagibHasin/mudawanah/internal/middleware"
	"github.com/RagibHasin/mudawanah/internal/pages"
	"github.com/RagibHasin/mudawanah/internal/plugin"
	"github.com/RagibHasin/mudawanah/internal/posts"
	"github.com/RagibHasin/mudawanah/internal/render"
	"github.com/RagibHasin/mudawanah/internal/view"
	"github.com/RagibHasin/mudawanah/web"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log)

	// --- Content Loading ---
	// Load-time failures are fatal: the engine must not serve requests over
	// a partially indexed content set.
	log.Info("Loading content...")
	postRecords, err := content.LoadPosts(filepath.Join(cfg.Blog.DataDir, "posts"))
	if err != nil {
		log.Fatal(err, "Failed to load posts")
	}
	pageRecords, err := content.LoadPages(filepath.Join(cfg.Blog.DataDir, "pages"))
	if err != nil {
		log.Fatal(err, "Failed to load pages")
	}
	log.Info(fmt.Sprintf("Loaded %d posts and %d pages", len(postRecords), len(pageRecords)))

	// --- Index Construction ---
	locales := cfg.LocaleTags()
	postIndex, err := posts.Build(postRecords, locales)
	if err != nil {
		log.Fatal(err, "Failed to build the post index")
	}
	pageIndex, err := pages.Build(pageRecords, locales)
	if err != nil {
		log.Fatal(err, "Failed to build the page index")
	}
	if err := pageIndex.ValidateNotFound(locales); err != nil {
		log.Fatal(err, "Every configured locale needs a 404 page")
	}

	// --- Render Cache Initialization ---
	log.Info("Initializing render cache...")
	renderCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal(err, "Failed to initialize the render cache")
	}
	defer renderCache.Close()
	store, err := render.NewStore(cfg.Blog.CacheDir, renderCache)
	if err != nil {
		log.Fatal(err, "Failed to prepare the rendered HTML mirror")
	}

	// --- Plugin Registration ---
	registry := plugin.NewRegistry(log)
	registry.Register(plugin.NewReadingTime())

	// --- Render Phase ---
	// One explicit pass before any request is accepted; requests only read
	// the cached HTML.
	log.Info("Rendering content...")
	renderCtx := context.Background()
	base := render.NewGoldmark()
	if err := postIndex.Render(renderCtx, base, registry.PostTransforms(), store); err != nil {
		log.Fatal(err, "Failed to render posts")
	}
	if err := pageIndex.Render(renderCtx, base, registry.PageTransforms(), store); err != nil {
		log.Fatal(err, "Failed to render pages")
	}
	log.Info("Render phase complete.")

	// --- View Template Initialization ---
	viewService, err := view.New(web.TemplateFS)
	if err != nil {
		log.Fatal(err, "Failed to initialize view templates")
	}

	// --- Handler and Router Setup ---
	blogHandler := handler.NewBlogHandler(cfg, postIndex, pageIndex, registry, viewService, log)
	seoHandler := handler.NewSeoHandler(cfg, postIndex)
	errorMiddleware := middleware.Error(log, viewService)

	router := handler.NewRouter(blogHandler, seoHandler, errorMiddleware)

	// --- Plugin Initialization ---
	// Plugins get their one-time snapshot once routes exist, so they can
	// register their own endpoints. Failures are logged, not fatal.
	registry.Init(plugin.Snapshot{
		Config: cfg,
		Posts:  postIndex.All(),
		Pages:  pageIndex.All(),
		Routes: router,
	})

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}
	go func() {
		log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err, "Could not start HTTP server")
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}

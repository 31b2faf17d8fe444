// Package plugin defines the plugin capability surface and the registry
// that feeds plugin hooks into the composed middleware chains.
package plugin

import (
	"net/http"

	"github.com/RagibHasin/mudawanah/internal/compose"
	"github.com/RagibHasin/mudawanah/internal/config"
	"github.com/RagibHasin/mudawanah/internal/content"
	"github.com/RagibHasin/mudawanah/internal/render"
)

// IndexContext is the value an index-hook chain runs over: the post listing
// for one locale. Data is per-request plugin scratch space; it is never
// stored on the shared records, so concurrent requests cannot race on it.
type IndexContext struct {
	Locale string
	Posts  []*content.Post
	Data   map[string]any
}

// PostContext is the value a post-hook chain runs over.
type PostContext struct {
	Locale string
	Post   *content.Post
	Data   map[string]any
}

// PageContext is the value a page-hook chain runs over.
type PageContext struct {
	Locale string
	Page   *content.Page
	Data   map[string]any
}

// Router is the route-registration capability handed to plugins at init.
// chi.Router satisfies it.
type Router interface {
	Get(pattern string, h http.HandlerFunc)
	Post(pattern string, h http.HandlerFunc)
}

// Snapshot is the read-only view of current content a plugin receives once,
// at initialization.
type Snapshot struct {
	Config *config.Config
	Posts  []*content.Post
	Pages  []*content.Page
	Routes Router
}

// Plugin is a unit of trusted extension code registered by the host. Hook
// capabilities are declared by additionally implementing the optional
// interfaces below.
type Plugin interface {
	Name() string
	Init(snap Snapshot) error
}

// IndexHook is implemented by plugins observing or transforming the index
// listing before it is rendered.
type IndexHook interface {
	IndexHook() compose.Middleware[IndexContext]
}

// PostHook is implemented by plugins observing or transforming individual
// posts before they are rendered.
type PostHook interface {
	PostHook() compose.Middleware[PostContext]
}

// PageHook is implemented by plugins observing or transforming individual
// pages before they are rendered.
type PageHook interface {
	PageHook() compose.Middleware[PageContext]
}

// PostRenderer is implemented by plugins extending the markdown renderer
// per post during the render phase.
type PostRenderer interface {
	PostRenderer() render.Transform[*content.Post]
}

// PageRenderer is implemented by plugins extending the markdown renderer
// per page during the render phase.
type PageRenderer interface {
	PageRenderer() render.Transform[*content.Page]
}

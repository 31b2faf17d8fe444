package plugin

import (
	"fmt"

	"github.com/RagibHasin/mudawanah/internal/compose"
	"github.com/RagibHasin/mudawanah/internal/content"
	"github.com/RagibHasin/mudawanah/internal/logger"
	"github.com/RagibHasin/mudawanah/internal/render"
)

// Registry holds the installed plugins and the three composed chains built
// from their hooks. Chains are recomposed on every registration, so the
// order within each chain is the overall plugin registration order even when
// plugins contribute to different hook kinds.
type Registry struct {
	log     logger.Logger
	plugins []Plugin

	indexChain []compose.Middleware[IndexContext]
	postChain  []compose.Middleware[PostContext]
	pageChain  []compose.Middleware[PageContext]

	index compose.Middleware[IndexContext]
	post  compose.Middleware[PostContext]
	page  compose.Middleware[PageContext]

	postTransforms []render.Transform[*content.Post]
	pageTransforms []render.Transform[*content.Page]
}

// NewRegistry creates an empty registry; its chains compose to pass-throughs
// until plugins are registered.
func NewRegistry(log logger.Logger) *Registry {
	r := &Registry{log: log}
	r.recompose()
	return r
}

// Register installs a plugin and feeds whichever hooks it declares into the
// corresponding chains.
func (r *Registry) Register(p Plugin) {
	r.plugins = append(r.plugins, p)

	if h, ok := p.(IndexHook); ok {
		r.indexChain = append(r.indexChain, h.IndexHook())
	}
	if h, ok := p.(PostHook); ok {
		r.postChain = append(r.postChain, h.PostHook())
	}
	if h, ok := p.(PageHook); ok {
		r.pageChain = append(r.pageChain, h.PageHook())
	}
	if h, ok := p.(PostRenderer); ok {
		r.postTransforms = append(r.postTransforms, h.PostRenderer())
	}
	if h, ok := p.(PageRenderer); ok {
		r.pageTransforms = append(r.pageTransforms, h.PageRenderer())
	}

	r.recompose()
}

func (r *Registry) recompose() {
	r.index = compose.Compose(r.indexChain)
	r.post = compose.Compose(r.postChain)
	r.page = compose.Compose(r.pageChain)
}

// Init invokes every plugin's one-time initialization with the snapshot.
// A failing plugin is logged and skipped; startup continues, since the
// plugin's hooks are plain observers and the content set stays valid.
func (r *Registry) Init(snap Snapshot) {
	for _, p := range r.plugins {
		if err := p.Init(snap); err != nil {
			r.log.Error(err, fmt.Sprintf("Plugin %q failed to initialize; its hooks stay registered", p.Name()))
		}
	}
}

// IndexChain returns the composed index-hook middleware.
func (r *Registry) IndexChain() compose.Middleware[IndexContext] { return r.index }

// PostChain returns the composed post-hook middleware.
func (r *Registry) PostChain() compose.Middleware[PostContext] { return r.post }

// PageChain returns the composed page-hook middleware.
func (r *Registry) PageChain() compose.Middleware[PageContext] { return r.page }

// PostTransforms returns the renderer transforms for the post render pass.
func (r *Registry) PostTransforms() []render.Transform[*content.Post] {
	return append([]render.Transform[*content.Post](nil), r.postTransforms...)
}

// PageTransforms returns the renderer transforms for the page render pass.
func (r *Registry) PageTransforms() []render.Transform[*content.Page] {
	return append([]render.Transform[*content.Page](nil), r.pageTransforms...)
}

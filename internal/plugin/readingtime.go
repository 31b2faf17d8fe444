package plugin

import (
	"context"
	"strings"

	"github.com/RagibHasin/mudawanah/internal/compose"
	"github.com/RagibHasin/mudawanah/internal/config"
)

// defaultWPM is the reading speed assumed when the plugin options carry none.
const defaultWPM = 200

// ReadingTime is the built-in plugin estimating reading minutes for posts.
// It annotates the per-request plugin data under the "readingtime" key: an
// int for the post view, a map of post id to int for the index view. The
// words-per-minute rate comes from its plugins.yml block ("wpm").
type ReadingTime struct {
	wpm int
}

// NewReadingTime creates the plugin with the default reading speed; Init
// replaces it when the host config carries one.
func NewReadingTime() *ReadingTime {
	return &ReadingTime{wpm: defaultWPM}
}

// Name implements Plugin.
func (p *ReadingTime) Name() string { return "readingtime" }

// Init implements Plugin.
func (p *ReadingTime) Init(snap Snapshot) error {
	opts := snap.Config.Plugins[p.Name()]
	if wpm, ok := opts["wpm"].(int); ok && wpm > 0 {
		p.wpm = wpm
	}
	return nil
}

// IndexHook annotates the index listing with per-post reading minutes.
func (p *ReadingTime) IndexHook() compose.Middleware[IndexContext] {
	return func(ctx context.Context, c *IndexContext, cfg *config.Config, next func() error) error {
		minutes := make(map[string]int, len(c.Posts))
		for _, post := range c.Posts {
			minutes[post.ID] = p.estimate(post.Body)
		}
		c.Data[p.Name()] = minutes
		return next()
	}
}

// PostHook annotates a single post with its reading minutes.
func (p *ReadingTime) PostHook() compose.Middleware[PostContext] {
	return func(ctx context.Context, c *PostContext, cfg *config.Config, next func() error) error {
		c.Data[p.Name()] = p.estimate(c.Post.Body)
		return next()
	}
}

func (p *ReadingTime) estimate(body string) int {
	words := len(strings.Fields(body))
	minutes := (words + p.wpm - 1) / p.wpm
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

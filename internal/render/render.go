// Package render provides the markdown-to-HTML capability and the stores
// that receive rendered output.
package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Renderer converts markdown source into HTML.
type Renderer interface {
	Render(ctx context.Context, src []byte) ([]byte, error)
}

// Transform builds a new renderer from the record being rendered and the
// renderer so far. Plugins use it for per-record extensions, e.g. enabling a
// feature only for posts carrying a certain tag.
type Transform[T any] func(record T, r Renderer) Renderer

// Apply folds the transforms over the base renderer for one record.
func Apply[T any](record T, base Renderer, transforms []Transform[T]) Renderer {
	r := base
	for _, t := range transforms {
		r = t(record, r)
	}
	return r
}

// Goldmark is the base renderer: goldmark with GFM extensions and auto
// heading IDs, followed by a bluemonday UGC pass over the output.
type Goldmark struct {
	md       goldmark.Markdown
	sanitize *bluemonday.Policy
}

// NewGoldmark constructs the base renderer. It is stateless and safe to
// share across records.
func NewGoldmark() *Goldmark {
	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		sanitize: bluemonday.UGCPolicy(),
	}
}

// Render converts markdown to sanitized HTML.
func (g *Goldmark) Render(ctx context.Context, src []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := g.md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("render: markdown conversion: %w", err)
	}
	return g.sanitize.SanitizeBytes(buf.Bytes()), nil
}

// Func adapts a plain function to the Renderer interface, the way
// http.HandlerFunc does for http.Handler.
type Func func(ctx context.Context, src []byte) ([]byte, error)

// Render calls f.
func (f Func) Render(ctx context.Context, src []byte) ([]byte, error) {
	return f(ctx, src)
}

package content

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// delimiter separates the metadata block from the markdown body. Only the
// first occurrence splits; later blank-line runs belong to the body.
const delimiter = "\n\n\n\n"

// LoadPosts reads every file in dir as a post, in directory listing order.
// Loading aborts on the first malformed file or duplicate (id, locale) pair.
func LoadPosts(dir string) ([]*Post, error) {
	seen := make(map[string]string)
	var posts []*Post

	err := eachFile(dir, func(path string, raw []byte) error {
		meta, body, err := split(path, raw)
		if err != nil {
			return err
		}
		if len(meta.URLs) == 0 {
			return fmt.Errorf("%w: %s declares no url", ErrMalformedMetadata, path)
		}
		if meta.Date.IsZero() {
			return fmt.Errorf("%w: %s declares no date", ErrMalformedMetadata, path)
		}

		post := &Post{
			Meta:    meta,
			Body:    body,
			Excerpt: Excerpt(body),
		}
		if prev, dup := seen[post.Key()]; dup {
			return fmt.Errorf("%w: %s and %s both yield %s", ErrDuplicateIdentity, prev, path, post.Key())
		}
		seen[post.Key()] = path

		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// LoadPages reads every file in dir as a page, in directory listing order.
func LoadPages(dir string) ([]*Page, error) {
	seen := make(map[string]string)
	var pages []*Page

	err := eachFile(dir, func(path string, raw []byte) error {
		meta, body, err := split(path, raw)
		if err != nil {
			return err
		}

		page := &Page{
			ID:     meta.ID,
			Locale: meta.Locale,
			Title:  meta.Title,
			Body:   body,
		}
		if prev, dup := seen[page.Key()]; dup {
			return fmt.Errorf("%w: %s and %s both yield %s", ErrDuplicateIdentity, prev, path, page.Key())
		}
		seen[page.Key()] = path

		pages = append(pages, page)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}

// eachFile visits the regular files of dir in listing order.
func eachFile(dir string, visit func(path string, raw []byte) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("content: reading %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("content: reading %s: %w", path, err)
		}
		if err := visit(path, raw); err != nil {
			return err
		}
	}
	return nil
}

// split separates and parses the metadata block from the body.
func split(path string, raw []byte) (Meta, string, error) {
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")

	head, body, found := strings.Cut(text, delimiter)
	if !found {
		return Meta{}, "", fmt.Errorf("%w: %s", ErrMalformedContentFile, path)
	}

	var meta Meta
	if err := yaml.Unmarshal([]byte(head), &meta); err != nil {
		return Meta{}, "", fmt.Errorf("%w: %s: %v", ErrMalformedMetadata, path, err)
	}
	if meta.ID == "" || meta.Locale == "" {
		return Meta{}, "", fmt.Errorf("%w: %s is missing id or locale", ErrMalformedMetadata, path)
	}

	return meta, body, nil
}

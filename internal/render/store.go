package render

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RagibHasin/mudawanah/internal/cache"
)

// Store receives rendered HTML during a render pass. It keeps a filesystem
// mirror of one file per record under root ({root}/{kind}/{id}.{locale}.html)
// and, when a cache is attached, persists entries there as well.
type Store struct {
	root  string
	cache *cache.Cache
}

// NewStore prepares the mirror directories under root. The cache may be nil,
// in which case only the filesystem mirror is maintained.
func NewStore(root string, c *cache.Cache) (*Store, error) {
	for _, kind := range []string{"posts", "pages"} {
		if err := os.MkdirAll(filepath.Join(root, kind), 0o755); err != nil {
			return nil, fmt.Errorf("render: preparing mirror dir: %w", err)
		}
	}
	return &Store{root: root, cache: c}, nil
}

// Cached returns previously rendered HTML for key when the body hash still
// matches. A miss is (nil, false).
func (s *Store) Cached(key, hash string) ([]byte, bool) {
	if s == nil || s.cache == nil {
		return nil, false
	}
	html, err := s.cache.Get(key, hash)
	if err != nil || html == nil {
		return nil, false
	}
	return html, true
}

// Persist writes the rendered HTML for key to the mirror and the cache.
// key is "{kind}/{id}.{locale}".
func (s *Store) Persist(key, hash string, html []byte) error {
	if s == nil {
		return nil
	}
	path := filepath.Join(s.root, filepath.FromSlash(key)+".html")
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return fmt.Errorf("render: writing mirror file %s: %w", path, err)
	}
	if s.cache != nil {
		if err := s.cache.Set(key, hash, html); err != nil {
			return fmt.Errorf("render: caching %s: %w", key, err)
		}
	}
	return nil
}

// HashBody returns the cache guard hash for a raw markdown body.
func HashBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

//go:build unit

package cache

import (
	"bytes"
	"testing"

	"github.com/RagibHasin/mudawanah/internal/config"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(config.CacheConfig{FilePath: "file::memory:"})
	if err != nil {
		t.Fatalf("failed to create test cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)

	if err := c.Set("posts/hello.en", "h1", []byte("<p>hi</p>")); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := c.Get("posts/hello.en", "h1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !bytes.Equal(got, []byte("<p>hi</p>")) {
		t.Errorf("unexpected html %q", got)
	}
}

func TestCacheMissOnUnknownKey(t *testing.T) {
	c := newTestCache(t)

	got, err := c.Get("posts/none.en", "h1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected miss, got %q", got)
	}
}

func TestCacheMissOnHashMismatch(t *testing.T) {
	c := newTestCache(t)

	if err := c.Set("posts/hello.en", "h1", []byte("<p>hi</p>")); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := c.Get("posts/hello.en", "h2")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected miss for changed hash, got %q", got)
	}
}

func TestCacheDelete(t *testing.T) {
	c := newTestCache(t)

	if err := c.Set("posts/hello.en", "h1", []byte("<p>hi</p>")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := c.Delete("posts/hello.en"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	got, err := c.Get("posts/hello.en", "h1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected miss after delete, got %q", got)
	}
}

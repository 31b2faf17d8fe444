//go:build unit

package view

import (
	"testing"
	"time"

	"github.com/RagibHasin/mudawanah/internal/config"
)

func enFormatter() Formatter {
	return NewFormatter(config.LocaleConfig{
		Locale:     "en",
		DateLayout: "January 2, 2006",
		Dictionary: map[string]string{
			"posts-count": "#n posts",
			"written-on":  "Written on #d by #s",
			"hash":        "item ###n",
		},
	})
}

func TestFormatterNumber(t *testing.T) {
	f := enFormatter()
	if got := f.Number(1234567); got != "1,234,567" {
		t.Errorf("expected grouped digits, got %q", got)
	}
}

func TestFormatterDate(t *testing.T) {
	f := enFormatter()
	d := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if got := f.Date(d); got != "January 15, 2024" {
		t.Errorf("unexpected date %q", got)
	}
}

func TestFormatterSay(t *testing.T) {
	f := enFormatter()

	if got := f.Say("posts-count", 1234); got != "1,234 posts" {
		t.Errorf("unexpected expansion %q", got)
	}

	d := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if got := f.Say("written-on", d, "Jo"); got != "Written on January 15, 2024 by Jo" {
		t.Errorf("unexpected expansion %q", got)
	}

	if got := f.Say("missing-key"); got != "missing-key" {
		t.Errorf("missing entries must echo the key, got %q", got)
	}
}

func TestFormatterLiteralHash(t *testing.T) {
	f := enFormatter()
	if got := f.Say("hash", 7); got != "item #7" {
		t.Errorf("unexpected expansion %q", got)
	}
}

func TestFormatterUnknownLocaleFallsBack(t *testing.T) {
	f := NewFormatter(config.LocaleConfig{Locale: "not a tag", DateLayout: "2006"})
	if got := f.Number(1000); got != "1,000" {
		t.Errorf("expected English fallback grouping, got %q", got)
	}
}

//go:build unit

package compose

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/RagibHasin/mudawanah/internal/config"
)

type chainLog struct {
	entries []string
}

func appender(before, after string) Middleware[chainLog] {
	return func(ctx context.Context, c *chainLog, cfg *config.Config, next func() error) error {
		c.entries = append(c.entries, before)
		if err := next(); err != nil {
			return err
		}
		c.entries = append(c.entries, after)
		return nil
	}
}

func TestComposeOrdering(t *testing.T) {
	chain := Compose([]Middleware[chainLog]{
		appender("a", "a-after"),
		appender("b", "b-after"),
	})

	var c chainLog
	if err := chain(context.Background(), &c, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"a", "b", "b-after", "a-after"}
	if !reflect.DeepEqual(c.entries, want) {
		t.Errorf("expected onion order %v, got %v", want, c.entries)
	}
}

func TestComposeEmptyIsPassThrough(t *testing.T) {
	chain := Compose[chainLog](nil)

	var c chainLog
	calls := 0
	err := chain(context.Background(), &c, nil, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected outer next to be called exactly once, got %d", calls)
	}
	if len(c.entries) != 0 {
		t.Errorf("expected no transformation, got %v", c.entries)
	}
}

func TestComposeReentrantProceed(t *testing.T) {
	ran := false
	chain := Compose([]Middleware[chainLog]{
		func(ctx context.Context, c *chainLog, cfg *config.Config, next func() error) error {
			if err := next(); err != nil {
				return err
			}
			return next()
		},
		func(ctx context.Context, c *chainLog, cfg *config.Config, next func() error) error {
			ran = true
			return next()
		},
	})

	err := chain(context.Background(), &chainLog{}, nil, nil)
	if !errors.Is(err, ErrReentrantProceed) {
		t.Fatalf("expected ErrReentrantProceed, got %v", err)
	}
	if !ran {
		t.Error("the second middleware should have run on the first next()")
	}
}

func TestComposeReentrantProceedSwallowed(t *testing.T) {
	// A link that ignores the error from its second next() call must not
	// turn the chain into a success.
	chain := Compose([]Middleware[chainLog]{
		func(ctx context.Context, c *chainLog, cfg *config.Config, next func() error) error {
			_ = next()
			_ = next()
			return nil
		},
	})

	err := chain(context.Background(), &chainLog{}, nil, nil)
	if !errors.Is(err, ErrReentrantProceed) {
		t.Fatalf("expected ErrReentrantProceed, got %v", err)
	}
}

func TestComposeFailureStopsChain(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	chain := Compose([]Middleware[chainLog]{
		func(ctx context.Context, c *chainLog, cfg *config.Config, next func() error) error {
			return boom
		},
		func(ctx context.Context, c *chainLog, cfg *config.Config, next func() error) error {
			ran = true
			return next()
		},
	})

	err := chain(context.Background(), &chainLog{}, nil, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if ran {
		t.Error("middleware after a failing link must not run")
	}
}

func TestComposeContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ran := false
	chain := Compose([]Middleware[chainLog]{
		func(ctx context.Context, c *chainLog, cfg *config.Config, next func() error) error {
			cancel()
			return next()
		},
		func(ctx context.Context, c *chainLog, cfg *config.Config, next func() error) error {
			ran = true
			return next()
		},
	})

	err := chain(ctx, &chainLog{}, nil, nil)
	if !errors.Is(err, ErrMiddlewareTimeout) {
		t.Fatalf("expected ErrMiddlewareTimeout, got %v", err)
	}
	if ran {
		t.Error("no further middleware may run once the context is done")
	}
}

func TestComposeTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	chain := Compose([]Middleware[chainLog]{
		func(ctx context.Context, c *chainLog, cfg *config.Config, next func() error) error {
			<-ctx.Done()
			return next()
		},
	})

	err := chain(ctx, &chainLog{}, nil, nil)
	if !errors.Is(err, ErrMiddlewareTimeout) {
		t.Fatalf("expected ErrMiddlewareTimeout, got %v", err)
	}
}

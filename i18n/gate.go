/*
Package i18n loads localized bundles for move rendering and gates work on
their availability.

A Gate runs work for a locale as soon as the locale's bundle is loaded:
immediately when it already is, otherwise after a single shared load.

	gate := i18n.NewGate(i18n.Builtin())
	san := i18n.Schedule(gate, "de", func(b *i18n.Bundle) string {
		return b.SAN(move.Notation())
	}).Wait()
*/
package i18n

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
)

// Gate caches loaded bundles by normalized locale. A failed load never
// surfaces as an error: the fallback locale's bundle, or the built-in
// English one, is used for that locale instead.
type Gate struct {
	loader   Loader
	fallback language.Tag
	logger   *zap.Logger

	mu      sync.RWMutex
	bundles map[string]*Bundle
	flight  singleflight.Group
}

// Option configures a Gate.
type Option func(*Gate)

// WithFallback sets the locale used when a requested one is invalid or
// fails to load. The default is English.
func WithFallback(locale string) Option {
	return func(g *Gate) {
		if tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-")); err == nil {
			g.fallback = tag
		}
	}
}

// WithLogger sets the logger that records load failures.
func WithLogger(l *zap.Logger) Option {
	return func(g *Gate) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGate returns a gate loading bundles with loader.
func NewGate(loader Loader, opts ...Option) *Gate {
	g := &Gate{
		loader:   loader,
		fallback: language.English,
		logger:   zap.NewNop(),
		bundles:  make(map[string]*Bundle),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Normalize maps a locale to its canonical tag: "de_DE" becomes "de-DE"
// and an empty or malformed locale becomes the fallback.
func (g *Gate) Normalize(locale string) language.Tag {
	locale = strings.TrimSpace(strings.ReplaceAll(locale, "_", "-"))
	if locale == "" {
		return g.fallback
	}
	tag, err := language.Parse(locale)
	if err != nil {
		g.logger.Warn("invalid locale, using fallback",
			zap.String("locale", locale),
			zap.String("fallback", g.fallback.String()),
			zap.Error(err))
		return g.fallback
	}
	return tag
}

// Ready reports whether the bundle of locale is loaded.
func (g *Gate) Ready(locale string) bool {
	_, ok := g.lookup(g.Normalize(locale).String())
	return ok
}

// Load returns the bundle of locale, loading it first when needed.
// Concurrent calls for the same locale share one load.
func (g *Gate) Load(locale string) *Bundle {
	return g.load(g.Normalize(locale))
}

func (g *Gate) load(tag language.Tag) *Bundle {
	key := tag.String()
	if b, ok := g.lookup(key); ok {
		return b
	}
	v, _, _ := g.flight.Do(key, func() (any, error) {
		if b, ok := g.lookup(key); ok {
			return b, nil
		}
		b, err := g.loader(tag)
		if err != nil {
			g.logger.Warn("locale bundle unavailable, using fallback",
				zap.String("locale", key),
				zap.String("fallback", g.fallback.String()),
				zap.Error(err))
			b = g.fallbackFor(tag)
		}
		g.mu.Lock()
		g.bundles[key] = b
		g.mu.Unlock()
		return b, nil
	})
	return v.(*Bundle)
}

func (g *Gate) fallbackFor(failed language.Tag) *Bundle {
	if failed != g.fallback {
		return g.load(g.fallback)
	}
	return English()
}

func (g *Gate) lookup(key string) (*Bundle, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	b, ok := g.bundles[key]
	return b, ok
}

// Future is the pending result of scheduled work.
type Future[T any] struct {
	done  chan struct{}
	value T
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Ready reports whether the result is available without blocking.
func (f *Future[T]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the result is available.
func (f *Future[T]) Wait() T {
	<-f.done
	return f.value
}

// WaitContext is Wait bounded by ctx. The work itself keeps running when
// ctx ends.
func (f *Future[T]) WaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Schedule runs work with the bundle of locale. When the bundle is loaded
// work runs on the calling goroutine and the returned future is already
// resolved; otherwise the bundle is loaded in the background and work runs
// once it is available.
func Schedule[T any](g *Gate, locale string, work func(*Bundle) T) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	tag := g.Normalize(locale)
	if b, ok := g.lookup(tag.String()); ok {
		f.value = work(b)
		close(f.done)
		return f
	}
	go func() {
		f.value = work(g.load(tag))
		close(f.done)
	}()
	return f
}

package i18n

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/language"

	"github.com/corentings/movetree"
)

// countingLoader wraps the built-in bundles, counts loads and blocks each
// load until release is closed.
type countingLoader struct {
	loads   atomic.Int32
	release chan struct{}
}

func (c *countingLoader) load(tag language.Tag) (*Bundle, error) {
	c.loads.Add(1)
	<-c.release
	return Builtin()(tag)
}

func TestNormalize(t *testing.T) {
	g := NewGate(Builtin())

	assert.Equal(t, "de-DE", g.Normalize("de_DE").String())
	assert.Equal(t, "en", g.Normalize("").String())
	assert.Equal(t, "en", g.Normalize("not a locale!").String())

	g = NewGate(Builtin(), WithFallback("de"))
	assert.Equal(t, "de", g.Normalize("").String())
}

func TestScheduleRunsSynchronouslyWhenReady(t *testing.T) {
	g := NewGate(Builtin())
	g.Load("en")
	require.True(t, g.Ready("en"))

	ran := false
	f := Schedule(g, "en", func(b *Bundle) string {
		ran = true
		return b.Locale
	})
	assert.True(t, ran)
	assert.True(t, f.Ready())
	assert.Equal(t, "en", f.Wait())
}

func TestScheduleWaitsForLoad(t *testing.T) {
	loader := &countingLoader{release: make(chan struct{})}
	g := NewGate(loader.load)

	f := Schedule(g, "de", func(b *Bundle) string { return b.PieceLetter(movetree.Knight) })
	assert.False(t, f.Ready())
	assert.False(t, g.Ready("de"))

	close(loader.release)
	select {
	case <-f.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled work did not run")
	}
	assert.Equal(t, "S", f.Wait())
	assert.True(t, g.Ready("de"))
}

func TestScheduleLoadsOnce(t *testing.T) {
	loader := &countingLoader{release: make(chan struct{})}
	g := NewGate(loader.load)

	var wg sync.WaitGroup
	futures := make([]*Future[string], 16)
	for i := range futures {
		wg.Add(1)
		go func() {
			defer wg.Done()
			futures[i] = Schedule(g, "de_DE", func(b *Bundle) string { return b.Locale })
		}()
	}
	wg.Wait()
	close(loader.release)

	for _, f := range futures {
		assert.Equal(t, "de", f.Wait())
	}
	assert.Equal(t, int32(1), loader.loads.Load())
}

func TestLoadFailureFallsBack(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	failing := func(tag language.Tag) (*Bundle, error) {
		if tag.String() == "fr" {
			return nil, errors.New("unreachable")
		}
		return Builtin()(tag)
	}
	g := NewGate(failing, WithFallback("de"), WithLogger(zap.New(core)))

	b := Schedule(g, "fr", func(b *Bundle) *Bundle { return b }).Wait()
	assert.Equal(t, "de", b.Locale)
	assert.True(t, g.Ready("fr"))
	assert.Equal(t, 1, logs.FilterMessage("locale bundle unavailable, using fallback").Len())

	broken := func(language.Tag) (*Bundle, error) { return nil, errors.New("offline") }
	g = NewGate(broken)
	assert.Equal(t, English(), g.Load("it"))
}

func TestWaitContext(t *testing.T) {
	loader := &countingLoader{release: make(chan struct{})}
	defer close(loader.release)
	g := NewGate(loader.load)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := Schedule(g, "de", func(b *Bundle) int { return 1 }).WaitContext(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFSLoader(t *testing.T) {
	fsys := fstest.MapFS{
		"l10n/nl.yaml": {Data: []byte("pieces:\n  N: P\n  B: L\nnags:\n  1: goede zet\n")},
	}
	load := FSLoader(fsys, "l10n/{{lng}}.yaml")

	b, err := load(language.MustParse("nl-BE"))
	require.NoError(t, err)
	assert.Equal(t, "nl-BE", b.Locale)
	assert.Equal(t, "P", b.PieceLetter(movetree.Knight))
	assert.Equal(t, "K", b.PieceLetter(movetree.King))
	assert.Equal(t, "", b.PieceLetter(movetree.Pawn))
	assert.Equal(t, "goede zet", b.NAGName(1))
	assert.Equal(t, "mistake", b.NAGName(2))

	_, err = load(language.German)
	assert.Error(t, err)
}

func TestBundleSAN(t *testing.T) {
	g, err := movetree.Parse("1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 4. Bxc6 dxc6 5. O-O Qd6 *")
	require.NoError(t, err)

	de := NewGate(Builtin()).Load("de-AT")
	var sans []string
	for _, m := range g.MainLine() {
		sans = append(sans, de.SAN(m.Notation()))
	}
	assert.Equal(t, []string{"e4", "e5", "Sf3", "Sc6", "Lb5", "a6", "Lxc6", "dxc6", "O-O", "Dd6"}, sans)
	assert.Equal(t, "Neuerung", de.NAGName(movetree.NAGNovelty))
}

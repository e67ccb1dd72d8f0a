package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/corentings/movetree"
)

// Bundle holds the localized texts of one locale.
type Bundle struct {
	Locale string            `yaml:"locale"`
	Pieces map[string]string `yaml:"pieces"` // SAN letter -> localized letter
	NAGs   map[int]string    `yaml:"nags"`
}

// PieceLetter returns the localized letter for pt. Pawns have none.
func (b *Bundle) PieceLetter(pt movetree.PieceType) string {
	letter := pt.String()
	if l, ok := b.Pieces[letter]; ok && letter != "" {
		return l
	}
	return letter
}

// SAN renders a move with localized piece letters, e.g. "Sf3" in German.
func (b *Bundle) SAN(n movetree.Notation) string {
	return n.Format(b.PieceLetter)
}

// NAGName returns the localized name of an annotation glyph, falling back
// to the English description.
func (b *Bundle) NAGName(code int) string {
	if name, ok := b.NAGs[code]; ok {
		return name
	}
	return movetree.LookupNAG(code).Name
}

// Loader reads the bundle of one locale.
type Loader func(tag language.Tag) (*Bundle, error)

// FSLoader loads YAML bundles from fsys. The pattern names the file of a
// locale with "{{lng}}" standing for the language tag, for example
// "locales/{{lng}}.yaml". A region specific tag such as "de-AT" falls back
// to the file of its base language.
func FSLoader(fsys fs.FS, pattern string) Loader {
	return func(tag language.Tag) (*Bundle, error) {
		var firstErr error
		for _, name := range candidates(tag) {
			data, err := fs.ReadFile(fsys, strings.ReplaceAll(pattern, "{{lng}}", name))
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			var b Bundle
			if err := yaml.Unmarshal(data, &b); err != nil {
				return nil, fmt.Errorf("i18n: locale %s: %w", name, err)
			}
			if b.Locale == "" {
				b.Locale = tag.String()
			}
			return &b, nil
		}
		return nil, fmt.Errorf("i18n: locale %s: %w", tag, firstErr)
	}
}

func candidates(tag language.Tag) []string {
	names := []string{tag.String()}
	if base, _ := tag.Base(); base.String() != tag.String() {
		names = append(names, base.String())
	}
	return names
}

//go:embed locales/*.yaml
var builtin embed.FS

// Builtin loads the bundles compiled into the package.
func Builtin() Loader {
	return FSLoader(builtin, "locales/{{lng}}.yaml")
}

var english = sync.OnceValue(func() *Bundle {
	b, err := Builtin()(language.English)
	if err != nil {
		panic(err)
	}
	return b
})

// English returns the built-in English bundle, the last resort of every
// gate.
func English() *Bundle {
	return english()
}

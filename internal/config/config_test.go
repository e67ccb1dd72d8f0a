package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corentings/movetree"
)

func TestSetupDefaults(t *testing.T) {
	cfg, err := Setup("")
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, 64, cfg.MaxVariationDepth)
	assert.Empty(t, cfg.StartFEN)
}

func TestSetupFromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movetree.yaml")
	require.NoError(t, os.WriteFile(path, []byte("LOCALE: de\nLOCALES_DIR: /srv/locales\nMAX_VARIATION_DEPTH: 12\n"), 0o600))

	cfg, err := Setup(path)
	require.NoError(t, err)
	assert.Equal(t, "de", cfg.Locale)
	assert.Equal(t, "/srv/locales", cfg.LocalesDir)
	assert.Equal(t, 12, cfg.MaxVariationDepth)

	t.Setenv("MOVETREE_MAX_VARIATION_DEPTH", "8")
	t.Setenv("MOVETREE_START_FEN", movetree.StartingFEN)
	cfg, err = Setup(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MaxVariationDepth)
	assert.Equal(t, movetree.StartingFEN, cfg.StartFEN)
}

func TestSetupRejectsBadValues(t *testing.T) {
	t.Setenv("MOVETREE_START_FEN", "8/8/8 w")
	_, err := Setup("")
	assert.ErrorIs(t, err, movetree.ErrInvalidFEN)

	t.Setenv("MOVETREE_START_FEN", "")
	t.Setenv("MOVETREE_MAX_VARIATION_DEPTH", "0")
	_, err = Setup("")
	assert.Error(t, err)

	_, err = Setup(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

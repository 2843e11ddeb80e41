package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefsRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := LoadPrefs()
	require.NoError(t, err)
	assert.Equal(t, Prefs{}, p)

	require.NoError(t, SavePrefs(Prefs{Players: 3, Theme: " Classic "}))
	p, err = LoadPrefs()
	require.NoError(t, err)
	assert.Equal(t, Prefs{Players: 3, Theme: "classic"}, p)

	info, err := os.Stat(filepath.Join(home, ".lemonade", "prefs.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, ClearPrefs())
	require.NoError(t, ClearPrefs())
	p, err = LoadPrefs()
	require.NoError(t, err)
	assert.Zero(t, p.Players)
}

func TestLoadPrefsRejectsGarbage(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".lemonade"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".lemonade", "prefs.json"), []byte("{"), 0o600))

	_, err := LoadPrefs()
	assert.Error(t, err)
}

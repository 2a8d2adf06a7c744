package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissingFileUsesDefaults(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "prefs.yaml"))
	require.NoError(t, err)
	assert.Equal(t, BackgroundDefault, s.Background())
}

func TestSetBackgroundPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetBackground("Slate"))
	assert.Equal(t, BackgroundSlate, s.Background())
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, BackgroundSlate, reopened.Background())
}

func TestSetBackgroundRejectsUnknown(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	require.ErrorIs(t, s.SetBackground("plaid"), ErrUnknownBackground)
	assert.Equal(t, BackgroundDefault, s.Background())
}

func TestClosedStoreRejectsWrites(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	require.NoError(t, s.SetBackground(BackgroundPaper))
	require.NoError(t, s.Close())

	require.ErrorIs(t, s.SetBackground(BackgroundSlate), ErrClosed)
	assert.Equal(t, BackgroundPaper, s.Background())
}

func TestStoresAreIndependent(t *testing.T) {
	dir := t.TempDir()
	a, err := Open(filepath.Join(dir, "a.yaml"))
	require.NoError(t, err)
	b, err := Open(filepath.Join(dir, "b.yaml"))
	require.NoError(t, err)

	require.NoError(t, a.SetBackground(BackgroundMidnight))
	assert.Equal(t, BackgroundDefault, b.Background())
}

func TestOpenIgnoresUnknownStoredBackground(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("background: neon\n"), 0o600))

	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, BackgroundDefault, s.Background())
}

func TestOpenRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("background: [\n"), 0o600))

	_, err := Open(path)
	require.Error(t, err)
}

func TestNextBackground(t *testing.T) {
	assert.Equal(t, BackgroundSlate, NextBackground(BackgroundDefault))
	assert.Equal(t, BackgroundDefault, NextBackground(BackgroundMidnight))
	assert.Equal(t, BackgroundDefault, NextBackground("unknown"))
	assert.Len(t, Backgrounds(), 4)
}

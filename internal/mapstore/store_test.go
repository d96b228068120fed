package mapstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gravitas-games/robotplanner/pkg/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "open.env"), "2 2\n0 0\n0 0\n")
	writeFile(t, filepath.Join(dir, "nested", "column.env"), "3 1\n0 1 0\n")
	writeFile(t, filepath.Join(dir, "README.md"), "not a map")

	s, err := LoadDir(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"column", "open"}, s.Names())
	assert.Equal(t, 2, s.Len())

	m, ok := s.Get("column")
	require.True(t, ok)
	assert.Equal(t, 3, m.Grid.Width())
	assert.True(t, m.Grid.IsWall(grid.Cell{X: 1, Y: 0}))
	assert.Equal(t, filepath.Join(dir, "nested", "column.env"), m.Source)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestLoadDir_BadMap(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.env"), "2 2\n0 0\n")

	_, err := LoadDir(context.Background(), dir)
	assert.ErrorContains(t, err, "failed to load maps")
}

func TestLoadDir_Duplicate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "same.env"), "1 1\n0\n")
	writeFile(t, filepath.Join(dir, "b", "same.env"), "1 1\n0\n")

	_, err := LoadDir(context.Background(), dir)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestLoadDir_Missing(t *testing.T) {
	_, err := LoadDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	a, err := grid.From([][]bool{{false, true}})
	require.NoError(t, err)
	b, err := grid.From([][]bool{{false, true}})
	require.NoError(t, err)
	c, err := grid.From([][]bool{{true, false}})
	require.NoError(t, err)

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
}

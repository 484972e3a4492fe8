package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindScore(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "info.json"), []byte("{}"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "pages.musicxml"), 0755))

	_, err := FindScore(dir)
	assert.ErrorIs(err, ErrNoScore)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.MusicXML"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.musicxml"), nil, 0644))
	path, err := FindScore(dir)
	assert.NoError(err)
	assert.Equal(filepath.Join(dir, "a.musicxml"), path)
}

func TestCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("<score-partwise/>"), 0644))

	require.NoError(t, Copy(src, dst))
	dat, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "<score-partwise/>", string(dat))

	assert.Error(t, Copy(filepath.Join(dir, "missing"), dst))
}

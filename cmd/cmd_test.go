package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "../song/testdata/repeats.musicxml"

func run(t *testing.T, args ...string) (string, error) {
	dir := t.TempDir()
	t.Setenv("PIANOLA_DATA_PATH", filepath.Join(dir, "music"))
	var out bytes.Buffer
	err := Run(append(args, "--config", filepath.Join(dir, "settings.yml")), &out)
	return out.String(), err
}

func TestCompileCommand(t *testing.T) {
	out, err := run(t, "compile", fixture, "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Order: [0 1 2 3 0 1 4]")

	out, err = run(t, "compile", fixture, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"groupOrder": [`)
}

func TestOrderCommand(t *testing.T) {
	out, err := run(t, "order", fixture)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[4], "4\tgroup 0\t"), lines[4])
}

func TestCompileCommandFails(t *testing.T) {
	_, err := run(t, "compile", "missing.musicxml", "--json=false")
	assert.Error(t, err)

	_, err = run(t, "compile")
	assert.Error(t, err)
}

func TestImportAndSongsCommands(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	t.Setenv("PIANOLA_DATA_PATH", filepath.Join(dir, "music"))
	config := filepath.Join(dir, "settings.yml")

	var out bytes.Buffer
	require.NoError(t, Run([]string{"import", "../song/testdata/two_notes.musicxml", "--config", config}, &out))
	assert.Contains(out.String(), "Two Notes")
	id := strings.Fields(strings.Split(strings.TrimSpace(out.String()), "\n")[1])[0]

	out.Reset()
	require.NoError(t, Run([]string{"songs", "--favorite", id, "--config", config}, &out))
	assert.Equal("* "+id+"  Two Notes  Nobody\n", out.String())

	out.Reset()
	require.NoError(t, Run([]string{"songs", "--favorite", "", "--unfavorite", id, "--config", config}, &out))
	assert.True(strings.HasPrefix(out.String(), "  "+id))

	assert.Error(Run([]string{"songs", "--unfavorite", "nope", "--config", config}, &out))
	// flags stick between runs of the same command tree
	require.NoError(t, songsCmd.Flags().Set("unfavorite", ""))
}

func TestExportCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repeats.mid")
	_, err := run(t, "export", fixture, path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

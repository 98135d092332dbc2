package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	c, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Empty(t, c.Path())
	assert.NoError(t, c.Validate())
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[table]
path = "cache.msgpack"

[rank]
top = 3
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cache.msgpack", c.Table.Path)
	assert.Equal(t, 3, c.Rank.Top)
	assert.Equal(t, "io/guesses.txt", c.Words.Guesses)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, path, c.Path())
}

func TestLoadRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte("[rank\ntop = "), 0644))
	_, err := Load(broken)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.toml")
	require.NoError(t, os.WriteFile(invalid, []byte("[rank]\ntop = -1\n"), 0644))
	_, err = Load(invalid)
	assert.Error(t, err)

	level := filepath.Join(dir, "level.toml")
	require.NoError(t, os.WriteFile(level, []byte("[log]\nlevel = \"loud\"\n"), 0644))
	_, err = Load(level)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	c := Default()
	c.Server.Addr = "127.0.0.1:9000"
	c.Table.Workers = 4
	require.NoError(t, Save(c, path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, back.Path())
	back.path = ""
	assert.Equal(t, c, back)
}

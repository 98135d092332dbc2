package main

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bent101/go-wordle-entropy/internal/config"
	"github.com/bent101/go-wordle-entropy/internal/logger"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, tableName string) *app {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Words.Guesses = filepath.Join(dir, "guesses.txt")
	cfg.Words.Solutions = filepath.Join(dir, "answers.txt")
	cfg.Table.Path = filepath.Join(dir, tableName)
	require.NoError(t, os.WriteFile(cfg.Words.Guesses, []byte("abcde\nedcba\ncrane\n"), 0644))
	require.NoError(t, os.WriteFile(cfg.Words.Solutions, []byte("abcde\nedcba\n"), 0644))

	return &app{cfg: cfg, log: logger.New("test")}
}

func TestLoadTableBuildsThenCaches(t *testing.T) {
	a := newTestApp(t, "cache.msgpack")

	built, err := a.loadTable(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, a.cfg.Table.Path)

	// Changing the word lists must not matter once the cache exists.
	require.NoError(t, os.Remove(a.cfg.Words.Guesses))

	loaded, err := a.loadTable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, built.Guesses().Words(), loaded.Guesses().Words())

	h, err := loaded.Lookup("crane", "edcba")
	require.NoError(t, err)
	want, err := built.Lookup("crane", "edcba")
	require.NoError(t, err)
	assert.Equal(t, want, h)
}

func TestLoadTableRebuildsCorruptCache(t *testing.T) {
	a := newTestApp(t, "cache.gob")
	require.NoError(t, os.WriteFile(a.cfg.Table.Path, []byte("garbage"), 0644))

	tbl, err := a.loadTable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, tbl.Len())
}

func TestLoadTableMissingWords(t *testing.T) {
	a := newTestApp(t, "cache.gob")
	require.NoError(t, os.Remove(a.cfg.Words.Solutions))

	_, err := a.loadTable(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSetupLogsConfigAtDebugLevel(t *testing.T) {
	prev := log.GetLevel()
	t.Cleanup(func() { log.SetLevel(prev) })

	path := filepath.Join(t.TempDir(), "wordle-entropy.toml")
	require.NoError(t, config.Save(config.Default(), path))

	var buf bytes.Buffer
	a := &app{logOut: &buf}
	require.NoError(t, a.setup(path, true))
	assert.Equal(t, path, a.cfg.Path())
	assert.Contains(t, buf.String(), "loaded config")

	buf.Reset()
	missing := filepath.Join(t.TempDir(), "missing.toml")
	require.NoError(t, a.setup(missing, true))
	assert.Contains(t, buf.String(), "built-in defaults")

	buf.Reset()
	require.NoError(t, a.setup(path, false))
	assert.Empty(t, buf.String())
}

func TestShutdownLogsResult(t *testing.T) {
	var buf bytes.Buffer
	a := &app{cfg: config.Default(), log: log.New(&buf)}

	entered := make(chan struct{})
	release := make(chan struct{})
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
	})}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go srv.Serve(ln)

	go func() {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err == nil {
			resp.Body.Close()
		}
	}()
	<-entered

	// The request is still running, so the deadline passes first.
	a.shutdown(srv, 10*time.Millisecond)
	close(release)
	assert.Contains(t, buf.String(), "context deadline exceeded")

	buf.Reset()
	a.shutdown(&http.Server{}, time.Second)
	assert.Contains(t, buf.String(), "server stopped")
}

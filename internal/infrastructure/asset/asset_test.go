package asset

import (
	"archive/zip"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceLifecycle(t *testing.T) {
	fsys := fstest.MapFS{
		"scripts/orbit.lua": {Data: []byte("-- orbit")},
	}
	s := NewService(fsys, nil, nil)

	h := s.Load("scripts/orbit.lua")
	assert.False(t, h.IsZero())
	assert.Equal(t, h, s.Load("scripts/orbit.lua"), "same path returns same handle")

	st, err := s.State(h)
	require.NoError(t, err)
	assert.Equal(t, StateQueued, st)

	s.UpdateLoaders()
	st, _ = s.State(h)
	assert.Equal(t, StateStaged, st)
	_, ok := s.Get(h)
	assert.False(t, ok, "staged data is not visible yet")

	s.Update()
	data, ok := s.Get(h)
	require.True(t, ok)
	assert.Equal(t, "-- orbit", string(data))

	m := s.Metrics()
	assert.Equal(t, 1, m.Requested)
	assert.Equal(t, 1, m.Ready)
	assert.Equal(t, int64(8), m.Bytes)
	assert.Equal(t, []string{"scripts/orbit.lua"}, s.Paths())
	assert.NoError(t, s.Close())
}

func TestServiceMissingAsset(t *testing.T) {
	s := NewService(fstest.MapFS{}, nil, nil)
	h := s.Load("missing.lua")
	s.UpdateLoaders()

	st, err := s.State(h)
	require.NoError(t, err)
	assert.Equal(t, StateFailed, st)
	assert.ErrorIs(t, s.Err(h), os.ErrNotExist)
	assert.Equal(t, 1, s.Metrics().Failed)
}

func TestServiceUnknownHandle(t *testing.T) {
	s := NewService(fstest.MapFS{}, nil, nil)
	_, err := s.State(Handle{})
	assert.ErrorIs(t, err, ErrUnknownHandle)
	assert.ErrorIs(t, s.Err(Handle{}), ErrUnknownHandle)
}

func TestSourceValidate(t *testing.T) {
	assert.Error(t, PackfileSource("").Validate())
	assert.NoError(t, PackfileSource("assets.zip").Validate())
	assert.Error(t, DaemonSource(DaemonOptions{Address: "nope"}).Validate())
	assert.NoError(t, DaemonSource(DaemonOptions{Address: "127.0.0.1:9999"}).Validate())
	assert.Equal(t, "daemon", KindDaemon.String())
}

func TestPackfileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("scripts/a.lua")
	require.NoError(t, err)
	_, err = w.Write([]byte("return 1"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	s, err := Open(PackfileSource(path), nil)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	h := s.Load("scripts/a.lua")
	s.UpdateLoaders()
	s.Update()
	data, ok := s.Get(h)
	require.True(t, ok)
	assert.Equal(t, "return 1", string(data))
}

func TestDaemonFSFallsBackToHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/remote.txt" {
			_, _ = w.Write([]byte("from daemon"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "local.txt"), []byte("from disk"), 0o644))

	d := NewDaemonFS(srv.URL, []string{dir}, srv.Client())

	data, err := d.ReadFile("local.txt")
	require.NoError(t, err)
	assert.Equal(t, "from disk", string(data))

	data, err = d.ReadFile("remote.txt")
	require.NoError(t, err)
	assert.Equal(t, "from daemon", string(data))

	_, err = d.ReadFile("absent.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = d.ReadFile("../escape")
	assert.Error(t, err)
}

func TestServiceReloadsChangedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	s := NewService(NewDaemonFS("http://127.0.0.1:1", []string{dir}, nil), nil, nil)
	h := s.Load("a.txt")
	s.UpdateLoaders()
	s.Update()
	data, _ := s.Get(h)
	assert.Equal(t, "v1", string(data))

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
	now := time.Now()
	require.NoError(t, os.Chtimes(path, now, now))

	s.Update()
	st, _ := s.State(h)
	assert.Equal(t, StateQueued, st)
	data, _ = s.Get(h)
	assert.Equal(t, "v1", string(data), "old data stays visible while reloading")

	s.UpdateLoaders()
	s.Update()
	data, _ = s.Get(h)
	assert.Equal(t, "v2", string(data))
	assert.Equal(t, 1, s.Metrics().Reloads)
}

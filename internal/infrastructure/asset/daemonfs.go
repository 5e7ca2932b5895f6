package asset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// DaemonFS reads assets from local watch directories first and falls back
// to an HTTP GET against the asset daemon.
type DaemonFS struct {
	baseURL string
	dirs    []string
	client  *http.Client
}

// NewDaemonFS creates a daemon file system
func NewDaemonFS(baseURL string, dirs []string, client *http.Client) *DaemonFS {
	if client == nil {
		client = http.DefaultClient
	}
	return &DaemonFS{
		baseURL: strings.TrimRight(baseURL, "/"),
		dirs:    dirs,
		client:  client,
	}
}

// Open implements fs.FS
func (d *DaemonFS) Open(name string) (fs.File, error) {
	data, err := d.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return &memFile{name: path.Base(name), r: bytes.NewReader(data), size: int64(len(data))}, nil
}

// ReadFile implements fs.ReadFileFS
func (d *DaemonFS) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}

	for _, dir := range d.dirs {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return d.fetch(name)
}

// ModTime returns the modification time of name in the first watch
// directory that has it.
func (d *DaemonFS) ModTime(name string) (time.Time, bool) {
	for _, dir := range d.dirs {
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name)))
		if err == nil {
			return info.ModTime(), true
		}
	}
	return time.Time{}, false
}

func (d *DaemonFS) fetch(name string) ([]byte, error) {
	resp, err := d.client.Get(d.baseURL + "/" + name)
	if err != nil {
		return nil, &fs.PathError{Op: "fetch", Path: name, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &fs.PathError{Op: "fetch", Path: name, Err: fs.ErrNotExist}
	case resp.StatusCode != http.StatusOK:
		return nil, &fs.PathError{Op: "fetch", Path: name, Err: fmt.Errorf("daemon status %s", resp.Status)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &fs.PathError{Op: "fetch", Path: name, Err: err}
	}
	return data, nil
}

type memFile struct {
	name string
	r    *bytes.Reader
	size int64
}

func (f *memFile) Read(p []byte) (int, error) { return f.r.Read(p) }
func (f *memFile) Close() error               { return nil }
func (f *memFile) Stat() (fs.FileInfo, error) { return memInfo{name: f.name, size: f.size}, nil }

type memInfo struct {
	name string
	size int64
}

func (i memInfo) Name() string       { return i.name }
func (i memInfo) Size() int64        { return i.size }
func (i memInfo) Mode() fs.FileMode  { return 0o444 }
func (i memInfo) ModTime() time.Time { return time.Time{} }
func (i memInfo) IsDir() bool        { return false }
func (i memInfo) Sys() any           { return nil }

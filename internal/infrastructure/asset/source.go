// Package asset resolves where assets come from and loads them on demand.
package asset

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"time"
)

// Kind selects the asset backend
type Kind int

const (
	// KindPackfile reads from a zip archive on disk
	KindPackfile Kind = iota
	// KindDaemon fetches from an asset daemon and local watch directories
	KindDaemon
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindPackfile:
		return "packfile"
	case KindDaemon:
		return "daemon"
	default:
		return "unknown"
	}
}

// DaemonOptions describe a daemon-backed source
type DaemonOptions struct {
	DBDir     string
	Address   string
	AssetDirs []string
	// External means the daemon is already running elsewhere
	External bool
}

// Source is the resolved asset origin, decided once at startup
type Source struct {
	Kind     Kind
	Packfile string
	Daemon   DaemonOptions
}

// PackfileSource returns a source reading from the zip at path
func PackfileSource(path string) Source {
	return Source{Kind: KindPackfile, Packfile: path}
}

// DaemonSource returns a source fetching from the daemon described by opts
func DaemonSource(opts DaemonOptions) Source {
	return Source{Kind: KindDaemon, Daemon: opts}
}

// Validate checks the source parameters
func (s Source) Validate() error {
	switch s.Kind {
	case KindPackfile:
		if s.Packfile == "" {
			return errors.New("packfile path is empty")
		}
	case KindDaemon:
		if _, _, err := net.SplitHostPort(s.Daemon.Address); err != nil {
			return fmt.Errorf("daemon address %q: %w", s.Daemon.Address, err)
		}
	default:
		return fmt.Errorf("unknown asset source kind %d", s.Kind)
	}
	return nil
}

// Open opens the source as a file system. The closer must be closed when
// the file system is no longer used.
func (s Source) Open() (fs.FS, io.Closer, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}

	switch s.Kind {
	case KindPackfile:
		rc, err := zip.OpenReader(s.Packfile)
		if err != nil {
			return nil, nil, fmt.Errorf("open packfile %s: %w", s.Packfile, err)
		}
		return rc, rc, nil
	default:
		dfs := NewDaemonFS("http://"+s.Daemon.Address, s.Daemon.AssetDirs, &http.Client{Timeout: 10 * time.Second})
		return dfs, nil, nil
	}
}

package config

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/younwookim/framehost/internal/infrastructure/asset"
)

const (
	DefaultDaemonAddress = "127.0.0.1:9999"
	DefaultDBDir         = ".assets_db"
	DefaultAssetDir      = "assets"
)

// Loader loads app configuration using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// Load reads name and overlays it on Defaults. The decoder is picked by
// file extension.
func (l *Loader) Load(name string) (*AppConfig, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", name, err)
	}

	cfg := Defaults()
	switch strings.ToLower(path.Ext(name)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("config %s: unsupported format", name)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", name, err)
	}
	return cfg, nil
}

// Defaults returns the configuration used when no file overrides a value
func Defaults() *AppConfig {
	return &AppConfig{
		Window: Window{
			Title:  "framehost",
			Width:  1280,
			Height: 720,
			TPS:    60,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
		Assets: Assets{
			Daemon: Daemon{
				Address:   DefaultDaemonAddress,
				DBDir:     DefaultDBDir,
				AssetDirs: []string{DefaultAssetDir},
			},
		},
		Render: Render{
			Preset:            "3d",
			MaxFramesInFlight: 2,
		},
		Scenes: Scenes{
			Initial:   "lights",
			ScriptDir: "scripts",
		},
		Host: "ebiten",
	}
}

// AssetSource resolves where assets are read from. A packfile wins over the
// daemon settings.
func (c *AppConfig) AssetSource() (asset.Source, error) {
	var src asset.Source
	if c.Assets.Packfile != "" {
		src = asset.PackfileSource(c.Assets.Packfile)
	} else {
		d := c.Assets.Daemon
		if d.Address == "" {
			d.Address = DefaultDaemonAddress
		}
		if d.DBDir == "" {
			d.DBDir = DefaultDBDir
		}
		if len(d.AssetDirs) == 0 {
			d.AssetDirs = []string{DefaultAssetDir}
		}
		src = asset.DaemonSource(asset.DaemonOptions{
			DBDir:     d.DBDir,
			Address:   d.Address,
			AssetDirs: d.AssetDirs,
			External:  c.Assets.ExternalDaemon,
		})
	}
	if err := src.Validate(); err != nil {
		return asset.Source{}, fmt.Errorf("asset source: %w", err)
	}
	return src, nil
}

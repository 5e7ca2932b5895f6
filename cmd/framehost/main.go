package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/younwookim/framehost/internal/application/app"
	"github.com/younwookim/framehost/internal/application/overlay"
	"github.com/younwookim/framehost/internal/application/replay"
	"github.com/younwookim/framehost/internal/application/scene"
	"github.com/younwookim/framehost/internal/application/scene/demo"
	"github.com/younwookim/framehost/internal/application/scene/script"
	"github.com/younwookim/framehost/internal/domain/render"
	"github.com/younwookim/framehost/internal/infrastructure/asset"
	"github.com/younwookim/framehost/internal/infrastructure/config"
	"github.com/younwookim/framehost/internal/infrastructure/host/ebitenhost"
	"github.com/younwookim/framehost/internal/infrastructure/host/termhost"
	"github.com/younwookim/framehost/internal/infrastructure/logging"
	"github.com/younwookim/framehost/internal/infrastructure/pipeline"
)

// scriptScenes are the Lua scenes shipped under the script directory
var scriptScenes = []string{"orbit"}

// stringList is a repeatable string flag
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type options struct {
	configPath string
	packfile   string
	daemonAddr string
	assetDirs  stringList
	host       string
	record     string
	replay     string
}

func parseFlags(args []string) (options, error) {
	var o options
	fset := flag.NewFlagSet("framehost", flag.ContinueOnError)
	fset.StringVar(&o.configPath, "config", "", "Config file (.toml or .yaml); embedded defaults when empty")
	fset.StringVar(&o.packfile, "packfile", "", "Read assets from this zip packfile")
	fset.StringVar(&o.daemonAddr, "daemon-addr", "", "Asset daemon address (host:port)")
	fset.Var(&o.assetDirs, "asset-dir", "Asset directory checked before the daemon (repeatable)")
	fset.StringVar(&o.host, "host", "", "Host: ebiten or terminal")
	fset.StringVar(&o.record, "record", "", "Record input to file (e.g., -record replay.json)")
	fset.StringVar(&o.replay, "replay", "", "Replay a recording headlessly")
	if err := fset.Parse(args); err != nil {
		return options{}, err
	}
	if o.record != "" && o.replay != "" {
		return options{}, fmt.Errorf("-record and -replay are mutually exclusive")
	}
	return o, nil
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		fsys, err := fs.Sub(configFS, "configs")
		if err != nil {
			return nil, fmt.Errorf("config subfs: %w", err)
		}
		return config.NewFSLoader(fsys, "configs").Load("app.toml")
	}
	return config.NewLoader(filepath.Dir(path)).Load(filepath.Base(path))
}

// applyFlags lets command line flags override the config file
func applyFlags(cfg *config.AppConfig, o options) {
	if o.packfile != "" {
		cfg.Assets.Packfile = o.packfile
	}
	if o.daemonAddr != "" {
		cfg.Assets.Daemon.Address = o.daemonAddr
	}
	if len(o.assetDirs) > 0 {
		cfg.Assets.Daemon.AssetDirs = o.assetDirs
	}
	if o.host != "" {
		cfg.Host = o.host
	}
}

func buildCatalog(cfg *config.AppConfig, log *zap.Logger) *scene.Catalog {
	c := scene.NewCatalog()
	demo.Register(c)
	script.Register(c, cfg.Scenes.ScriptDir, log.Named("script"), scriptScenes...)
	return c
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := loadConfig(o.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, o)

	log, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, o, log); err != nil {
		log.Error("exit", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, o options, log *zap.Logger) error {
	src, err := cfg.AssetSource()
	if err != nil {
		return err
	}
	if src.Kind == asset.KindDaemon && !src.Daemon.External {
		log.Info("expecting local asset daemon",
			zap.String("address", src.Daemon.Address),
			zap.String("db_dir", src.Daemon.DBDir),
			zap.Strings("asset_dirs", src.Daemon.AssetDirs),
		)
	}
	assets, err := asset.Open(src, log.Named("asset"))
	if err != nil {
		return err
	}

	catalog := buildCatalog(cfg, log)

	if o.replay != "" {
		data, err := replay.LoadReplay(o.replay)
		if err != nil {
			return multierr.Append(err, assets.Close())
		}
		frames, err := runReplay(data, cfg, catalog, assets, log)
		log.Info("replay finished", zap.Int("frames", frames))
		return err
	}

	initial, err := catalog.Create(cfg.Scenes.Initial)
	if err != nil {
		return multierr.Append(err, assets.Close())
	}

	renderer := pipeline.New(pipeline.Options{
		MaxFramesInFlight: cfg.Render.MaxFramesInFlight,
		Log:               log.Named("pipeline"),
	})

	var recorder *replay.Recorder
	if o.record != "" {
		recorder = replay.NewRecorder(cfg.Scenes.Initial, cfg.Window.Width, cfg.Window.Height)
	}

	deps := app.Deps{
		Renderer: renderer,
		Assets:   assets,
		Overlay:  overlay.NewDebug(),
		Log:      log,
		Options:  render.Preset(cfg.Render.Preset),
		Initial:  initial,
		Recorder: recorder,
	}

	switch cfg.Host {
	case "terminal":
		err = runTerminal(cfg, deps, renderer, log)
	case "ebiten", "":
		err = runEbiten(cfg, deps, renderer, log)
	default:
		err = fmt.Errorf("unknown host %q", cfg.Host)
		err = multierr.Combine(err, renderer.Close(), assets.Close())
	}

	if recorder != nil && recorder.FrameCount() > 0 {
		if serr := recorder.Save(o.record); serr != nil {
			err = multierr.Append(err, serr)
		} else {
			log.Info("replay saved", zap.String("file", o.record), zap.Int("frames", recorder.FrameCount()))
		}
	}
	return err
}

func runEbiten(cfg *config.AppConfig, deps app.Deps, frames *pipeline.Pipeline, log *zap.Logger) error {
	win := ebitenhost.NewWindow(cfg.Window.Width, cfg.Window.Height)
	deps.Window = win
	a, err := app.New(deps)
	if err != nil {
		return err
	}
	return ebitenhost.New(a, win, frames, log.Named("ebiten")).Run(cfg.Window)
}

func runTerminal(cfg *config.AppConfig, deps app.Deps, frames *pipeline.Pipeline, log *zap.Logger) error {
	screen, err := termhost.NewScreen()
	if err != nil {
		return multierr.Combine(err, frames.Close(), deps.Assets.Close())
	}
	deps.Window = termhost.NewWindow(screen)
	a, err := app.New(deps)
	if err != nil {
		screen.Fini()
		return err
	}
	return termhost.New(screen, a, frames, log.Named("terminal")).Run(cfg.Window.TPS)
}

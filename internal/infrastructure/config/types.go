package config

// AppConfig is the root of app.toml / app.yaml
type AppConfig struct {
	Window  Window  `toml:"window" yaml:"window"`
	Logging Logging `toml:"logging" yaml:"logging"`
	Assets  Assets  `toml:"assets" yaml:"assets"`
	Render  Render  `toml:"render" yaml:"render"`
	Scenes  Scenes  `toml:"scenes" yaml:"scenes"`
	Host    string  `toml:"host" yaml:"host"` // "ebiten" or "terminal"
}

type Window struct {
	Title  string `toml:"title" yaml:"title"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	TPS    int    `toml:"tps" yaml:"tps"`
}

type Logging struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

type Assets struct {
	Packfile       string `toml:"packfile" yaml:"packfile"`
	ExternalDaemon bool   `toml:"external_daemon" yaml:"external_daemon"`
	Daemon         Daemon `toml:"daemon" yaml:"daemon"`
}

type Daemon struct {
	Address   string   `toml:"address" yaml:"address"`
	DBDir     string   `toml:"db_dir" yaml:"db_dir"`
	AssetDirs []string `toml:"asset_dirs" yaml:"asset_dirs"`
}

type Render struct {
	Preset            string `toml:"preset" yaml:"preset"` // "2d" or "3d"
	MaxFramesInFlight int    `toml:"max_frames_in_flight" yaml:"max_frames_in_flight"`
}

type Scenes struct {
	Initial   string `toml:"initial" yaml:"initial"`
	ScriptDir string `toml:"script_dir" yaml:"script_dir"`
}

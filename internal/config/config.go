// Package config loads the kiosk configuration: built-in defaults, then an
// optional TOML file, then environment overrides. Command-line flags are
// applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/rook-computer/sketchpad/internal/sketch"
)

const (
	EnvConfigPath = "SKETCHPAD_CONFIG"
	EnvListenAddr = "SKETCHPAD_LISTEN"
	EnvDevMode    = "SKETCHPAD_DEV"
	EnvStdioLog   = "SKETCHPAD_STDIO_LOG"

	// DefaultPath is read when it exists and no other path is given.
	DefaultPath = "/etc/sketchpad/sketchpad.toml"
)

type Config struct {
	Server    Server    `toml:"server"`
	Pad       Pad       `toml:"pad"`
	Display   Display   `toml:"display"`
	Input     Input     `toml:"input"`
	Discovery Discovery `toml:"discovery"`

	// StdioLog is only settable from the environment or flags.
	StdioLog string `toml:"-"`
}

type Server struct {
	Listen    string `toml:"listen"`
	Dev       bool   `toml:"dev"`
	StaticDir string `toml:"static_dir"`
}

// Pad is the initial surface and drawing options. Browsers resize the
// surface once they connect.
type Pad struct {
	Width  float64     `toml:"width"`
	Height float64     `toml:"height"`
	Ratio  float64     `toml:"ratio"`
	Tool   sketch.Tool `toml:"tool"`
	Color  string      `toml:"color"`
	Size   float64     `toml:"size"`
}

func (p Pad) Options() sketch.Options {
	return sketch.Options{Tool: p.Tool, Color: sketch.NormalizeColor(p.Color), Size: p.Size}
}

type Display struct {
	Enabled bool   `toml:"enabled"`
	Device  string `toml:"device"`
	HUD     bool   `toml:"hud"`
}

type Input struct {
	Enabled bool     `toml:"enabled"`
	Devices []string `toml:"devices"`
}

type Discovery struct {
	Enabled  bool   `toml:"enabled"`
	Instance string `toml:"instance"`
}

func Default() Config {
	opts := sketch.DefaultOptions()
	return Config{
		Server:    Server{Listen: ":80"},
		Pad:       Pad{Width: 1280, Height: 720, Ratio: 1, Tool: opts.Tool, Color: opts.Color, Size: opts.Size},
		Display:   Display{Enabled: true, Device: "/dev/fb0", HUD: true},
		Input:     Input{Enabled: true},
		Discovery: Discovery{Enabled: true},
	}
}

// Load reads path over the defaults. An empty path falls back to
// SKETCHPAD_CONFIG and then DefaultPath; only an explicitly named file must
// exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = os.Getenv(EnvConfigPath)
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg.applyEnv()
		}
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg.applyEnv()
}

// Decode parses TOML text over the defaults without touching the environment.
func Decode(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, err
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func checkUndecoded(md toml.MetaData) error {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return nil
}

func (cfg Config) applyEnv() (Config, error) {
	if v := os.Getenv(EnvListenAddr); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv(EnvDevMode); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, v, err)
		}
		cfg.Server.Dev = dev
	}
	if v := os.Getenv(EnvStdioLog); v != "" {
		cfg.StdioLog = v
	}
	return cfg, cfg.Validate()
}

func (cfg Config) Validate() error {
	if cfg.Server.Listen == "" {
		return errors.New("server.listen must not be empty")
	}
	if err := sketch.ValidateSize(cfg.Pad.Width, cfg.Pad.Height, cfg.Pad.Ratio); err != nil {
		return fmt.Errorf("pad: %w", err)
	}
	if err := cfg.Pad.Options().Validate(); err != nil {
		return fmt.Errorf("pad: %w", err)
	}
	return nil
}

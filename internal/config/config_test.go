package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rook-computer/sketchpad/internal/sketch"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestDecode(t *testing.T) {
	cfg, err := Decode(`
[server]
listen = ":8080"
dev = true

[pad]
width = 800
height = 600
ratio = 2
tool = "brush"
color = "FF7AB6"
size = 14

[display]
enabled = false

[input]
devices = ["/dev/input/event3"]

[discovery]
instance = "studio"
`)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Listen != ":8080" || !cfg.Server.Dev {
		t.Errorf("server = %+v", cfg.Server)
	}
	want := sketch.Options{Tool: sketch.ToolBrush, Color: "#ff7ab6", Size: 14}
	if got := cfg.Pad.Options(); got != want {
		t.Errorf("options = %+v, want %+v", got, want)
	}
	if cfg.Display.Enabled || !cfg.Display.HUD {
		t.Errorf("display = %+v, want disabled with default hud", cfg.Display)
	}
	if len(cfg.Input.Devices) != 1 || !cfg.Input.Enabled {
		t.Errorf("input = %+v", cfg.Input)
	}
	if cfg.Discovery.Instance != "studio" || !cfg.Discovery.Enabled {
		t.Errorf("discovery = %+v", cfg.Discovery)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want error
	}{
		{"unknown tool", "[pad]\ntool = \"marker\"", nil},
		{"bad color", "[pad]\ncolor = \"red\"", sketch.ErrInvalidColor},
		{"zero size", "[pad]\nsize = 0", sketch.ErrInvalidSize},
		{"tiny surface", "[pad]\nwidth = 0.5\nratio = 1", sketch.ErrInvalidSurface},
		{"oversized surface", "[pad]\nwidth = 4096\nratio = 3", sketch.ErrInvalidSurface},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.toml)
			if tt.want == nil {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Decode("[pad]\nopacity = 1"); err == nil {
		t.Fatal("unknown key should be rejected")
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sketchpad.toml")
	if err := os.WriteFile(path, []byte("[server]\nlisten = \":7000\"\ndev = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvDevMode, "true")
	t.Setenv(EnvStdioLog, "/tmp/sketchpad.log")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Listen != ":7000" {
		t.Errorf("listen = %q, want file value", cfg.Server.Listen)
	}
	if !cfg.Server.Dev {
		t.Error("env should override the file")
	}
	if cfg.StdioLog != "/tmp/sketchpad.log" {
		t.Errorf("stdio log = %q", cfg.StdioLog)
	}

	t.Setenv(EnvListenAddr, ":9000")
	cfg, err = Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Listen != ":9000" {
		t.Errorf("listen = %q, want env value", cfg.Server.Listen)
	}
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	if _, err := Load(missing); err == nil {
		t.Fatal("an explicit path must exist")
	}

	t.Setenv(EnvConfigPath, missing)
	if _, err := Load(""); err == nil {
		t.Fatal("a path from the environment must exist")
	}
}

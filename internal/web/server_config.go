package web

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvListenAddr = "SKETCHPAD_LISTEN"
	EnvDevMode    = "SKETCHPAD_DEV"
)

// ServerConfig contains settings for running the HTTP server.
//
// The intended defaults differ per binary:
// - kiosk:     :80
// - simulator: :8080
type ServerConfig struct {
	ListenAddr string
	DevMode    bool
	StaticDir  string
}

// ApplyEnv overrides cfg with SKETCHPAD_LISTEN and SKETCHPAD_DEV when set.
func (cfg ServerConfig) ApplyEnv() (ServerConfig, error) {
	if listenAddr := os.Getenv(EnvListenAddr); listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}
	if raw := os.Getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		cfg.DevMode = parsed
	}
	return cfg, nil
}

func DefaultServerConfigFromEnv(defaultListenAddr string) (ServerConfig, error) {
	return ServerConfig{ListenAddr: defaultListenAddr}.ApplyEnv()
}

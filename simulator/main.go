package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/sketchpad/internal/app"
	"github.com/rook-computer/sketchpad/internal/sketch"
	"github.com/rook-computer/sketchpad/internal/state"
	"github.com/rook-computer/sketchpad/internal/web"
)

func main() {
	defaults, err := web.DefaultServerConfigFromEnv(":8080")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode; also configurable via "+web.EnvDevMode)
	staticDir := flag.String("static-dir", "", "serve static UI from this directory (optional); when empty, embedded web UI assets are served")
	width := flag.Float64("width", 1280, "initial pad width in CSS pixels")
	height := flag.Float64("height", 720, "initial pad height in CSS pixels")
	ratio := flag.Float64("ratio", 1, "initial device pixel ratio")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	logger := app.NewCharmLogger(os.Stderr, *debug)

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := SimSurface{Width: *width, Height: *height, Ratio: *ratio}
	control, err := NewSimControl(start, sketch.DefaultOptions(), state.NewStore())
	if err != nil {
		fmt.Println("pad init error:", err)
		os.Exit(2)
	}

	cfg := web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode, StaticDir: *staticDir}
	deps := control.Deps(logger)
	server := web.NewHTTPServer(cfg, deps)
	server.Handler = newSimHandler(cfg, deps, control)

	if err := server.Start(processCtx); err != nil {
		fmt.Println("server start error:", err)
		os.Exit(1)
	}

	fmt.Println("Sketchpad simulator listening on", server.Addr())
	fmt.Printf("Surface: %vx%v @%vx\n", start.Width, start.Height, start.Ratio)
	fmt.Println("API: http://" + displayAddr(server.Addr()) + "/api/v1/")
	fmt.Println("Kiosk frame: http://" + displayAddr(server.Addr()) + "/sim/frame.png")

	<-processCtx.Done()
	_ = server.Stop()
}

func displayAddr(addr string) string {
	// Best-effort for display; don't attempt full URL parsing here.
	if len(addr) > 0 && addr[0] == ':' {
		return "127.0.0.1" + addr
	}
	if addr == "" {
		return "127.0.0.1:8080"
	}
	return addr
}

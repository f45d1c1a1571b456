package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/gg"
	"github.com/spf13/cobra"

	"github.com/rook-computer/sketchpad/internal/app"
	"github.com/rook-computer/sketchpad/internal/config"
	"github.com/rook-computer/sketchpad/internal/render"
	"github.com/rook-computer/sketchpad/internal/sketch"
	"github.com/rook-computer/sketchpad/internal/state"
	"github.com/rook-computer/sketchpad/internal/web"
)

var (
	version = "dev"
	commit  string
	date    string
)

const debugLogPath = "./sketchpad-debug.log"

type kioskFlags struct {
	configPath string
	debug      bool
	stdioLog   string
	noHUD      bool
	listen     string
	dev        bool
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags kioskFlags

	root := &cobra.Command{
		Use:          "sketchpad",
		Short:        "Sketchpad runs a shared drawing surface on the kiosk display",
		Long:         `Sketchpad serves a freehand drawing pad to browsers on the local network, mirrors it on the framebuffer and accepts input from an attached touchscreen.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := newLogger(cmd.ErrOrStderr(), flags.debug)
			cmd.SetContext(app.WithLogger(cmd.Context(), logger))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKiosk(cmd, flags)
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("sketchpad %s\ncommit: %s\nbuilt: %s\n", version, commit, date))

	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "log at debug level and tee logs to "+debugLogPath)
	root.Flags().StringVar(&flags.configPath, "config", "", "TOML config file; also configurable via "+config.EnvConfigPath)
	root.Flags().StringVar(&flags.stdioLog, "stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via "+config.EnvStdioLog)
	root.Flags().BoolVar(&flags.noHUD, "no-hud", false, "show only the sketch on the display")
	root.Flags().StringVar(&flags.listen, "listen", "", "http listen address; overrides the config file and "+config.EnvListenAddr)
	root.Flags().BoolVar(&flags.dev, "dev", false, "enable dev mode (permissive CORS)")

	root.AddCommand(newReplayCmd())
	root.AddCommand(newDiscoverCmd())
	return root
}

// newLogger logs to w and, in debug mode, also to debugLogPath.
func newLogger(w io.Writer, debug bool) app.CharmLogger {
	if debug {
		f, err := os.OpenFile(debugLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			w = io.MultiWriter(w, f)
		} else {
			fmt.Fprintln(w, "debug log open error:", err)
		}
	}
	logger := app.NewCharmLogger(w, debug)
	if debug {
		gg.SetLogger(logger.Slog())
	}
	return logger
}

func runKiosk(cmd *cobra.Command, flags kioskFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("listen") {
		cfg.Server.Listen = flags.listen
	}
	if cmd.Flags().Changed("dev") {
		cfg.Server.Dev = flags.dev
	}
	if flags.noHUD {
		cfg.Display.HUD = false
	}
	if flags.stdioLog != "" {
		cfg.StdioLog = flags.stdioLog
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Best-effort: send stdout/stderr (including panic stack traces) to a file
	// so crashes are diagnosable even when the console is left in graphics mode.
	if cfg.StdioLog != "" {
		if err := redirectStdIO(cfg.StdioLog); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "stdio log redirect error:", err)
		}
	}

	logger := app.LoggerFrom(cmd.Context())
	logger.Infof("main", "sketchpad %s starting", version)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pad, err := sketch.NewPad(cfg.Pad.Width, cfg.Pad.Height, cfg.Pad.Ratio, cfg.Pad.Options(), nil)
	if err != nil {
		return fmt.Errorf("pad: %w", err)
	}
	store := state.NewStore()

	server := web.NewHTTPServer(
		web.ServerConfig{ListenAddr: cfg.Server.Listen, DevMode: cfg.Server.Dev, StaticDir: cfg.Server.StaticDir},
		web.APIV1Deps{Pad: pad, Clients: store, Logger: logger},
	)

	a := app.New(cfg, store, pad, render.NewFBRenderer(cfg.Display.Device), server)
	a.Logger = logger
	a.Debug = flags.debug

	err = a.Start(ctx)
	if err == nil || ctx.Err() != nil {
		logger.Infof("main", "shutting down")
		return nil
	}
	return err
}

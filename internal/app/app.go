package app

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"

	"github.com/rook-computer/sketchpad/internal/app/screens"
	"github.com/rook-computer/sketchpad/internal/config"
	"github.com/rook-computer/sketchpad/internal/discovery"
	"github.com/rook-computer/sketchpad/internal/render"
	"github.com/rook-computer/sketchpad/internal/sketch"
	"github.com/rook-computer/sketchpad/internal/state"
	"github.com/rook-computer/sketchpad/internal/system"
	"github.com/rook-computer/sketchpad/internal/web"
)

type App struct {
	Store  *state.Store
	Pad    *sketch.Pad
	Render render.Renderer
	Web    web.Server
	Config config.Config
	Logger Logger
	Debug  bool

	currentScreen render.Screen

	exitOnce atomic.Bool
	exitCh   chan error
}

func New(cfg config.Config, store *state.Store, pad *sketch.Pad, renderer render.Renderer, webServer web.Server) *App {
	return &App{
		Store:  store,
		Pad:    pad,
		Render: renderer,
		Web:    webServer,
		Config: cfg,
		Logger: NoopLogger{},
		exitCh: make(chan error, 1),
	}
}

// Exit requests the app to stop running.
// Any subsystem can call this to terminate the process via the generic codepath.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Start runs the kiosk until ctx is done, F4 is pressed or Exit is called.
func (app *App) Start(ctx context.Context) error {
	if app.Store == nil || app.Pad == nil {
		return errors.New("app: store and pad are required")
	}
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	app.exitOnce.Store(false)
	app.Store.SetPhase(state.BOOTING)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	restoreConsole := app.startRenderer(ctx)
	defer restoreConsole()
	defer app.Render.Stop()
	if err := app.setScreen(ctx, screens.StatusScreen{}); err != nil {
		return err
	}
	// Force immediate first redraw so the boot message shows without waiting for the loop.
	app.Render.RedrawWithState(app.Store.Snapshot())

	if app.Web != nil {
		if err := app.Web.Start(ctx); err != nil {
			app.Store.SetPhase(state.ERROR)
			app.Store.SetMessage(err.Error())
			app.Logger.Errorf("app", "web start error: %v", err)
			return err
		}
		defer app.Web.Stop()
	}

	advertiser := app.announce()
	defer func() {
		if err := advertiser.Shutdown(); err != nil {
			app.Logger.Errorf("discovery", "mDNS shutdown: %v", err)
		}
	}()

	padScreen := screens.NewPadScreen(app.Pad, app.Config.Display.HUD)
	if app.Config.Input.Enabled {
		app.startTouch(ctx, padScreen)
	}
	system.StartExitOnF4(ctx, app.Logger, func() { app.Exit(nil) })

	app.Store.SetPhase(state.READY)
	if err := app.setScreen(ctx, padScreen); err != nil {
		return err
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.Render.RunLoop(ctx, app.Store, app.Pad)
	}()

	// Wait for completion, then exit.
	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-app.exitCh:
	}
	cancel()
	wg.Wait()
	if app.currentScreen != nil {
		_ = app.currentScreen.Stop()
	}
	return err
}

// startRenderer falls back to a headless NoopRenderer when the framebuffer
// cannot be opened; browsers can still draw. The returned func restores the
// console.
func (app *App) startRenderer(ctx context.Context) (restore func()) {
	if app.Render == nil || !app.Config.Display.Enabled {
		app.Render = &render.NoopRenderer{}
	}
	fb, isFB := app.Render.(*render.FBRenderer)
	if isFB {
		fb.Logger = app.Logger
		fb.Debug = app.Debug
	}
	if err := app.Render.Start(ctx); err != nil {
		app.Logger.Errorf("app", "renderer start error, running headless: %v", err)
		app.Render = &render.NoopRenderer{}
		return func() {}
	}
	if !isFB {
		return func() {}
	}
	// Switch console to KD_GRAPHICS to suppress the hardware cursor.
	return system.EnterGraphics(app.Logger)
}

// announce publishes the pad URL to the store and, when enabled, on mDNS.
// The bound address wins over the configured one so ":0" works.
func (app *App) announce() *discovery.Advertiser {
	listen := app.Config.Server.Listen
	if app.Web != nil {
		if bound := app.Web.Addr(); bound != "" {
			listen = bound
		}
	}
	port, err := discovery.ListenPort(listen)
	if err != nil {
		app.Logger.Errorf("discovery", "%v", err)
		return nil
	}
	ip, err := discovery.OutgoingIP()
	if err != nil {
		app.Logger.Errorf("discovery", "no LAN address: %v", err)
		ip = "127.0.0.1"
	}
	url := discovery.PadURL(ip, port)
	app.Store.UpdateNetwork(state.NetworkInfo{IP: ip, URL: url, URLQR: url})
	app.Logger.Infof("discovery", "pad at %s", url)

	if !app.Config.Discovery.Enabled {
		return nil
	}
	adv, err := discovery.Advertise(app.Config.Discovery.Instance, port, []string{"path=/", "api=/api/v1"})
	if err != nil {
		app.Logger.Errorf("discovery", "mDNS advertise failed: %v", err)
		return nil
	}
	app.Logger.Infof("discovery", "advertising %s on port %d", discovery.ServiceType, port)
	return adv
}

func (app *App) startTouch(ctx context.Context, screen *screens.PadScreen) {
	dispatch := func(ev sketch.Event) {
		if err := app.Pad.Dispatch(system.TouchSource, ev); err != nil {
			app.Logger.Errorf("input", "touch %s: %v", ev.Kind, err)
		}
	}
	n, err := system.StartTouchInput(ctx, app.Config.Input.Devices, app.touchMapper(screen), app.Logger, dispatch)
	if err != nil {
		app.Logger.Errorf("input", "touch input: %v", err)
		return
	}
	if n > 0 {
		app.Logger.Infof("input", "%d touchscreen(s) attached", n)
	}
}

// touchMapper places touchscreen positions on the sketch as the kiosk shows
// it. The touchscreen covers the framebuffer, which shows the whole canvas.
func (app *App) touchMapper(screen *screens.PadScreen) system.ScreenMapper {
	canvas := image.Rect(0, 0, render.CanvasWidth, render.CanvasHeight)
	return func(fx, fy float64) (float64, float64, bool) {
		info := app.Pad.Info()
		shown := screen.Shown()
		if shown.Empty() {
			// Nothing on the display yet (or headless): the screen is the pad.
			shown = canvas
		}
		p, inside := screens.CanvasToPad(fx*float64(canvas.Dx()), fy*float64(canvas.Dy()), shown, info.Width, info.Height)
		return p.X, p.Y, inside
	}
}

func (app *App) setScreen(ctx context.Context, screen render.Screen) error {
	if app.currentScreen != nil {
		_ = app.currentScreen.Stop()
	}
	app.currentScreen = screen
	app.Render.SetScreen(screen)
	return screen.Start(ctx)
}

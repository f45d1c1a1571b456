package app

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rook-computer/sketchpad/internal/app/screens"
	"github.com/rook-computer/sketchpad/internal/config"
	"github.com/rook-computer/sketchpad/internal/render"
	"github.com/rook-computer/sketchpad/internal/sketch"
	"github.com/rook-computer/sketchpad/internal/state"
	"github.com/rook-computer/sketchpad/internal/system"
	"github.com/rook-computer/sketchpad/internal/web"
)

func headlessApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Listen = ":8080"
	cfg.Display.Enabled = false
	cfg.Input.Enabled = false
	cfg.Discovery.Enabled = false

	pad, err := sketch.NewPad(320, 240, 1, sketch.DefaultOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return New(cfg, state.NewStore(), pad, nil, &web.NoopServer{})
}

func waitForPhase(t *testing.T, store *state.Store, phase state.Phase) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for store.Snapshot().Phase != phase {
		if time.Now().After(deadline) {
			t.Fatalf("phase = %s, want %s", store.Snapshot().Phase, phase)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestAppExit(t *testing.T) {
	a := headlessApp(t)
	done := make(chan error, 1)
	go func() { done <- a.Start(context.Background()) }()

	waitForPhase(t, a.Store, state.READY)
	if url := a.Store.Snapshot().Network.URL; url == "" {
		t.Error("network URL not published")
	}

	a.Exit(nil)
	a.Exit(errors.New("second exit is ignored"))
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Exit")
	}
}

func TestAppStopsOnContext(t *testing.T) {
	a := headlessApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Start(ctx) }()

	waitForPhase(t, a.Store, state.READY)
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Start = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestAppRequiresPad(t *testing.T) {
	a := New(config.Default(), state.NewStore(), nil, nil, nil)
	if err := a.Start(context.Background()); err == nil {
		t.Fatal("expected error without pad")
	}
}

func TestTouchMapperFollowsDisplayedSketch(t *testing.T) {
	a := headlessApp(t)
	if err := a.Pad.Resize(1280, 720, 1); err != nil {
		t.Fatal(err)
	}
	screen := screens.NewPadScreen(a.Pad, true)
	mapTouch := a.touchMapper(screen)

	// Before the first frame the whole screen stands for the pad.
	if x, y, inside := mapTouch(0.5, 0.5); !inside || x != 640 || y != 360 {
		t.Fatalf("undrawn mapping = (%v,%v,%v), want pad centre", x, y, inside)
	}

	canvas, err := render.NewCanvas(render.CanvasWidth, render.CanvasHeight)
	if err != nil {
		t.Fatal(err)
	}
	screen.Draw(canvas, a.Store.Snapshot())
	shown := screen.Shown()

	fx := float64(shown.Min.X) / float64(render.CanvasWidth)
	fy := float64(shown.Min.Y) / float64(render.CanvasHeight)
	x, y, inside := mapTouch(fx, fy)
	if !inside || math.Abs(x) > 1e-9 || math.Abs(y) > 1e-9 {
		t.Fatalf("tap on sketch origin maps to (%v,%v,%v), want (0,0)", x, y, inside)
	}

	// A tap on the QR side panel is off the sketch.
	if _, _, inside := mapTouch(0.95, 0.2); inside {
		t.Fatal("side panel tap reported inside the sketch")
	}

	// A tap in the middle of the shown sketch draws at the pad's centre.
	cx := float64(shown.Min.X+shown.Max.X) / 2 / float64(render.CanvasWidth)
	cy := float64(shown.Min.Y+shown.Max.Y) / 2 / float64(render.CanvasHeight)
	x, y, _ = mapTouch(cx, cy)
	ev := sketch.Event{Kind: sketch.TouchStart, Touches: []sketch.Touch{{ClientX: x, ClientY: y}}}
	if err := a.Pad.Dispatch(system.TouchSource, ev); err != nil {
		t.Fatal(err)
	}
	img, _ := a.Pad.Snapshot()
	if px := img.RGBAAt(640, 360); px.R > 10 {
		t.Fatalf("pad centre = %v, want the dot", px)
	}
}

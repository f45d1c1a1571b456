package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/rook-computer/sketchpad/internal/app/screens"
	"github.com/rook-computer/sketchpad/internal/render"
	"github.com/rook-computer/sketchpad/internal/sketch"
	"github.com/rook-computer/sketchpad/internal/state"
	"github.com/rook-computer/sketchpad/internal/web"
)

// maxScriptBytes bounds uploaded replay scripts.
const maxScriptBytes = 4 << 20

// SimSurface is the surface the simulator starts with and returns to on reset.
type SimSurface struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Ratio  float64 `json:"ratio"`
}

// SimControl owns the simulated pad and renders the kiosk frame on demand.
type SimControl struct {
	pad     *sketch.Pad
	store   *state.Store
	start   SimSurface
	options sketch.Options

	mu     sync.Mutex
	canvas *render.Canvas
	screen *screens.PadScreen
}

func NewSimControl(start SimSurface, opts sketch.Options, store *state.Store) (*SimControl, error) {
	pad, err := sketch.NewPad(start.Width, start.Height, start.Ratio, opts, nil)
	if err != nil {
		return nil, err
	}
	if store == nil {
		store = state.NewStore()
	}
	canvas, err := render.NewCanvas(render.CanvasWidth, render.CanvasHeight)
	if err != nil {
		return nil, err
	}
	store.SetPhase(state.READY)
	return &SimControl{
		pad:     pad,
		store:   store,
		start:   start,
		options: opts,
		canvas:  canvas,
		screen:  screens.NewPadScreen(pad, true),
	}, nil
}

func (c *SimControl) Pad() *sketch.Pad { return c.pad }

func (c *SimControl) Deps(logger web.Logger) web.APIV1Deps {
	return web.APIV1Deps{Pad: c.pad, Clients: c.store, Logger: logger}
}

// Reset restores the startup surface and options on blank paper.
func (c *SimControl) Reset() error {
	if err := c.pad.Resize(c.start.Width, c.start.Height, c.start.Ratio); err != nil {
		return err
	}
	if err := c.pad.Clear(true); err != nil {
		return err
	}
	return c.pad.SetOptions(c.options)
}

// Replay runs a script on a fresh pad and returns the resulting PNG. The live
// pad is left alone.
func (c *SimControl) Replay(sc *sketch.Script) ([]byte, error) {
	pad, err := sc.NewPad(c.options)
	if err != nil {
		return nil, err
	}
	if err := sc.Replay(pad); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pad.ExportPNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Frame draws what the kiosk display would show right now.
func (c *SimControl) Frame() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen.Draw(c.canvas, c.store.Snapshot())
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.canvas.Image()); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

func simRouter(control *SimControl) http.Handler {
	r := chi.NewRouter()
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Post("/reset", func(w http.ResponseWriter, r *http.Request) {
		if err := control.Reset(); err != nil {
			writeSimError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "pad": control.pad.Info()})
	})

	r.Post("/script", func(w http.ResponseWriter, r *http.Request) {
		sc, err := sketch.ReadScript(http.MaxBytesReader(w, r.Body, maxScriptBytes))
		if err != nil {
			writeSimError(w, http.StatusBadRequest, err.Error())
			return
		}
		data, err := control.Replay(sc)
		if err != nil {
			writeSimError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writePNG(w, data)
	})

	r.Get("/frame.png", func(w http.ResponseWriter, r *http.Request) {
		data, err := control.Frame()
		if err != nil {
			writeSimError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writePNG(w, data)
	})

	r.Get("/state", func(w http.ResponseWriter, r *http.Request) {
		writeSimJSON(w, http.StatusOK, map[string]any{
			"start": control.start,
			"pad":   control.pad.Info(),
			"kiosk": control.store.Snapshot(),
		})
	})
	return r
}

// newSimHandler serves the regular pad router with the simulator controls
// under /sim.
func newSimHandler(cfg web.ServerConfig, deps web.APIV1Deps, control *SimControl) http.Handler {
	r := chi.NewRouter()
	r.Mount("/sim", simRouter(control))
	r.Mount("/", web.NewRouter(cfg, deps))
	return r
}

func writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]any{"error": message})
}

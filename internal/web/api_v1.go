package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rook-computer/sketchpad/internal/sketch"
)

// maxBodyBytes bounds JSON request bodies; an event batch is a few KiB.
const maxBodyBytes = 1 << 20

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type eventsResponse struct {
	Revision uint64 `json:"revision"`
	Applied  int    `json:"applied"`
	State    string `json:"state"`
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Ratio  float64 `json:"ratio"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
}

type clearRequest struct {
	Confirm bool `json:"confirm"`
}

type paletteResponse struct {
	Colors  []string `json:"colors"`
	MaxSize float64  `json:"maxSize"`
	Tools   []string `json:"tools"`
}

func apiV1Router(deps APIV1Deps) http.Handler {
	deps = deps.withDefaults()
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusNotFound, "not_found", "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/pad", func(w http.ResponseWriter, r *http.Request) { handlePad(w, r, deps) })
	r.Get("/palette", handlePalette)
	r.Get("/options", func(w http.ResponseWriter, r *http.Request) { handleGetOptions(w, r, deps) })
	r.Put("/options", func(w http.ResponseWriter, r *http.Request) { handlePutOptions(w, r, deps) })
	r.Post("/events", func(w http.ResponseWriter, r *http.Request) { handleEvents(w, r, deps) })
	r.Post("/resize", func(w http.ResponseWriter, r *http.Request) { handleResize(w, r, deps) })
	r.Post("/clear", func(w http.ResponseWriter, r *http.Request) { handleClear(w, r, deps) })
	r.Get("/export", func(w http.ResponseWriter, r *http.Request) { handleExport(w, r, deps) })
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) { handleWebSocket(w, r, deps) })
	return r
}

func handlePad(w http.ResponseWriter, _ *http.Request, deps APIV1Deps) {
	writeJSON(w, http.StatusOK, deps.Pad.Info())
}

func handlePalette(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, paletteResponse{
		Colors:  sketch.Palette,
		MaxSize: sketch.MaxSize,
		Tools:   []string{sketch.ToolPen.String(), sketch.ToolBrush.String()},
	})
}

func handleGetOptions(w http.ResponseWriter, _ *http.Request, deps APIV1Deps) {
	writeJSON(w, http.StatusOK, deps.Pad.Options())
}

func handlePutOptions(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	var patch sketch.OptionsPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		if isOptionsError(err) {
			writeAPIError(w, http.StatusBadRequest, "invalid_options", err.Error())
			return
		}
		writeAPIError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	opts, err := deps.Pad.Update(patch)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_options", err.Error())
		return
	}
	deps.Logger.Infof("web", "options: tool=%s color=%s size=%v", opts.Tool, opts.Color, opts.Size)
	writeJSON(w, http.StatusOK, opts)
}

func handleEvents(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	var events []sketch.Event
	if err := decodeJSON(w, r, &events); err != nil {
		if errors.Is(err, sketch.ErrInvalidEvent) {
			writeAPIError(w, http.StatusBadRequest, "invalid_event", err.Error())
			return
		}
		writeAPIError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	source := r.URL.Query().Get("source")
	applied, err := deps.Pad.DispatchAll(source, events)
	if err != nil {
		status, code := eventErrorStatus(err)
		writeAPIError(w, status, code, fmt.Sprintf("event %d: %v", applied, err))
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{
		Revision: deps.Pad.Revision(),
		Applied:  applied,
		State:    deps.Pad.SessionState(source).String(),
	})
}

func handleResize(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	var req resizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := deps.Pad.Resize(req.Width, req.Height, req.Ratio); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_surface", err.Error())
		return
	}
	deps.Pad.SetBox(r.URL.Query().Get("source"), req.Left, req.Top)
	writeJSON(w, http.StatusOK, deps.Pad.Info())
}

func handleClear(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	var req clearRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := deps.Pad.Clear(req.Confirm); err != nil {
		if errors.Is(err, sketch.ErrClearDeclined) {
			writeAPIError(w, http.StatusConflict, "clear_declined", "clear was not confirmed")
			return
		}
		writeAPIError(w, http.StatusInternalServerError, "clear_failed", err.Error())
		return
	}
	deps.Logger.Infof("web", "pad cleared")
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func handleExport(w http.ResponseWriter, _ *http.Request, deps APIV1Deps) {
	var buf bytes.Buffer
	if err := deps.Pad.ExportPNG(&buf); err != nil {
		deps.Logger.Errorf("web", "export: %v", err)
		writeAPIError(w, http.StatusInternalServerError, "export_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": sketch.ExportFilename}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func eventErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, sketch.ErrInvalidSurface):
		return http.StatusBadRequest, "invalid_surface"
	case errors.Is(err, sketch.ErrInvalidEvent):
		return http.StatusBadRequest, "invalid_event"
	case isOptionsError(err):
		return http.StatusBadRequest, "invalid_options"
	default:
		return http.StatusInternalServerError, "dispatch_failed"
	}
}

func isOptionsError(err error) bool {
	return errors.Is(err, sketch.ErrInvalidTool) ||
		errors.Is(err, sketch.ErrInvalidColor) ||
		errors.Is(err, sketch.ErrInvalidSize)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}

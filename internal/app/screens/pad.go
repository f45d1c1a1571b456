package screens

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"sync"

	"github.com/rook-computer/sketchpad/internal/render"
	"github.com/rook-computer/sketchpad/internal/render/layout"
	"github.com/rook-computer/sketchpad/internal/sketch"
	"github.com/rook-computer/sketchpad/internal/state"
)

const (
	padMargin   = 32
	hudHeight   = 72
	sideWidth   = 360
	gap         = 24
	swatchSize  = 40
	hudTextSize = 32
	urlTextSize = 22
)

// PadSource is the part of a sketch pad the kiosk screen reads.
type PadSource interface {
	Snapshot() (*image.RGBA, uint64)
	Options() sketch.Options
}

// PadScreen shows the live sketch. With ShowHUD it adds a tool line along
// the bottom and a side panel with the pad URL as a QR code.
type PadScreen struct {
	Pad     PadSource
	ShowHUD bool

	qr render.QRCache

	mu    sync.Mutex
	shown image.Rectangle
}

func NewPadScreen(pad PadSource, showHUD bool) *PadScreen {
	return &PadScreen{Pad: pad, ShowHUD: showHUD}
}

func (s *PadScreen) Start(ctx context.Context) error {
	if s.Pad == nil {
		return fmt.Errorf("pad screen: no pad")
	}
	return nil
}

func (s *PadScreen) Stop() error { return nil }

func (s *PadScreen) Draw(r render.Drawer, st state.State) {
	r.FillBackground()
	w, h := r.Size()
	area := layout.Inset(image.Rect(0, 0, w, h), padMargin)

	if !s.ShowHUD {
		s.drawSketch(r, area)
		return
	}

	body, hud := layout.CutBottom(area, hudHeight, gap)
	sketchArea, side := layout.CutRight(body, sideWidth, gap)
	s.drawSketch(r, sketchArea)
	s.drawHUD(r, hud)
	s.drawSide(r, side, st)
}

func (s *PadScreen) drawSketch(r render.Drawer, area image.Rectangle) {
	img, _ := s.Pad.Snapshot()
	shown := r.DrawImageInRect(img, area, render.ScaleModeFit)
	s.mu.Lock()
	s.shown = shown
	s.mu.Unlock()
}

// Shown is the canvas area the sketch covered on the last draw, empty before
// the first one.
func (s *PadScreen) Shown() image.Rectangle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shown
}

// CanvasToPad maps a canvas position into pad CSS coordinates for a sketch
// of width×height shown in the shown rectangle. inside reports whether the
// position falls on the sketch.
func CanvasToPad(cx, cy float64, shown image.Rectangle, width, height float64) (p sketch.Point, inside bool) {
	if shown.Empty() {
		return sketch.Point{}, false
	}
	p = sketch.Point{
		X: (cx - float64(shown.Min.X)) * width / float64(shown.Dx()),
		Y: (cy - float64(shown.Min.Y)) * height / float64(shown.Dy()),
	}
	// Edges count as inside up to half a canvas pixel.
	r := image.Rectangle{Min: shown.Min, Max: shown.Max.Add(image.Pt(1, 1))}
	inside = image.Pt(int(math.Floor(cx+0.5)), int(math.Floor(cy+0.5))).In(r)
	return p, inside
}

// drawHUD renders "[swatch] pen · 6px · #000000".
func (s *PadScreen) drawHUD(r render.Drawer, area image.Rectangle) {
	opts := s.Pad.Options()
	swatch, text := layout.SplitVertical(area, swatchSize+gap)
	y := swatch.Min.Y + (swatch.Dy()-swatchSize)/2
	box := image.Rect(swatch.Min.X, y, swatch.Min.X+swatchSize, y+swatchSize)
	r.FillRect(layout.Inset(box, -2), render.Muted)
	r.FillRect(box, swatchColor(opts.Color))

	label := fmt.Sprintf("%s · %spx · %s", opts.Tool, strconv.FormatFloat(opts.Size, 'f', -1, 64), opts.Color)
	style := render.TextStyle{Size: hudTextSize}
	m := r.MeasureText(label, style)
	r.DrawText(label, text.Min.X, text.Min.Y+(text.Dy()-m.Height)/2, style)
}

func (s *PadScreen) drawSide(r render.Drawer, area image.Rectangle, st state.State) {
	qrArea, info := layout.SplitHorizontal(area, area.Dx())
	qrArea = layout.FitSquare(qrArea)

	if img, err := s.qr.Image(st.Network.URLQR, qrArea.Dx()); err == nil && img != nil {
		r.FillRect(layout.Inset(qrArea, -8), color.White)
		r.DrawImageInRect(img, qrArea, render.ScaleModeFit)
	}

	y := info.Min.Y + gap
	lines := []string{st.Network.URL, clientsLine(st.Clients.Connected), st.Message}
	for _, line := range lines {
		if line == "" {
			continue
		}
		m := r.DrawText(line, info.Min.X, y, render.TextStyle{Size: urlTextSize, Color: render.Muted})
		y += m.LineHeight
	}
}

func clientsLine(n int) string {
	switch n {
	case 0:
		return "no browsers connected"
	case 1:
		return "1 browser connected"
	default:
		return fmt.Sprintf("%d browsers connected", n)
	}
}

func swatchColor(hex string) color.Color {
	c, err := sketch.ParseColor(hex)
	if err != nil {
		return color.Black
	}
	return color.NRGBA{R: unit(c.R), G: unit(c.G), B: unit(c.B), A: unit(c.A)}
}

func unit(v float64) uint8 {
	return uint8(max(0, min(1, v))*255 + 0.5)
}

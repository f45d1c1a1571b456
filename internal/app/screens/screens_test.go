package screens

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/rook-computer/sketchpad/internal/render"
	"github.com/rook-computer/sketchpad/internal/sketch"
	"github.com/rook-computer/sketchpad/internal/state"
)

type fakePad struct {
	img  *image.RGBA
	opts sketch.Options
}

func (p fakePad) Snapshot() (*image.RGBA, uint64) { return p.img, 1 }
func (p fakePad) Options() sketch.Options         { return p.opts }

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func newCanvas(t *testing.T) *render.Canvas {
	t.Helper()
	c, err := render.NewCanvas(1280, 720)
	if err != nil {
		t.Fatalf("NewCanvas: %v", err)
	}
	return c
}

func TestPadScreenFillsWithoutHUD(t *testing.T) {
	red := color.RGBA{R: 0xFF, A: 0xFF}
	screen := NewPadScreen(fakePad{img: solid(160, 90, red), opts: sketch.DefaultOptions()}, false)
	if err := screen.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	c := newCanvas(t)
	screen.Draw(c, state.State{Phase: state.READY})

	if px := c.Image().RGBAAt(640, 360); px != red {
		t.Fatalf("center = %v, want sketch pixel", px)
	}
	if px := c.Image().RGBAAt(5, 5); px != render.Background {
		t.Fatalf("margin = %v, want background", px)
	}
}

func TestPadScreenHUD(t *testing.T) {
	opts := sketch.Options{Tool: sketch.ToolBrush, Color: "#1e88e5", Size: 12}
	screen := NewPadScreen(fakePad{img: solid(160, 90, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}), opts: opts}, true)

	c := newCanvas(t)
	st := state.State{
		Phase:   state.READY,
		Network: state.NetworkInfo{URL: "http://10.0.0.2/", URLQR: "http://10.0.0.2/"},
		Clients: state.ClientInfo{Connected: 2},
	}
	screen.Draw(c, st)

	// Swatch sits at the left of the HUD strip, vertically centered.
	hudTop := 720 - padMargin - hudHeight
	swatchY := hudTop + hudHeight/2
	if px := c.Image().RGBAAt(padMargin+swatchSize/2, swatchY); px != (color.RGBA{R: 0x1e, G: 0x88, B: 0xe5, A: 0xFF}) {
		t.Fatalf("swatch = %v", px)
	}

	// The QR panel paints a white quiet zone at the top-left of the side panel.
	sideLeft := 1280 - padMargin - sideWidth
	if px := c.Image().RGBAAt(sideLeft-4, padMargin+sideWidth/2); px != (color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}) {
		t.Fatalf("qr border = %v", px)
	}
}

func TestPadScreenShownMapsToPadOrigin(t *testing.T) {
	// A 1280x720 pad on the full-size kiosk canvas with the HUD on.
	screen := NewPadScreen(fakePad{img: solid(1280, 720, color.RGBA{A: 0xFF}), opts: sketch.DefaultOptions()}, true)
	if !screen.Shown().Empty() {
		t.Fatal("nothing drawn yet")
	}
	c, err := render.NewCanvas(render.CanvasWidth, render.CanvasHeight)
	if err != nil {
		t.Fatal(err)
	}
	screen.Draw(c, state.State{Phase: state.READY})

	shown := screen.Shown()
	if shown.Min.X != padMargin || shown.Empty() {
		t.Fatalf("shown = %v", shown)
	}
	origin, inside := CanvasToPad(float64(shown.Min.X), float64(shown.Min.Y), shown, 1280, 720)
	if !inside || origin != (sketch.Point{}) {
		t.Fatalf("sketch origin maps to %+v (inside %v), want (0,0)", origin, inside)
	}
	corner, inside := CanvasToPad(float64(shown.Max.X), float64(shown.Max.Y), shown, 1280, 720)
	if !inside || corner != (sketch.Point{X: 1280, Y: 720}) {
		t.Fatalf("sketch corner maps to %+v, want (1280,720)", corner)
	}
	if _, inside := CanvasToPad(float64(shown.Max.X+50), float64(shown.Min.Y), shown, 1280, 720); inside {
		t.Fatal("side panel position reported inside the sketch")
	}
}

func TestPadScreenRequiresPad(t *testing.T) {
	if err := (&PadScreen{}).Start(context.Background()); err == nil {
		t.Fatal("expected error without pad")
	}
}

func TestSwatchColor(t *testing.T) {
	if got := swatchColor("#ff7ab6"); got != (color.NRGBA{R: 0xff, G: 0x7a, B: 0xb6, A: 0xff}) {
		t.Fatalf("swatch = %v", got)
	}
	if got := swatchColor("nope"); got != color.Black {
		t.Fatalf("fallback = %v", got)
	}
}

func TestStatusScreenDrawsText(t *testing.T) {
	c := newCanvas(t)
	StatusScreen{}.Draw(c, state.State{Phase: state.BOOTING})

	touched := false
	img := c.Image()
	for y := 300; y < 420 && !touched; y++ {
		for x := 500; x < 780; x++ {
			if img.RGBAAt(x, y) != render.Background {
				touched = true
				break
			}
		}
	}
	if !touched {
		t.Fatal("status text not drawn")
	}
}

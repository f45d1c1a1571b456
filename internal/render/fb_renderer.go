package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rook-computer/sketchpad/internal/state"
)

const DefaultDevice = "/dev/fb0"

// FBRenderer renders to the Linux framebuffer using an offscreen logical canvas.
type FBRenderer struct {
	*Canvas

	Device string
	Logger interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}
	Debug bool

	fbDev   display
	running atomic.Bool

	mu      sync.Mutex
	current Screen
	dirty   bool
}

// display is the framebuffer surface FBRenderer blits to.
type display interface {
	Bounds() image.Rectangle
	Set(x, y int, c color.Color)
	Close()
}

func NewFBRenderer(device string) *FBRenderer { return &FBRenderer{Device: device} }

func (r *FBRenderer) Start(ctx context.Context) error {
	device := r.Device
	if device == "" {
		device = DefaultDevice
	}
	dev, err := openDisplay(device)
	if err != nil {
		return fmt.Errorf("open %s: %w", device, err)
	}
	r.fbDev = dev
	if r.Logger != nil {
		bounds := dev.Bounds()
		r.Logger.Infof("fb", "framebuffer %s open, bounds=%dx%d", device, bounds.Dx(), bounds.Dy())
	}

	canvas, err := NewCanvas(CanvasWidth, CanvasHeight)
	if err != nil && r.Logger != nil {
		r.Logger.Errorf("fb", "font parse failed, using basicfont: %v", err)
	}
	r.Canvas = canvas

	r.running.Store(true)
	return nil
}

func (r *FBRenderer) Stop() error {
	r.running.Store(false)
	if r.fbDev != nil {
		r.fbDev.Close()
	}
	return nil
}

// SetScreen sets the current logical screen and forces a redraw.
func (r *FBRenderer) SetScreen(screen Screen) {
	r.mu.Lock()
	r.current = screen
	r.dirty = true
	r.mu.Unlock()
}

// RedrawWithState draws the current screen and blits it.
func (r *FBRenderer) RedrawWithState(snap state.State) {
	if !r.running.Load() || r.fbDev == nil {
		return
	}
	r.mu.Lock()
	screen := r.current
	r.dirty = false
	r.mu.Unlock()
	if screen == nil {
		return
	}

	r.FillBackground()
	screen.Draw(r, snap)
	blitToFB(r.fbDev, r.Image())
	if r.Debug {
		r.debugf("redraw done, phase=%s", snap.Phase)
	}
}

// debugf logs at debug level when the logger has one, else at info.
func (r *FBRenderer) debugf(format string, args ...interface{}) {
	switch l := r.Logger.(type) {
	case nil:
	case interface {
		Debugf(string, string, ...interface{})
	}:
		l.Debugf("fb", format, args...)
	default:
		l.Infof("fb", format, args...)
	}
}

// RunLoop polls at ~30 FPS and redraws when the store or any source changed.
func (r *FBRenderer) RunLoop(ctx context.Context, store *state.Store, sources ...Versioned) {
	ticker := time.NewTicker(time.Second / 30)
	defer ticker.Stop()

	var watch FrameWatch
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.mu.Lock()
			force := r.dirty
			r.mu.Unlock()
			if !watch.Changed(store, sources...) && !force {
				continue
			}
			r.RedrawWithState(store.Snapshot())
		}
	}
}

// FrameWatch remembers the versions seen at the last frame.
type FrameWatch struct {
	seq       uint64
	revisions []uint64
	primed    bool
}

// Changed reports whether store or any source moved since the last call.
// The first call always reports a change.
func (w *FrameWatch) Changed(store *state.Store, sources ...Versioned) bool {
	changed := !w.primed
	w.primed = true
	if seq := store.Seq(); seq != w.seq {
		w.seq = seq
		changed = true
	}
	if len(w.revisions) != len(sources) {
		w.revisions = make([]uint64, len(sources))
		changed = true
	}
	for i, src := range sources {
		if rev := src.Revision(); rev != w.revisions[i] {
			w.revisions[i] = rev
			changed = true
		}
	}
	return changed
}

// blitToFB copies the canvas to the framebuffer with nearest-neighbour
// scaling.
func blitToFB(dev display, canvas *image.RGBA) {
	if dev == nil {
		return
	}
	bounds := dev.Bounds()
	fbWidth, fbHeight := bounds.Dx(), bounds.Dy()
	cw, ch := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	if fbWidth == 0 || fbHeight == 0 {
		return
	}

	columns := make([]int, fbWidth)
	for x := range columns {
		columns[x] = (x * cw) / fbWidth
	}
	for y := 0; y < fbHeight; y++ {
		sy := (y * ch) / fbHeight
		for x, sx := range columns {
			pixel := canvas.RGBAAt(sx, sy)
			dev.Set(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{R: pixel.R, G: pixel.G, B: pixel.B, A: 0xFF})
		}
	}
}

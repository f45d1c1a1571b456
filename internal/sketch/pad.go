package sketch

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"sync"
)

// ExportFilename is the name offered for downloaded sketches.
const ExportFilename = "sketch.png"

// DefaultSource identifies the session used when a caller names none.
const DefaultSource = ""

// Pad is the shared sketch: one surface, the current options and one input
// session per source. All methods are safe for concurrent use; events are
// applied in the order the mutex admits them.
type Pad struct {
	mu       sync.Mutex
	surface  *Surface
	renderer *Renderer
	opts     Options
	sources  map[string]*inputSource
	revision uint64
}

// inputSource is one input stream: its gesture state and where the drawing
// element sits in that stream's client coordinates.
type inputSource struct {
	session Session
	origin  Point
}

// NewPad creates a pad with a painted surface of the given CSS size.
func NewPad(width, height, ratio float64, opts Options, renderer *Renderer) (*Pad, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	surface, err := NewSurface(width, height, ratio)
	if err != nil {
		return nil, err
	}
	if renderer == nil {
		renderer = NewRenderer(nil)
	}
	return &Pad{
		surface:  surface,
		renderer: renderer,
		opts:     opts,
		sources:  make(map[string]*inputSource),
		revision: 1,
	}, nil
}

// Dispatch feeds one event from source into its session. Resize events
// resize and repaint the surface first.
func (p *Pad) Dispatch(source string, ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ev.Kind == Resize {
		return p.resizeLocked(ev.Width, ev.Height, ev.Ratio)
	}
	src := p.source(source)
	w, h := p.surface.CSSSize()
	box := Rect{Left: src.origin.X, Top: src.origin.Y, Width: w, Height: h}
	if err := src.session.Dispatch(ev, box, p.opts, padPainter{p}); err != nil {
		return fmt.Errorf("dispatch %s: %w", ev.Kind, err)
	}
	return nil
}

// DispatchAll applies events in order and stops at the first error.
func (p *Pad) DispatchAll(source string, events []Event) (int, error) {
	for i, ev := range events {
		if err := p.Dispatch(source, ev); err != nil {
			return i, err
		}
	}
	return len(events), nil
}

// Resize matches the surface to a new displayed size and repaints it.
// Gestures in flight on any source are aborted. Resizing to the current
// size and ratio changes nothing.
func (p *Pad) Resize(width, height, ratio float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resizeLocked(width, height, ratio)
}

// resizeLocked leaves the surface and sessions alone when the size and
// ratio are unchanged, so a browser (re)joining does not wipe the sketch.
func (p *Pad) resizeLocked(width, height, ratio float64) error {
	if p.surface.Matches(width, height, ratio) {
		return nil
	}
	if err := p.surface.Resize(width, height, ratio); err != nil {
		return err
	}
	p.surface.Repaint()
	for _, src := range p.sources {
		src.session.Abort()
	}
	p.revision++
	return nil
}

// Clear repaints the paper background. Without confirmation nothing happens
// and ErrClearDeclined is returned.
func (p *Pad) Clear(confirmed bool) error {
	if !confirmed {
		return ErrClearDeclined
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.surface.Repaint()
	p.revision++
	return nil
}

func (p *Pad) Options() Options {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opts
}

func (p *Pad) SetOptions(opts Options) error {
	opts.Color = NormalizeColor(opts.Color)
	if err := opts.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	p.opts = opts
	p.mu.Unlock()
	return nil
}

// Update applies a partial options change atomically.
func (p *Pad) Update(patch OptionsPatch) (Options, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	next, err := patch.Apply(p.opts)
	if err != nil {
		return p.opts, err
	}
	p.opts = next
	return next, nil
}

func (p *Pad) SetTool(t Tool) error {
	_, err := p.Update(OptionsPatch{Tool: &t})
	return err
}

func (p *Pad) SetColor(c string) error {
	_, err := p.Update(OptionsPatch{Color: &c})
	return err
}

func (p *Pad) SetSize(size float64) error {
	_, err := p.Update(OptionsPatch{Size: &size})
	return err
}

// SetBox records where the drawing element sits in the client coordinates
// of source. Width and height always follow the surface.
func (p *Pad) SetBox(source string, left, top float64) {
	p.mu.Lock()
	p.source(source).origin = Point{X: left, Y: top}
	p.mu.Unlock()
}

// DropSource forgets a source's session, e.g. when its connection closes.
func (p *Pad) DropSource(source string) {
	p.mu.Lock()
	delete(p.sources, source)
	p.mu.Unlock()
}

// SessionState reports the gesture state of a source.
func (p *Pad) SessionState(source string) SessionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	if src, ok := p.sources[source]; ok {
		return src.session.State()
	}
	return Idle
}

// Revision increments whenever the surface visibly changes.
func (p *Pad) Revision() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.revision
}

// Info describes the surface geometry.
type Info struct {
	Revision    uint64  `json:"revision"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Ratio       float64 `json:"ratio"`
	PixelWidth  int     `json:"pixelWidth"`
	PixelHeight int     `json:"pixelHeight"`
	Options     Options `json:"options"`
}

func (p *Pad) Info() Info {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, h := p.surface.CSSSize()
	pw, ph := p.surface.PixelSize()
	return Info{
		Revision:    p.revision,
		Width:       w,
		Height:      h,
		Ratio:       p.surface.Ratio(),
		PixelWidth:  pw,
		PixelHeight: ph,
		Options:     p.opts,
	}
}

// Snapshot returns a copy of the surface pixels with its revision.
func (p *Pad) Snapshot() (*image.RGBA, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.surface.Image(), p.revision
}

// ExportPNG encodes the current surface.
func (p *Pad) ExportPNG(w io.Writer) error {
	p.mu.Lock()
	var buf bytes.Buffer
	err := p.surface.EncodePNG(&buf)
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

func (p *Pad) source(id string) *inputSource {
	src, ok := p.sources[id]
	if !ok {
		src = &inputSource{}
		p.sources[id] = src
	}
	return src
}

// padPainter draws onto the pad's surface; the pad mutex is already held.
type padPainter struct{ p *Pad }

func (pp padPainter) Dot(at Point, opts Options) error {
	pp.p.revision++
	return pp.p.renderer.Dot(pp.p.surface.Context(), at, opts)
}

func (pp padPainter) Line(from, to Point, opts Options) error {
	pp.p.revision++
	return pp.p.renderer.Line(pp.p.surface.Context(), from, to, opts)
}

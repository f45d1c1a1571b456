package sketch

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/gogpu/gg"
)

const (
	// BrushAlpha is the opacity of each brush pass.
	BrushAlpha = 0.35
	// BrushDotAlpha is the opacity of the dot that starts a brush stroke.
	BrushDotAlpha = 0.6
	// BrushPasses is the number of overlapping jittered segments per brush line.
	BrushPasses = 2
	// JitterSpan is the width of the uniform endpoint perturbation; offsets fall
	// in [-JitterSpan/2, JitterSpan/2).
	JitterSpan = 1.4
)

// Jitter yields uniform values in [0, 1).
type Jitter interface {
	Float64() float64
}

// Painter is what an input session draws through.
type Painter interface {
	Dot(at Point, opts Options) error
	Line(from, to Point, opts Options) error
}

// Renderer paints strokes onto a gg context. Every call leaves the context's
// drawing state as it found it.
type Renderer struct {
	Jitter Jitter
}

func NewRenderer(j Jitter) *Renderer {
	if j == nil {
		j = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Renderer{Jitter: j}
}

// SeededJitter returns a deterministic jitter source.
func SeededJitter(seed uint64) Jitter {
	return rand.New(rand.NewPCG(seed, seed))
}

// Line draws a segment from one point to another in the style of opts.Tool.
func (r *Renderer) Line(dc *gg.Context, from, to Point, opts Options) error {
	col, err := ParseColor(opts.Color)
	if err != nil {
		return err
	}
	return withScope(dc, func() error {
		style := gg.DefaultStroke()
		style.Width = opts.Size
		style.Cap = gg.LineCapRound
		style.Join = gg.LineJoinRound
		dc.SetStroke(style)

		if opts.Tool != ToolBrush {
			dc.SetStrokeBrush(gg.Solid(col))
			dc.MoveTo(from.X, from.Y)
			dc.LineTo(to.X, to.Y)
			return dc.Stroke()
		}

		dc.SetStrokeBrush(gg.Solid(withAlpha(col, BrushAlpha)))
		for i, seg := range r.brushSegments(from, to) {
			dc.MoveTo(seg[0].X, seg[0].Y)
			dc.LineTo(seg[1].X, seg[1].Y)
			if err := dc.Stroke(); err != nil {
				return fmt.Errorf("brush pass %d: %w", i, err)
			}
		}
		return nil
	})
}

// Dot fills a circle of diameter opts.Size centred on at.
func (r *Renderer) Dot(dc *gg.Context, at Point, opts Options) error {
	col, err := ParseColor(opts.Color)
	if err != nil {
		return err
	}
	alpha := 1.0
	if opts.Tool == ToolBrush {
		alpha = BrushDotAlpha
	}
	return withScope(dc, func() error {
		dc.SetFillBrush(gg.Solid(withAlpha(col, alpha)))
		dc.DrawCircle(at.X, at.Y, opts.Size/2)
		return dc.Fill()
	})
}

// brushSegments returns the endpoints of each brush pass, every coordinate
// moved by its own offset.
func (r *Renderer) brushSegments(from, to Point) [BrushPasses][2]Point {
	var segs [BrushPasses][2]Point
	for i := range segs {
		segs[i][0] = Point{X: from.X + r.offset(), Y: from.Y + r.offset()}
		segs[i][1] = Point{X: to.X + r.offset(), Y: to.Y + r.offset()}
	}
	return segs
}

func (r *Renderer) offset() float64 {
	return (r.Jitter.Float64() - 0.5) * JitterSpan
}

func withAlpha(c gg.RGBA, alpha float64) gg.RGBA {
	c.A = math.Max(0, math.Min(1, c.A*alpha))
	return c
}

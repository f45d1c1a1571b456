package sketch

import (
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/gg"
)

// fixedJitter returns the same value forever; 0.5 means no offset.
type fixedJitter float64

func (f fixedJitter) Float64() float64 { return float64(f) }

type countingJitter struct {
	n int
}

func (c *countingJitter) Float64() float64 {
	c.n++
	return 0.5
}

func TestRendererRestoresState(t *testing.T) {
	dc := gg.NewContext(50, 50)
	before := gg.DefaultStroke()
	before.Width = 3
	dc.SetStroke(before)
	dc.SetFillBrush(gg.Solid(gg.RGB(0, 1, 0)))
	dc.Translate(1, 2)
	tx := dc.GetTransform()

	r := NewRenderer(fixedJitter(0.5))
	for _, tool := range []Tool{ToolPen, ToolBrush} {
		opts := Options{Tool: tool, Color: "#ff0000", Size: 12}
		if err := r.Line(dc, Point{5, 5}, Point{40, 40}, opts); err != nil {
			t.Fatalf("Line(%v): %v", tool, err)
		}
		if err := r.Dot(dc, Point{20, 20}, opts); err != nil {
			t.Fatalf("Dot(%v): %v", tool, err)
		}

		got := dc.GetStroke()
		if got.Width != 3 || got.Cap != before.Cap || got.Join != before.Join {
			t.Errorf("%v: stroke after draw = %+v, want %+v", tool, got, before)
		}
		if b, ok := dc.FillBrush().(gg.SolidBrush); !ok || b.Color != gg.RGB(0, 1, 0) {
			t.Errorf("%v: brush after draw = %#v", tool, dc.FillBrush())
		}
		if dc.GetTransform() != tx {
			t.Errorf("%v: transform changed", tool)
		}
	}
}

func TestRendererRejectsBadColor(t *testing.T) {
	dc := gg.NewContext(10, 10)
	r := NewRenderer(fixedJitter(0.5))
	if err := r.Line(dc, Point{}, Point{5, 5}, Options{Tool: ToolPen, Color: "nope", Size: 2}); err == nil {
		t.Error("Line accepted an invalid color")
	}
}

func TestBrushUsesTwoJitteredPasses(t *testing.T) {
	dc := gg.NewContext(60, 60)
	j := &countingJitter{}
	r := NewRenderer(j)
	if err := r.Line(dc, Point{10, 10}, Point{10, 40}, Options{Tool: ToolBrush, Color: "#ff7ab6", Size: 10}); err != nil {
		t.Fatal(err)
	}
	// Two passes, four coordinates each.
	if j.n != BrushPasses*4 {
		t.Errorf("jitter draws = %d, want %d", j.n, BrushPasses*4)
	}

	j.n = 0
	if err := r.Line(dc, Point{10, 10}, Point{10, 40}, Options{Tool: ToolPen, Color: "#ff7ab6", Size: 10}); err != nil {
		t.Fatal(err)
	}
	if j.n != 0 {
		t.Errorf("pen consumed %d jitter values, want 0", j.n)
	}
}

// sequenceJitter replays vals in order, cycling at the end.
type sequenceJitter struct {
	vals []float64
	i    int
}

func (s *sequenceJitter) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func TestBrushJitterRange(t *testing.T) {
	const hi = 0.9999
	r := NewRenderer(&sequenceJitter{vals: []float64{0, 0, 0, 0, hi, hi, hi, hi}})
	segs := r.brushSegments(Point{10, 20}, Point{30, 40})

	low := [2]Point{{9.3, 19.3}, {29.3, 39.3}}
	up := (hi - 0.5) * JitterSpan
	high := [2]Point{{10 + up, 20 + up}, {30 + up, 40 + up}}
	for i, want := range [][2]Point{low, high} {
		for k := range want {
			got := segs[i][k]
			if math.Abs(got.X-want[k].X) > 1e-9 || math.Abs(got.Y-want[k].Y) > 1e-9 {
				t.Errorf("pass %d endpoint %d = %+v, want %+v", i, k, got, want[k])
			}
		}
	}
	if up <= 0.69 || up >= JitterSpan/2 {
		t.Errorf("largest offset = %v, want just under %v", up, JitterSpan/2)
	}

	// Pen lines stay on the exact path whatever the jitter source says.
	s, err := NewSurface(60, 60, 1)
	if err != nil {
		t.Fatal(err)
	}
	pen := NewRenderer(&sequenceJitter{vals: []float64{0}})
	if err := pen.Line(s.Context(), Point{10, 5}, Point{10, 55}, Options{Tool: ToolPen, Color: "#000000", Size: 2}); err != nil {
		t.Fatal(err)
	}
	img := s.Image()
	if px := img.RGBAAt(9, 30); px.R > 40 {
		t.Errorf("pixel left of the pen path = %v, want ink", px)
	}
	if px := img.RGBAAt(10, 30); px.R > 40 {
		t.Errorf("pixel right of the pen path = %v, want ink", px)
	}
	if px := img.RGBAAt(12, 30); px.R < 200 {
		t.Errorf("pixel two past the pen path = %v, want paper", px)
	}
}

func TestPenOpaqueBrushTranslucent(t *testing.T) {
	paint := func(tool Tool) color.RGBA {
		s, err := NewSurface(60, 60, 1)
		if err != nil {
			t.Fatal(err)
		}
		r := NewRenderer(fixedJitter(0.5))
		if err := r.Line(s.Context(), Point{10, 10}, Point{10, 40}, Options{Tool: tool, Color: "#ff7ab6", Size: 10}); err != nil {
			t.Fatal(err)
		}
		return s.Image().RGBAAt(10, 25)
	}

	pen := paint(ToolPen)
	if !near(pen.R, 0xff) || !near(pen.G, 0x7a) || !near(pen.B, 0xb6) {
		t.Errorf("pen pixel = %v, want #ff7ab6", pen)
	}

	brush := paint(ToolBrush)
	// Pink over white: green drops but stays well above the opaque value.
	if brush.G <= 0x7a+8 || brush.G >= 0xff {
		t.Errorf("brush pixel = %v, want translucent pink over white", brush)
	}
}

func near(got, want uint8) bool {
	d := int(got) - int(want)
	return d >= -1 && d <= 1
}

func TestWithScopeRestoresOnError(t *testing.T) {
	dc := gg.NewContext(10, 10)
	before := dc.GetStroke()
	err := withScope(dc, func() error {
		s := gg.DefaultStroke()
		s.Width = 40
		dc.SetStroke(s)
		dc.Scale(3, 3)
		return ErrInvalidEvent
	})
	if err != ErrInvalidEvent {
		t.Fatalf("withScope returned %v", err)
	}
	if dc.GetStroke().Width != before.Width {
		t.Errorf("stroke width = %v, want %v", dc.GetStroke().Width, before.Width)
	}
	if dc.GetTransform() != gg.Identity() {
		t.Error("transform not restored")
	}
}

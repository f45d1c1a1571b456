package sketch

import (
	"testing"
)

type mark struct {
	dot      bool
	from, to Point
	opts     Options
}

type recorder struct{ marks []mark }

func (r *recorder) Dot(at Point, opts Options) error {
	r.marks = append(r.marks, mark{dot: true, to: at, opts: opts})
	return nil
}

func (r *recorder) Line(from, to Point, opts Options) error {
	r.marks = append(r.marks, mark{from: from, to: to, opts: opts})
	return nil
}

func (r *recorder) counts() (dots, lines int) {
	for _, m := range r.marks {
		if m.dot {
			dots++
		} else {
			lines++
		}
	}
	return dots, lines
}

func feed(t *testing.T, s *Session, p Painter, opts Options, events ...Event) {
	t.Helper()
	for _, ev := range events {
		if err := s.Dispatch(ev, Rect{}, opts, p); err != nil {
			t.Fatalf("Dispatch(%v): %v", ev.Kind, err)
		}
	}
}

func TestSessionGesture(t *testing.T) {
	var s Session
	rec := &recorder{}
	opts := DefaultOptions()

	feed(t, &s, rec, opts,
		Move(1, 1), // idle: ignored
		Up(),       // idle: ignored
		Down(10, 10),
		Move(10, 20),
		Move(10, 30),
		Move(15, 40),
		Up(),
		Move(50, 50), // after up: ignored
	)

	dots, lines := rec.counts()
	if dots != 1 || lines != 3 {
		t.Fatalf("got %d dots, %d lines; want 1, 3", dots, lines)
	}
	if !rec.marks[0].dot || rec.marks[0].to != (Point{10, 10}) {
		t.Errorf("first mark = %+v, want dot at (10,10)", rec.marks[0])
	}
	wantSegments := [][2]Point{
		{{10, 10}, {10, 20}},
		{{10, 20}, {10, 30}},
		{{10, 30}, {15, 40}},
	}
	for i, seg := range wantSegments {
		m := rec.marks[i+1]
		if m.from != seg[0] || m.to != seg[1] {
			t.Errorf("segment %d = %v->%v, want %v->%v", i, m.from, m.to, seg[0], seg[1])
		}
	}
	if s.State() != Idle {
		t.Errorf("state = %v, want idle", s.State())
	}
}

func TestSessionTouchWithoutPoints(t *testing.T) {
	var s Session
	rec := &recorder{}
	feed(t, &s, rec, DefaultOptions(),
		Event{Kind: TouchStart},
		Event{Kind: TouchMove, Touches: []Touch{{ClientX: 5, ClientY: 5}}},
	)
	if len(rec.marks) != 0 {
		t.Fatalf("marks = %d, want 0", len(rec.marks))
	}
	if s.State() != Idle {
		t.Errorf("state = %v, want idle", s.State())
	}

	feed(t, &s, rec, DefaultOptions(),
		Event{Kind: TouchStart, Touches: []Touch{{ClientX: 1, ClientY: 2}}},
		Event{Kind: TouchMove},
		Event{Kind: TouchMove, Touches: []Touch{{ClientX: 3, ClientY: 4}}},
		Event{Kind: TouchEnd},
	)
	dots, lines := rec.counts()
	if dots != 1 || lines != 1 {
		t.Errorf("got %d dots, %d lines; want 1, 1", dots, lines)
	}
}

func TestSessionUsesOptionsPerCall(t *testing.T) {
	var s Session
	rec := &recorder{}
	pen := DefaultOptions()
	brush := Options{Tool: ToolBrush, Color: "#ff7ab6", Size: 10}

	feed(t, &s, rec, pen, Down(0, 0))
	feed(t, &s, rec, brush, Move(0, 10))

	if rec.marks[0].opts.Tool != ToolPen {
		t.Errorf("dot tool = %v, want pen", rec.marks[0].opts.Tool)
	}
	if rec.marks[1].opts != brush {
		t.Errorf("line opts = %+v, want %+v", rec.marks[1].opts, brush)
	}
}

func TestSessionResizeAbortsStroke(t *testing.T) {
	var s Session
	rec := &recorder{}
	feed(t, &s, rec, DefaultOptions(),
		Down(10, 10),
		Event{Kind: Resize, Width: 200, Height: 100, Ratio: 1},
		Move(20, 20),
	)
	if _, lines := rec.counts(); lines != 0 {
		t.Errorf("lines after resize = %d, want 0", lines)
	}
	if s.State() != Idle {
		t.Errorf("state = %v, want idle", s.State())
	}
}

func TestSessionRestartsOnSecondDown(t *testing.T) {
	var s Session
	rec := &recorder{}
	feed(t, &s, rec, DefaultOptions(), Down(0, 0), Down(40, 40), Move(40, 50))

	last := rec.marks[len(rec.marks)-1]
	if last.from != (Point{40, 40}) {
		t.Errorf("line starts at %v, want (40,40)", last.from)
	}
}

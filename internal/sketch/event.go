package sketch

import (
	"encoding/json"
	"fmt"
)

// EventKind names an input event. The text values match the DOM event names
// the browser UI forwards.
type EventKind string

const (
	PointerDown EventKind = "pointerdown"
	PointerMove EventKind = "pointermove"
	PointerUp   EventKind = "pointerup"
	TouchStart  EventKind = "touchstart"
	TouchMove   EventKind = "touchmove"
	TouchEnd    EventKind = "touchend"
	Resize      EventKind = "resize"
)

func (k EventKind) valid() bool {
	switch k {
	case PointerDown, PointerMove, PointerUp, TouchStart, TouchMove, TouchEnd, Resize:
		return true
	}
	return false
}

// IsTouch reports whether coordinates come from the touch list.
func (k EventKind) IsTouch() bool {
	return k == TouchStart || k == TouchMove || k == TouchEnd
}

type Touch struct {
	ClientX float64 `json:"clientX"`
	ClientY float64 `json:"clientY"`
}

// Event is a synthetic input record. Pointer kinds use ClientX/ClientY, touch
// kinds use Touches, and Resize uses Width/Height/Ratio (CSS size and device
// pixel ratio).
type Event struct {
	Kind    EventKind `json:"type"`
	ClientX float64   `json:"clientX,omitempty"`
	ClientY float64   `json:"clientY,omitempty"`
	Touches []Touch   `json:"touches,omitempty"`

	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Ratio  float64 `json:"ratio,omitempty"`
}

func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	var raw plain
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Kind.valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, raw.Kind)
	}
	*e = Event(raw)
	return nil
}

func Down(x, y float64) Event { return Event{Kind: PointerDown, ClientX: x, ClientY: y} }
func Move(x, y float64) Event { return Event{Kind: PointerMove, ClientX: x, ClientY: y} }
func Up() Event               { return Event{Kind: PointerUp} }

// Point is a position in CSS pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is the on-screen box of the drawing element in client coordinates.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MapEvent converts an event's client coordinates into element-local ones.
// ok is false for a touch event without touch points.
func MapEvent(ev Event, box Rect) (p Point, ok bool) {
	x, y := ev.ClientX, ev.ClientY
	if ev.Kind.IsTouch() {
		if len(ev.Touches) == 0 {
			return Point{}, false
		}
		x, y = ev.Touches[0].ClientX, ev.Touches[0].ClientY
	}
	return Point{X: x - box.Left, Y: y - box.Top}, true
}

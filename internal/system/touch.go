package system

import (
	"github.com/rook-computer/sketchpad/internal/sketch"
)

// TouchSource is the pad source name used for the local touchscreen.
const TouchSource = "touchscreen"

// Linux input-event-codes.h
const (
	evSyn = 0x00
	evKey = 0x01
	evAbs = 0x03

	synReport = 0x00

	keyF4    = 62
	btnTouch = 0x14a

	absX              = 0x00
	absY              = 0x01
	absMTSlot         = 0x2f
	absMTPositionX    = 0x35
	absMTPositionY    = 0x36
	absMTTrackingID   = 0x39
	trackingIDRelease = -1
)

// InputEvent is one decoded evdev record without its timestamp.
type InputEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

// AxisRange is a device axis as reported by EVIOCGABS.
type AxisRange struct {
	Min, Max int32
}

// Scale maps v from the axis onto [0, size].
func (a AxisRange) Scale(v int32, size float64) float64 {
	span := float64(a.Max - a.Min)
	if span <= 0 {
		return 0
	}
	f := float64(v-a.Min) / span
	return max(0, min(1, f)) * size
}

// ScreenMapper places a touch given as a fraction of the screen (0..1 per
// axis) on the pad. inside is false outside the area showing the sketch.
type ScreenMapper func(fx, fy float64) (x, y float64, inside bool)

// TouchTracker turns a stream of evdev records from a single-touch or
// multi-touch screen into pad touch events. Only the first contact counts;
// frames are flushed on SYN_REPORT.
type TouchTracker struct {
	X, Y AxisRange

	// Map places touches on the pad. Without it touches stay screen fractions.
	Map ScreenMapper

	down    bool
	wasDown bool
	moved   bool
	slot    int32
	rawX    int32
	rawY    int32
}

// Feed consumes one record and returns the pad event it completes, if any.
func (t *TouchTracker) Feed(ev InputEvent) (sketch.Event, bool) {
	switch ev.Type {
	case evKey:
		if ev.Code == btnTouch {
			t.down = ev.Value != 0
		}
	case evAbs:
		switch ev.Code {
		case absMTSlot:
			t.slot = ev.Value
		case absMTTrackingID:
			if t.slot == 0 {
				t.down = ev.Value != trackingIDRelease
			}
		case absX, absMTPositionX:
			if ev.Code == absX || t.slot == 0 {
				t.rawX = ev.Value
				t.moved = true
			}
		case absY, absMTPositionY:
			if ev.Code == absY || t.slot == 0 {
				t.rawY = ev.Value
				t.moved = true
			}
		}
	case evSyn:
		if ev.Code == synReport {
			return t.flush()
		}
	}
	return sketch.Event{}, false
}

func (t *TouchTracker) flush() (sketch.Event, bool) {
	moved := t.moved
	t.moved = false
	switch {
	case t.down && !t.wasDown:
		t.wasDown = true
		p, inside := t.point()
		if !inside {
			// A start without touch points leaves the session idle.
			return sketch.Event{Kind: sketch.TouchStart}, true
		}
		return sketch.Event{Kind: sketch.TouchStart, Touches: []sketch.Touch{p}}, true
	case t.down && moved:
		p, _ := t.point()
		return sketch.Event{Kind: sketch.TouchMove, Touches: []sketch.Touch{p}}, true
	case !t.down && t.wasDown:
		t.wasDown = false
		return sketch.Event{Kind: sketch.TouchEnd}, true
	}
	return sketch.Event{}, false
}

func (t *TouchTracker) point() (sketch.Touch, bool) {
	fx, fy := t.X.Scale(t.rawX, 1), t.Y.Scale(t.rawY, 1)
	if t.Map == nil {
		return sketch.Touch{ClientX: fx, ClientY: fy}, true
	}
	x, y, inside := t.Map(fx, fy)
	return sketch.Touch{ClientX: x, ClientY: y}, inside
}

// IsExitKey reports an F4 key press.
func IsExitKey(ev InputEvent) bool {
	return ev.Type == evKey && ev.Code == keyF4 && ev.Value == 1
}

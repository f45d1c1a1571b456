package sketch

// SessionState is the input session's position in the gesture cycle.
type SessionState int

const (
	Idle SessionState = iota
	Drawing
)

func (s SessionState) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

// Session turns one input source's event stream into painter calls.
//
// Idle --down--> Drawing (dot at the down point)
// Drawing --move--> Drawing (line from the last point)
// Drawing --up--> Idle
//
// Moves and ups while Idle are ignored. A resize aborts the gesture so the
// next move cannot join a point recorded against the old surface.
type Session struct {
	state SessionState
	last  Point
}

func (s *Session) State() SessionState { return s.state }

// Last returns the most recently recorded point of the current gesture.
func (s *Session) Last() (Point, bool) {
	return s.last, s.state == Drawing
}

// Abort drops an in-flight gesture without painting.
func (s *Session) Abort() { s.state = Idle }

// Dispatch applies one event. Painting errors are returned, but the state
// transition has already happened by then.
func (s *Session) Dispatch(ev Event, box Rect, opts Options, p Painter) error {
	switch ev.Kind {
	case PointerDown, TouchStart:
		at, ok := MapEvent(ev, box)
		if !ok {
			return nil
		}
		s.state = Drawing
		s.last = at
		return p.Dot(at, opts)
	case PointerMove, TouchMove:
		if s.state != Drawing {
			return nil
		}
		at, ok := MapEvent(ev, box)
		if !ok {
			return nil
		}
		from := s.last
		s.last = at
		return p.Line(from, at, opts)
	case PointerUp, TouchEnd:
		s.state = Idle
		return nil
	case Resize:
		s.Abort()
		return nil
	default:
		return ErrInvalidEvent
	}
}

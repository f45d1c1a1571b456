package sketch

import (
	"encoding/json"
	"fmt"
	"io"
)

// Script is a recorded session that can be replayed against a fresh pad.
type Script struct {
	Surface struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
		Ratio  float64 `json:"ratio"`
	} `json:"surface"`
	Seed  uint64 `json:"seed,omitempty"`
	Steps []Step `json:"steps"`
}

// Step holds exactly one of an options change, an event or a clear.
type Step struct {
	Source  string        `json:"source,omitempty"`
	Options *OptionsPatch `json:"options,omitempty"`
	Event   *Event        `json:"event,omitempty"`
	Clear   bool          `json:"clear,omitempty"`
}

// ReadScript decodes and sanity-checks a script.
func ReadScript(r io.Reader) (*Script, error) {
	var sc Script
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if sc.Surface.Width <= 0 || sc.Surface.Height <= 0 {
		return nil, fmt.Errorf("%w: script surface %vx%v", ErrInvalidSurface, sc.Surface.Width, sc.Surface.Height)
	}
	for i, st := range sc.Steps {
		n := 0
		if st.Options != nil {
			n++
		}
		if st.Event != nil {
			n++
		}
		if st.Clear {
			n++
		}
		if n != 1 {
			return nil, fmt.Errorf("step %d: want exactly one of options, event, clear", i)
		}
	}
	return &sc, nil
}

// Replay runs the script on pad, stopping at the first failing step.
func (sc *Script) Replay(pad *Pad) error {
	for i, st := range sc.Steps {
		var err error
		switch {
		case st.Options != nil:
			_, err = pad.Update(*st.Options)
		case st.Event != nil:
			err = pad.Dispatch(st.Source, *st.Event)
		case st.Clear:
			err = pad.Clear(true)
		}
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

// NewPad builds a pad sized for the script. A non-zero seed makes brush
// jitter reproducible.
func (sc *Script) NewPad(opts Options) (*Pad, error) {
	var jitter Jitter
	if sc.Seed != 0 {
		jitter = SeededJitter(sc.Seed)
	}
	return NewPad(sc.Surface.Width, sc.Surface.Height, sc.Surface.Ratio, opts, NewRenderer(jitter))
}

package screens

import (
	"context"

	"github.com/rook-computer/sketchpad/internal/render"
	"github.com/rook-computer/sketchpad/internal/state"
)

// StatusScreen shows the store message, or the phase when there is none.
// It is displayed while booting and after fatal errors.
type StatusScreen struct{}

func (StatusScreen) Start(ctx context.Context) error { return nil }
func (StatusScreen) Stop() error                     { return nil }

func (StatusScreen) Draw(r render.Drawer, st state.State) {
	r.FillBackground()
	text := st.Message
	if text == "" {
		switch st.Phase {
		case state.BOOTING:
			text = "starting"
		case state.ERROR:
			text = "something went wrong"
		default:
			text = "ready"
		}
	}
	r.DrawTextCentered(text)
}

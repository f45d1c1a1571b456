package web

import (
	"github.com/rook-computer/sketchpad/internal/sketch"
)

// ClientTracker receives websocket connect/disconnect notifications.
//
// The concrete implementation is typically *state.Store.
type ClientTracker interface {
	ClientConnected(id string)
	ClientDisconnected()
}

// Logger matches the logging shape used across the app.
// It is intentionally tiny so callers can pass existing loggers without adapters.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type APIV1Deps struct {
	Pad     *sketch.Pad
	Clients ClientTracker
	Logger  Logger

	// NewSourceID names websocket sessions; defaults to random UUIDs.
	NewSourceID func() string
}

func (d APIV1Deps) withDefaults() APIV1Deps {
	out := d
	if out.Clients == nil {
		out.Clients = noopClients{}
	}
	if out.Logger == nil {
		out.Logger = noopLogger{}
	}
	if out.NewSourceID == nil {
		out.NewSourceID = newSourceID
	}
	return out
}

type noopClients struct{}

func (noopClients) ClientConnected(string) {}
func (noopClients) ClientDisconnected()    {}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

package web

import "context"

// Server is anything the app can start with a context and stop on exit.
type Server interface {
	Start(ctx context.Context) error
	Stop() error
	// Addr is the bound address once started, "" otherwise.
	Addr() string
}

type NoopServer struct{}

func (n *NoopServer) Start(ctx context.Context) error { return nil }
func (n *NoopServer) Stop() error                     { return nil }
func (n *NoopServer) Addr() string                    { return "" }

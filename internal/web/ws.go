package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rook-computer/sketchpad/internal/sketch"
)

const (
	wsReadLimit  = 64 << 10
	wsPongWait   = 60 * time.Second
	wsWriteWait  = 5 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 1024,
	// The UI is served by this process or, in dev mode, by any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is one client frame: an optional box update followed by events.
type wsMessage struct {
	Box    *wsBox         `json:"box,omitempty"`
	Events []sketch.Event `json:"events"`
}

type wsBox struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

type wsAck struct {
	Source   string `json:"source,omitempty"`
	Revision uint64 `json:"revision"`
	State    string `json:"state"`
	Error    string `json:"error,omitempty"`
	Message  string `json:"message,omitempty"`
}

func newSourceID() string { return uuid.NewString() }

// handleWebSocket gives each connection its own input session. Frames are
// applied in arrival order and acknowledged with the pad revision.
func handleWebSocket(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error.
		deps.Logger.Errorf("ws", "upgrade: %v", err)
		return
	}
	defer conn.Close()

	source := deps.NewSourceID()
	deps.Clients.ClientConnected(source)
	deps.Logger.Infof("ws", "client %s connected from %s", source, r.RemoteAddr)
	defer func() {
		deps.Pad.DropSource(source)
		deps.Clients.ClientDisconnected()
		deps.Logger.Infof("ws", "client %s disconnected", source)
	}()

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(wsPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
					return
				}
			}
		}
	}()

	if err := writeAck(conn, wsAck{Source: source, Revision: deps.Pad.Revision(), State: sketch.Idle.String()}); err != nil {
		return
	}

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !isDecodeError(err) {
				var closeErr *websocket.CloseError
				if !errors.As(err, &closeErr) {
					deps.Logger.Errorf("ws", "client %s read: %v", source, err)
				}
				return
			}
			// A bad frame is reported; the connection stays open.
			code := "invalid_json"
			if errors.Is(err, sketch.ErrInvalidEvent) {
				code = "invalid_event"
			}
			nack := wsAck{Revision: deps.Pad.Revision(), State: deps.Pad.SessionState(source).String(), Error: code, Message: err.Error()}
			if writeAck(conn, nack) != nil {
				return
			}
			continue
		}

		if msg.Box != nil {
			deps.Pad.SetBox(source, msg.Box.Left, msg.Box.Top)
		}
		ack := wsAck{}
		if _, err := deps.Pad.DispatchAll(source, msg.Events); err != nil {
			_, ack.Error = eventErrorStatus(err)
			ack.Message = err.Error()
		}
		ack.Revision = deps.Pad.Revision()
		ack.State = deps.Pad.SessionState(source).String()
		if err := writeAck(conn, ack); err != nil {
			return
		}
	}
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.Is(err, sketch.ErrInvalidEvent) || errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

func writeAck(conn *websocket.Conn, ack wsAck) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(ack)
}

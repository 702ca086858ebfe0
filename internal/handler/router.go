package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/ugaemi/epidemic-sim/internal/epidemic"
	"github.com/ugaemi/epidemic-sim/internal/session"
	"github.com/ugaemi/epidemic-sim/internal/ws"
)

// Router dispatches incoming messages to the appropriate handler.
type Router struct {
	sessions *SessionHandler
	control  *ControlHandler
}

// NewRouter creates a new message router. New sessions start from defaults.
func NewRouter(sm *session.Manager, defaults epidemic.Config) *Router {
	return &Router{
		sessions: NewSessionHandler(sm, defaults),
		control:  NewControlHandler(sm),
	}
}

// HandleMessage parses and routes an incoming client message.
func (r *Router) HandleMessage(cm *ws.ClientMessage) {
	var msg ws.Message
	if err := json.Unmarshal(cm.Data, &msg); err != nil {
		slog.Warn("invalid message format", "client", cm.Client.ID, "error", err)
		cm.Client.SendMessage(ws.NewErrorMessage("invalid message format"))
		return
	}

	switch msg.Type {
	// Session lifecycle
	case ws.TypeCreateSession:
		r.sessions.HandleCreateSession(cm.Client, msg)
	case ws.TypeJoinSession:
		r.sessions.HandleJoinSession(cm.Client, msg)
	case ws.TypeLeaveSession:
		r.sessions.HandleLeaveSession(cm.Client, msg)

	// Simulation control
	case ws.TypeStart:
		r.control.HandleStart(cm.Client, msg)
	case ws.TypeStop:
		r.control.HandleStop(cm.Client, msg)
	case ws.TypeReset:
		r.control.HandleReset(cm.Client, msg)
	case ws.TypeConfigure:
		r.control.HandleConfigure(cm.Client, msg)

	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", cm.Client.ID)
		cm.Client.SendMessage(ws.NewErrorMessage("unknown message type: " + msg.Type))
	}
}

// HandleDisconnect handles client disconnection.
func (r *Router) HandleDisconnect(client *ws.Client) {
	r.sessions.HandleDisconnect(client)
}

package handler

import (
	"log/slog"

	"github.com/ugaemi/epidemic-sim/internal/session"
	"github.com/ugaemi/epidemic-sim/internal/ws"
)

// ControlHandler handles start, stop, reset and configure for the client's
// current session.
type ControlHandler struct {
	sm *session.Manager
}

// NewControlHandler creates a new control handler.
func NewControlHandler(sm *session.Manager) *ControlHandler {
	return &ControlHandler{sm: sm}
}

// HandleStart resumes or begins the session's tick loop.
func (h *ControlHandler) HandleStart(client *ws.Client, _ ws.Message) {
	s := h.sessionOf(client)
	if s == nil {
		return
	}
	if !s.Start() {
		client.SendMessage(ws.NewErrorMessage("simulation already running"))
		return
	}
	broadcastSessionInfo(s)
}

// HandleStop pauses the session at the next tick boundary.
func (h *ControlHandler) HandleStop(client *ws.Client, _ ws.Message) {
	s := h.sessionOf(client)
	if s == nil {
		return
	}
	if !s.Stop() {
		client.SendMessage(ws.NewErrorMessage("simulation not running"))
		return
	}
	broadcastSessionInfo(s)
}

// HandleReset discards the population and starts a new run with the same
// configuration.
func (h *ControlHandler) HandleReset(client *ws.Client, _ ws.Message) {
	s := h.sessionOf(client)
	if s == nil {
		return
	}
	s.Reset()
	broadcastSessionInfo(s)
}

// HandleConfigure applies a partial configuration on top of the current one
// and starts a new run with it.
func (h *ControlHandler) HandleConfigure(client *ws.Client, msg ws.Message) {
	s := h.sessionOf(client)
	if s == nil {
		return
	}

	cfg, err := decodeConfig(s.Config(), msg.Data)
	if err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid config"))
		return
	}

	s.Configure(cfg)
	broadcastSessionInfo(s)

	slog.Info("session reconfigured", "session", s.Code, "client", client.ID)
}

func (h *ControlHandler) sessionOf(client *ws.Client) *session.Session {
	s := h.sm.FindSessionByClientID(client.ID)
	if s == nil {
		client.SendMessage(ws.NewErrorMessage("not in a session"))
	}
	return s
}

package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/ugaemi/epidemic-sim/internal/epidemic"
	"github.com/ugaemi/epidemic-sim/internal/session"
	"github.com/ugaemi/epidemic-sim/internal/ws"
)

// SessionHandler handles creating, joining and leaving sessions.
type SessionHandler struct {
	sm       *session.Manager
	defaults epidemic.Config
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sm *session.Manager, defaults epidemic.Config) *SessionHandler {
	return &SessionHandler{
		sm:       sm,
		defaults: defaults,
	}
}

type createSessionRequest struct {
	Config json.RawMessage `json:"config,omitempty"`
}

type sessionResponse struct {
	Code  string `json:"code"`
	RunID string `json:"run_id"`
}

// HandleCreateSession creates a session, optionally overriding the default
// configuration, and attaches the client to it.
func (h *SessionHandler) HandleCreateSession(client *ws.Client, msg ws.Message) {
	var req createSessionRequest
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			client.SendMessage(ws.NewErrorMessage("invalid session request"))
			return
		}
	}

	cfg, err := decodeConfig(h.defaults, req.Config)
	if err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid config"))
		return
	}

	h.detach(client)

	s := h.sm.CreateSession(cfg)
	s.AddClient(client)

	resp, _ := ws.NewMessage(ws.TypeCreateSession, sessionResponse{
		Code:  s.Code,
		RunID: s.Info().RunID,
	})
	client.SendMessage(resp)
	sendState(client, s)

	slog.Info("client created session", "client", client.ID, "session", s.Code)
}

type joinSessionRequest struct {
	Code string `json:"code"`
}

// HandleJoinSession attaches the client to an existing session.
func (h *SessionHandler) HandleJoinSession(client *ws.Client, msg ws.Message) {
	var req joinSessionRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil || req.Code == "" {
		client.SendMessage(ws.NewErrorMessage("code is required"))
		return
	}

	s, err := h.sm.GetSession(req.Code)
	if err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}

	if current := h.sm.FindSessionByClientID(client.ID); current != s {
		h.detach(client)
		s.AddClient(client)
	}

	resp, _ := ws.NewMessage(ws.TypeJoinSession, sessionResponse{
		Code:  s.Code,
		RunID: s.Info().RunID,
	})
	client.SendMessage(resp)
	sendState(client, s)
	broadcastSessionInfo(s)

	slog.Info("client joined session", "client", client.ID, "session", s.Code)
}

// HandleLeaveSession detaches the client from its session.
func (h *SessionHandler) HandleLeaveSession(client *ws.Client, _ ws.Message) {
	h.detach(client)
}

// HandleDisconnect handles client disconnection.
func (h *SessionHandler) HandleDisconnect(client *ws.Client) {
	h.detach(client)
}

// detach removes the client from its session. A session nobody watches is
// stopped and removed.
func (h *SessionHandler) detach(client *ws.Client) {
	s := h.sm.FindSessionByClientID(client.ID)
	if s == nil {
		return
	}

	s.RemoveClient(client.ID)
	if s.IsEmpty() {
		h.sm.RemoveSession(s.Code)
	} else {
		broadcastSessionInfo(s)
	}

	slog.Info("client left session", "client", client.ID, "session", s.Code)
}

// decodeConfig applies a partial JSON config on top of base and clamps it.
func decodeConfig(base epidemic.Config, data json.RawMessage) (epidemic.Config, error) {
	cfg := base
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return epidemic.Config{}, err
		}
	}
	return cfg.Normalize(), nil
}

func sendState(client *ws.Client, s *session.Session) {
	msg, err := ws.NewMessage(ws.TypeSimState, s.Snapshot())
	if err != nil {
		slog.Error("failed to encode state", "session", s.Code, "error", err)
		return
	}
	client.SendMessage(msg)
}

func broadcastSessionInfo(s *session.Session) {
	msg, _ := ws.NewMessage(ws.TypeSessionInfo, s.Info())
	s.BroadcastMessage(msg)
}

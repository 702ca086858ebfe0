package ws

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Hub tracks connected viewers and serializes their control messages onto a
// single goroutine. Session state never passes through the hub: sessions write
// to each viewer's Send channel directly.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Incoming   chan *ClientMessage
	mu         sync.RWMutex

	nextID atomic.Uint64

	// OnMessage handles one control message on the hub goroutine.
	OnMessage func(cm *ClientMessage)
	// OnDisconnect detaches a viewer from its session. Send is still open
	// while it runs.
	OnDisconnect func(client *Client)
}

// NewHub creates a Hub with no viewers. Call Run to start routing.
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Incoming:   make(chan *ClientMessage, 256),
	}
}

// NextClientID numbers viewers for logs and session membership.
func (h *Hub) NextClientID() uint64 {
	return h.nextID.Add(1)
}

// Run routes registrations, disconnects and control messages until the process
// exits. Start, stop and configure requests for all sessions are handled one
// at a time here, so handlers must not block on I/O.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client] = true
			h.mu.Unlock()
			slog.Info("client connected", "client", client.ID)

		case client := <-h.Unregister:
			h.mu.Lock()
			_, ok := h.Clients[client]
			delete(h.Clients, client)
			h.mu.Unlock()
			if !ok {
				continue
			}
			// Detach from sessions before closing Send so no broadcast can
			// write to a closed channel.
			if h.OnDisconnect != nil {
				h.OnDisconnect(client)
			}
			close(client.Send)
			slog.Info("client disconnected", "client", client.ID)

		case cm := <-h.Incoming:
			if h.OnMessage != nil {
				h.OnMessage(cm)
			}
		}
	}
}

// ClientCount returns the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.Clients)
}

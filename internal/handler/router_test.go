package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugaemi/epidemic-sim/internal/epidemic"
	"github.com/ugaemi/epidemic-sim/internal/session"
	"github.com/ugaemi/epidemic-sim/internal/ws"
)

// sentMessage captures a message sent to a test client.
type sentMessage struct {
	Type string
	Data json.RawMessage
}

func newTestClient(id string) (*ws.Client, chan sentMessage) {
	ch := make(chan sentMessage, 64)
	client := &ws.Client{
		ID:   id,
		Send: make(chan []byte, 256),
	}

	// Read sent messages in background
	go func() {
		for data := range client.Send {
			var msg sentMessage
			json.Unmarshal(data, &msg)
			ch <- msg
		}
	}()

	return client, ch
}

func readResponse(t *testing.T, ch chan sentMessage) sentMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for response")
		return sentMessage{}
	}
}

// readUntil skips messages until one of msgType arrives.
func readUntil(t *testing.T, ch chan sentMessage, msgType string) sentMessage {
	t.Helper()
	for i := 0; i < 20; i++ {
		if msg := readResponse(t, ch); msg.Type == msgType {
			return msg
		}
	}
	t.Fatalf("no %s message received", msgType)
	return sentMessage{}
}

func drainCh(ch chan sentMessage) {
	for {
		select {
		case <-ch:
		case <-time.After(50 * time.Millisecond):
			return
		}
	}
}

func testDefaults() epidemic.Config {
	cfg := epidemic.DefaultConfig()
	cfg.TotalPeople = 20
	cfg.Width = 400
	cfg.Height = 300
	return cfg
}

func setupRouter() (*Router, *session.Manager) {
	// A long tick keeps the loop from flooding test clients.
	sm := session.NewManager(session.Options{TickInterval: time.Hour, BroadcastEvery: 1})
	return NewRouter(sm, testDefaults()), sm
}

func send(router *Router, client *ws.Client, msgType string, payload any) {
	var data json.RawMessage
	if payload != nil {
		data, _ = json.Marshal(payload)
	}
	raw, _ := json.Marshal(ws.Message{Type: msgType, Data: data})
	router.HandleMessage(&ws.ClientMessage{Client: client, Data: raw})
}

func errorText(t *testing.T, msg sentMessage) string {
	t.Helper()
	require.Equal(t, ws.TypeError, msg.Type)
	var e ws.ErrorMessage
	require.NoError(t, json.Unmarshal(msg.Data, &e))
	return e.Message
}

func TestHandleMessage_InvalidJSON(t *testing.T) {
	router, _ := setupRouter()
	client, ch := newTestClient("c1")

	router.HandleMessage(&ws.ClientMessage{Client: client, Data: []byte("{not json")})

	assert.Equal(t, "invalid message format", errorText(t, readResponse(t, ch)))
}

func TestHandleMessage_UnknownType(t *testing.T) {
	router, _ := setupRouter()
	client, ch := newTestClient("c1")

	send(router, client, "teleport", nil)

	assert.Equal(t, "unknown message type: teleport", errorText(t, readResponse(t, ch)))
}

func TestHandleDisconnect_RemovesEmptySession(t *testing.T) {
	router, sm := setupRouter()
	client, ch := newTestClient("c1")

	send(router, client, ws.TypeCreateSession, nil)
	readUntil(t, ch, ws.TypeCreateSession)
	require.Equal(t, 1, sm.SessionCount())

	router.HandleDisconnect(client)
	assert.Equal(t, 0, sm.SessionCount())
}

func TestHandleDisconnect_WithoutSession(t *testing.T) {
	router, sm := setupRouter()
	client, _ := newTestClient("c1")

	router.HandleDisconnect(client)
	assert.Equal(t, 0, sm.SessionCount())
}

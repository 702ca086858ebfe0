package handler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugaemi/epidemic-sim/internal/epidemic"
	"github.com/ugaemi/epidemic-sim/internal/session"
	"github.com/ugaemi/epidemic-sim/internal/ws"
)

func setupControlTest(t *testing.T) (*Router, *session.Session, *ws.Client, chan sentMessage) {
	t.Helper()
	router, sm := setupRouter()
	client, ch := newTestClient("c1")

	created := createSession(t, router, client, ch, nil)
	drainCh(ch)

	s, err := sm.GetSession(created.Code)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return router, s, client, ch
}

func TestControl_NotInSession(t *testing.T) {
	for _, msgType := range []string{ws.TypeStart, ws.TypeStop, ws.TypeReset, ws.TypeConfigure} {
		t.Run(msgType, func(t *testing.T) {
			router, _ := setupRouter()
			client, ch := newTestClient("c1")

			send(router, client, msgType, nil)
			assert.Equal(t, "not in a session", errorText(t, readResponse(t, ch)))
		})
	}
}

func TestHandleStart(t *testing.T) {
	router, s, client, ch := setupControlTest(t)

	send(router, client, ws.TypeStart, nil)

	infoMsg := readUntil(t, ch, ws.TypeSessionInfo)
	var info session.Info
	require.NoError(t, json.Unmarshal(infoMsg.Data, &info))
	assert.True(t, info.Running)
	assert.True(t, s.Running())

	send(router, client, ws.TypeStart, nil)
	assert.Equal(t, "simulation already running", errorText(t, readUntil(t, ch, ws.TypeError)))
}

func TestHandleStop(t *testing.T) {
	router, s, client, ch := setupControlTest(t)

	send(router, client, ws.TypeStop, nil)
	assert.Equal(t, "simulation not running", errorText(t, readUntil(t, ch, ws.TypeError)))

	send(router, client, ws.TypeStart, nil)
	readUntil(t, ch, ws.TypeSessionInfo)

	send(router, client, ws.TypeStop, nil)
	infoMsg := readUntil(t, ch, ws.TypeSessionInfo)
	var info session.Info
	require.NoError(t, json.Unmarshal(infoMsg.Data, &info))
	assert.False(t, info.Running)
	assert.False(t, s.Running())
}

func TestHandleReset(t *testing.T) {
	router, s, client, ch := setupControlTest(t)
	s.Advance()
	s.Advance()
	oldRun := s.Info().RunID

	send(router, client, ws.TypeReset, nil)

	stateMsg := readUntil(t, ch, ws.TypeSimState)
	var state session.State
	require.NoError(t, json.Unmarshal(stateMsg.Data, &state))
	assert.Equal(t, int64(0), state.Tick)

	readUntil(t, ch, ws.TypeSessionInfo)
	assert.Equal(t, int64(0), s.Tick())
	assert.NotEqual(t, oldRun, s.Info().RunID)
}

func TestHandleConfigure(t *testing.T) {
	router, s, client, ch := setupControlTest(t)
	s.Advance()

	send(router, client, ws.TypeConfigure, map[string]any{
		"total_people":        12,
		"infectivity_percent": 2.5,
	})
	readUntil(t, ch, ws.TypeSessionInfo)

	cfg := s.Config()
	assert.Equal(t, 12, cfg.TotalPeople)
	assert.Equal(t, 1.0, cfg.InfectivityPercent, "probabilities are clamped")
	assert.Equal(t, 400.0, cfg.Width, "unspecified fields keep their current values")
	assert.Equal(t, int64(0), s.Tick())
	assert.Len(t, s.Snapshot().Agents, 12)
}

func TestHandleConfigure_CapsOversizedInput(t *testing.T) {
	router, s, client, ch := setupControlTest(t)

	send(router, client, ws.TypeConfigure, map[string]any{
		"total_people":    50_000_000,
		"infected_people": 50_000_000,
		"width":           1e12,
	})
	readUntil(t, ch, ws.TypeSessionInfo)

	cfg := s.Config()
	assert.Equal(t, epidemic.MaxPopulation, cfg.TotalPeople)
	assert.Equal(t, epidemic.MaxArenaSize, cfg.Width)
	assert.Len(t, s.Snapshot().Agents, epidemic.MaxPopulation)
}

func TestHandleConfigure_Invalid(t *testing.T) {
	router, s, client, ch := setupControlTest(t)
	before := s.Config()

	send(router, client, ws.TypeConfigure, map[string]any{"width": "wide"})

	assert.Equal(t, "invalid config", errorText(t, readResponse(t, ch)))
	assert.Equal(t, before, s.Config())
}

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(rs *mockRunStore) *Manager {
	opts := Options{TickInterval: testTick, BroadcastEvery: 1}
	if rs != nil {
		opts.Store = rs
	}
	return NewManager(opts)
}

func TestManager_CreateAndGet(t *testing.T) {
	m := newTestManager(nil)

	s := m.CreateSession(testConfig())
	require.NotNil(t, s)
	assert.Len(t, s.Code, 4)
	assert.Equal(t, 1, m.SessionCount())

	got, err := m.GetSession(s.Code)
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestManager_GetUnknown(t *testing.T) {
	m := newTestManager(nil)

	_, err := m.GetSession("NOPE")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_UniqueCodes(t *testing.T) {
	m := newTestManager(nil)

	codes := make(map[string]bool)
	for i := 0; i < 50; i++ {
		s := m.CreateSession(testConfig())
		assert.False(t, codes[s.Code], "duplicate code %s", s.Code)
		codes[s.Code] = true
	}
	assert.Equal(t, 50, m.SessionCount())
}

func TestManager_RemoveSession(t *testing.T) {
	rs := newMockRunStore()
	m := newTestManager(rs)

	s := m.CreateSession(testConfig())
	s.Start()
	s.Advance()

	m.RemoveSession(s.Code)
	s.Wait()

	assert.Equal(t, 0, m.SessionCount())
	assert.False(t, s.Running())
	assert.Len(t, rs.saved(), 1)

	_, err := m.GetSession(s.Code)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// removing twice is a no-op
	m.RemoveSession(s.Code)
	s.Wait()
	assert.Len(t, rs.saved(), 1)
}

func TestManager_RemoveSessionDoesNotWaitForStore(t *testing.T) {
	rs := newSlowRunStore()
	m := newTestManager(rs)
	s := m.CreateSession(testConfig())
	s.Advance()

	start := time.Now()
	m.RemoveSession(s.Code)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Empty(t, rs.saved())

	close(rs.release)
	m.Shutdown()
	assert.Len(t, rs.saved(), 1, "shutdown waits for saves of removed sessions")
}

func TestManager_SeededCodesAreReproducible(t *testing.T) {
	opts := Options{TickInterval: testTick, Seed: 42}
	a := NewManager(opts)
	b := NewManager(opts)

	for i := 0; i < 5; i++ {
		sa := a.CreateSession(testConfig())
		sb := b.CreateSession(testConfig())
		assert.Equal(t, sa.Code, sb.Code)
		assert.Equal(t, sa.Snapshot().Agents[0].X, sb.Snapshot().Agents[0].X)
	}
}

func TestManager_FindSessionByClientID(t *testing.T) {
	m := newTestManager(nil)
	a := m.CreateSession(testConfig())
	b := m.CreateSession(testConfig())

	a.AddClient(mockClient("c1"))
	b.AddClient(mockClient("c2"))

	assert.Same(t, a, m.FindSessionByClientID("c1"))
	assert.Same(t, b, m.FindSessionByClientID("c2"))
	assert.Nil(t, m.FindSessionByClientID("c3"))
}

func TestManager_List(t *testing.T) {
	m := newTestManager(nil)
	for i := 0; i < 3; i++ {
		m.CreateSession(testConfig())
	}

	infos := m.List()
	require.Len(t, infos, 3)
	for i := 1; i < len(infos); i++ {
		assert.Less(t, infos[i-1].Code, infos[i].Code)
	}
	assert.Equal(t, 30, infos[0].Config.TotalPeople)
}

func TestManager_Shutdown(t *testing.T) {
	rs := newMockRunStore()
	m := newTestManager(rs)
	s := m.CreateSession(testConfig())
	s.Advance()
	s.Start()

	m.Shutdown()

	assert.Equal(t, 0, m.SessionCount())
	assert.False(t, s.Running())
	assert.Len(t, rs.saved(), 1)
}

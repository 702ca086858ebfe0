package session

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/ugaemi/epidemic-sim/internal/epidemic"
	"github.com/ugaemi/epidemic-sim/internal/store"
	"github.com/ugaemi/epidemic-sim/internal/ws"
)

// Options tune how a session drives its simulation.
type Options struct {
	TickInterval   time.Duration
	BroadcastEvery int   // push sim_state every N ticks
	HistoryLimit   int   // 0 keeps the whole run
	Seed           int64 // 0 seeds from the clock
	Store          store.RunStore

	persister *persister // shared by a Manager's sessions
}

// DefaultOptions returns 60 ticks per second with a state push every tick.
func DefaultOptions() Options {
	return Options{
		TickInterval:   time.Second / 60,
		BroadcastEvery: 1,
	}
}

// Session owns one simulation run: its agents, its clock and its statistics
// history. Only the session loop and the control methods mutate agents, always
// under mu; readers get copies.
type Session struct {
	Code string

	cfg     epidemic.Config
	agents  []*epidemic.Agent
	history *History
	tick    int64
	run     *store.Run
	rng     *rand.Rand
	opts    Options

	// Client mapping: client ID -> ws client
	clients map[string]*ws.Client

	running bool
	stopCh  chan struct{}

	mu sync.RWMutex
}

// State is the per-tick snapshot pushed to clients.
type State struct {
	Code    string               `json:"code"`
	Running bool                 `json:"running"`
	Tick    int64                `json:"tick"`
	Day     float64              `json:"day"`
	Stats   epidemic.Stats       `json:"stats"`
	Agents  []epidemic.AgentView `json:"agents"`
	Width   float64              `json:"width"`
	Height  float64              `json:"height"`
}

// Info describes a session for lobby-style listings.
type Info struct {
	Code    string          `json:"code"`
	RunID   string          `json:"run_id"`
	Running bool            `json:"running"`
	Tick    int64           `json:"tick"`
	Clients int             `json:"clients"`
	Config  epidemic.Config `json:"config"`
}

type simOverMessage struct {
	Tick  int64          `json:"tick"`
	Stats epidemic.Stats `json:"stats"`
}

// NewSession creates a stopped session with a freshly initialized population.
func NewSession(code string, cfg epidemic.Config, opts Options) *Session {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultOptions().TickInterval
	}
	if opts.persister == nil {
		opts.persister = newPersister(opts.Store)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Session{
		Code:    code,
		opts:    opts,
		rng:     rand.New(rand.NewSource(seed)),
		clients: make(map[string]*ws.Client),
	}
	s.resetLocked(cfg)
	return s
}

// resetLocked discards the population and history and starts a new run.
// Caller must hold s.mu (or own s exclusively).
func (s *Session) resetLocked(cfg epidemic.Config) {
	s.cfg = cfg
	s.tick = 0
	s.agents = epidemic.Initialize(cfg, s.tick, s.rng)
	s.history = NewHistory(s.opts.HistoryLimit)
	s.history.Append(epidemic.Count(s.agents, s.tick, cfg))
	s.run = store.NewRun(s.Code, cfg)
}

// AddClient attaches a watcher to the session.
func (s *Session) AddClient(client *ws.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client.ID] = client
}

// RemoveClient detaches a watcher. After it returns no broadcast reaches the client.
func (s *Session) RemoveClient(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, clientID)
}

// HasClient reports whether the client watches this session.
func (s *Session) HasClient(clientID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.clients[clientID]
	return ok
}

// ClientCount returns the number of attached clients.
func (s *Session) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// IsEmpty returns true if nobody watches the session.
func (s *Session) IsEmpty() bool {
	return s.ClientCount() == 0
}

// Config returns the configuration of the current run.
func (s *Session) Config() epidemic.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Running reports whether the tick loop is active.
func (s *Session) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Tick returns the current simulation time.
func (s *Session) Tick() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tick
}

// Start launches the tick loop. It returns false if the loop is already running.
func (s *Session) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return false
	}
	s.running = true
	s.stopCh = make(chan struct{})
	go s.loop(s.stopCh)

	slog.Info("simulation started", "session", s.Code, "tick", s.tick)
	return true
}

// Stop halts the tick loop at the next tick boundary. The population is kept,
// so Start resumes the same run. It returns false if the loop was not running.
func (s *Session) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked()
}

// stopLocked must be called with s.mu held.
func (s *Session) stopLocked() bool {
	if !s.running {
		return false
	}
	s.running = false
	close(s.stopCh)

	slog.Info("simulation stopped", "session", s.Code, "tick", s.tick)
	return true
}

// Reset stops the loop and replaces the population and history with a fresh
// run of the same configuration. The swap happens under the session lock, so
// readers see either the old run or the new one.
func (s *Session) Reset() {
	s.restart(nil)
}

// Configure stops the loop and starts a new run with cfg.
func (s *Session) Configure(cfg epidemic.Config) {
	s.restart(&cfg)
}

// restart ends the current run and begins a new one with cfg, or with the
// current configuration when cfg is nil. The finished run is saved in the
// background.
func (s *Session) restart(cfg *epidemic.Config) {
	s.mu.Lock()
	next := s.cfg
	if cfg != nil {
		next = *cfg
	}
	s.stopLocked()
	s.opts.persister.save(s.finishRunLocked())
	s.resetLocked(next)
	state := s.stateLocked()
	s.mu.Unlock()

	slog.Info("simulation reset", "session", s.Code, "population", next.TotalPeople)
	s.broadcastState(state)
}

// Advance runs exactly one tick synchronously and returns its statistics.
func (s *Session) Advance() epidemic.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepLocked()
}

// stepLocked advances the clock and the population by one tick.
// Caller must hold s.mu.
func (s *Session) stepLocked() epidemic.Stats {
	s.tick++
	var stats epidemic.Stats
	s.agents, stats = epidemic.Step(s.agents, s.tick, s.cfg, s.rng)
	s.history.Append(stats)
	return stats
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	stats, _ := s.history.Last()
	return State{
		Code:    s.Code,
		Running: s.running,
		Tick:    s.tick,
		Day:     float64(s.tick) / epidemic.TicksPerDay,
		Stats:   stats,
		Agents:  epidemic.Views(s.agents),
		Width:   s.cfg.Width,
		Height:  s.cfg.Height,
	}
}

// Info returns a summary of the session.
func (s *Session) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info := Info{
		Code:    s.Code,
		Running: s.running,
		Tick:    s.tick,
		Clients: len(s.clients),
		Config:  s.cfg,
	}
	if s.run != nil {
		info.RunID = s.run.ID
	}
	return info
}

// History returns a copy of the run's statistics series.
func (s *Session) History() []epidemic.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.Points()
}

// ChartHistory returns the series downsampled for plotting.
func (s *Session) ChartHistory() []epidemic.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.Downsample(epidemic.MaxChartPoints)
}

// Close stops the loop and schedules the current run for saving. Use Wait to
// block until the save has finished.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.opts.persister.save(s.finishRunLocked())
}

// Wait blocks until the runs this session handed to its store are written.
// Sessions created by a Manager share its store writer, so Wait also covers
// their sibling sessions.
func (s *Session) Wait() {
	s.opts.persister.wait()
}

// finishRunLocked detaches the current run for persistence. A run that never
// ticked is dropped, and a run is only ever handed out once.
// Caller must hold s.mu.
func (s *Session) finishRunLocked() *finishedRun {
	if s.run == nil || s.tick == 0 {
		return nil
	}
	run := s.run
	s.run = nil

	run.EndedAt = time.Now()
	run.Ticks = s.tick
	run.Final, _ = s.history.Last()
	return &finishedRun{code: s.Code, run: run, history: s.history.Points()}
}

// BroadcastMessage sends a message to all clients of the session.
func (s *Session) BroadcastMessage(msg ws.Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, client := range s.clients {
		client.SendMessage(msg)
	}
}

func (s *Session) broadcastState(state State) {
	msg, err := ws.NewMessage(ws.TypeSimState, state)
	if err != nil {
		slog.Error("failed to encode state", "session", s.Code, "error", err)
		return
	}
	s.BroadcastMessage(msg)
}

// loop runs one simulation step per tick until stopCh is closed. Each step
// runs to completion under s.mu, so Stop and Reset only ever land between ticks.
func (s *Session) loop(stopCh chan struct{}) {
	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()

	every := int64(max(s.opts.BroadcastEvery, 1))

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.mu.Lock()
			// A stop may have raced with this tick.
			if !s.running || s.stopCh != stopCh {
				s.mu.Unlock()
				return
			}

			stats := s.stepLocked()
			over := !stats.Active()

			var state *State
			if stats.Tick%every == 0 || over {
				st := s.stateLocked()
				state = &st
			}

			if over {
				s.running = false
				close(s.stopCh)
				s.opts.persister.save(s.finishRunLocked())
				state.Running = false
			}
			s.mu.Unlock()

			if state != nil {
				s.broadcastState(*state)
			}

			if over {
				msg, _ := ws.NewMessage(ws.TypeSimOver, simOverMessage{Tick: stats.Tick, Stats: stats})
				s.BroadcastMessage(msg)
				slog.Info("epidemic over", "session", s.Code, "tick", stats.Tick,
					"recovered", stats.Recovered, "dead", stats.Dead)
				return
			}
		}
	}
}

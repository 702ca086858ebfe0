package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ugaemi/epidemic-sim/internal/epidemic"
	"github.com/ugaemi/epidemic-sim/internal/store"
)

const persistTimeout = 5 * time.Second

// finishedRun is a run detached from the session, ready to be persisted.
type finishedRun struct {
	code    string
	run     *store.Run
	history []epidemic.Stats
}

// persister writes finished runs to the store off the caller's goroutine.
// Control messages are handled on the hub goroutine, so a slow database must
// never block them. A Manager shares one persister across its sessions.
type persister struct {
	store store.RunStore

	// mu orders wg.Add against wg.Wait; a save may race with shutdown.
	mu sync.Mutex
	wg sync.WaitGroup
}

func newPersister(rs store.RunStore) *persister {
	return &persister{store: rs}
}

// save schedules f for writing. It never blocks.
func (p *persister) save(f *finishedRun) {
	if f == nil || p.store == nil {
		return
	}

	p.mu.Lock()
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := p.store.SaveRun(ctx, f.run, f.history); err != nil {
			slog.Error("failed to save run", "session", f.code, "run", f.run.ID, "error", err)
			return
		}
		slog.Info("run saved", "session", f.code, "run", f.run.ID, "ticks", f.run.Ticks)
	}()
}

// wait blocks until every scheduled save has finished or timed out.
func (p *persister) wait() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.wg.Wait()
}

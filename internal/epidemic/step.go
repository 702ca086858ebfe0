package epidemic

// Initialize builds cfg.TotalPeople agents. The first InitialInfected of them
// start infected at tick now, the rest healthy.
func Initialize(cfg Config, now int64, rng Rand) []*Agent {
	if cfg.TotalPeople <= 0 {
		return nil
	}

	agents := make([]*Agent, 0, cfg.TotalPeople)
	for i := 0; i < cfg.TotalPeople; i++ {
		agents = append(agents, NewAgent(cfg, rng))
	}
	for i := 0; i < cfg.InitialInfected(); i++ {
		agents[i].Seed(now)
	}
	return agents
}

// Step advances every agent by one tick at time now and returns the agents
// together with a snapshot of their statuses.
//
// The order within a tick is: movement with wall bounce, pairwise collision
// resolution with contagion, then disease progression. No agent is created or
// removed.
func Step(agents []*Agent, now int64, cfg Config, rng Rand) ([]*Agent, Stats) {
	for _, a := range agents {
		a.Move(cfg)
	}

	infections := 0
	for i := 0; i < len(agents); i++ {
		for j := i + 1; j < len(agents); j++ {
			a, b := agents[i], agents[j]
			if !Collides(a, b) {
				continue
			}
			infections += Collide(a, b, now, cfg, rng)
		}
	}

	for _, a := range agents {
		a.Advance(now, cfg, rng)
	}

	stats := Count(agents, now, cfg)
	stats.NewInfections = infections
	return agents, stats
}

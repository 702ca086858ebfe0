package epidemic

import "math"

// InfectionProbability returns the chance that a single contact infects a.
// It is zero for agents that cannot be infected.
func (a *Agent) InfectionProbability(cfg Config) float64 {
	if a.IsDead() {
		return 0
	}
	switch a.Status {
	case StatusHealthy:
		if a.Immune {
			return 0
		}
		return cfg.InfectivityPercent
	case StatusRecovered:
		if !cfg.RecurrentInfection {
			return 0
		}
		return cfg.InfectivityPercent * math.Pow(cfg.ReinfectionImmunityFactor, float64(a.ReinfectionCount+1))
	default:
		return 0
	}
}

// Infect makes one infection attempt against a at tick now. It draws from rng
// only when a is susceptible and reports whether a became infected.
func (a *Agent) Infect(now int64, cfg Config, rng Rand) bool {
	p := a.InfectionProbability(cfg)
	if p <= 0 {
		return false
	}
	if rng.Float64() >= p {
		return false
	}

	if a.Status == StatusRecovered {
		a.ReinfectionCount++
	}
	a.Status = StatusInfected
	a.Immune = false
	a.InfectionStart = &now
	a.SymptomStart = nil
	return true
}

// Advance applies the time-driven transitions: Infected becomes Symptomatic once
// the incubation period has elapsed, and Symptomatic resolves into Dead or
// Recovered once the symptomatic period has elapsed.
func (a *Agent) Advance(now int64, cfg Config, rng Rand) {
	if a.Status == StatusInfected && a.InfectionStart != nil &&
		now-*a.InfectionStart >= cfg.IncubationTicks() {
		a.Status = StatusSymptomatic
		a.SymptomStart = &now
	}

	if a.Status == StatusSymptomatic && a.SymptomStart != nil &&
		now-*a.SymptomStart >= cfg.SymptomaticTicks() {
		if rng.Float64() < cfg.MortalityRate {
			a.Die()
		} else {
			a.Recover()
		}
	}
}

func (a *Agent) Die() {
	a.Status = StatusDead
	a.Dead = true
}

func (a *Agent) Recover() {
	a.Status = StatusRecovered
	a.Immune = true
}

// Seed puts a at the start of an infection at tick now.
func (a *Agent) Seed(now int64) {
	a.Status = StatusInfected
	a.InfectionStart = &now
}

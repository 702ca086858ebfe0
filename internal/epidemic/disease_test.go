package epidemic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfect(t *testing.T) {
	tests := []struct {
		name      string
		agent     *Agent
		cfg       func(c *Config)
		draw      float64
		want      bool
		wantState Status
	}{
		{
			name:      "healthy with certain infectivity",
			agent:     &Agent{Status: StatusHealthy},
			cfg:       func(c *Config) { c.InfectivityPercent = 1 },
			draw:      0.99,
			want:      true,
			wantState: StatusInfected,
		},
		{
			name:      "healthy with zero infectivity",
			agent:     &Agent{Status: StatusHealthy},
			cfg:       func(c *Config) { c.InfectivityPercent = 0 },
			draw:      0,
			want:      false,
			wantState: StatusHealthy,
		},
		{
			name:      "draw above probability",
			agent:     &Agent{Status: StatusHealthy},
			cfg:       func(c *Config) { c.InfectivityPercent = 0.3 },
			draw:      0.3,
			want:      false,
			wantState: StatusHealthy,
		},
		{
			name:      "draw below probability",
			agent:     &Agent{Status: StatusHealthy},
			cfg:       func(c *Config) { c.InfectivityPercent = 0.3 },
			draw:      0.29,
			want:      true,
			wantState: StatusInfected,
		},
		{
			name:      "already infected is a no-op",
			agent:     &Agent{Status: StatusInfected},
			cfg:       func(c *Config) { c.InfectivityPercent = 1 },
			want:      false,
			wantState: StatusInfected,
		},
		{
			name:      "symptomatic is a no-op",
			agent:     &Agent{Status: StatusSymptomatic},
			cfg:       func(c *Config) { c.InfectivityPercent = 1 },
			want:      false,
			wantState: StatusSymptomatic,
		},
		{
			name:      "dead is a no-op",
			agent:     &Agent{Status: StatusDead, Dead: true},
			cfg:       func(c *Config) { c.InfectivityPercent = 1 },
			want:      false,
			wantState: StatusDead,
		},
		{
			name:  "recovered without recurrent infection",
			agent: &Agent{Status: StatusRecovered, Immune: true},
			cfg: func(c *Config) {
				c.InfectivityPercent = 1
				c.RecurrentInfection = false
			},
			want:      false,
			wantState: StatusRecovered,
		},
		{
			name:  "recovered with recurrent infection",
			agent: &Agent{Status: StatusRecovered, Immune: true},
			cfg: func(c *Config) {
				c.InfectivityPercent = 1
				c.RecurrentInfection = true
				c.ReinfectionImmunityFactor = 1
			},
			draw:      0.5,
			want:      true,
			wantState: StatusInfected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.cfg(&cfg)

			got := tt.agent.Infect(7, cfg, fixedRand(tt.draw))

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantState, tt.agent.Status)
			if tt.want {
				require.NotNil(t, tt.agent.InfectionStart)
				assert.Equal(t, int64(7), *tt.agent.InfectionStart)
				assert.False(t, tt.agent.Immune)
			}
		})
	}
}

func TestInfectionProbability_Reinfection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InfectivityPercent = 0.8
	cfg.RecurrentInfection = true
	cfg.ReinfectionImmunityFactor = 0.5

	a := &Agent{Status: StatusRecovered, Immune: true}
	assert.InDelta(t, 0.4, a.InfectionProbability(cfg), 1e-9)

	a.ReinfectionCount = 2
	assert.InDelta(t, 0.1, a.InfectionProbability(cfg), 1e-9)
}

func TestInfect_ReinfectionCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InfectivityPercent = 1
	cfg.RecurrentInfection = true
	cfg.ReinfectionImmunityFactor = 1

	healthy := &Agent{Status: StatusHealthy}
	require.True(t, healthy.Infect(0, cfg, fixedRand(0)))
	assert.Equal(t, 0, healthy.ReinfectionCount, "first infection is not a reinfection")

	recovered := &Agent{Status: StatusRecovered, Immune: true, ReinfectionCount: 1}
	require.True(t, recovered.Infect(0, cfg, fixedRand(0)))
	assert.Equal(t, 2, recovered.ReinfectionCount)
}

func TestAdvance_IncubationBoundary(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IncubationPeriod = 2
	incubation := cfg.IncubationTicks()

	a := &Agent{}
	a.Seed(100)

	a.Advance(100+incubation-1, cfg, fixedRand(0))
	assert.Equal(t, StatusInfected, a.Status, "must not turn symptomatic early")
	assert.Nil(t, a.SymptomStart)

	a.Advance(100+incubation, cfg, fixedRand(0))
	assert.Equal(t, StatusSymptomatic, a.Status)
	require.NotNil(t, a.SymptomStart)
	assert.Equal(t, 100+incubation, *a.SymptomStart)
}

func TestAdvance_Resolution(t *testing.T) {
	tests := []struct {
		name      string
		mortality float64
		draw      float64
		want      Status
		wantDead  bool
	}{
		{"certain death", 1, 0.99, StatusDead, true},
		{"certain recovery", 0, 0, StatusRecovered, false},
		{"draw below mortality", 0.5, 0.49, StatusDead, true},
		{"draw at mortality", 0.5, 0.5, StatusRecovered, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.MortalityRate = tt.mortality
			start := int64(10)
			a := &Agent{Status: StatusSymptomatic, SymptomStart: &start}

			a.Advance(start+cfg.SymptomaticTicks()-1, cfg, fixedRand(tt.draw))
			assert.Equal(t, StatusSymptomatic, a.Status)

			a.Advance(start+cfg.SymptomaticTicks(), cfg, fixedRand(tt.draw))
			assert.Equal(t, tt.want, a.Status)
			assert.Equal(t, tt.wantDead, a.Dead)
			assert.Equal(t, !tt.wantDead, a.Immune)
		})
	}
}

func TestAdvance_TerminalStatesUnchanged(t *testing.T) {
	cfg := DefaultConfig()
	for _, a := range []*Agent{
		{Status: StatusHealthy},
		{Status: StatusRecovered, Immune: true},
		{Status: StatusDead, Dead: true},
	} {
		before := *a
		a.Advance(1_000_000, cfg, fixedRand(0))
		assert.Equal(t, before, *a)
	}
}

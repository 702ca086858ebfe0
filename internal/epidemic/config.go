package epidemic

import "math"

// Config holds the parameters of one simulation run. It is treated as immutable:
// a new Config means a new run.
type Config struct {
	TotalPeople               int     `json:"total_people" yaml:"total_people"`
	InfectedPeople            int     `json:"infected_people" yaml:"infected_people"`
	InfectivityPercent        float64 `json:"infectivity_percent" yaml:"infectivity_percent"`
	IncubationPeriod          float64 `json:"incubation_period" yaml:"incubation_period"`   // days
	SymptomaticPeriod         float64 `json:"symptomatic_period" yaml:"symptomatic_period"` // days
	SocialDistancePercent     float64 `json:"social_distance_percent" yaml:"social_distance_percent"`
	SocialDistanceStrictness  float64 `json:"social_distance_strictness" yaml:"social_distance_strictness"`
	MortalityRate             float64 `json:"mortality_rate" yaml:"mortality_rate"`
	HospitalCapacityPercent   float64 `json:"hospital_capacity_percent" yaml:"hospital_capacity_percent"`
	RecurrentInfection        bool    `json:"recurrent_infection" yaml:"recurrent_infection"`
	ReinfectionImmunityFactor float64 `json:"reinfection_immunity_factor" yaml:"reinfection_immunity_factor"`
	Width                     float64 `json:"width" yaml:"width"`
	Height                    float64 `json:"height" yaml:"height"`
	Speed                     float64 `json:"speed" yaml:"speed"` // arena units per tick
}

// DefaultConfig returns the parameters the simulation starts with when nothing
// else is configured.
func DefaultConfig() Config {
	return Config{
		TotalPeople:               100,
		InfectedPeople:            3,
		InfectivityPercent:        0.4,
		IncubationPeriod:          2,
		SymptomaticPeriod:         3,
		SocialDistancePercent:     0.2,
		SocialDistanceStrictness:  5,
		MortalityRate:             0.15,
		HospitalCapacityPercent:   0.4,
		RecurrentInfection:        true,
		ReinfectionImmunityFactor: 0.5,
		Width:                     1400,
		Height:                    900,
		Speed:                     2,
	}
}

// DaysToTicks converts a duration in days to simulation ticks.
func DaysToTicks(days float64) int64 {
	return int64(math.Round(days * TicksPerDay))
}

// IncubationTicks returns the incubation duration in ticks.
func (c Config) IncubationTicks() int64 {
	return DaysToTicks(c.IncubationPeriod)
}

// SymptomaticTicks returns the symptomatic duration in ticks.
func (c Config) SymptomaticTicks() int64 {
	return DaysToTicks(c.SymptomaticPeriod)
}

// StrictnessFactor maps SocialDistanceStrictness from [1,10] onto [0,1].
// A distancing agent moves at (1 - factor) of its velocity.
func (c Config) StrictnessFactor() float64 {
	return (c.SocialDistanceStrictness - MinStrictness) / (MaxStrictness - MinStrictness)
}

// InitialInfected returns how many agents start infected.
func (c Config) InitialInfected() int {
	return min(c.InfectedPeople, c.TotalPeople)
}

// HospitalCapacity returns the number of symptomatic agents the hospital system
// can hold. It is reported in Stats but not consulted by any transition.
func (c Config) HospitalCapacity() int {
	if c.TotalPeople <= 0 {
		return 0
	}
	return int(math.Floor(c.HospitalCapacityPercent * float64(c.TotalPeople)))
}

// Normalize clamps every field into its documented range. It is meant for code
// that builds a Config from user input; Step never calls it.
func (c Config) Normalize() Config {
	c.TotalPeople = clampInt(c.TotalPeople, 1, MaxPopulation)
	c.InfectedPeople = clampInt(c.InfectedPeople, 1, c.TotalPeople)
	c.InfectivityPercent = clampUnit(c.InfectivityPercent)
	c.SocialDistancePercent = clampUnit(c.SocialDistancePercent)
	c.MortalityRate = clampUnit(c.MortalityRate)
	c.HospitalCapacityPercent = clampUnit(c.HospitalCapacityPercent)
	c.ReinfectionImmunityFactor = clampUnit(c.ReinfectionImmunityFactor)
	c.SocialDistanceStrictness = clampFloat(c.SocialDistanceStrictness, MinStrictness, MaxStrictness)
	c.IncubationPeriod = clampFloat(c.IncubationPeriod, 0, math.Inf(1))
	c.SymptomaticPeriod = clampFloat(c.SymptomaticPeriod, 0, math.Inf(1))

	// The arena must fit at least one agent.
	c.Width = clampFloat(c.Width, 2*AgentRadius, MaxArenaSize)
	c.Height = clampFloat(c.Height, 2*AgentRadius, MaxArenaSize)
	c.Speed = clampFloat(c.Speed, 0, MaxSpeed)
	return c
}

func clampUnit(v float64) float64 {
	return clampFloat(v, 0, 1)
}

// clampFloat bounds v to [lo, hi]. NaN maps to lo.
func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package epidemic

import "math"

// Stats is the per-tick snapshot of status counts.
type Stats struct {
	Tick        int64 `json:"tick"`
	Healthy     int   `json:"healthy"`
	Infected    int   `json:"infected"`
	Symptomatic int   `json:"symptomatic"`
	Recovered   int   `json:"recovered"`
	Dead        int   `json:"dead"`
	Total       int   `json:"total"`

	NewInfections int `json:"new_infections"`

	// Hospital load is tracked for display only.
	HospitalCapacity int  `json:"hospital_capacity"`
	OverCapacity     bool `json:"over_capacity"`
}

// Count builds a Stats snapshot for agents at tick now.
func Count(agents []*Agent, now int64, cfg Config) Stats {
	s := Stats{
		Tick:             now,
		Total:            len(agents),
		HospitalCapacity: cfg.HospitalCapacity(),
	}
	for _, a := range agents {
		switch a.Status {
		case StatusHealthy:
			s.Healthy++
		case StatusInfected:
			s.Infected++
		case StatusSymptomatic:
			s.Symptomatic++
		case StatusRecovered:
			s.Recovered++
		case StatusDead:
			s.Dead++
		}
	}
	s.OverCapacity = s.Symptomatic > s.HospitalCapacity
	return s
}

// Active reports whether any agent can still transmit.
func (s Stats) Active() bool {
	return s.Infected+s.Symptomatic > 0
}

// Day returns the simulated day the snapshot belongs to.
func (s Stats) Day() float64 {
	return float64(s.Tick) / TicksPerDay
}

// Percent returns count as a whole percentage of total, 0 when total is 0.
func Percent(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

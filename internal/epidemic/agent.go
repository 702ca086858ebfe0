package epidemic

import (
	"encoding/json"
	"math"

	"github.com/google/uuid"
)

// Rand is the source of every probabilistic decision in the simulation.
// *rand.Rand from math/rand satisfies it.
type Rand interface {
	Float64() float64
}

type Status int

const (
	StatusHealthy Status = iota
	StatusInfected
	StatusSymptomatic
	StatusRecovered
	StatusDead
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusInfected:
		return "infected"
	case StatusSymptomatic:
		return "symptomatic"
	case StatusRecovered:
		return "recovered"
	case StatusDead:
		return "dead"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes Status as a string.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes Status from a string.
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "infected":
		*s = StatusInfected
	case "symptomatic":
		*s = StatusSymptomatic
	case "recovered":
		*s = StatusRecovered
	case "dead":
		*s = StatusDead
	default:
		*s = StatusHealthy
	}
	return nil
}

// Infectious reports whether an agent in this status can transmit.
func (s Status) Infectious() bool {
	return s == StatusInfected || s == StatusSymptomatic
}

// Agent is one simulated person. It is mutated only by Step.
type Agent struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	Radius float64 `json:"radius"`
	Status Status  `json:"status"`

	// Tick at which the current infection / symptomatic phase began.
	InfectionStart *int64 `json:"infection_start,omitempty"`
	SymptomStart   *int64 `json:"symptom_start,omitempty"`

	Immune           bool `json:"immune"`
	Dead             bool `json:"dead"`
	ReinfectionCount int  `json:"reinfection_count"`
	Distancing       bool `json:"distancing"`
}

// NewAgent creates a healthy agent at a random position inside the arena with a
// random heading at cfg.Speed.
func NewAgent(cfg Config, rng Rand) *Agent {
	a := &Agent{
		ID:     uuid.New().String(),
		Radius: AgentRadius,
		Status: StatusHealthy,
	}
	a.X = rng.Float64()*(cfg.Width-2*a.Radius) + a.Radius
	a.Y = rng.Float64()*(cfg.Height-2*a.Radius) + a.Radius

	angle := rng.Float64() * 2 * math.Pi
	a.DX = math.Cos(angle) * cfg.Speed
	a.DY = math.Sin(angle) * cfg.Speed

	a.Distancing = rng.Float64() < cfg.SocialDistancePercent
	return a
}

func (a *Agent) SetPosition(x, y float64) {
	a.X = x
	a.Y = y
}

func (a *Agent) SetVelocity(dx, dy float64) {
	a.DX = dx
	a.DY = dy
}

// IsDead reports whether the agent has died. Dead agents neither move nor
// take part in contacts.
func (a *Agent) IsDead() bool {
	return a.Dead
}

func (a *Agent) IsInfectious() bool {
	return !a.IsDead() && a.Status.Infectious()
}

// AgentView is a read-only copy of the fields a renderer needs.
type AgentView struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Status Status  `json:"status"`
}

// Views copies the agents into views. The result shares no memory with agents.
func Views(agents []*Agent) []AgentView {
	views := make([]AgentView, 0, len(agents))
	for _, a := range agents {
		views = append(views, AgentView{
			ID:     a.ID,
			X:      a.X,
			Y:      a.Y,
			Radius: a.Radius,
			Status: a.Status,
		})
	}
	return views
}

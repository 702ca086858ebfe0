package epidemic

import "math"

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return math.Sqrt(dx*dx + dy*dy)
}

// Collides reports whether two live agents touch or overlap.
func Collides(a, b *Agent) bool {
	if a.IsDead() || b.IsDead() {
		return false
	}
	return Distance(a.X, a.Y, b.X, b.Y) <= a.Radius+b.Radius
}

// FindContacts returns every unordered pair of live agents that collide, each
// pair exactly once, in index order. The scan is brute force over all pairs.
func FindContacts(agents []*Agent) [][2]*Agent {
	var pairs [][2]*Agent
	for i := 0; i < len(agents); i++ {
		for j := i + 1; j < len(agents); j++ {
			if Collides(agents[i], agents[j]) {
				pairs = append(pairs, [2]*Agent{agents[i], agents[j]})
			}
		}
	}
	return pairs
}

// Separate pushes a and b apart along their contact normal so that they end
// up exactly tangent, and returns that unit normal (pointing from a to b).
// Coincident centers use the normal (1, 0).
func Separate(a, b *Agent) (nx, ny float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dist := math.Sqrt(dx*dx + dy*dy)

	if dist == 0 {
		nx, ny = 1, 0
	} else {
		nx, ny = dx/dist, dy/dist
	}

	overlap := a.Radius + b.Radius - dist
	if overlap > 0 {
		sx := nx * overlap / 2
		sy := ny * overlap / 2
		a.X -= sx
		a.Y -= sy
		b.X += sx
		b.Y += sy
	}
	return nx, ny
}

// Reflect mirrors the normal components of both velocities when the agents
// are closing along (nx, ny). Agents moving apart or tangentially keep their
// velocities.
func Reflect(a, b *Agent, nx, ny float64) bool {
	sa := a.DX*nx + a.DY*ny
	sb := b.DX*nx + b.DY*ny
	if !(sa > 0 && sb < 0) {
		return false
	}
	a.DX -= 2 * sa * nx
	a.DY -= 2 * sa * ny
	b.DX -= 2 * sb * nx
	b.DY -= 2 * sb * ny
	return true
}

// Transmit makes the infection attempts for one contact. Statuses are read
// before either side changes, so an agent infected by this contact cannot
// pass it back within the same check. It returns the number of new infections.
func Transmit(a, b *Agent, now int64, cfg Config, rng Rand) int {
	aInf := a.IsInfectious()
	bInf := b.IsInfectious()

	infected := 0
	if aInf && !bInf && b.Infect(now, cfg, rng) {
		infected++
	}
	if bInf && !aInf && a.Infect(now, cfg, rng) {
		infected++
	}
	return infected
}

// Collide resolves one contact: separation, elastic response, then contagion.
// Both agents are kept inside the arena after separation.
func Collide(a, b *Agent, now int64, cfg Config, rng Rand) int {
	nx, ny := Separate(a, b)
	Reflect(a, b, nx, ny)
	a.Bounce(cfg.Width, cfg.Height)
	b.Bounce(cfg.Width, cfg.Height)
	return Transmit(a, b, now, cfg, rng)
}

package epidemic

// Move advances a live agent by one tick and bounces it off the arena walls.
// Distancing agents move at (1 - StrictnessFactor) of their velocity.
func (a *Agent) Move(cfg Config) {
	if a.IsDead() {
		return
	}

	dx, dy := a.DX, a.DY
	if a.Distancing {
		scale := 1 - cfg.StrictnessFactor()
		dx *= scale
		dy *= scale
	}

	a.X += dx
	a.Y += dy
	a.Bounce(cfg.Width, cfg.Height)
}

// Bounce pins the agent inside [r, width-r] x [r, height-r]. On each axis that
// had to be clamped, the matching velocity component is reversed.
func (a *Agent) Bounce(width, height float64) {
	minX, maxX := a.Radius, width-a.Radius
	minY, maxY := a.Radius, height-a.Radius

	if a.X < minX {
		a.X = minX
		a.DX = -a.DX
	} else if a.X > maxX {
		a.X = maxX
		a.DX = -a.DX
	}
	if a.Y < minY {
		a.Y = minY
		a.DY = -a.DY
	} else if a.Y > maxY {
		a.Y = maxY
		a.DY = -a.DY
	}
}

// InBounds reports whether the agent lies inside the arena it is confined to.
func (a *Agent) InBounds(width, height float64) bool {
	return a.X >= a.Radius && a.X <= width-a.Radius &&
		a.Y >= a.Radius && a.Y <= height-a.Radius
}

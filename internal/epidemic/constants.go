package epidemic

// Agent geometry
const (
	AgentRadius = 15.0 // arena units
)

// Input bounds applied by Normalize
const (
	MaxPopulation = 200
	MaxArenaSize  = 4000.0 // per side, arena units
	MaxSpeed      = 20.0   // arena units per tick
)

// Time
const (
	TicksPerDay = 60 // one day of disease progression, one second at 60 fps
)

// Social distancing strictness scale
const (
	MinStrictness = 1.0
	MaxStrictness = 10.0
)

// Statistics
const (
	MaxChartPoints = 160 // points kept when downsampling history for charts
)

package report

import (
	"image/color"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ugaemi/epidemic-sim/internal/epidemic"
)

var (
	background = color.RGBA{R: 0xf8, G: 0xf9, B: 0xfa, A: 0xff}
	captionInk = color.RGBA{R: 0x2d, G: 0x37, B: 0x48, A: 0xff}
)

var statusHex = map[epidemic.Status]string{
	epidemic.StatusHealthy:     "4fd1c5",
	epidemic.StatusInfected:    "ffa500",
	epidemic.StatusSymptomatic: "af2b1e",
	epidemic.StatusRecovered:   "68d391",
	epidemic.StatusDead:        "718096",
}

// StatusColor returns the color agents of status s are drawn with.
func StatusColor(s epidemic.Status) color.RGBA {
	c := drawing.ColorFromHex(statusHex[s])
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

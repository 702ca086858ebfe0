package report

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ugaemi/epidemic-sim/internal/epidemic"
)

// RenderFrame draws the arena with every agent as a filled circle in its
// status color, plus a caption with the day and the per-status counts.
func RenderFrame(agents []epidemic.AgentView, stats epidemic.Stats, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	// Dead agents first so the living are drawn on top.
	for _, a := range agents {
		if a.Status == epidemic.StatusDead {
			fillCircle(img, a)
		}
	}
	for _, a := range agents {
		if a.Status != epidemic.StatusDead {
			fillCircle(img, a)
		}
	}

	addLabel(img, 8, 16, Caption(stats))
	return img
}

// Caption summarizes a snapshot in one line.
func Caption(s epidemic.Stats) string {
	return fmt.Sprintf("day %.1f  healthy %d  infected %d  symptomatic %d  recovered %d  dead %d",
		s.Day(), s.Healthy, s.Infected, s.Symptomatic, s.Recovered, s.Dead)
}

func fillCircle(img *image.RGBA, a epidemic.AgentView) {
	c := StatusColor(a.Status)
	r := a.Radius
	b := img.Bounds()

	x0 := max(int(math.Floor(a.X-r)), b.Min.X)
	x1 := min(int(math.Ceil(a.X+r)), b.Max.X-1)
	y0 := max(int(math.Floor(a.Y-r)), b.Min.Y)
	y1 := min(int(math.Ceil(a.Y+r)), b.Max.Y-1)

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - a.X
			dy := float64(y) + 0.5 - a.Y
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func addLabel(img *image.RGBA, x, y int, label string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(captionInk),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(label)
}

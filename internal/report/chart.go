package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ugaemi/epidemic-sim/internal/epidemic"
)

// ErrNotEnoughData is returned when a chart is requested for fewer than two
// distinct ticks.
var ErrNotEnoughData = errors.New("not enough data to chart")

const (
	ChartWidth  = 960
	ChartHeight = 360
)

type seriesDef struct {
	status epidemic.Status
	value  func(epidemic.Stats) int
}

var chartSeries = []seriesDef{
	{epidemic.StatusHealthy, func(s epidemic.Stats) int { return s.Healthy }},
	{epidemic.StatusInfected, func(s epidemic.Stats) int { return s.Infected }},
	{epidemic.StatusSymptomatic, func(s epidemic.Stats) int { return s.Symptomatic }},
	{epidemic.StatusRecovered, func(s epidemic.Stats) int { return s.Recovered }},
	{epidemic.StatusDead, func(s epidemic.Stats) int { return s.Dead }},
}

// RenderChart plots one line per status over days and writes it to w as PNG.
// Callers downsample long histories beforehand.
func RenderChart(w io.Writer, points []epidemic.Stats) error {
	if len(points) < 2 || points[0].Tick == points[len(points)-1].Tick {
		return ErrNotEnoughData
	}

	days := make([]float64, len(points))
	for i, p := range points {
		days[i] = p.Day()
	}

	total := points[0].Total
	if total < 1 {
		total = 1
	}

	series := make([]chart.Series, 0, len(chartSeries))
	for _, def := range chartSeries {
		ys := make([]float64, len(points))
		for i, p := range points {
			ys[i] = float64(def.value(p))
		}
		series = append(series, chart.ContinuousSeries{
			Name:    def.status.String(),
			XValues: days,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex(statusHex[def.status]),
				StrokeWidth: 3.0,
			},
		})
	}

	graph := chart.Chart{
		Width:  ChartWidth,
		Height: ChartHeight,
		XAxis: chart.XAxis{
			Name:  "day",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: days[0], Max: days[len(days)-1]},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.1f", v.(float64))
			},
		},
		YAxis: chart.YAxis{
			Name:  "people",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: float64(total)},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}

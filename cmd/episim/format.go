package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ugaemi/epidemic-sim/internal/epidemic"
	"github.com/ugaemi/epidemic-sim/internal/store"
)

func printSummary(w io.Writer, runID string, cfg epidemic.Config, history []epidemic.Stats) {
	if len(history) == 0 {
		fmt.Fprintf(w, "run %s: no statistics\n", runID)
		return
	}
	final := history[len(history)-1]

	peak := history[0]
	for _, s := range history {
		if s.Infected+s.Symptomatic > peak.Infected+peak.Symptomatic {
			peak = s
		}
	}

	fmt.Fprintf(w, "run %s\n", runID)
	fmt.Fprintf(w, "  population:   %d (%d initially infected)\n", cfg.TotalPeople, cfg.InitialInfected())
	fmt.Fprintf(w, "  duration:     %d ticks (%.1f days)\n", final.Tick, final.Day())
	fmt.Fprintf(w, "  peak:         %d infectious on day %.1f\n", peak.Infected+peak.Symptomatic, peak.Day())
	fmt.Fprintf(w, "  healthy:      %d (%d%%)\n", final.Healthy, epidemic.Percent(final.Healthy, final.Total))
	fmt.Fprintf(w, "  infected:     %d (%d%%)\n", final.Infected, epidemic.Percent(final.Infected, final.Total))
	fmt.Fprintf(w, "  symptomatic:  %d (%d%%)\n", final.Symptomatic, epidemic.Percent(final.Symptomatic, final.Total))
	fmt.Fprintf(w, "  recovered:    %d (%d%%)\n", final.Recovered, epidemic.Percent(final.Recovered, final.Total))
	fmt.Fprintf(w, "  dead:         %d (%d%%)\n", final.Dead, epidemic.Percent(final.Dead, final.Total))
	if !final.Active() {
		fmt.Fprintln(w, "  epidemic over")
	}
}

func printRuns(w io.Writer, runs []*store.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSESSION\tSTARTED\tTICKS\tPEOPLE\tDEAD\tRECOVERED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			r.ID, r.SessionCode, r.StartedAt.Format("2006-01-02 15:04"), r.Ticks,
			r.Config.TotalPeople, r.Final.Dead, r.Final.Recovered)
	}
	tw.Flush()
}

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ugaemi/epidemic-sim/internal/epidemic"
)

var csvHeader = []string{
	"tick", "day", "healthy", "infected", "symptomatic", "recovered", "dead",
	"new_infections", "hospital_capacity", "over_capacity",
}

// WriteCSV writes one row per statistics snapshot.
func WriteCSV(w io.Writer, history []epidemic.Stats) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, s := range history {
		row := []string{
			strconv.FormatInt(s.Tick, 10),
			strconv.FormatFloat(s.Day(), 'f', 3, 64),
			strconv.Itoa(s.Healthy),
			strconv.Itoa(s.Infected),
			strconv.Itoa(s.Symptomatic),
			strconv.Itoa(s.Recovered),
			strconv.Itoa(s.Dead),
			strconv.Itoa(s.NewInfections),
			strconv.Itoa(s.HospitalCapacity),
			strconv.FormatBool(s.OverCapacity),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row at tick %d: %w", s.Tick, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

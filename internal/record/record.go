// Package record formats simulation records for the console stream and the
// comma-delimited trajectory file.
package record

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/san-kum/rocketsim/internal/rocket"
	"github.com/san-kum/rocketsim/internal/sim"
)

// Columns is the field order shared by both output streams.
var Columns = []string{"Time(s)", "X(m)", "Y(m)", "Vel-X(m/s)", "Vel-Y(m/s)", "Fuel(kg)", "Mass(kg)"}

var ErrMalformedRow = errors.New("record: malformed row")

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Fields renders r in column order with two decimals.
func Fields(r sim.Record) []string {
	return []string{
		formatFloat(r.Time),
		formatFloat(r.State.X),
		formatFloat(r.State.Y),
		formatFloat(r.State.VelocityX),
		formatFloat(r.State.VelocityY),
		formatFloat(r.State.Fuel),
		formatFloat(r.Mass),
	}
}

// Parse reads a row written by Fields. Values carry the two-decimal
// rounding of the file.
func Parse(step int, row []string) (sim.Record, error) {
	if len(row) != len(Columns) {
		return sim.Record{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRow, len(Columns), len(row))
	}
	vals := make([]float64, len(row))
	for i, field := range row {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return sim.Record{}, fmt.Errorf("%w: column %s: %v", ErrMalformedRow, Columns[i], err)
		}
		vals[i] = v
	}
	return sim.Record{
		Step: step,
		Time: vals[0],
		State: rocket.State{
			X:         vals[1],
			Y:         vals[2],
			VelocityX: vals[3],
			VelocityY: vals[4],
			Fuel:      vals[5],
		},
		Mass: vals[6],
	}, nil
}

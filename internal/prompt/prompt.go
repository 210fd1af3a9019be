// Package prompt reads the run controls from an interactive console.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/rocketsim/internal/rocket"
)

var ErrNoInput = errors.New("prompt: input closed")

const (
	ThrustPrompt = "Enter thrust (Newtons): "
	AnglePrompt  = "Enter launch angle (degrees): "
	FuelPrompt   = "Enter initial fuel amount (kg): "
)

type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Float asks until a finite number is entered. Rejected lines are reported
// and the question is repeated.
func (p *Prompter) Float(question string) (float64, error) {
	for {
		fmt.Fprint(p.out, question)
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return 0, fmt.Errorf("read %q: %w", strings.TrimSpace(question), err)
			}
			return 0, ErrNoInput
		}

		line := strings.TrimSpace(p.in.Text())
		v, err := strconv.ParseFloat(line, 64)
		if err != nil || line == "" || isNonFinite(v) {
			fmt.Fprintf(p.out, "invalid number %q, try again\n", line)
			continue
		}
		return v, nil
	}
}

// NonNegative is Float with negative values rejected.
func (p *Prompter) NonNegative(question string) (float64, error) {
	for {
		v, err := p.Float(question)
		if err != nil {
			return 0, err
		}
		if v >= 0 {
			return v, nil
		}
		fmt.Fprintf(p.out, "value must not be negative, got %g\n", v)
	}
}

// Known carries values already supplied by flags or config. Nil fields are
// asked for.
type Known struct {
	Thrust *float64
	Angle  *float64
	Fuel   *float64
}

// Controls asks for thrust, angle and initial fuel in that order, skipping
// the ones already known.
func (p *Prompter) Controls(k Known) (rocket.Controls, float64, error) {
	var (
		c    rocket.Controls
		fuel float64
		err  error
	)

	if k.Thrust != nil {
		c.Thrust = *k.Thrust
	} else if c.Thrust, err = p.NonNegative(ThrustPrompt); err != nil {
		return c, 0, err
	}

	if k.Angle != nil {
		c.AngleDeg = *k.Angle
	} else if c.AngleDeg, err = p.Float(AnglePrompt); err != nil {
		return c, 0, err
	}

	if k.Fuel != nil {
		fuel = *k.Fuel
	} else if fuel, err = p.NonNegative(FuelPrompt); err != nil {
		return c, 0, err
	}

	return c, fuel, nil
}

func isNonFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

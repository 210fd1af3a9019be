package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/rocketsim/internal/sim"
)

var ErrNoTrials = errors.New("optim: grid is empty")

type RunFunc func(ctx context.Context, params map[string]float64) (*sim.Result, error)

type Trial struct {
	Params map[string]float64
	Value  float64
	Result *sim.Result
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	workers    int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, workers: 1}
}

// SetWorkers bounds how many trials run at once. Values below 1 mean 1.
func (g *GridSearch) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	g.workers = n
}

// Search runs every combination of the grid and returns the trial with the
// best value of metricName along with all trials in grid order. The first
// failing trial cancels the rest.
func (g *GridSearch) Search(ctx context.Context, run RunFunc, metricName string, maximize bool) (Trial, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return Trial{}, nil, fmt.Errorf("optim: %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}

	points := make([]map[string]float64, 0)
	g.enumerate(0, make(map[string]float64), &points)
	if len(points) == 0 {
		return Trial{}, nil, ErrNoTrials
	}

	trials := make([]Trial, len(points))
	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)

	for i, params := range points {
		i, params := i, params
		eg.Go(func() error {
			if err := ectx.Err(); err != nil {
				return err
			}

			result, err := run(ectx, params)
			if err != nil {
				return fmt.Errorf("trial %v: %w", params, err)
			}

			val, ok := result.Metrics[metricName]
			if !ok {
				return fmt.Errorf("trial %v: metric %q not reported", params, metricName)
			}
			trials[i] = Trial{Params: params, Value: val, Result: result}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return Trial{}, nil, err
	}

	best := trials[0]
	for _, tr := range trials[1:] {
		if better(tr.Value, best.Value, maximize) {
			best = tr
		}
	}
	return best, trials, nil
}

func better(v, cur float64, maximize bool) bool {
	if math.IsNaN(cur) {
		return !math.IsNaN(v)
	}
	if maximize {
		return v > cur
	}
	return v < cur
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val
		g.enumerate(depth+1, newParams, out)
	}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	out[n-1] = hi
	return out
}

// Ranked returns trials ordered best first.
func Ranked(trials []Trial, maximize bool) []Trial {
	out := append([]Trial(nil), trials...)
	sort.SliceStable(out, func(i, j int) bool {
		return better(out[i].Value, out[j].Value, maximize)
	})
	return out
}

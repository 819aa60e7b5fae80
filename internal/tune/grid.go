// Package tune searches controller gains for the lowest value of a run
// metric.
package tune

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var ErrEmptyGrid = errors.New("tune: grid has no points")

type Param struct {
	Name   string
	Values []float64
}

// Objective scores one grid point; lower is better.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

type Result struct {
	Params    map[string]float64
	Value     float64
	Evaluated int
}

type GridSearch struct {
	params []Param
}

func NewGridSearch(params ...Param) *GridSearch {
	return &GridSearch{params: params}
}

// Size is the number of points in the grid.
func (g *GridSearch) Size() int {
	if len(g.params) == 0 {
		return 0
	}
	n := 1
	for _, p := range g.params {
		n *= len(p.Values)
	}
	return n
}

// Search evaluates every grid point in order and keeps the first minimum.
// It stops at the first objective error.
func (g *GridSearch) Search(ctx context.Context, obj Objective) (Result, error) {
	if g.Size() == 0 {
		return Result{}, ErrEmptyGrid
	}
	best := Result{Value: math.Inf(1)}
	err := g.searchRecursive(ctx, 0, make(map[string]float64, len(g.params)), obj, &best)
	return best, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	obj Objective,
	best *Result,
) error {
	if depth == len(g.params) {
		if err := ctx.Err(); err != nil {
			return err
		}
		val, err := obj(ctx, current)
		if err != nil {
			return fmt.Errorf("evaluate %v: %w", current, err)
		}
		best.Evaluated++
		if val < best.Value || best.Params == nil {
			best.Value = val
			best.Params = make(map[string]float64, len(current))
			for k, v := range current {
				best.Params[k] = v
			}
		}
		return nil
	}

	p := g.params[depth]
	for _, val := range p.Values {
		current[p.Name] = val
		if err := g.searchRecursive(ctx, depth+1, current, obj, best); err != nil {
			return err
		}
	}
	delete(current, p.Name)
	return nil
}

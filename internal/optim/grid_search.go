package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/subsim/internal/experiment"
)

var (
	ErrInvalidGrid = errors.New("optim: invalid grid")
	ErrNoFeasible  = errors.New("optim: no grid point ran to completion")
	ErrNoMetric    = errors.New("optim: metric not reported")
)

// BuildFunc turns one grid point into a ready experiment.
type BuildFunc func(params map[string]float64) (*experiment.Experiment, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	limit      int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, limit: runtime.GOMAXPROCS(0)}
}

// SetLimit caps the number of experiments running at once.
func (g *GridSearch) SetLimit(n int) {
	if n > 0 {
		g.limit = n
	}
}

func (g *GridSearch) validate() error {
	if len(g.paramNames) == 0 || len(g.paramNames) != len(g.ranges) {
		return fmt.Errorf("%w: %d names for %d ranges", ErrInvalidGrid, len(g.paramNames), len(g.ranges))
	}
	for i, r := range g.ranges {
		if len(r) == 0 {
			return fmt.Errorf("%w: empty range for %s", ErrInvalidGrid, g.paramNames[i])
		}
	}
	return nil
}

// Points enumerates the grid with the first parameter varying slowest.
func (g *GridSearch) Points() []map[string]float64 {
	var out []map[string]float64
	g.searchRecursive(0, make(map[string]float64), &out)
	return out
}

func (g *GridSearch) searchRecursive(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := maps.Clone(current)
		newParams[paramName] = val
		g.searchRecursive(depth+1, newParams, out)
	}
}

// Search runs every grid point and returns the one minimising metricName.
// Points whose experiment cannot be built or does not finish are skipped;
// ties go to the earlier point.
func (g *GridSearch) Search(ctx context.Context, build BuildFunc, metricName string) (map[string]float64, float64, error) {
	if err := g.validate(); err != nil {
		return nil, 0, err
	}

	points := g.Points()
	values := make([]float64, len(points))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.limit)
	for i, p := range points {
		eg.Go(func() error {
			values[i] = math.NaN()
			exp, err := build(p)
			if err != nil {
				return nil
			}
			result, err := exp.Run(ctx)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				return nil
			}
			v, ok := result.Metrics[metricName]
			if !ok {
				return fmt.Errorf("%w: %s", ErrNoMetric, metricName)
			}
			values[i] = v
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}

	best := math.Inf(1)
	bestIdx := -1
	for i, v := range values {
		if !math.IsNaN(v) && v < best {
			best = v
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return nil, 0, ErrNoFeasible
	}
	return points[bestIdx], best, nil
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
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

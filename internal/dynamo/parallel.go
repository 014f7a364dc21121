package dynamo

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Member is one named simulation in an ensemble.
type Member struct {
	Name string
	Sim  *Simulator
}

// Ensemble advances independent simulators in parallel.
type Ensemble struct {
	members []Member
	limit   int
}

func NewEnsemble(members ...Member) *Ensemble {
	return &Ensemble{members: members, limit: runtime.GOMAXPROCS(0)}
}

func (e *Ensemble) Add(name string, sim *Simulator) {
	e.members = append(e.members, Member{Name: name, Sim: sim})
}

// SetLimit caps the number of concurrently running members.
func (e *Ensemble) SetLimit(n int) {
	if n > 0 {
		e.limit = n
	}
}

func (e *Ensemble) Len() int { return len(e.members) }

// Run returns results in member order. The first failure cancels the rest.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	if len(e.members) == 0 {
		return nil, ErrNoMembers
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	results := make([]*Result, len(e.members))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)

	for i, m := range e.members {
		g.Go(func() error {
			r, err := m.Sim.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", m.Name, err)
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}


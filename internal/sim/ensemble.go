package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/flightsim/internal/control"
	"github.com/san-kum/flightsim/internal/rigidbody"
)

// Member is one aircraft of an ensemble.
type Member struct {
	Initial rigidbody.State
	Source  control.Source
}

// Ensemble flies several aircraft built from one shared Model.
type Ensemble struct {
	Model   *Model
	Options Options
	// Parallel bounds the members in flight at once, unlimited when zero.
	Parallel int
	// Setup, when set, is called with every simulator before it runs.
	Setup func(i int, s *Simulator)
	// Independent keeps the other members flying when one fails. The
	// failure is left in that member's Result.Err.
	Independent bool
}

// Run returns one result per member, in member order. Unless Independent
// is set, the first member error cancels the rest.
func (e *Ensemble) Run(ctx context.Context, members []Member, cfg RunConfig) ([]*Result, error) {
	results := make([]*Result, len(members))
	g, ctx := errgroup.WithContext(ctx)
	if e.Parallel > 0 {
		g.SetLimit(e.Parallel)
	}

	for i, m := range members {
		i, m := i, m
		g.Go(func() error {
			s, err := New(e.Model, m.Initial, e.Options)
			if err != nil {
				return err
			}
			if e.Setup != nil {
				e.Setup(i, s)
			}
			res, err := s.Run(ctx, m.Source, cfg)
			results[i] = res
			if err != nil && e.Independent && res != nil {
				return nil
			}
			if err != nil {
				return fmt.Errorf("member %d: %w", i, err)
			}
			return nil
		})
	}
	return results, g.Wait()
}

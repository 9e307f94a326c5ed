package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/springsim/internal/config"
)

// RunAll plays each scenario on its own goroutine. Every scenario gets its
// own System, so no state is shared between them.
func (r *Runner) RunAll(ctx context.Context, cfgs []*config.Config) ([]*Result, error) {
	results := make([]*Result, len(cfgs))
	g, ctx := errgroup.WithContext(ctx)

	for i, cfg := range cfgs {
		g.Go(func() error {
			res, err := r.Run(ctx, cfg)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

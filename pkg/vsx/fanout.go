package vsx

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 16

// forEach runs fn for every index in [0, n) with at most limit calls in
// flight and waits for all of them. A failing call never stops the others;
// per-index errors are returned together, in index order.
//
// Each call must only write state owned by its index.
func forEach(ctx context.Context, limit, n int, fn func(ctx context.Context, i int) error) error {
	if limit <= 0 {
		limit = defaultConcurrency
	}

	errs := make([]error, n)
	var g errgroup.Group
	g.SetLimit(limit)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()

	var merr *multierror.Error
	for _, err := range errs {
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return merr.ErrorOrNil()
}

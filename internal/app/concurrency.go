package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// PartialResult holds a result or an error for partial success patterns.
type PartialResult[T any] struct {
	Value T
	Err   error
}

// MapPartialLimit calls fn for every item with at most limit calls in
// flight and returns the results in input order. A failing call does not
// cancel the others. Items not yet started when ctx is done report ctx.Err().
//
// Example:
//
//	results := MapPartialLimit(ctx, 4, names, accounts.VerifyCredentials)
func MapPartialLimit[In, Out any](
	ctx context.Context,
	limit int,
	items []In,
	fn func(context.Context, In) (Out, error),
) []PartialResult[Out] {
	results := make([]PartialResult[Out], len(items))

	if limit < 1 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = PartialResult[Out]{Err: err}
				return nil
			}

			value, err := fn(ctx, item)
			results[i] = PartialResult[Out]{Value: value, Err: err}

			return nil
		})
	}

	_ = g.Wait()

	return results
}

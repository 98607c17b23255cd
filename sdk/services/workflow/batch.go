// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package workflow

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// RunBatch runs independent workflows, at most Workflow.Parallelism at a
// time. Every item carries its own outcome; the returned error aggregates
// the failures.
func (c *Consumer) RunBatch(ctx context.Context, reqs []Request) ([]BatchItem, error) {
	items := make([]BatchItem, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.conf.Parallelism)
	for i, req := range reqs {
		g.Go(func() error {
			res, err := c.Run(gctx, req)
			items[i] = BatchItem{Request: req, Result: res, Err: err}
			// a failed asset must not cancel the others
			return nil
		})
	}
	_ = g.Wait()

	var errs *multierror.Error
	for _, it := range items {
		if it.Err != nil {
			errs = multierror.Append(errs, it.Err)
		}
	}
	return items, errs.ErrorOrNil()
}

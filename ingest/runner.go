// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-lpc/photab/ptab"
	"golang.org/x/sync/errgroup"
)

// Report summarizes a batch ingestion.
type Report struct {
	Ingested int // layers added to the builder
	Skipped  int // layers dropped for a recoverable reason
	Total    int // sources considered
}

func (r Report) String() string {
	return fmt.Sprintf("%d of %d layers ingested", r.Ingested, r.Total)
}

// Runner ingests batches of per-energy sources over a bounded worker
// pool and funnels the layers, in input order, into a table builder.
type Runner struct {
	cfg config
}

// NewRunner creates a batch ingestion runner.
func NewRunner(opts ...Option) *Runner {
	cfg := newConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Runner{cfg: cfg}
}

// Run ingests every input and adds the resulting layers to bld in
// input order, so the first ingested source fixes the table geometry
// regardless of which worker finishes first. Recoverable conditions
// (missing source, absent histogram or tree, no events, mismatched
// shape) are logged with the layer energy and counted as skipped;
// any other error aborts the batch. Cancelling ctx abandons the
// batch before anything reaches the builder.
func (r *Runner) Run(ctx context.Context, inputs []Input, bld *ptab.Builder) (Report, error) {
	rep := Report{Total: len(inputs)}

	var (
		layers = make([]*ptab.Layer, len(inputs))
		skips  = make([]error, len(inputs))
	)

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(r.cfg.workers)
	for i, in := range inputs {
		i, in := i, in
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			l, err := load(in.Path, in.Energy, &r.cfg)
			switch {
			case err == nil:
				layers[i] = l
			case errors.Is(err, ErrSkipLayer):
				skips[i] = err
			default:
				return fmt.Errorf("could not ingest %q: %w", in.Path, err)
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return rep, fmt.Errorf("ingest: could not run batch: %w", err)
	}

	for i, in := range inputs {
		if layers[i] == nil {
			rep.Skipped++
			r.cfg.msg.Printf("skipping layer E=%v (%s): %v", in.Energy, in.Path, skips[i])
			continue
		}
		err := bld.AddLayer(layers[i])
		switch {
		case err == nil:
			rep.Ingested++
		case errors.Is(err, ptab.ErrShapeMismatch) || errors.Is(err, ptab.ErrNoEvents):
			rep.Skipped++
			r.cfg.msg.Printf("skipping layer E=%v (%s): %v", in.Energy, in.Path, err)
		default:
			return rep, fmt.Errorf("ingest: could not add layer E=%v: %w", in.Energy, err)
		}
	}

	r.cfg.msg.Printf("%v", rep)
	return rep, nil
}

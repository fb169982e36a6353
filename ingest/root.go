// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ingest

import (
	"fmt"

	"github.com/go-lpc/photab/ptab"
	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/groot/rtree"
	"go-hep.org/x/hep/hbook/rootcnv"
)

// loadROOT ingests a per-energy ROOT source: the named 2D photon
// histogram gives the counts, the entry count of the event tree the
// number of simulated events.
func loadROOT(fname string, energy float64, cfg *config) (*ptab.Layer, error) {
	f, err := groot.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("ingest: could not open %q: %w", fname, err)
	}
	defer f.Close()

	obj, err := f.Get(cfg.root.hist)
	if err != nil {
		return nil, fmt.Errorf("%w: no histogram %q in %q", ErrSkipLayer, cfg.root.hist, fname)
	}
	h2, ok := obj.(rhist.H2)
	if !ok {
		return nil, fmt.Errorf("ingest: object %q in %q is a %T, not a 2D histogram", cfg.root.hist, fname, obj)
	}
	hist, err := rootcnv.H2D(h2)
	if err != nil {
		return nil, fmt.Errorf("ingest: could not convert histogram %q from %q: %w", cfg.root.hist, fname, err)
	}

	events, err := treeEvents(f, cfg.root.tree, fname)
	if err != nil {
		return nil, err
	}
	if events == 0 {
		return nil, fmt.Errorf("%w: %q has no recorded events", ErrSkipLayer, fname)
	}

	return LayerFromH2D(hist, energy, events)
}

// treeEvents returns the entry count of the named event tree.
func treeEvents(f *riofs.File, name, fname string) (int64, error) {
	obj, err := f.Get(name)
	if err != nil {
		return 0, fmt.Errorf("%w: no event tree %q in %q", ErrSkipLayer, name, fname)
	}
	tree, ok := obj.(rtree.Tree)
	if !ok {
		return 0, fmt.Errorf("ingest: object %q in %q is a %T, not a tree", name, fname, obj)
	}
	return tree.Entries(), nil
}

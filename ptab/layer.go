// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ptab

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Layer is one energy's ingestion result: the raw photon counts of a
// 2D (angle, distance) histogram, the native bin edges of that
// histogram and the number of simulated events that produced it.
//
// Layers are consumed by a Builder; only their event counts survive
// in the assembled table.
type Layer struct {
	Energy float64 // primary energy of the simulated particles
	Events int64   // number of simulated events

	angleEdges []float64
	distEdges  []float64
	counts     []float64 // row-major (angle, distance)
	na, nd     int
}

// NewLayer creates a layer from the native edges of its source
// histogram and the flat row-major (angle, distance) photon counts.
func NewLayer(energy float64, events int64, angleEdges, distEdges, counts []float64) (*Layer, error) {
	var (
		na = len(angleEdges) - 1
		nd = len(distEdges) - 1
	)
	if na < 1 || nd < 1 {
		return nil, fmt.Errorf(
			"%w: layer E=%v needs at least 1 bin per axis (angle=%d, distance=%d)",
			ErrInvalidAxis, energy, na, nd,
		)
	}
	if len(counts) != na*nd {
		return nil, fmt.Errorf(
			"ptab: layer E=%v counts shape mismatch (got=%d, want=%d=%dx%d)",
			energy, len(counts), na*nd, na, nd,
		)
	}

	l := &Layer{
		Energy:     energy,
		Events:     events,
		angleEdges: make([]float64, len(angleEdges)),
		distEdges:  make([]float64, len(distEdges)),
		counts:     make([]float64, len(counts)),
		na:         na,
		nd:         nd,
	}
	copy(l.angleEdges, angleEdges)
	copy(l.distEdges, distEdges)
	copy(l.counts, counts)
	return l, nil
}

// Bins returns the (angle, distance) shape of the layer.
func (l *Layer) Bins() (na, nd int) { return l.na, l.nd }

// At returns the raw photon count of bin (ia, id).
func (l *Layer) At(ia, id int) float64 { return l.counts[ia*l.nd+id] }

// Sum returns the total number of photons recorded in the layer.
func (l *Layer) Sum() float64 { return floats.Sum(l.counts) }

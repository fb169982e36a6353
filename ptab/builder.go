// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ptab

import (
	"fmt"
	"log"
	"os"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Builder assembles per-energy layers into a frozen Table.
//
// The first accepted layer fixes the (angle, distance) geometry from
// its native histogram edges; later layers must match that shape or
// are rejected with ErrShapeMismatch. A layer re-using an already
// ingested energy replaces the previous one.
//
// Builders are not safe for concurrent use: parallel ingestion
// pipelines funnel their layers back into a single AddLayer loop.
type Builder struct {
	msg *log.Logger

	angle Axis
	dist  Axis
	ok    bool // geometry established

	layers map[float64]*Layer
	done   bool
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithBuilderLogger sets the logger used to report layer
// replacements and assembly progress.
func WithBuilderLogger(msg *log.Logger) BuilderOption {
	return func(b *Builder) { b.msg = msg }
}

// NewBuilder creates an empty table builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		msg:    log.New(os.Stdout, "ptab: ", 0),
		layers: make(map[float64]*Layer),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Len returns the number of accepted layers.
func (b *Builder) Len() int { return len(b.layers) }

// AddLayer offers a layer to the table under assembly.
//
// Layers without events are rejected with ErrNoEvents, layers whose
// shape does not match the established geometry with
// ErrShapeMismatch; both are recoverable and callers usually log the
// layer and carry on. Invalid bin edges on the geometry-defining
// first layer are a format error and abort the build.
func (b *Builder) AddLayer(l *Layer) error {
	if b.done {
		return ErrFinalized
	}
	if l.Events <= 0 {
		return fmt.Errorf("%w: layer E=%v (events=%d)", ErrNoEvents, l.Energy, l.Events)
	}

	if !b.ok {
		angle, err := NewAxis("angle", "rad", l.angleEdges)
		if err != nil {
			return fmt.Errorf("could not build angle axis from layer E=%v: %w", l.Energy, err)
		}
		dist, err := NewAxis("distance", "mm", l.distEdges)
		if err != nil {
			return fmt.Errorf("could not build distance axis from layer E=%v: %w", l.Energy, err)
		}
		b.angle = angle
		b.dist = dist
		b.ok = true
	}

	if na, nd := l.Bins(); na != b.angle.Bins() || nd != b.dist.Bins() {
		return fmt.Errorf(
			"%w: layer E=%v has shape (%d, %d), want (%d, %d)",
			ErrShapeMismatch, l.Energy, na, nd, b.angle.Bins(), b.dist.Bins(),
		)
	}

	if _, dup := b.layers[l.Energy]; dup {
		b.msg.Printf("layer E=%v already ingested, replacing", l.Energy)
	}
	b.layers[l.Energy] = l
	return nil
}

// Finalize normalizes the accepted layers and freezes them into a
// Table.
//
// The energy axis is built from the sorted set of ingested energies:
// missing energies are not interpolated or synthesized. Finalize with
// zero accepted layers returns ErrNoLayers; the builder can not be
// reused afterwards.
func (b *Builder) Finalize(n Norm) (*Table, error) {
	if b.done {
		return nil, ErrFinalized
	}
	switch n {
	case NormRaw, NormPerEvent, NormDensity:
	default:
		return nil, fmt.Errorf("%w: %v", ErrBadNorm, n)
	}
	if len(b.layers) == 0 {
		return nil, ErrNoLayers
	}

	energies := make([]float64, 0, len(b.layers))
	for e := range b.layers {
		energies = append(energies, e)
	}
	sort.Float64s(energies)

	energy, err := NewAxisFromCenters("energy", "MeV", energies)
	if err != nil {
		return nil, fmt.Errorf("could not build energy axis: %w", err)
	}

	var (
		na     = b.angle.Bins()
		nd     = b.dist.Bins()
		values = make([]float64, len(energies)*na*nd)
		events = make(map[float64]int64, len(energies))
		total  float64
		areas  []float64
	)
	if n == NormDensity {
		areas = SolidAngleAreas(b.angle, b.dist)
	}

	for i, e := range energies {
		l := b.layers[e]
		events[e] = l.Events
		total += l.Sum()

		dst := values[i*na*nd : (i+1)*na*nd]
		copy(dst, l.counts)

		switch n {
		case NormPerEvent, NormDensity:
			floats.Scale(1/float64(l.Events), dst)
		}
		if n == NormDensity {
			for k, area := range areas {
				if area < areaEps {
					dst[k] = 0
					continue
				}
				dst[k] /= area
			}
		}
	}

	b.done = true
	b.msg.Printf("assembled %d energy layer(s), normalization=%v, photons=%v",
		len(energies), n, total)

	return &Table{
		energy: energy,
		angle:  b.angle,
		dist:   b.dist,
		norm:   n,
		values: values,
		areas:  areas,
		events: events,
		total:  total,
		frozen: true,
	}, nil
}

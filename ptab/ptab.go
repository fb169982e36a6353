// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ptab assembles per-energy 2D photon histograms into frozen
// 3D (energy, angle, distance) lookup tables and answers continuous
// point queries against them.
package ptab // import "github.com/go-lpc/photab/ptab"

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Table is the frozen lookup product: three axes, a flat 3D grid of
// values, the normalization those values carry and the provenance of
// the build (events per energy, total raw photons).
//
// A Table is immutable once built: any number of goroutines may read
// it concurrently without locking.
type Table struct {
	energy Axis
	angle  Axis
	dist   Axis

	norm   Norm
	values []float64 // row-major (energy, angle, distance)
	areas  []float64 // solid-angle bin areas, density tables only

	events map[float64]int64 // energy -> number of simulated events
	total  float64           // total raw photons ingested

	frozen bool
}

// NewTable reassembles a frozen table from its parts, enforcing the
// same invariants as the build path. It is the entry point for
// persistence layers reloading a table from disk.
func NewTable(energy, angle, dist Axis, n Norm, values, areas []float64, events map[float64]int64, total float64) (*Table, error) {
	switch n {
	case NormRaw, NormPerEvent, NormDensity:
	default:
		return nil, fmt.Errorf("%w: %v", ErrBadNorm, n)
	}
	for _, ax := range []Axis{energy, angle, dist} {
		if !ax.valid() {
			return nil, fmt.Errorf("%w: axis %q is empty", ErrInvalidAxis, ax.name)
		}
	}
	var (
		ne = energy.Bins()
		na = angle.Bins()
		nd = dist.Bins()
	)
	if len(values) != ne*na*nd {
		return nil, fmt.Errorf(
			"ptab: values shape mismatch (got=%d, want=%d=%dx%dx%d)",
			len(values), ne*na*nd, ne, na, nd,
		)
	}
	if areas != nil && len(areas) != na*nd {
		return nil, fmt.Errorf(
			"ptab: bin-areas shape mismatch (got=%d, want=%d=%dx%d)",
			len(areas), na*nd, na, nd,
		)
	}

	tbl := &Table{
		energy: energy,
		angle:  angle,
		dist:   dist,
		norm:   n,
		values: make([]float64, len(values)),
		events: make(map[float64]int64, len(events)),
		total:  total,
		frozen: true,
	}
	copy(tbl.values, values)
	if areas != nil {
		tbl.areas = make([]float64, len(areas))
		copy(tbl.areas, areas)
	}
	for e, nevts := range events {
		tbl.events[e] = nevts
	}
	return tbl, nil
}

// EnergyAxis returns the energy axis of the table.
func (t *Table) EnergyAxis() Axis { return t.energy }

// AngleAxis returns the opening-angle axis of the table.
func (t *Table) AngleAxis() Axis { return t.angle }

// DistAxis returns the distance axis of the table.
func (t *Table) DistAxis() Axis { return t.dist }

// Norm returns the normalization the stored values carry.
func (t *Table) Norm() Norm { return t.norm }

// Bins returns the (energy, angle, distance) shape of the table.
func (t *Table) Bins() (ne, na, nd int) {
	return t.energy.Bins(), t.angle.Bins(), t.dist.Bins()
}

// At returns the stored value of bin (ie, ia, id).
func (t *Table) At(ie, ia, id int) float64 {
	var (
		na = t.angle.Bins()
		nd = t.dist.Bins()
	)
	return t.values[(ie*na+ia)*nd+id]
}

// Values returns a copy of the flat row-major (energy, angle,
// distance) value grid.
func (t *Table) Values() []float64 {
	vs := make([]float64, len(t.values))
	copy(vs, t.values)
	return vs
}

// HasAreas reports whether the table carries solid-angle bin areas.
// Only density tables do.
func (t *Table) HasAreas() bool { return t.areas != nil }

// AreaAt returns the solid-angle area of bin (ia, id), 0 for tables
// without areas.
func (t *Table) AreaAt(ia, id int) float64 {
	if t.areas == nil {
		return 0
	}
	return t.areas[ia*t.dist.Bins()+id]
}

// Areas returns a copy of the flat row-major (angle, distance)
// solid-angle bin areas, nil for tables without areas.
func (t *Table) Areas() []float64 {
	if t.areas == nil {
		return nil
	}
	as := make([]float64, len(t.areas))
	copy(as, t.areas)
	return as
}

// TotalPhotons returns the total number of raw photons ingested at
// build time, independent of the normalization of the stored values.
func (t *Table) TotalPhotons() float64 { return t.total }

// EventsPerEnergy returns a copy of the energy to simulated-events
// provenance map.
func (t *Table) EventsPerEnergy() map[float64]int64 {
	evts := make(map[float64]int64, len(t.events))
	for e, n := range t.events {
		evts[e] = n
	}
	return evts
}

// Frozen reports whether the table went through a complete build or
// load. Zero-valued tables are not frozen and not servable.
func (t *Table) Frozen() bool { return t != nil && t.frozen }

// TableStats summarizes the occupancy of a table.
type TableStats struct {
	TotalPhotons float64 // raw photons ingested at build time
	Bins         int     // total number of bins
	NonZero      int     // bins holding a non-zero value
	Coverage     float64 // NonZero over Bins
	Max          float64 // largest stored value
	Mean         float64 // mean stored value
}

// Stats scans the stored values and returns occupancy statistics.
func (t *Table) Stats() TableStats {
	st := TableStats{
		TotalPhotons: t.total,
		Bins:         len(t.values),
	}
	if st.Bins == 0 {
		return st
	}
	for _, v := range t.values {
		if v != 0 {
			st.NonZero++
		}
	}
	st.Coverage = float64(st.NonZero) / float64(st.Bins)
	st.Max = floats.Max(t.values)
	st.Mean = stat.Mean(t.values, nil)
	return st
}

// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ptab

import (
	"fmt"
	"math"
)

// Mode selects how an Engine treats query points outside the table
// range.
type Mode uint8

const (
	// ModeClamp clamps out-of-range coordinates to the table
	// boundary: queries beyond an axis return the boundary bin's
	// interpolation.
	ModeClamp Mode = iota

	// ModeZero returns 0 whenever any coordinate falls outside its
	// axis range.
	ModeZero

	// ModeNearest returns the stored value of the bin whose center is
	// nearest to the query point, without interpolation.
	ModeNearest
)

// ParseMode converts a mode tag to a Mode.
func ParseMode(tag string) (Mode, error) {
	switch tag {
	case "clamp", "":
		return ModeClamp, nil
	case "zero":
		return ModeZero, nil
	case "nearest":
		return ModeNearest, nil
	}
	return 0, fmt.Errorf("ptab: unknown query mode %q", tag)
}

// String returns the tag of the mode.
func (m Mode) String() string {
	switch m {
	case ModeClamp:
		return "clamp"
	case ModeZero:
		return "zero"
	case ModeNearest:
		return "nearest"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// Engine answers continuous (energy, angle, distance) point queries
// against a frozen table by trilinear interpolation over bin centers.
//
// Engines are read-only views: any number of goroutines may share one
// engine, or several engines over the same table, without locking.
type Engine struct {
	tab  *Table
	mode Mode
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMode selects the out-of-range behavior of the engine.
// The default is ModeClamp.
func WithMode(m Mode) EngineOption {
	return func(eng *Engine) { eng.mode = m }
}

// NewEngine creates a query engine over a frozen table.
func NewEngine(tab *Table, opts ...EngineOption) (*Engine, error) {
	if !tab.Frozen() {
		return nil, ErrNotFrozen
	}
	eng := &Engine{tab: tab}
	for _, opt := range opts {
		opt(eng)
	}
	return eng, nil
}

// Table returns the engine's underlying frozen table.
func (eng *Engine) Table() *Table { return eng.tab }

// Mode returns the out-of-range behavior of the engine.
func (eng *Engine) Mode() Mode { return eng.mode }

// Value returns the table value at the continuous point
// (energy, angle, dist).
//
// In-range points are trilinearly interpolated between the centers of
// the 8 surrounding bins, so on-grid queries return stored values
// exactly and tables of non-negative counts never interpolate below
// zero. Out-of-range coordinates follow the engine mode. NaN or
// infinite coordinates are rejected with ErrInvalidQuery.
func (eng *Engine) Value(energy, angle, dist float64) (float64, error) {
	if err := checkCoords(energy, angle, dist); err != nil {
		return 0, err
	}

	switch eng.mode {
	case ModeZero:
		tab := eng.tab
		if !tab.energy.inRange(energy) || !tab.angle.inRange(angle) || !tab.dist.inRange(dist) {
			return 0, nil
		}
	case ModeNearest:
		return eng.nearest(energy, angle, dist), nil
	}
	return eng.interp(energy, angle, dist), nil
}

// Batch evaluates one query per element of the equal-length
// coordinate slices and returns the values in order.
func (eng *Engine) Batch(energies, angles, dists []float64) ([]float64, error) {
	if len(angles) != len(energies) || len(dists) != len(energies) {
		return nil, fmt.Errorf(
			"%w: batch shape mismatch (energies=%d, angles=%d, distances=%d)",
			ErrInvalidQuery, len(energies), len(angles), len(dists),
		)
	}

	vs := make([]float64, len(energies))
	for i := range energies {
		v, err := eng.Value(energies[i], angles[i], dists[i])
		if err != nil {
			return nil, fmt.Errorf("could not evaluate query %d: %w", i, err)
		}
		vs[i] = v
	}
	return vs, nil
}

// Nearest returns the stored value of the bin whose center triple is
// nearest to the query point, regardless of the engine mode.
func (eng *Engine) Nearest(energy, angle, dist float64) (float64, error) {
	if err := checkCoords(energy, angle, dist); err != nil {
		return 0, err
	}
	return eng.nearest(energy, angle, dist), nil
}

func (eng *Engine) nearest(energy, angle, dist float64) float64 {
	tab := eng.tab
	return tab.At(
		tab.energy.nearestBin(energy),
		tab.angle.nearestBin(angle),
		tab.dist.nearestBin(dist),
	)
}

func (eng *Engine) interp(energy, angle, dist float64) float64 {
	var (
		tab        = eng.tab
		ne, na, nd = tab.Bins()

		ie, te = tab.energy.locate(energy)
		ia, ta = tab.angle.locate(angle)
		id, td = tab.dist.locate(dist)

		je = imin(ie+1, ne-1)
		ja = imin(ia+1, na-1)
		jd = imin(id+1, nd-1)
	)

	at := func(e, a, d int) float64 {
		return tab.values[(e*na+a)*nd+d]
	}

	// blend along distance, then angle, then energy.
	d00 := lerp(at(ie, ia, id), at(ie, ia, jd), td)
	d01 := lerp(at(ie, ja, id), at(ie, ja, jd), td)
	d10 := lerp(at(je, ia, id), at(je, ia, jd), td)
	d11 := lerp(at(je, ja, id), at(je, ja, jd), td)

	a0 := lerp(d00, d01, ta)
	a1 := lerp(d10, d11, ta)

	return lerp(a0, a1, te)
}

func lerp(lo, hi, t float64) float64 { return lo*(1-t) + hi*t }

func imin(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func checkCoords(coords ...float64) error {
	for _, v := range coords {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: coordinate %v", ErrInvalidQuery, v)
		}
	}
	return nil
}

// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ptab

import (
	"fmt"
	"sort"
)

// Axis describes the binning of one table coordinate: a name, a unit
// and a strictly increasing sequence of bin edges with their centers.
type Axis struct {
	name    string
	unit    string
	edges   []float64
	centers []float64
}

// NewAxis creates an axis from explicit bin edges, usually the native
// binning of a source histogram.
func NewAxis(name, unit string, edges []float64) (Axis, error) {
	if len(edges) < 2 {
		return Axis{}, fmt.Errorf(
			"%w: axis %q needs at least 2 edges (got=%d)",
			ErrInvalidAxis, name, len(edges),
		)
	}
	for i := 1; i < len(edges); i++ {
		if !(edges[i] > edges[i-1]) {
			return Axis{}, fmt.Errorf(
				"%w: axis %q edges not strictly increasing (edges[%d]=%v, edges[%d]=%v)",
				ErrInvalidAxis, name, i-1, edges[i-1], i, edges[i],
			)
		}
	}

	ax := Axis{
		name:    name,
		unit:    unit,
		edges:   make([]float64, len(edges)),
		centers: make([]float64, len(edges)-1),
	}
	copy(ax.edges, edges)
	for i := range ax.centers {
		ax.centers[i] = 0.5 * (edges[i] + edges[i+1])
	}
	return ax, nil
}

// NewAxisRange creates a regular axis of n bins over [min, max].
func NewAxisRange(name, unit string, min, max float64, n int) (Axis, error) {
	if n < 1 {
		return Axis{}, fmt.Errorf(
			"%w: axis %q needs at least 1 bin (got=%d)",
			ErrInvalidAxis, name, n,
		)
	}
	if !(min < max) {
		return Axis{}, fmt.Errorf(
			"%w: axis %q range is empty (min=%v, max=%v)",
			ErrInvalidAxis, name, min, max,
		)
	}

	var (
		edges = make([]float64, n+1)
		step  = (max - min) / float64(n)
	)
	for i := range edges {
		edges[i] = min + float64(i)*step
	}
	edges[n] = max
	return NewAxis(name, unit, edges)
}

// NewAxisFromCenters builds the axis of a discrete coordinate: the
// bin centers are the given values, the edges sit halfway between
// neighbours and extend outward by half the adjacent spacing. A
// single value v gets the edges [v-0.5, v+0.5].
func NewAxisFromCenters(name, unit string, centers []float64) (Axis, error) {
	if len(centers) == 0 {
		return Axis{}, fmt.Errorf("%w: axis %q has no centers", ErrInvalidAxis, name)
	}
	if !sort.Float64sAreSorted(centers) {
		return Axis{}, fmt.Errorf("%w: axis %q centers not sorted", ErrInvalidAxis, name)
	}

	edges := make([]float64, len(centers)+1)
	switch n := len(centers); n {
	case 1:
		edges[0] = centers[0] - 0.5
		edges[1] = centers[0] + 0.5
	default:
		for i := 1; i < n; i++ {
			edges[i] = 0.5 * (centers[i-1] + centers[i])
		}
		edges[0] = centers[0] - 0.5*(centers[1]-centers[0])
		edges[n] = centers[n-1] + 0.5*(centers[n-1]-centers[n-2])
	}

	ax, err := NewAxis(name, unit, edges)
	if err != nil {
		return Axis{}, err
	}
	// keep the exact coordinates: midpoints of the synthetic edges
	// may drift from the true values by rounding.
	copy(ax.centers, centers)
	return ax, nil
}

// Name returns the name of the axis.
func (ax Axis) Name() string { return ax.name }

// Unit returns the unit of the axis coordinate.
func (ax Axis) Unit() string { return ax.unit }

// Bins returns the number of bins.
func (ax Axis) Bins() int { return len(ax.centers) }

// Min returns the lowest edge of the axis.
func (ax Axis) Min() float64 { return ax.edges[0] }

// Max returns the highest edge of the axis.
func (ax Axis) Max() float64 { return ax.edges[len(ax.edges)-1] }

// Edges returns a copy of the bin edges.
func (ax Axis) Edges() []float64 {
	edges := make([]float64, len(ax.edges))
	copy(edges, ax.edges)
	return edges
}

// Centers returns a copy of the bin centers.
func (ax Axis) Centers() []float64 {
	centers := make([]float64, len(ax.centers))
	copy(centers, ax.centers)
	return centers
}

// Center returns the center of bin i.
func (ax Axis) Center(i int) float64 { return ax.centers[i] }

func (ax Axis) valid() bool { return len(ax.edges) >= 2 }

func (ax Axis) inRange(x float64) bool {
	return ax.edges[0] <= x && x <= ax.edges[len(ax.edges)-1]
}

// locate returns the index of the lower of the two bin centers
// bracketing x, and the fractional position of x between them.
// Out-of-range values clamp to the boundary centers; single-bin axes
// always resolve to (0, 0).
func (ax Axis) locate(x float64) (lo int, t float64) {
	n := len(ax.centers)
	if n == 1 {
		return 0, 0
	}

	lo = sort.SearchFloat64s(ax.centers, x) - 1
	switch {
	case lo < 0:
		lo = 0
	case lo > n-2:
		lo = n - 2
	}

	t = (x - ax.centers[lo]) / (ax.centers[lo+1] - ax.centers[lo])
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return lo, t
}

// nearestBin returns the index of the bin whose center is closest to
// x, clamping out-of-range values to the boundary bins.
func (ax Axis) nearestBin(x float64) int {
	n := len(ax.centers)
	i := sort.SearchFloat64s(ax.centers, x)
	switch {
	case i == 0:
		return 0
	case i == n:
		return n - 1
	}
	if x-ax.centers[i-1] <= ax.centers[i]-x {
		return i - 1
	}
	return i
}

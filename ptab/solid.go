// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ptab

import "math"

// areaEps is the threshold under which a solid-angle bin area counts
// as zero when normalizing to densities: the density of such a bin is
// zero by convention, not a division by a vanishing area.
const areaEps = 1e-10

// SolidAngleAreas computes the solid-angle "area" of every
// (angle, distance) bin:
//
//	area[i,j] = 2π·sin(θc_i)·Δθ_i · Δd_j
//
// in steradian·length units, returned as a flat row-major
// (angle, distance) array. Bins whose angular center sits at 0 or π
// carry a vanishing area; callers normalizing by area must guard the
// division (Finalize applies the areaEps convention).
func SolidAngleAreas(angle, dist Axis) []float64 {
	var (
		na    = angle.Bins()
		nd    = dist.Bins()
		areas = make([]float64, na*nd)
	)
	for i := 0; i < na; i++ {
		sin := math.Sin(angle.centers[i])
		if sin < 0 {
			// angular bins beyond π carry no solid angle.
			sin = 0
		}
		domega := 2 * math.Pi * sin * (angle.edges[i+1] - angle.edges[i])
		for j := 0; j < nd; j++ {
			areas[i*nd+j] = domega * (dist.edges[j+1] - dist.edges[j])
		}
	}
	return areas
}

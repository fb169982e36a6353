// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ptab

import (
	"math"
	"testing"
)

func TestSolidAngleAreas(t *testing.T) {
	angle, err := NewAxis("angle", "rad", []float64{0, 1, 2})
	if err != nil {
		t.Fatalf("could not build angle axis: %+v", err)
	}
	dist, err := NewAxis("distance", "mm", []float64{0, 10, 30})
	if err != nil {
		t.Fatalf("could not build distance axis: %+v", err)
	}

	areas := SolidAngleAreas(angle, dist)
	if got, want := len(areas), 4; got != want {
		t.Fatalf("invalid areas shape: got=%d, want=%d", got, want)
	}

	want := []float64{
		2 * math.Pi * math.Sin(0.5) * 1 * 10,
		2 * math.Pi * math.Sin(0.5) * 1 * 20,
		2 * math.Pi * math.Sin(1.5) * 1 * 10,
		2 * math.Pi * math.Sin(1.5) * 1 * 20,
	}
	for i, w := range want {
		if got := areas[i]; math.Abs(got-w) > 1e-12 {
			t.Fatalf("invalid area[%d]: got=%v, want=%v", i, got, w)
		}
		if areas[i] < 0 {
			t.Fatalf("negative area[%d]: %v", i, areas[i])
		}
	}
}

func TestSolidAngleAreasBeyondPi(t *testing.T) {
	// an angular bin centered beyond π has a negative sine: its solid
	// angle folds to zero instead of going negative.
	angle, err := NewAxis("angle", "rad", []float64{3.2, 4.2})
	if err != nil {
		t.Fatalf("could not build angle axis: %+v", err)
	}
	dist, err := NewAxis("distance", "mm", []float64{0, 10})
	if err != nil {
		t.Fatalf("could not build distance axis: %+v", err)
	}

	areas := SolidAngleAreas(angle, dist)
	if got, want := areas[0], 0.0; got != want {
		t.Fatalf("invalid area: got=%v, want=%v", got, want)
	}
}

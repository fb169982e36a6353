// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ptab

import (
	"fmt"
	"strings"
)

// Norm selects how raw photon counts are normalized when layers are
// assembled into a table.
type Norm uint8

const (
	// NormRaw keeps photon counts as ingested.
	NormRaw Norm = iota

	// NormPerEvent divides the counts of each layer by its number of
	// simulated events: photons per primary, per bin.
	NormPerEvent

	// NormDensity divides per-event averages by the solid-angle area
	// of each (angle, distance) bin: photons per primary, per
	// steradian, per unit distance.
	NormDensity
)

// ParseNorm converts a normalization tag to a Norm.
func ParseNorm(tag string) (Norm, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "raw":
		return NormRaw, nil
	case "per_event_average", "per-event-average", "average":
		return NormPerEvent, nil
	case "density":
		return NormDensity, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadNorm, tag)
}

// String returns the canonical tag of the normalization, as stored in
// persisted tables.
func (n Norm) String() string {
	switch n {
	case NormRaw:
		return "raw"
	case NormPerEvent:
		return "per_event_average"
	case NormDensity:
		return "density"
	}
	return fmt.Sprintf("Norm(%d)", uint8(n))
}

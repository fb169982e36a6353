// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ptab

import "errors"

var (
	// ErrInvalidAxis reports an axis defined with too few or non
	// strictly increasing bin edges.
	ErrInvalidAxis = errors.New("ptab: invalid axis")

	// ErrShapeMismatch reports a layer whose (angle, distance) shape
	// does not match the geometry established by the first accepted
	// layer. Recoverable: callers log the layer and carry on.
	ErrShapeMismatch = errors.New("ptab: layer shape mismatch")

	// ErrNoEvents reports a layer with no recorded simulated events.
	// Recoverable, like ErrShapeMismatch.
	ErrNoEvents = errors.New("ptab: layer without events")

	// ErrNoLayers reports a finalized build with zero accepted
	// layers. Fatal: there is nothing to assemble.
	ErrNoLayers = errors.New("ptab: no layers ingested")

	// ErrBadNorm reports an unknown normalization tag.
	ErrBadNorm = errors.New("ptab: unknown normalization")

	// ErrInvalidQuery reports NaN or infinite query coordinates, or
	// batch coordinate slices of unequal lengths.
	ErrInvalidQuery = errors.New("ptab: invalid query")

	// ErrNotFrozen reports a query against a table that never went
	// through Finalize or NewTable.
	ErrNotFrozen = errors.New("ptab: table not frozen")

	// ErrFinalized reports layers offered to a builder after its
	// table was finalized.
	ErrFinalized = errors.New("ptab: builder already finalized")
)

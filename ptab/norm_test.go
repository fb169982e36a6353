// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ptab

import (
	"errors"
	"testing"
)

func TestParseNorm(t *testing.T) {
	for _, tc := range []struct {
		tag  string
		want Norm
		err  error
	}{
		{tag: "raw", want: NormRaw},
		{tag: "RAW", want: NormRaw},
		{tag: "per_event_average", want: NormPerEvent},
		{tag: "per-event-average", want: NormPerEvent},
		{tag: "average", want: NormPerEvent},
		{tag: "density", want: NormDensity},
		{tag: " density ", want: NormDensity},
		{tag: "", err: ErrBadNorm},
		{tag: "per-event", err: ErrBadNorm},
		{tag: "counts", err: ErrBadNorm},
	} {
		t.Run(tc.tag, func(t *testing.T) {
			n, err := ParseNorm(tc.tag)
			switch {
			case tc.err != nil:
				if !errors.Is(err, tc.err) {
					t.Fatalf("invalid error: got=%+v, want=%+v", err, tc.err)
				}
				return
			case err != nil:
				t.Fatalf("could not parse %q: %+v", tc.tag, err)
			}
			if n != tc.want {
				t.Fatalf("invalid normalization: got=%v, want=%v", n, tc.want)
			}
		})
	}
}

func TestNormString(t *testing.T) {
	for _, tc := range []struct {
		n    Norm
		want string
	}{
		{n: NormRaw, want: "raw"},
		{n: NormPerEvent, want: "per_event_average"},
		{n: NormDensity, want: "density"},
		{n: Norm(42), want: "Norm(42)"},
	} {
		if got := tc.n.String(); got != tc.want {
			t.Fatalf("invalid tag: got=%q, want=%q", got, tc.want)
		}
	}
}

// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nuclear

import (
	"math"
	"testing"
)

func TestMass(t *testing.T) {
	for _, tc := range []struct {
		z, a int
		want float64
	}{
		{1, 1, 0.9388901655932148},
		{2, 4, 4.002602 * AtomicMassUnit},
		{6, 12, 12.0107 * AtomicMassUnit},
		{7, 14, 14.0067 * AtomicMassUnit},
		{3, 7, 6.5204587169399995},
		{79, 197, 197 * AtomicMassUnit},
	} {
		got := Mass(tc.z, tc.a)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("invalid mass(%d,%d): got=%v, want=%v", tc.z, tc.a, got, tc.want)
		}
		if got <= 0 {
			t.Fatalf("invalid mass(%d,%d): got=%v", tc.z, tc.a, got)
		}
		if got, want := (Nucleus{tc.z, tc.a}).Mass(), got; got != want {
			t.Fatalf("invalid nucleus mass: got=%v, want=%v", got, want)
		}
	}
}

func TestUnitConversion(t *testing.T) {
	const want = 389.379372
	if got := InvGeV2ToMicrobarn; math.Abs(got-want) > 1e-5 {
		t.Fatalf("invalid GeV^-2 -> µb factor: got=%v, want=%v", got, want)
	}
}

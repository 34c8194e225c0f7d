// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package quadk

import (
	"errors"
	"math"
	"testing"
)

func TestIntegrate(t *testing.T) {
	opts := Options{Rel: 1e-10, MaxEval: 21 * 1000}
	for _, tc := range []struct {
		name string
		f    func(float64) float64
		a, b float64
		want float64
	}{
		{
			name: "poly",
			f:    func(x float64) float64 { return 3 * x * x },
			a:    0, b: 2,
			want: 8,
		},
		{
			name: "sin",
			f:    math.Sin,
			a:    0, b: math.Pi,
			want: 2,
		},
		{
			name: "reversed",
			f:    math.Exp,
			a:    1, b: 0,
			want: -(math.E - 1),
		},
		{
			name: "empty",
			f:    math.Exp,
			a:    1, b: 1,
			want: 0,
		},
		{
			name: "sqrt-endpoint",
			f:    func(x float64) float64 { return 1 / math.Sqrt(x) },
			a:    0, b: 1,
			want: 2,
		},
		{
			name: "peak",
			f:    func(x float64) float64 { return 1 / (1e-4 + x*x) },
			a:    -1, b: 1,
			want: 2 * 100 * math.Atan(100),
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Integrate(tc.f, tc.a, tc.b, opts)
			if err != nil {
				t.Fatalf("could not integrate: %+v", err)
			}
			if got, want := res.Value, tc.want; math.Abs(got-want) > 1e-8*math.Max(1, math.Abs(want)) {
				t.Fatalf("invalid integral: got=%v, want=%v", got, want)
			}
		})
	}
}

func TestNoConvergence(t *testing.T) {
	f := func(x float64) float64 { return math.Sin(1/x) / x }
	_, err := Integrate(f, 1e-6, 1, Options{Rel: 1e-12, MaxEval: 21 * 5})
	if !errors.Is(err, ErrNoConvergence) {
		t.Fatalf("invalid error: got=%v, want=%v", err, ErrNoConvergence)
	}
}

func TestNotFinite(t *testing.T) {
	f := func(x float64) float64 { return math.NaN() }
	_, err := Integrate(f, 0, 1, Default())
	if !errors.Is(err, ErrNotFinite) {
		t.Fatalf("invalid error: got=%v, want=%v", err, ErrNotFinite)
	}
}

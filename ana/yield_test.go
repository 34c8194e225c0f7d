// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/go-lpc/g2p/event"
)

func newYieldData(t *testing.T, run int, charge float64) *Data {
	t.Helper()
	evts := newTestProduction(t, 3, func(p *event.Production) {
		p.Rec.Delta[0] = -0.5 // nu=1753.5
		p.Rec.Delta[1] = 0    // nu=1253.5
		p.Rec.Delta[2] = 0.5  // nu=753.5
	})
	cond := newTestConditions(run)
	cond.Charge = charge
	return NewData(evts, cond, nil)
}

func TestBinning(t *testing.T) {
	b := Binning{Bins: 4, Lo: 0, Hi: 4}
	if got, want := b.Width(), 1.0; got != want {
		t.Fatalf("invalid width: got=%v, want=%v", got, want)
	}
	if got, want := b.Centers(), []float64{0.5, 1.5, 2.5, 3.5}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid centers: got=%v, want=%v", got, want)
	}
}

func TestHist(t *testing.T) {
	var (
		vals = []float64{-1, 0, 0.5, 1, 3.9, 4}
		mask = []bool{true, true, false, true, true, true}
		b    = Binning{Bins: 4, Lo: 0, Hi: 4}
	)
	h, err := Hist(vals, mask, nil, b)
	if err != nil {
		t.Fatalf("could not fill histogram: %+v", err)
	}
	// the upper edge is excluded.
	if got, want := counts(h), []float64{1, 1, 0, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid counts: got=%v, want=%v", got, want)
	}

	h, err = Hist(vals, mask, []float64{1, 2, 3, 4, 5, 6}, b)
	if err != nil {
		t.Fatalf("could not fill histogram: %+v", err)
	}
	if got, want := counts(h), []float64{2, 4, 0, 5}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid weighted counts: got=%v, want=%v", got, want)
	}
	if got, want := entries(h), []int64{1, 1, 0, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid entries: got=%v, want=%v", got, want)
	}

	_, err = Hist(vals, mask[:2], nil, b)
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("invalid error: got=%v, want=%v", err, ErrConfig)
	}
	_, err = Hist(vals, mask, []float64{1}, b)
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("invalid error: got=%v, want=%v", err, ErrConfig)
	}
}

func TestYield(t *testing.T) {
	data := newYieldData(t, 3132, 100)
	b := Binning{Bins: 3, Lo: 0, Hi: 3000}

	y, err := data.Yield(b)
	if err != nil {
		t.Fatalf("could not compute yield: %+v", err)
	}

	scale := data.Scale() / 100
	want := []float64{1 * scale, 2 * scale, 0}
	errs := []float64{1 * scale, math.Sqrt(2) * scale, 0}
	for i := range want {
		if math.Abs(y.Values[i]-want[i]) > 1e-12*scale {
			t.Fatalf("invalid yield[%d]: got=%v, want=%v", i, y.Values[i], want[i])
		}
		if math.Abs(y.Errs[i]-errs[i]) > 1e-12*scale {
			t.Fatalf("invalid yield error[%d]: got=%v, want=%v", i, y.Errs[i], errs[i])
		}
	}
}

func TestSubtract(t *testing.T) {
	var (
		prod  = newYieldData(t, 3132, 100)
		empty = newYieldData(t, 3140, 50)
		b     = Binning{Bins: 3, Lo: 0, Hi: 3000}
	)
	empty.Ref = prod.Cond

	p, err := prod.Yield(b)
	if err != nil {
		t.Fatalf("could not compute production yield: %+v", err)
	}
	e, err := empty.Yield(b)
	if err != nil {
		t.Fatalf("could not compute empty yield: %+v", err)
	}

	sub, err := Subtract(prod, empty, b)
	if err != nil {
		t.Fatalf("could not subtract yields: %+v", err)
	}
	for i := range sub.Values {
		if got, want := sub.Values[i], p.Values[i]-e.Values[i]; got != want {
			t.Fatalf("invalid value[%d]: got=%v, want=%v", i, got, want)
		}
		if got, want := sub.Errs[i], math.Hypot(p.Errs[i], e.Errs[i]); got != want {
			t.Fatalf("invalid error[%d]: got=%v, want=%v", i, got, want)
		}
	}
	if !(sub.Values[1] < 0) {
		t.Fatalf("empty run with half the charge should dominate: %v", sub.Values)
	}
}

func TestCrossSection(t *testing.T) {
	var (
		data = newYieldData(t, 3132, 100)
		b    = Binning{Bins: 3, Lo: 0, Hi: 3000}
		acc  = []float64{1e-3, 2e-3, Suppressed}
		tgt  = Target{Length: 2.83, Density: 0.817, Molar: 17.031, Dilution: 0.17}
	)

	xs, err := data.CrossSection(acc, nil, tgt, b)
	if err != nil {
		t.Fatalf("could not compute cross section: %+v", err)
	}

	norm := data.Scale() / tgt.Luminosity(100) * XSFactor * tgt.Dilution
	want := []float64{1 * norm / 1e-3, 2 * norm / 2e-3, 0}
	errs := []float64{want[0], want[1] / math.Sqrt(2), 0}
	for i := range want {
		if math.Abs(xs.Values[i]-want[i]) > 1e-12*want[0] {
			t.Fatalf("invalid xs[%d]: got=%v, want=%v", i, xs.Values[i], want[i])
		}
		if math.Abs(xs.Errs[i]-errs[i]) > 1e-12*want[0] {
			t.Fatalf("invalid xs error[%d]: got=%v, want=%v", i, xs.Errs[i], errs[i])
		}
	}

	weighted, err := data.CrossSection(acc, []float64{2}, tgt, b)
	if err != nil {
		t.Fatalf("could not compute weighted cross section: %+v", err)
	}
	for i := range want {
		if math.Abs(weighted.Values[i]-2*want[i]) > 1e-12*want[0] {
			t.Fatalf("invalid weighted xs[%d]: got=%v, want=%v", i, weighted.Values[i], 2*want[i])
		}
	}

	_, err = data.CrossSection(acc[:2], nil, tgt, b)
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("invalid error: got=%v, want=%v", err, ErrConfig)
	}
}

func TestLuminosity(t *testing.T) {
	tgt := Target{Length: 2, Density: 3, Molar: 6}
	got := tgt.Luminosity(ElectronCharge)
	want := 1 * Avogadro
	if math.Abs(got-want) > 1e-12*want {
		t.Fatalf("invalid luminosity: got=%v, want=%v", got, want)
	}
}

func TestPolyWeight(t *testing.T) {
	for _, tc := range []struct {
		name   string
		coeffs []float64
		xs     []float64
		want   []float64
	}{
		{"const", []float64{3}, []float64{-1, 0, 2}, []float64{3, 3, 3}},
		{"quadratic", []float64{1, 2, 3}, []float64{-1, 0, 2}, []float64{2, 3, 11}},
		{"empty", nil, []float64{1}, []float64{0}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := PolyWeight(tc.xs, tc.coeffs)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("invalid weights: got=%v, want=%v", got, tc.want)
			}
		})
	}
}

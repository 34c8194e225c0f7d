// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/go-lpc/g2p/rundb"
)

func TestParseCuts(t *testing.T) {
	cuts, err := ParseCuts(map[string][]float64{
		"y": {-0.015, 0.025},
		"t": {-0.01, 0.03},
		"p": {-0.015, 0.015},
	}, 0.5)
	if err != nil {
		t.Fatalf("could not parse cuts: %+v", err)
	}
	if cuts.Y == nil || cuts.Theta == nil || cuts.Phi == nil {
		t.Fatalf("missing cuts: %+v", cuts)
	}
	if cuts.Delta != nil {
		t.Fatalf("unexpected delta cut: %+v", cuts.Delta)
	}
	if got, want := *cuts.Theta, (Range{Lo: -0.01, Hi: 0.03}); got != want {
		t.Fatalf("invalid theta cut: got=%+v, want=%+v", got, want)
	}
	if got, want := cuts.SR, 0.5; got != want {
		t.Fatalf("invalid sr: got=%v, want=%v", got, want)
	}

	for _, tc := range []struct {
		name   string
		ranges map[string][]float64
		key    string
	}{
		{"bounds", map[string][]float64{"y": {1}}, `"y"`},
		{"unknown", map[string][]float64{"x": {0, 1}}, `"x"`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCuts(tc.ranges, 0.5)
			if !errors.Is(err, ErrConfig) {
				t.Fatalf("invalid error: got=%v, want=%v", err, ErrConfig)
			}
			if !strings.Contains(err.Error(), tc.key) {
				t.Fatalf("error should name the key %s: %v", tc.key, err)
			}
		})
	}
}

func TestRange(t *testing.T) {
	rng := Range{Lo: -1, Hi: 1}
	for _, tc := range []struct {
		x    float64
		want bool
	}{
		{0, true}, {-1, false}, {1, false}, {-0.999, true}, {2, false}, {math.NaN(), false},
	} {
		if got := rng.Contains(tc.x); got != tc.want {
			t.Fatalf("invalid Contains(%v): got=%v, want=%v", tc.x, got, tc.want)
		}
	}
}

func newTestConditions(run int) *rundb.Conditions {
	cond := rundb.Missing(run)
	cond.BeamEnergy = 2253.5
	cond.D1P = 1.0
	cond.Charge = 100
	cond.PS1, cond.PS3 = 4, 2
	cond.OneTrackEff = 0.9
	cond.AllTrackEff = 0.95
	cond.TriggerEff = 0.98
	cond.CerEff = 0.99
	cond.PREff = 0.97
	cond.Deadtime = 0.1
	cond.DeadtimePlus = 0.2
	cond.DeadtimeMinus = 0.05
	cond.RasterX, cond.RasterY, cond.RasterR = 0, 0, 1
	cond.SimX, cond.SimY, cond.SimR = 0, 0, 2
	return cond
}

func scaleOf(ps, dt float64, ref *rundb.Conditions) float64 {
	eff := ref.OneTrackEff / ref.AllTrackEff * ref.TriggerEff * ref.CerEff * ref.PREff
	return ps / eff / (1 - dt)
}

func TestScaleFactor(t *testing.T) {
	left := newTestConditions(3132)
	right := newTestConditions(22545)
	ref := newTestConditions(3133)
	ref.TriggerEff = 0.5

	for _, tc := range []struct {
		name      string
		cond, ref *rundb.Conditions
		pol       Polarity
		want      float64
	}{
		{"left", left, nil, Total, scaleOf(2, 0.1, left)},
		{"left-plus", left, nil, Plus, scaleOf(2, 0.2, left)},
		{"left-minus", left, nil, Minus, scaleOf(2, 0.05, left)},
		{"right", right, nil, Total, scaleOf(4, 0.1, right)},
		{"ref", left, ref, Total, scaleOf(2, 0.1, ref)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := ScaleFactor(tc.cond, tc.ref, tc.pol)
			if math.Abs(got-tc.want) > 1e-12*math.Abs(tc.want) {
				t.Fatalf("invalid scale: got=%v, want=%v", got, tc.want)
			}
		})
	}
}

func TestScaleFactorDeadtime(t *testing.T) {
	cond := newTestConditions(3132)
	prev := 0.0
	for i, dt := range []float64{0, 0.05, 0.1, 0.3, 0.6, 0.9} {
		cond.Deadtime = dt
		got := ScaleFactor(cond, nil, Total)
		if i > 0 && !(got > prev) {
			t.Fatalf("scale should grow with deadtime: dt=%v, got=%v, prev=%v", dt, got, prev)
		}
		prev = got
	}
}

func TestScaleFactorMissing(t *testing.T) {
	cond := newTestConditions(3132)
	cond.TriggerEff = rundb.MissingFloat

	got := ScaleFactor(cond, nil, Total)
	want := scaleOf(2, 0.1, cond)
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("scale should stay finite: %v", got)
	}
	if !(got < 0) {
		t.Fatalf("sentinel should propagate: got=%v", got)
	}
	if math.Abs(got-want) > 1e-12*math.Abs(want) {
		t.Fatalf("invalid scale: got=%v, want=%v", got, want)
	}

	missing := rundb.Missing(3132)
	if got := ScaleFactor(missing, nil, Total); math.IsNaN(got) {
		t.Fatalf("scale of missing conditions should not be NaN")
	}
}

func TestPolarityString(t *testing.T) {
	for _, tc := range []struct {
		p    Polarity
		want string
	}{
		{Total, "total"}, {Plus, "plus"}, {Minus, "minus"}, {Polarity(7), "Polarity(7)"},
	} {
		if got := tc.p.String(); got != tc.want {
			t.Fatalf("invalid string: got=%q, want=%q", got, tc.want)
		}
	}
}

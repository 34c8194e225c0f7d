// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ana selects, normalizes and corrects g2p production and
// simulation events into yield and cross section spectra.
package ana // import "github.com/go-lpc/g2p/ana"

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-lpc/g2p/rundb"
)

var ErrConfig = errors.New("ana: invalid configuration")

// Range is an open interval.
type Range struct {
	Lo, Hi float64
}

// Contains returns whether lo < x < hi.
func (r Range) Contains(x float64) bool {
	return r.Lo < x && x < r.Hi
}

// Cuts selects events on their reconstructed kinematics and on their
// position on target. A nil range is not applied.
type Cuts struct {
	Y     *Range // vertical position on target (golden track)
	Theta *Range // out-of-plane angle
	Phi   *Range // in-plane angle
	Delta *Range // relative momentum

	// SR scales the radius of the beam spot cut.
	SR float64
}

// ParseCuts creates cuts from named ranges: "y", "t", "p" and "d",
// each with a lower and an upper bound.
func ParseCuts(ranges map[string][]float64, sr float64) (*Cuts, error) {
	cuts := Cuts{SR: sr}
	keys := make([]string, 0, len(ranges))
	for k := range ranges {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		v := ranges[key]
		if len(v) != 2 {
			return nil, fmt.Errorf("%w: cut %q needs 2 bounds (got %d)", ErrConfig, key, len(v))
		}
		rng := &Range{Lo: v[0], Hi: v[1]}
		switch key {
		case "y":
			cuts.Y = rng
		case "t":
			cuts.Theta = rng
		case "p":
			cuts.Phi = rng
		case "d":
			cuts.Delta = rng
		default:
			return nil, fmt.Errorf("%w: unknown cut %q", ErrConfig, key)
		}
	}
	return &cuts, nil
}

// check verifies that the named cuts are set.
func (cuts *Cuts) check(names ...string) error {
	for _, name := range names {
		var rng *Range
		switch name {
		case "y":
			rng = cuts.Y
		case "t":
			rng = cuts.Theta
		case "p":
			rng = cuts.Phi
		case "d":
			rng = cuts.Delta
		}
		if rng == nil {
			return fmt.Errorf("%w: missing cut %q", ErrConfig, name)
		}
	}
	if !(cuts.SR > 0) {
		return fmt.Errorf("%w: invalid beam spot scale sr=%g", ErrConfig, cuts.SR)
	}
	return nil
}

func inRange(rng *Range, x float64) bool {
	return rng == nil || rng.Contains(x)
}

// Polarity selects the helicity state a deadtime refers to.
type Polarity uint8

const (
	Total Polarity = iota
	Plus
	Minus
)

func (p Polarity) String() string {
	switch p {
	case Total:
		return "total"
	case Plus:
		return "plus"
	case Minus:
		return "minus"
	}
	return fmt.Sprintf("Polarity(%d)", uint8(p))
}

// ScaleFactor returns the factor correcting the raw yield of a run for
// its prescale, deadtime and detector efficiencies.
//
// Efficiencies are taken from ref, the prescale and deadtime from cond.
// Missing conditions propagate as their sentinel value.
func ScaleFactor(cond, ref *rundb.Conditions, pol Polarity) float64 {
	if ref == nil {
		ref = cond
	}

	eff := ref.OneTrackEff / ref.AllTrackEff
	eff *= ref.TriggerEff
	eff *= ref.CerEff * ref.PREff

	prescale := cond.PS1
	if cond.Arm() == rundb.LeftArm {
		prescale = cond.PS3
	}

	deadtime := cond.Deadtime
	switch pol {
	case Plus:
		deadtime = cond.DeadtimePlus
	case Minus:
		deadtime = cond.DeadtimeMinus
	}

	return prescale / eff / (1 - deadtime)
}

// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"fmt"

	"go-hep.org/x/hep/hbook"
	"gonum.org/v1/gonum/floats"
)

// Binning is a regular binning of [Lo, Hi).
type Binning struct {
	Bins   int
	Lo, Hi float64
}

func (b Binning) check() error {
	if b.Bins <= 0 || !(b.Lo < b.Hi) {
		return fmt.Errorf("%w: invalid binning %+v", ErrConfig, b)
	}
	return nil
}

// Width returns the width of a bin.
func (b Binning) Width() float64 { return (b.Hi - b.Lo) / float64(b.Bins) }

// Centers returns the center of each bin.
func (b Binning) Centers() []float64 {
	w := b.Width()
	return floats.Span(make([]float64, b.Bins), b.Lo+0.5*w, b.Hi-0.5*w)
}

// Hist fills the values of the selected events into a histogram.
// A nil weights fills each event with a unit weight.
func Hist(vals []float64, mask []bool, weights []float64, b Binning) (*hbook.H1D, error) {
	err := b.check()
	if err != nil {
		return nil, err
	}
	if len(mask) != len(vals) {
		return nil, fmt.Errorf("%w: %d values for %d mask entries", ErrConfig, len(vals), len(mask))
	}
	if weights != nil && len(weights) != len(vals) {
		return nil, fmt.Errorf("%w: %d values for %d weights", ErrConfig, len(vals), len(weights))
	}

	h := hbook.NewH1D(b.Bins, b.Lo, b.Hi)
	for i, v := range vals {
		if !mask[i] {
			continue
		}
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		h.Fill(v, w)
	}
	return h, nil
}

// counts returns the sum of weights of each bin of h.
func counts(h *hbook.H1D) []float64 {
	o := make([]float64, len(h.Binning.Bins))
	for i, bin := range h.Binning.Bins {
		o[i] = bin.SumW()
	}
	return o
}

// entries returns the number of entries of each bin of h.
func entries(h *hbook.H1D) []int64 {
	o := make([]int64, len(h.Binning.Bins))
	for i, bin := range h.Binning.Bins {
		o[i] = bin.Entries()
	}
	return o
}

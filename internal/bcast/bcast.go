// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bcast broadcasts scalar and array kinematic inputs
// to a common length.
package bcast // import "github.com/go-lpc/g2p/internal/bcast"

import (
	"errors"
	"fmt"
)

var ErrShape = errors.New("bcast: shape mismatch")

// Len returns the length all inputs broadcast to.
// Length-1 inputs are broadcast, any other mismatch is an error.
func Len(xs ...[]float64) (int, error) {
	n := 1
	for i, x := range xs {
		switch {
		case len(x) == 1:
		case n == 1:
			n = len(x)
		case len(x) != n:
			return 0, fmt.Errorf("%w: input %d has length %d (want %d)", ErrShape, i, len(x), n)
		}
	}
	for _, x := range xs {
		if len(x) == 0 {
			return 0, nil
		}
	}
	return n, nil
}

// At returns the i-th element of the broadcast view of x.
func At(x []float64, i int) float64 {
	if len(x) == 1 {
		return x[0]
	}
	return x[i]
}

// Expand returns a fresh slice of length n holding the broadcast view of x.
func Expand(x []float64, n int) []float64 {
	o := make([]float64, n)
	for i := range o {
		o[i] = At(x, i)
	}
	return o
}

// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inelastic wraps inclusive inelastic cross section tables,
// such as fits to the F1 and F2 structure functions.
package inelastic // import "github.com/go-lpc/g2p/inelastic"

import (
	"fmt"

	"github.com/go-lpc/g2p/internal/bcast"
	"github.com/go-lpc/g2p/radiate"
)

// Table is a non-radiated inelastic cross section table.
type Table interface {
	XS(z, a int, e, ep, theta float64) float64
}

// TableFunc adapts a function into a Table.
type TableFunc func(z, a int, e, ep, theta float64) float64

func (f TableFunc) XS(z, a int, e, ep, theta float64) float64 {
	return f(z, a, e, ep, theta)
}

// Model evaluates a Table for a fixed (z,a) target.
type Model struct {
	Z, A int

	tbl Table
}

func New(z, a int, tbl Table) *Model {
	return &Model{Z: z, A: a, tbl: tbl}
}

// XS returns the non-radiated cross section for one kinematic tuple.
func (m *Model) XS(e, ep, theta float64) float64 {
	return m.tbl.XS(m.Z, m.A, e, ep, theta)
}

// XSs returns the non-radiated cross sections for the broadcast
// (e, ep, theta) arrays.
func (m *Model) XSs(e, ep, theta []float64) ([]float64, error) {
	n, err := bcast.Len(e, ep, theta)
	if err != nil {
		return nil, fmt.Errorf("inelastic: could not broadcast inputs: %w", err)
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = m.XS(bcast.At(e, i), bcast.At(ep, i), bcast.At(theta, i))
	}
	return out, nil
}

// Radiated returns the radiated cross sections for the broadcast
// (e, ep, theta) arrays, with tb and ta the radiation lengths before and
// after the vertex.
func (m *Model) Radiated(e, ep, theta []float64, tb, ta float64, opts ...radiate.Option) ([]float64, error) {
	f := func(z, a int, e, ep, theta float64) (float64, error) {
		return m.tbl.XS(z, a, e, ep, theta), nil
	}
	xs, err := radiate.XS(f, m.Z, m.A, e, ep, theta, tb, ta, opts...)
	if err != nil {
		return nil, fmt.Errorf("inelastic: could not radiate (Z=%d, A=%d): %w", m.Z, m.A, err)
	}
	return xs, nil
}

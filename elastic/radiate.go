// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package elastic

import (
	"fmt"

	"github.com/go-lpc/g2p/radiate"
)

// RadiateFunc returns the elastic cross section as the non-radiated input
// of the radiative correction.
// The scattered energy is fixed by the elastic kinematics: the ep argument
// is ignored, as are the (z,a) arguments in favor of the model nucleus.
func (m *Model) RadiateFunc() radiate.Func {
	return func(_, _ int, e, _, theta float64) (float64, error) {
		return m.XS(e, theta)
	}
}

// Radiated returns the radiated elastic cross sections for the broadcast
// (e, ep, theta) arrays, with tb and ta the radiation lengths before and
// after the vertex.
func (m *Model) Radiated(e, ep, theta []float64, tb, ta float64, opts ...radiate.Option) ([]float64, error) {
	xs, err := radiate.XS(m.RadiateFunc(), m.Z, m.A, e, ep, theta, tb, ta, opts...)
	if err != nil {
		return nil, fmt.Errorf("elastic: could not radiate (Z=%d, A=%d): %w", m.Z, m.A, err)
	}
	return xs, nil
}

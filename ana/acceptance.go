// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"fmt"
	"math"
)

// Suppressed is the acceptance of a bin without enough simulated events.
// Dividing a yield by it yields a vanishing contribution.
const Suppressed = float64(math.MaxInt64)

// suppressFrac is the fraction of the average populated bin content
// below which a bin is suppressed.
const suppressFrac = 0.8

// Acceptance returns the acceptance of each bin of vals, the values of
// the simulated events, normalized by the generated events density.
func (s *Sim) Acceptance(vals []float64, b Binning) ([]float64, error) {
	if len(vals) != s.Events.Len() {
		return nil, fmt.Errorf(
			"%w: %d values for %d simulated events",
			ErrConfig, len(vals), s.Events.Len(),
		)
	}

	h, err := Hist(vals, s.Mask(), nil, b)
	if err != nil {
		return nil, fmt.Errorf("ana: could not fill acceptance histogram: %w", err)
	}
	var (
		raw = counts(h)
		sum = 0.0
		n   = 0
	)
	for _, v := range raw {
		if v > 0 {
			sum += v
			n++
		}
	}

	acc := make([]float64, len(raw))
	if n == 0 || s.Events.N == 0 {
		for i := range acc {
			acc[i] = Suppressed
		}
		return acc, nil
	}

	var (
		avg  = sum / float64(n)
		norm = float64(s.Events.N) / (s.Space.Volume() * s.P0())
	)
	for i, v := range raw {
		if v == 0 || v < suppressFrac*avg {
			acc[i] = Suppressed
			continue
		}
		acc[i] = v / norm
	}
	return acc, nil
}

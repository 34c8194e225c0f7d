// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package radiate

import "math"

const pi2o6 = math.Pi * math.Pi / 6

// Li2 returns the real dilogarithm -∫₀ˣ ln(1-t)/t dt, for x <= 1.
// Li2 returns NaN for x > 1.
func Li2(x float64) float64 {
	switch {
	case math.IsNaN(x), x > 1:
		return math.NaN()
	case x == 0:
		return 0
	case x == 1:
		return pi2o6
	case x < 0:
		// Landen: maps x<0 into (0,1).
		y := x / (x - 1)
		l := math.Log1p(-x)
		return -Li2(y) - 0.5*l*l
	case x > 0.5:
		return pi2o6 - math.Log(x)*math.Log1p(-x) - Li2(1-x)
	}

	var (
		sum = 0.0
		pow = x
	)
	for k := 1; k < 200; k++ {
		v := pow / float64(k*k)
		sum += v
		if math.Abs(v) < 1e-17*math.Abs(sum) {
			break
		}
		pow *= x
	}
	return sum
}

// Spence returns ∫₁ˣ ln(t)/(1-t) dt, ie: Li2(1-x).
// Spence returns NaN for x < 0.
func Spence(x float64) float64 {
	return Li2(1 - x)
}

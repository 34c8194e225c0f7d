// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package quadk implements globally adaptive Gauss-Kronrod quadrature.
package quadk // import "github.com/go-lpc/g2p/internal/quadk"

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNoConvergence = errors.New("quadk: integral did not converge")
	ErrNotFinite     = errors.New("quadk: integrand is not finite")
)

// Options configures the adaptive integration.
// The integration stops once the estimated absolute error is below
// max(Abs, Rel*|I|).
type Options struct {
	Abs     float64 // absolute error tolerance
	Rel     float64 // relative error tolerance
	MaxEval int     // maximum number of integrand evaluations
}

// Default returns the default integration options.
func Default() Options {
	return Options{
		Abs:     0,
		Rel:     1e-3,
		MaxEval: 21 * 500,
	}
}

// Result holds the outcome of an integration.
type Result struct {
	Value float64 // estimated integral
	Err   float64 // estimated absolute error
	NEval int     // number of integrand evaluations
}

type panel struct {
	a, b float64
	val  float64
	err  float64
}

// Integrate computes the integral of f over [a, b].
func Integrate(f func(x float64) float64, a, b float64, opts Options) (Result, error) {
	var res Result
	switch {
	case a == b:
		return res, nil
	case b < a:
		res, err := Integrate(f, b, a, opts)
		res.Value = -res.Value
		return res, err
	}
	if opts.MaxEval <= 0 {
		opts.MaxEval = Default().MaxEval
	}

	p, err := gk21(f, a, b)
	res.NEval += 21
	if err != nil {
		return res, err
	}

	panels := []panel{p}
	for {
		res.Value, res.Err = 0, 0
		imax := 0
		for i, p := range panels {
			res.Value += p.val
			res.Err += p.err
			if p.err > panels[imax].err {
				imax = i
			}
		}
		tol := math.Max(opts.Abs, opts.Rel*math.Abs(res.Value))
		if res.Err <= tol {
			return res, nil
		}
		if res.NEval+2*21 > opts.MaxEval {
			return res, fmt.Errorf(
				"%w (err=%g, tol=%g, n=%d)",
				ErrNoConvergence, res.Err, tol, res.NEval,
			)
		}

		worst := panels[imax]
		mid := 0.5 * (worst.a + worst.b)
		if mid <= worst.a || mid >= worst.b {
			// interval can not be bisected any further.
			return res, fmt.Errorf(
				"%w: roundoff on [%g, %g]",
				ErrNoConvergence, worst.a, worst.b,
			)
		}
		lhs, err := gk21(f, worst.a, mid)
		if err != nil {
			return res, err
		}
		rhs, err := gk21(f, mid, worst.b)
		if err != nil {
			return res, err
		}
		res.NEval += 2 * 21
		panels[imax] = lhs
		panels = append(panels, rhs)
	}
}

// 21-point Kronrod extension of the 10-point Gauss-Legendre rule.
var (
	xgk = [11]float64{
		0.995657163025808080735527280689003,
		0.973906528517171720077964012084452,
		0.930157491355708226001207180059508,
		0.865063366688984510732096688423493,
		0.780817726586416897063717578345042,
		0.679409568299024406234327365114874,
		0.562757134668604683339000099272694,
		0.433395394129247190799265943165784,
		0.294392862701460198131126603103866,
		0.148874338981631210884826001129720,
		0.000000000000000000000000000000000,
	}
	wgk = [11]float64{
		0.011694638867371874278064396062192,
		0.032558162307964727478818972459390,
		0.054755896574351996031381300244580,
		0.075039674810919952767043140916190,
		0.093125454583697605535065465083366,
		0.109387158802297641899210590325805,
		0.123491976262065851077958109831074,
		0.134709217311473325928054001771707,
		0.142775938577060080797094273138717,
		0.147739104901338491374841515972068,
		0.149445554002916905664936468389821,
	}
	// Gauss weights of the odd Kronrod nodes.
	wg = [5]float64{
		0.066671344308688137593568809893332,
		0.149451349150580593145776339657697,
		0.219086362515982043995534934228163,
		0.269266719309996355091226921569469,
		0.295524224714752870173892994651338,
	}
)

func gk21(f func(float64) float64, a, b float64) (panel, error) {
	var (
		center = 0.5 * (a + b)
		half   = 0.5 * (b - a)
		fc     = f(center)
		resk   = fc * wgk[10]
		resg   = 0.0
	)
	if !isFinite(fc) {
		return panel{}, fmt.Errorf("%w (x=%g, f=%g)", ErrNotFinite, center, fc)
	}

	for j := 0; j < 10; j++ {
		dx := half * xgk[j]
		f1 := f(center - dx)
		f2 := f(center + dx)
		if !isFinite(f1) {
			return panel{}, fmt.Errorf("%w (x=%g, f=%g)", ErrNotFinite, center-dx, f1)
		}
		if !isFinite(f2) {
			return panel{}, fmt.Errorf("%w (x=%g, f=%g)", ErrNotFinite, center+dx, f2)
		}
		resk += wgk[j] * (f1 + f2)
		if j%2 == 1 {
			resg += wg[j/2] * (f1 + f2)
		}
	}

	return panel{
		a:   a,
		b:   b,
		val: resk * half,
		err: math.Abs((resk - resg) * half),
	}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

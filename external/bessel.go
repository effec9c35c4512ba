// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package external

import "math"

// defaultBessel evaluates the spherical Bessel function of the first
// kind jn(x) via the closed forms for j0,j1 and Miller's backward
// recurrence for n>1 and x<n (where forward recurrence is unstable),
// falling back to forward recurrence for x>=n. No pack repo implements
// special functions of this kind; this adapter is justified as a
// standard-library-only default, see DESIGN.md.
type defaultBessel struct{}

func (defaultBessel) SphericalJ(n int, x float64) float64 {
	if x == 0 {
		if n == 0 {
			return 1
		}
		return 0
	}
	if n == 0 {
		return math.Sin(x) / x
	}
	if n == 1 {
		return math.Sin(x)/(x*x) - math.Cos(x)/x
	}
	if x >= float64(n) {
		jnm1 := math.Sin(x) / x
		jn := math.Sin(x)/(x*x) - math.Cos(x)/x
		for k := 1; k < n; k++ {
			jnp1 := float64(2*k+1)/x*jn - jnm1
			jnm1, jn = jn, jnp1
		}
		return jn
	}
	return millerBackward(n, x)
}

// millerBackward computes jn(x) by downward recursion from a starting
// order well above n, normalizing against the closed-form j0.
func millerBackward(n int, x float64) float64 {
	start := n + int(math.Sqrt(float64(40*n))) + 15
	jUp, jHigh := 0.0, 1e-30
	results := make([]float64, start+2)
	results[start+1] = 0
	results[start] = jHigh
	for k := start; k > 0; k-- {
		results[k-1] = float64(2*k+1)/x*results[k] - results[k+1]
	}
	// normalize using j0(x) = sin(x)/x
	j0 := math.Sin(x) / x
	scale := j0 / results[0]
	jUp = results[n] * scale
	return jUp
}

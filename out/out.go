// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package out prints and plots the diagnostics an atomic-structure run
// produces: the potential and the solved orbitals. The self-consistency
// convergence trace is printed by radial.Driver itself, not here. It
// adapts the teacher's `out` package — the same gosl/io string-building
// and gosl/plt subplot shape, rebuilt against this module's own
// `potential`/`orbital` types instead of FEM integration-point/node
// results.
package out

import (
	"github.com/cpmech/goatom/orbital"
	"github.com/cpmech/goatom/potential"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"
)

// PotentialReport renders one text line per grid point of Vc/U/Z — a
// Go-native parallel to the teacher's ResultsMap.String() tabular dump.
func PotentialReport(p *potential.Potential) string {
	l := io.Sf("{\n  \"npoints\": %d,\n  \"lambda\": %g,\n  \"rcore\": %d,\n  \"points\": [\n",
		p.NPoints(), p.Lambda, p.Rcore)
	for i := 0; i < p.NPoints(); i++ {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("    {\"r\":%.10e, \"z\":%.10e, \"vc\":%.10e, \"u\":%.10e}",
			p.R(i), p.Z(i), p.Vc(i), p.U(i))
	}
	l += "\n  ]\n}"
	return l
}

// OrbitalReport summarizes one solved orbital as a single diagnostic
// line: (n, κ, ε, last tabulated index).
func OrbitalReport(orb *orbital.Orbital) string {
	kind := "bound"
	if !orb.Bound() {
		kind = "continuum"
	}
	return io.Sf("orbital n=%d kappa=%d (%s): energy=%.10e ilast=%d qr_norm=%.6e",
		orb.N, orb.Kappa, kind, orb.Energy, orb.Ilast, orb.QrNorm)
}

// PlotPotential draws Vc(r) and U(r) against r on a single subplot,
// grounded on the teacher's `plt.Subplot`/`plt.Plot`/`plt.Gll` sequence
// (out/plot.go).
func PlotPotential(p *potential.Potential) {
	r := make([]float64, p.NPoints())
	vc := make([]float64, p.NPoints())
	u := make([]float64, p.NPoints())
	for i := range r {
		r[i] = p.R(i)
		vc[i] = p.Vc(i)
		u[i] = p.U(i)
	}
	plt.Subplot(2, 1, 1)
	plt.Plot(r, vc, "'b-', label='Vc(r)'")
	plt.Plot(r, u, "'r-', label='U(r)'")
	plt.Gll("r", "potential", "")
}

// PlotOrbital draws an orbital's large (P) and small (Q) radial
// components against r.
func PlotOrbital(p *potential.Potential, orb *orbital.Orbital) {
	n := p.NPoints()
	r := make([]float64, n)
	P := orb.Large()
	Q := orb.Small()
	for i := 0; i < n; i++ {
		r[i] = p.R(i)
	}
	plt.Subplot(2, 1, 2)
	plt.Plot(r, P, "'g-', label='P(r)'")
	plt.Plot(r, Q, "'m-', label='Q(r)'")
	plt.Gll("r", "wavefunction", "")
}

// Show flushes any drawn subplots to screen (grounded on
// out/plot.go's `plt.Show()`).
func Show() { plt.Show() }

// Save flushes any drawn subplots to a PNG file, grounded on
// out/plotting.go's `plt.SaveD(dirout, fname)`.
func Save(dirOut, fname string) { plt.SaveD(dirOut, fname) }

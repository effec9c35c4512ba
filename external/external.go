// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package external declares the collaborators spec.md §1 explicitly
// marks as out of scope for this module's physics (the angular-algebra
// library, the low-level Dirac ODE solver, Newton-Cotes quadrature, and
// the spherical Bessel function), together with one default, runnable
// adapter for each so the module is a complete, dependency-injectable
// library rather than one wired to a specific external FFI.
//
// This mirrors the teacher's `msolid.Solid`/`mreten.Model` shape: an
// interface with a swappable concrete implementation, registered once by
// default since (unlike constitutive models) there is exactly one
// physical Dirac equation, not a family of laws to choose among.
package external

import "github.com/cpmech/goatom/orbital"

// RadialField is the minimal view of a central-potential radial grid that
// the Dirac solver and the quadrature routines need. potential.Potential
// satisfies this interface structurally (no import cycle required: this
// package never imports package potential).
type RadialField interface {
	NPoints() int        // number of grid points
	R(i int) float64      // r_i
	DrDrho(i int) float64 // jacobian weight dr/dρ at grid point i, folded with the uniform grid step
	Z(i int) float64      // nuclear point-Coulomb Z(r_i)
	Vc(i int) float64     // core potential at r_i
	U(i int) float64      // residual potential at r_i
}

// DiracSolver solves the radial Dirac equation for one orbital in a given
// central field to the requested energy tolerance, filling in
// orb.Energy (for bound orbitals; a continuum orbital keeps the energy
// it was created with), orb.Ilast, orb.Wfun, orb.QrNorm, and orb.Phase.
// Spec.md §4.7 `RadialSolver`.
type DiracSolver interface {
	Solve(orb *orbital.Orbital, field RadialField, eps float64) error
}

// Quadrature integrates a tabulated integrand against the radial grid
// jacobian. Spec.md §4.10 `NewtonCotes`; the full running integral is
// always produced (there is no endpoint-only mode).
type Quadrature interface {
	// Integrate fills out[i0:i1+1] with the running integral of
	// f[i]*field.DrDrho(i) from i0 to i, for i in [i0,i1].
	Integrate(out, f []float64, field RadialField, i0, i1 int)
}

// Bessel evaluates the spherical Bessel function of the first kind, jn.
// Spec.md §4.9/§4.10 `besljn`.
type Bessel interface {
	SphericalJ(n int, x float64) float64
}

// AngularLib provides the 3-j, 6-j, triangle, and reduced
// Clebsch-Gordan primitives spec.md §1 treats as an external
// angular-algebra collaborator. Every angular momentum argument is
// 2×-scaled, matching package qnum's convention.
type AngularLib interface {
	W3j(j1, j2, j3, m1, m2, m3 int) float64
	W6j(j1, j2, j3, j4, j5, j6 int) float64
	Triangle(j1, j2, j3 int) bool
	ReducedCL(j1, k, j2 int) float64
}

// Collaborators bundles the external adapters a radial.Driver needs.
// Default() returns the default, fully-functional set described above.
type Collaborators struct {
	Dirac      DiracSolver
	Quad       Quadrature
	Bessel     Bessel
	Angular    AngularLib
}

// Default returns the default collaborator set: a gosl/ode-based Dirac
// shooting solver, a composite Newton-Cotes quadrature, a recursive
// spherical Bessel evaluator, and a Racah-formula angular library.
func Default() *Collaborators {
	return &Collaborators{
		Dirac:   &defaultDiracSolver{},
		Quad:    &defaultQuadrature{},
		Bessel:  &defaultBessel{},
		Angular: &defaultAngular{},
	}
}

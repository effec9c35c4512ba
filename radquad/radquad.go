// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package radquad holds the grid-level radial quadratures — Yᵏ and the
// bilinear-combination `Integrate` family — that package potential and
// package integral both need. It is split out from package potential
// purely to break an import cycle: potential needs Yᵏ to build U(r),
// while integral needs potential's grid together with these same
// quadratures, so neither Yᵏ nor Integrate can live as a method on
// *potential.Potential without potential importing integral's sibling.
// Every function here is free, taking external.RadialField and
// *orbital.Orbital values rather than a concrete potential type.
package radquad

import (
	"math"

	"github.com/cpmech/goatom/external"
	"github.com/cpmech/goatom/orbital"
)

// Kernel bilinear combinations, spec.md §4.10.
const (
	KernelPPplusQQ = 1 // P1P2 + Q1Q2
	KernelPP       = 2 // P1P2
	KernelQQ       = 3 // Q1Q2
	KernelPQplusQP = 4 // P1Q2 + Q1P2
	KernelPQminusQP = 5 // P1Q2 - Q1P2
)

// Kernel evaluates one of the five bilinear P/Q combinations spec.md
// §4.10 names. Exported so package integral can build its own
// arbitrarily-weighted integrands (residual potential, multipole
// operators) on top of the same five kernels Integrate and GetYk use.
func Kernel(typ int, p1, q1, p2, q2 float64) float64 {
	switch typ {
	case KernelPPplusQQ:
		return p1*p2 + q1*q2
	case KernelPP:
		return p1 * p2
	case KernelQQ:
		return q1 * q2
	case KernelPQplusQP:
		return p1*q2 + q1*p2
	case KernelPQminusQP:
		return p1*q2 - q1*p2
	default:
		return 0
	}
}

// Integrate evaluates one of the five bilinear radial integrals between
// two orbitals, partitioning the domain the way spec.md §4.10 describes:
// below min(ilastA,ilastB) — where both components are smooth — the
// integrand is evaluated with plain Newton-Cotes; beyond that cutoff, if
// either orbital is a continuum state, the oscillatory tail is handed
// off to IntegrateSinCos instead of being folded into the same
// Newton-Cotes pass. type=5 is antisymmetric under operand swap; the
// per-region coefficient tables IntegrateSinCos builds give it that sign
// flip directly, rather than a caller-side "swap operands" special case.
//
// When running is true, out holds the cumulative integral at every grid
// index (needed by GetYk); the returned float64 is always the endpoint
// value out[last].
func Integrate(a, b *orbital.Orbital, typ int, field external.RadialField, quad external.Quadrature, running bool) ([]float64, float64) {
	npts := field.NPoints()
	cut := minInt(a.Ilast, b.Ilast)
	if cut > npts-1 {
		cut = npts - 1
	}
	if cut < 0 {
		cut = 0
	}

	Pa, Qa := a.Large(), a.Small()
	Pb, Qb := b.Large(), b.Small()
	g := make([]float64, npts)
	for i := 0; i <= cut; i++ {
		g[i] = Kernel(typ, Pa[i], Qa[i], Pb[i], Qb[i])
	}

	out := make([]float64, npts)
	quad.Integrate(out, g, field, 0, cut)
	endpoint := out[cut]

	if cut < npts-1 && (!a.Bound() || !b.Bound()) {
		tail, tailEnd := IntegrateSinCos(a, b, typ, field, quad, cut, npts-1, true)
		endpoint = endpoint + tailEnd
		for i := cut + 1; i < npts; i++ {
			out[i] = out[cut] + tail[i]
		}
	} else {
		for i := cut + 1; i < npts; i++ {
			out[i] = endpoint
		}
	}

	if !running {
		return nil, endpoint
	}
	return out, endpoint
}

// IntegrateSinCos integrates the oscillatory tail [i0,i1] of a bilinear
// radial integral by Filon's method, spec.md §4.10's region dispatch:
// each kernel type is rewritten as a sum of smooth-envelope coefficients
// times {sinφ,cosφ} of an unwrapped continuum phase φ(r), and each grid
// panel's envelope is integrated against that phase in closed form
// (filonLinearMoments) instead of by raw Newton-Cotes sampling, which
// aliases once the continuum's oscillation period drops below the
// log-grid spacing. Three regimes apply, chosen by which operand(s) are
// continuum:
//
//   - one continuum, one bound: the bound orbital's P,Q supply the
//     envelope, the continuum orbital's own phase drives the oscillation
//     (region 1/2 of spec.md §4.10).
//   - both continuum: product-to-sum identities turn the kernel into
//     sum- and difference-phase terms (region 3); type 1 keeps only the
//     difference phase, type 4/5 keep only the sum/difference phase, and
//     types 2/3 are half the difference minus/plus half the sum.
//
// tail and the returned endpoint are both relative to the tail start
// (tail[i0]=0); the caller adds its own running baseline.
func IntegrateSinCos(a, b *orbital.Orbital, typ int, field external.RadialField, quad external.Quadrature, i0, i1 int, running bool) ([]float64, float64) {
	npts := field.NPoints()
	tail := make([]float64, npts)
	if i1 <= i0 {
		return tail, 0
	}

	Pa, Qa := a.Large(), a.Small()
	Pb, Qb := b.Large(), b.Small()

	switch {
	case !a.Bound() && b.Bound():
		phi := unwrapPhase(Pa, Qa)
		ampl := amplitude(Pa, Qa)
		sinC, cosC := singleContinuumCoeffs(typ, Pb, Qb, false)
		filonAccumulate(ampl, sinC, cosC, phi, field, i0, i1, tail)
	case a.Bound() && !b.Bound():
		phi := unwrapPhase(Pb, Qb)
		ampl := amplitude(Pb, Qb)
		sinC, cosC := singleContinuumCoeffs(typ, Pa, Qa, true)
		filonAccumulate(ampl, sinC, cosC, phi, field, i0, i1, tail)
	case !a.Bound() && !b.Bound():
		phiA := unwrapPhase(Pa, Qa)
		phiB := unwrapPhase(Pb, Qb)
		amplA := amplitude(Pa, Qa)
		amplB := amplitude(Pb, Qb)
		E := make([]float64, npts)
		phiD := make([]float64, npts)
		phiS := make([]float64, npts)
		for i := i0; i <= i1; i++ {
			E[i] = amplA[i] * amplB[i]
			phiD[i] = phiA[i] - phiB[i]
			phiS[i] = phiA[i] + phiB[i]
		}
		switch typ {
		case KernelPPplusQQ: // cos(diff)
			filonAccumulate(E, zeros(npts), ones(npts), phiD, field, i0, i1, tail)
		case KernelPQplusQP: // sin(sum)
			filonAccumulate(E, ones(npts), zeros(npts), phiS, field, i0, i1, tail)
		case KernelPQminusQP: // sin(diff)
			filonAccumulate(E, ones(npts), zeros(npts), phiD, field, i0, i1, tail)
		case KernelPP, KernelQQ: // 1/2[cos(diff) -+ cos(sum)]
			sign := -1.0
			if typ == KernelQQ {
				sign = 1.0
			}
			diff := make([]float64, npts)
			filonAccumulate(E, zeros(npts), ones(npts), phiD, field, i0, i1, diff)
			sum := make([]float64, npts)
			filonAccumulate(E, zeros(npts), ones(npts), phiS, field, i0, i1, sum)
			for i := i0; i <= i1; i++ {
				tail[i] = 0.5 * (diff[i] + sign*sum[i])
			}
		}
	default:
		// both bound: never reached by Integrate, but degrade gracefully.
		g := make([]float64, npts)
		for i := i0; i <= i1; i++ {
			g[i] = Kernel(typ, Pa[i], Qa[i], Pb[i], Qb[i])
		}
		out := make([]float64, npts)
		quad.Integrate(out, g, field, i0, i1)
		base := out[i0]
		for i := i0; i <= i1; i++ {
			tail[i] = out[i] - base
		}
	}

	endpoint := tail[i1]
	if !running {
		return nil, endpoint
	}
	return tail, endpoint
}

// singleContinuumCoeffs returns, for kernel typ, the (sinCoeff,cosCoeff)
// arrays pairing the continuum orbital's own unwrapped phase with the
// other (smooth) orbital's P,Q samples: g(r) = sinCoeff(r)·sinφ(r) +
// cosCoeff(r)·cosφ(r), derived by writing the continuum orbital's
// P=A·sinφ, Q=A·cosφ and expanding each of spec.md §4.10's five kernels.
// continuumIsSecond selects the (P1Q2-Q1P2)-type sign flip that applies
// when the continuum orbital is the second operand instead of the
// first — the antisymmetric swap spec.md calls out for type 5.
func singleContinuumCoeffs(typ int, P, Q []float64, continuumIsSecond bool) (sinC, cosC []float64) {
	n := len(P)
	sinC = make([]float64, n)
	cosC = make([]float64, n)
	switch typ {
	case KernelPPplusQQ:
		copy(sinC, P)
		copy(cosC, Q)
	case KernelPP:
		copy(sinC, P)
	case KernelQQ:
		copy(cosC, Q)
	case KernelPQplusQP:
		copy(sinC, Q)
		copy(cosC, P)
	case KernelPQminusQP:
		if continuumIsSecond {
			for i := range P {
				sinC[i] = -Q[i]
				cosC[i] = P[i]
			}
		} else {
			copy(sinC, Q)
			for i := range P {
				cosC[i] = -P[i]
			}
		}
	}
	return sinC, cosC
}

func amplitude(P, Q []float64) []float64 {
	a := make([]float64, len(P))
	for i := range P {
		a[i] = math.Sqrt(P[i]*P[i] + Q[i]*Q[i])
	}
	return a
}

func zeros(n int) []float64 { return make([]float64, n) }
func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

// unwrapPhase returns the continuously-unwrapped instantaneous phase
// atan2(Q,P) at every grid index: asymptotically a continuum orbital's
// large/small components behave as A·sinφ, A·cosφ, so this phase is
// exactly the φ the oscillatory kernels above are built against.
func unwrapPhase(P, Q []float64) []float64 {
	n := len(P)
	phi := make([]float64, n)
	if n == 0 {
		return phi
	}
	phi[0] = math.Atan2(Q[0], P[0])
	for i := 1; i < n; i++ {
		raw := math.Atan2(Q[i], P[i])
		d := raw - math.Mod(phi[i-1], 2*math.Pi)
		for d > math.Pi {
			d -= 2 * math.Pi
		}
		for d < -math.Pi {
			d += 2 * math.Pi
		}
		phi[i] = phi[i-1] + d
	}
	return phi
}

// filonAccumulate integrates ampl(r)·sinCoeff(r)·sinφ(r) +
// ampl(r)·cosCoeff(r)·cosφ(r) from i0 to i1 panel by panel, taking each
// panel's smooth factor as linear between its two grid nodes and the
// phase's local frequency as constant across the panel
// ((φ[i+1]-φ[i])/Δr), then applying filonLinearMoments in closed form.
// Writes the cumulative integral (relative to out[i0]=0) into out.
func filonAccumulate(ampl, sinCoeff, cosCoeff, phi []float64, field external.RadialField, i0, i1 int, out []float64) {
	smoothSin := make([]float64, len(ampl))
	smoothCos := make([]float64, len(ampl))
	for i := i0; i <= i1; i++ {
		smoothSin[i] = ampl[i] * sinCoeff[i]
		smoothCos[i] = ampl[i] * cosCoeff[i]
	}
	acc := 0.0
	out[i0] = 0
	for i := i0; i < i1; i++ {
		r0, r1 := field.R(i), field.R(i+1)
		delta := r1 - r0
		if delta > 0 {
			k := (phi[i+1] - phi[i]) / delta
			bSin := (smoothSin[i+1] - smoothSin[i]) / delta
			bCos := (smoothCos[i+1] - smoothCos[i]) / delta
			sinI, _ := filonLinearMoments(smoothSin[i], bSin, phi[i], k, delta)
			_, cosI := filonLinearMoments(smoothCos[i], bCos, phi[i], k, delta)
			acc += sinI + cosI
		}
		out[i+1] = acc
	}
}

// filonLinearMoments returns ∫₀^Δ (a+b·u)·sin(φ₀+k·u)du and the cos
// analogue in closed form — spec.md §4.10's Iₘ/Jₘ trig moments, to
// linear rather than cubic order (a scope simplification recorded in
// DESIGN.md). Falls back to the non-oscillatory trapezoidal value when
// kΔ is too small for the closed form to be numerically stable.
func filonLinearMoments(a, b, phi0, k, delta float64) (sinInt, cosInt float64) {
	if math.Abs(k*delta) < 1e-8 {
		mean := a + 0.5*b*delta
		return mean * delta * math.Sin(phi0), mean * delta * math.Cos(phi0)
	}
	s0, c0 := math.Sin(phi0), math.Cos(phi0)
	sD, cD := math.Sin(phi0+k*delta), math.Cos(phi0+k*delta)
	ISin := (c0 - cD) / k
	IuSin := (sD-s0)/(k*k) - delta*cD/k
	ICos := (sD - s0) / k
	IuCos := (cD-c0)/(k*k) + delta*sD/k
	sinInt = a*ISin + b*IuSin
	cosInt = a*ICos + b*IuCos
	return
}

// GetYk computes the Hartree-Fock-style Yᵏ(a,b;r) radial function,
// spec.md §4.10:
//
//	Yᵏ(r) = r⁻ᵏ ∫₀^r r′ᵏ ρ(r′)dr′ + r^{k+1} ∫_r^∞ r′^{-k-1} ρ(r′)dr′
//
// with ρ(r)=PₐPᵦ+QₐQᵦ. For k>2 the small-r integrand of the first term
// is zeroed wherever it falls below 10⁻³·max|ρ| to avoid the
// catastrophic cancellation that a high power of a small r introduces.
func GetYk(k int, a, b *orbital.Orbital, field external.RadialField, quad external.Quadrature) []float64 {
	npts := field.NPoints()
	Pa, Qa := a.Large(), a.Small()
	Pb, Qb := b.Large(), b.Small()

	rho := make([]float64, npts)
	for i := 0; i < npts; i++ {
		rho[i] = Pa[i]*Pb[i] + Qa[i]*Qb[i]
	}

	rhoLow := rho
	if k > 2 {
		maxAbs := 0.0
		for _, v := range rho {
			if math.Abs(v) > maxAbs {
				maxAbs = math.Abs(v)
			}
		}
		floor := 1e-3 * maxAbs
		rhoLow = make([]float64, npts)
		for i, v := range rho {
			if math.Abs(v) >= floor {
				rhoLow[i] = v
			}
		}
	}

	g1 := make([]float64, npts) // r'^k * rho, small-r floored for k>2
	g2 := make([]float64, npts) // r'^{-k-1} * rho
	for i := 0; i < npts; i++ {
		r := field.R(i)
		if r <= 0 {
			r = 1e-300
		}
		g1[i] = math.Pow(r, float64(k)) * rhoLow[i]
		g2[i] = math.Pow(r, float64(-k-1)) * rho[i]
	}

	low := make([]float64, npts)
	quad.Integrate(low, g1, field, 0, npts-1)
	full := make([]float64, npts)
	quad.Integrate(full, g2, field, 0, npts-1)
	total := full[npts-1]

	yk := make([]float64, npts)
	for i := 0; i < npts; i++ {
		r := field.R(i)
		if r <= 0 {
			r = 1e-300
		}
		high := total - full[i]
		yk[i] = math.Pow(r, float64(-k))*low[i] + math.Pow(r, float64(k+1))*high
	}
	return yk
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

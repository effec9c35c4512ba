// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package potential builds and rebuilds the self-consistent central
// potential (spec.md §4.5 `SetPotential`) on a logarithmic radial grid.
package potential

import (
	"math"

	"github.com/cpmech/goatom/avgcfg"
	"github.com/cpmech/goatom/external"
	"github.com/cpmech/goatom/orbital"
	"github.com/cpmech/goatom/qnum"
	"github.com/cpmech/goatom/radquad"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/utl"
)

// maxRank is the truncation rank spec.md §4.5 step 2 sets for the
// direct/exchange central-potential accumulation.
const maxRank = 8

// Potential is the logarithmic-grid central-field model: nuclear
// point-Coulomb Z(r), core potential Vc(r), and residual U(r). It
// satisfies external.RadialField structurally, so package external
// never needs to import this package.
type Potential struct {
	npts   int
	rho    []float64
	r      []float64
	drdrho []float64

	nuclearZ fun.Func
	extraZ   float64 // homotopy fictitious charge, spec.md §4.6 step 1
	zArr     []float64

	w     []float64 // electron density ρ(r)·r², spec.md §4.5 step 1
	vcArr []float64
	uArr  []float64
	rawU  []float64 // pre-transform accumulated U, kept only for damping

	N      float64 // total electron count driving the build
	Lambda float64 // screening decay rate
	Rcore  int     // core-radius grid index
	Flag   int      // 0: grid not laid down, 1: ready, -1: dirty
}

// New lays down a logarithmic grid [rmin,rmax] with npts points and a
// point-Coulomb nuclear charge z, grounded on the teacher's
// `inp.FuncsData.GetOrPanic` use of `fun.New`/`fun.Prms` to build a
// function object from named parameters rather than a bare closure.
func New(z float64, rmin, rmax float64, npts int) (*Potential, error) {
	if npts < 8 {
		return nil, utl.Err("potential: npts must be >= 8, got %d\n", npts)
	}
	if rmin <= 0 || rmax <= rmin {
		return nil, utl.Err("potential: invalid grid range [%v,%v]\n", rmin, rmax)
	}
	p := &Potential{npts: npts}
	rho := utl.LinSpace(math.Log(rmin), math.Log(rmax), npts)
	p.rho = rho
	h := rho[1] - rho[0]
	p.r = make([]float64, npts)
	p.drdrho = make([]float64, npts)
	for i, x := range rho {
		p.r[i] = math.Exp(x)
		p.drdrho[i] = p.r[i] * h
	}
	if err := p.SetZ(z); err != nil {
		return nil, err
	}
	p.uArr = make([]float64, npts)
	p.vcArr = make([]float64, npts)
	p.Flag = 1
	return p, nil
}

// SetZ installs the nuclear point-Coulomb charge, spec.md §4.5/§4.6.
func (p *Potential) SetZ(z float64) error {
	f := fun.New("cte", fun.Prms{&fun.Prm{N: "c", V: z}})
	p.nuclearZ = f
	p.zArr = make([]float64, p.npts)
	for i := range p.zArr {
		p.zArr[i] = f.F(p.r[i], nil) + p.extraZ
	}
	return nil
}

// SetExtraZ installs the homotopy fictitious extra nuclear charge
// `OptimizeRadial` seeds and halves every iteration (spec.md §4.6 step
// 1/2a), re-tabulating Z(r) immediately.
func (p *Potential) SetExtraZ(z float64) {
	p.extraZ = z
	for i := range p.zArr {
		p.zArr[i] = p.nuclearZ.F(p.r[i], nil) + z
	}
}

// MarkDirty sets flag=-1, forcing dependent grid-derived quantities to
// be recomputed on next use (spec.md §4.7).
func (p *Potential) MarkDirty() { p.Flag = -1 }

// NPoints, R, DrDrho, Z, Vc, U implement external.RadialField.
func (p *Potential) NPoints() int         { return p.npts }
func (p *Potential) R(i int) float64      { return p.r[i] }
func (p *Potential) DrDrho(i int) float64 { return p.drdrho[i] }
func (p *Potential) Z(i int) float64      { return p.zArr[i] }
func (p *Potential) Vc(i int) float64     { return p.vcArr[i] }
func (p *Potential) U(i int) float64      { return p.uArr[i] }

var _ external.RadialField = (*Potential)(nil)

// GetResidualZ returns the asymptotic residual charge Z(r_max)-N+1 seen
// by a departing electron, spec.md §6: for a neutral atom this is 1.
func (p *Potential) GetResidualZ() float64 {
	return p.Z(p.npts-1) - p.N + 1
}

// GetRMax returns the outer tabulated radius used as the asymptotic
// matching point, ten grid points short of the outer grid boundary
// (spec.md §6), the same margin the teacher's C core (`radial.c`
// `GetRMax`) leaves so the last few points are never trusted as exact.
func (p *Potential) GetRMax() float64 {
	i := p.npts - 10
	if i < 0 {
		i = 0
	}
	return p.r[i]
}

// Bare resets the potential to a bare nuclear field (U=0), spec.md
// §4.5: "if no occupied orbitals, set U(r)=0 and use a bare nuclear
// potential".
func (p *Potential) Bare() {
	for i := range p.uArr {
		p.uArr[i] = 0
		p.vcArr[i] = 0
	}
	p.rawU = nil
	p.N = 0
	p.Rcore = 0
}

// Set rebuilds W(r), U(r), Vc(r), r_core and λ from the current average
// configuration and orbital store, following spec.md §4.5's five steps.
// Orbitals not yet present in store are simply skipped — their
// contribution appears once `OptimizeRadial` has solved them and calls
// Set again.
func (p *Potential) Set(acfg *avgcfg.AverageConfig, store *orbital.Store, coll *external.Collaborators) error {
	if len(acfg.Shells) == 0 {
		p.Bare()
		return nil
	}

	// step 1: density
	w := make([]float64, p.npts)
	type occShell struct {
		orb *orbital.Orbital
		nq  float64
		l   int
		j2  int
	}
	var occ []occShell
	for _, sh := range acfg.Shells {
		idx := store.Exists(sh.N, sh.Kappa, 0)
		if idx < 0 {
			continue
		}
		orb := store.Get(idx)
		if orb.Wfun == nil {
			continue
		}
		P, Q := orb.Large(), orb.Small()
		for i := 0; i < p.npts; i++ {
			w[i] += sh.Nq * (P[i]*P[i] + Q[i]*Q[i])
		}
		occ = append(occ, occShell{orb, sh.Nq, qnum.LFromKappa(sh.Kappa), qnum.J2FromKappa(sh.Kappa)})
	}
	p.w = w
	if len(occ) == 0 {
		p.Bare()
		return nil
	}

	// a lone electron (N<=1) sees nothing but the bare nuclear field: the
	// teacher's C core only runs the accumulation below when `norbs &&
	// N>1` (radial.c SetPotential), leaving U=Vc=0 for one-electron
	// systems instead of running it through the Z-subtracting transform
	// of step 5, which would otherwise cancel the nuclear charge to zero.
	n := acfg.TotalCharge()
	if n <= 1 {
		p.uArr = make([]float64, p.npts)
		p.vcArr = make([]float64, p.npts)
		p.rawU = nil
		p.Rcore = 0
		p.N = n
		return nil
	}

	// step 2: direct + exchange accumulation, truncated at rank maxRank
	u := make([]float64, p.npts)
	for ia, a := range occ {
		for k := 0; k <= maxRank; k += 2 {
			if !coll.Angular.Triangle(a.j2, 2*k, a.j2) {
				continue
			}
			yk := radquad.GetYk(k, a.orb, a.orb, p, coll.Quad)
			cg := coll.Angular.ReducedCL(a.j2, 2*k, a.j2)
			weight := a.nq * (a.nq - 1) / 2 * cg * cg / float64(a.j2+1)
			for i := 0; i < p.npts; i++ {
				u[i] += weight * yk[i]
			}
		}
		for ib, b := range occ {
			if ib == ia {
				continue
			}
			for k := 0; k <= maxRank; k++ {
				if qnum.IsOdd(a.l + b.l + k) {
					continue
				}
				if !coll.Angular.Triangle(a.j2, 2*k, b.j2) {
					continue
				}
				yk := radquad.GetYk(k, a.orb, b.orb, p, coll.Quad)
				cg := coll.Angular.ReducedCL(a.j2, 2*k, b.j2)
				weight := a.nq * b.nq * cg * cg / (2 * float64(a.j2+1))
				for i := 0; i < p.npts; i++ {
					u[i] += weight * yk[i]
				}
			}
		}
	}

	// step 3: core radius — scan inward from npts-6 for the first index
	// where |U(r)-N+1| exceeds 1e-10.
	rcore := 0
	for i := p.npts - 6; i >= 0; i-- {
		if math.Abs(u[i]-n+1) > 1e-10 {
			rcore = i
			break
		}
	}

	// step 4: damping against the previous iterate, then λ from the
	// half-plateau radius.
	if p.N > 0 && p.rawU != nil {
		for i := range u {
			u[i] = 0.5 * (u[i] + p.rawU[i])
		}
	}
	plateau := u[p.npts-1]
	rHalf := p.r[p.npts-1]
	for i := 0; i < p.npts; i++ {
		if u[i] >= 0.5*plateau {
			rHalf = p.r[i]
			break
		}
	}
	if rHalf <= 0 {
		rHalf = p.r[p.npts-1]
	}
	lambda := math.Ln2 / rHalf

	// step 5: split into a smooth core part Vc(r) and residual U(r).
	vc := make([]float64, p.npts)
	for i := 0; i < p.npts; i++ {
		if i < rcore {
			vc[i] = u[i]
		} else {
			vc[i] = plateau
		}
	}
	ufinal := make([]float64, p.npts)
	for i := 0; i < p.npts; i++ {
		r := p.r[i]
		ufinal[i] = (u[i] - p.zArr[i] - vc[i]*r) / r
	}

	p.uArr = ufinal
	p.vcArr = vc
	p.rawU = u
	p.Rcore = rcore
	p.Lambda = lambda
	p.N = n
	return nil
}

// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package radial drives the self-consistent radial-orbital loop
// (spec.md §4.6 `OptimizeRadial`) over an average configuration: it ties
// together the potential, the orbital store, and the external Dirac
// solver, replacing the teacher's process-wide FEM solver state with an
// explicit, reentrant driver struct (spec.md §9's own suggested
// redesign).
package radial

import (
	"math"

	"github.com/cpmech/goatom/avgcfg"
	"github.com/cpmech/goatom/external"
	"github.com/cpmech/goatom/integral"
	"github.com/cpmech/goatom/orbital"
	"github.com/cpmech/goatom/potential"
	"github.com/cpmech/gosl/utl"
)

// fineStructureConst mirrors external.fineStructureConst and
// integral.fineStructureConst (kept local: neither package exports it,
// and GetPhaseShift's fallback asymptotic fit needs it directly).
const fineStructureConst = 1.0 / 137.035999139

// ErrMaxIterReached is returned (non-fatal) by OptimizeRadial when the
// self-consistency loop exhausts MaxIter without every shell's
// convergence metric dropping to Tolerence. Orbitals remain usable.
type ErrMaxIterReached struct {
	Iter int
}

func (e *ErrMaxIterReached) Error() string {
	return utl.Sf("radial: max iterations reached (%d) without full convergence", e.Iter)
}

// Driver is the explicit, single self-consistency context spec.md §9
// asks for in place of the teacher's package-level globals: one struct
// owns the potential, the orbital store, the integral engine, and the
// external collaborators for one atom.
type Driver struct {
	Z        float64
	Pot      *potential.Potential
	Store    *orbital.Store
	Integral *integral.Engine
	Coll     *external.Collaborators

	MaxIter    int
	Tolerence  float64
	Eps        float64 // Dirac solver energy tolerance
	Trace      bool    // print the per-iteration convergence table

	LastIter int
}

// NewDriver lays down a fresh logarithmic grid and wires every
// collaborator together for a nuclear charge z.
func NewDriver(z float64, rmin, rmax float64, npts int) (*Driver, error) {
	pot, err := potential.New(z, rmin, rmax, npts)
	if err != nil {
		return nil, err
	}
	store := orbital.NewStore()
	coll := external.Default()
	eng := integral.NewEngine(pot, store, coll)
	return &Driver{
		Z:         z,
		Pot:       pot,
		Store:     store,
		Integral:  eng,
		Coll:      coll,
		MaxIter:   100,
		Tolerence: 1e-6,
		Eps:       1e-8,
	}, nil
}

// SetPotential rebuilds U(r)/Vc(r) from the current average configuration
// and orbital store (spec.md §4.5, exposed per §9's renaming note).
func (d *Driver) SetPotential(acfg *avgcfg.AverageConfig) error {
	return d.Pot.Set(acfg, d.Store, d.Coll)
}

// SolveDirac is the thin wrapper spec.md §4.7 describes: marks the
// potential dirty, then delegates to the external Dirac solver. Failure
// is fatal — propagated to the caller, who aborts the run.
func (d *Driver) SolveDirac(orb *orbital.Orbital) error {
	d.Pot.MarkDirty()
	return d.Coll.Dirac.Solve(orb, d.Pot, d.Eps)
}

// outerShellNq returns the occupation of the outermost (largest n) shell,
// the Z_outer spec.md §4.6 step 1 divides the fictitious charge by.
func outerShellNq(acfg *avgcfg.AverageConfig) float64 {
	best := -1
	nq := 1.0
	for _, sh := range acfg.Shells {
		if sh.N > best {
			best = sh.N
			nq = sh.Nq
		}
	}
	if nq == 0 {
		return 1
	}
	return nq
}

// OptimizeRadial runs the self-consistent loop spec.md §4.6 describes:
// homotopy fictitious-charge seeding, iterated potential rebuild +
// per-shell Dirac solve, convergence by the combined wavefunction/energy
// metric. On success it returns nil; on exhausting MaxIter without full
// convergence it returns *ErrMaxIterReached (non-fatal: the orbitals
// found so far remain usable). A Dirac-solver failure for any shell is
// fatal and aborts the run immediately.
func (d *Driver) OptimizeRadial(acfg *avgcfg.AverageConfig) error {
	n := acfg.TotalCharge()

	// step 1: homotopy fictitious-charge seed.
	z := 0.0
	if n > 2*d.Z {
		z = (n - 2*d.Z) / outerShellNq(acfg)
	}
	d.Pot.SetExtraZ(z)

	if d.Trace {
		utl.Pfyel("\n%5s%23s%23s\n", "it", "maxTol", "extraZ")
	}

	for it := 0; it < d.MaxIter; it++ {
		d.LastIter = it

		// step 2a: halve (or zero) the homotopy charge.
		if z > 1e-3 {
			z *= 0.5
		} else {
			z = 0
		}
		d.Pot.SetExtraZ(z)

		// step 2b: rebuild the potential from whatever orbitals exist so far.
		if err := d.SetPotential(acfg); err != nil {
			return err
		}

		// step 2c: per-shell solve, tracking a backup of (ε_old, w_old) to
		// compute the convergence metric.
		maxTol := 0.0
		for _, sh := range acfg.Shells {
			orb := d.findOrCreate(sh.N, sh.Kappa)
			epsOld := orb.Energy
			var wOld []float64
			if orb.Wfun != nil {
				wOld = append([]float64(nil), orb.Wfun...)
			}

			if err := d.SolveDirac(orb); err != nil {
				return utl.Err("radial: Dirac solve failed for shell (n=%d,kappa=%d): %v\n", sh.N, sh.Kappa, err)
			}

			tol := shellTol(epsOld, orb.Energy, wOld, orb.Wfun)
			if tol > maxTol {
				maxTol = tol
			}
		}

		// Slater/residual values depend on the just-updated orbitals and
		// must be recomputed next iteration; multipole radial integrals
		// depend only on (orbital, rank) pairs that get reused verbatim
		// across the whole homotopy run, so that cache is left standing
		// (spec.md §6: process-lifetime, never freed inside OptimizeRadial).
		d.Integral.FreeSlaterArray()
		d.Integral.FreeResidualArray()

		if d.Trace {
			utl.Pf("%5d%23.15e%23.15e\n", it, maxTol, z)
		}

		// step 2e: stop once every shell is converged and the homotopy
		// charge has fully decayed.
		if maxTol <= d.Tolerence && z == 0 {
			return nil
		}
	}
	return &ErrMaxIterReached{Iter: d.MaxIter}
}

// findOrCreate mirrors OrbitalIndex's bound-state behaviour (spec.md
// §4.8): search by (n,κ) only, allocating a fresh unsolved orbital on
// miss. Orbitals are never freed mid-iteration (spec.md §4.6's
// invariant); their Wfun is simply overwritten on every re-solve.
func (d *Driver) findOrCreate(n, kappa int) *orbital.Orbital {
	if idx := d.Store.Exists(n, kappa, 0); idx >= 0 {
		return d.Store.Get(idx)
	}
	_, orb := d.Store.AddNew(n, kappa, 0)
	return orb
}

// GetResidualZ returns the asymptotic residual charge seen by a departing
// electron (spec.md §6), delegating to the potential.
func (d *Driver) GetResidualZ() float64 { return d.Pot.GetResidualZ() }

// GetRMax returns the outer tabulated radius (spec.md §6), delegating to
// the potential.
func (d *Driver) GetRMax() float64 { return d.Pot.GetRMax() }

// GetPhaseShift returns the continuum phase shift of orbital k, spec.md
// §6/§3: 0 for bound orbitals, the cached Orbital.Phase if already
// computed, or a freshly fitted asymptotic phase (the same sine-tail fit
// the default Dirac solver performs right after solving a continuum
// orbital, external.solveContinuum) for the rare case a continuum
// orbital reaches here with Phase still marked "not yet computed" (e.g.
// restored from persistence without a phase).
func (d *Driver) GetPhaseShift(k int) (float64, error) {
	orb := d.Store.Get(k)
	if orb == nil {
		return 0, utl.Err("radial: invalid orbital index %d\n", k)
	}
	if orb.Bound() {
		return 0, nil
	}
	if orb.Phase >= 0 {
		return orb.Phase, nil
	}
	ke := math.Sqrt(2 * math.Abs(orb.Energy) * (1 + fineStructureConst*fineStructureConst*orb.Energy/2))
	if ke <= 0 {
		orb.Phase = 0
		return 0, nil
	}
	npts := d.Pot.NPoints()
	if npts < 3 {
		orb.Phase = 0
		return 0, nil
	}
	P := orb.Large()
	i1, i2 := npts-3, npts-1
	r1, r2 := d.Pot.R(i1), d.Pot.R(i2)
	phase := math.Atan2(P[i2]*math.Sin(ke*r1)-P[i1]*math.Sin(ke*r2), P[i1]*math.Cos(ke*r2)-P[i2]*math.Cos(ke*r1))
	for phase < 0 {
		phase += 2 * math.Pi
	}
	for phase >= 2*math.Pi {
		phase -= 2 * math.Pi
	}
	orb.Phase = phase
	return phase, nil
}

// shellTol computes the per-shell convergence metric spec.md §4.6 step d
// describes: max_r |w_new-w_old|/max|w_new|, combined with the energy
// ratio |1-ε_old/ε_new|, the larger of the two dominating.
func shellTol(epsOld, epsNew float64, wOld, wNew []float64) float64 {
	if wOld == nil || len(wOld) != len(wNew) {
		return math.Inf(1)
	}
	maxAbsNew, maxDiff := 0.0, 0.0
	for i := range wNew {
		if a := math.Abs(wNew[i]); a > maxAbsNew {
			maxAbsNew = a
		}
		if diff := math.Abs(wNew[i] - wOld[i]); diff > maxDiff {
			maxDiff = diff
		}
	}
	wTol := 0.0
	if maxAbsNew > 0 {
		wTol = maxDiff / maxAbsNew
	}
	eTol := math.Inf(1)
	if epsOld != 0 && epsNew != 0 {
		eTol = math.Abs(1 - epsOld/epsNew)
	}
	return math.Max(wTol, eTol)
}

// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package orbital holds the append-only collection of relativistic
// single-electron radial orbitals (spec.md §3 "Orbital store").
package orbital

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// matchTol is the energy tolerance used to match continuum orbitals by
// (κ, ε), spec.md §3: "ε ≈ 10⁻⁶ in atomic units".
const matchTol = 1e-6

// Orbital is a single relativistic radial orbital. For bound states n>0
// and ε<0; for continuum states n≤0, ε>0, and n is a dense negative
// ordinal assigned on first creation. Wfun holds the interleaved large
// (P) and small (Q) Dirac components, tabulated on the full grid:
// Wfun[2i]=P(r_i), Wfun[2i+1]=Q(r_i). Phase<0 means "not yet computed".
type Orbital struct {
	N      int       // principal quantum number (bound) or -ordinal (continuum)
	Kappa  int       // relativistic angular quantum number
	Energy float64   // ε: <0 bound, >0 continuum
	Ilast  int       // for continuum orbitals, last index before the oscillatory tail (spec.md §4.10); npts-1 for bound orbitals (no tail)
	Wfun   []float64 // interleaved P,Q
	QrNorm float64   // quasi-relativistic normalization factor
	Phase  float64   // continuum phase shift; <0 means "not yet computed"
}

// Large returns the large-component (P) samples.
func (o *Orbital) Large() []float64 {
	p := make([]float64, len(o.Wfun)/2)
	for i := range p {
		p[i] = o.Wfun[2*i]
	}
	return p
}

// Small returns the small-component (Q) samples.
func (o *Orbital) Small() []float64 {
	q := make([]float64, len(o.Wfun)/2)
	for i := range q {
		q[i] = o.Wfun[2*i+1]
	}
	return q
}

// Bound reports whether the orbital is a bound state (n>0, ε<0).
func (o *Orbital) Bound() bool { return o.N > 0 }

// Persister optionally persists orbital wavefunctions out of memory. A nil
// Persister keeps the in-memory-only execution mode first-class
// (spec.md §6).
type Persister interface {
	Save(i int, o *Orbital) error
	Restore(i int, o *Orbital) error
}

// Store is the append-only indexed collection of orbitals. Identity is
// the integer index into the store.
type Store struct {
	orbitals  []*Orbital
	nContinua int
	Persist   Persister // optional; nil ⇒ in-memory only
}

// NewStore creates an empty orbital store.
func NewStore() *Store { return &Store{} }

// NOrbitals returns the total number of orbitals in the store.
func (s *Store) NOrbitals() int { return len(s.orbitals) }

// NBounds returns the number of bound orbitals currently stored.
func (s *Store) NBounds() int {
	n := 0
	for _, o := range s.orbitals {
		if o.Bound() {
			n++
		}
	}
	return n
}

// NContinua returns the number of distinct continuum orbitals created so
// far.
func (s *Store) NContinua() int { return s.nContinua }

// Get returns the orbital at index i.
func (s *Store) Get(i int) *Orbital {
	if i < 0 || i >= len(s.orbitals) {
		return nil
	}
	return s.orbitals[i]
}

// Exists searches for a matching orbital and returns its index, or -1 if
// none is found. Bound-state search (n!=0) matches by (n, κ) only,
// ignoring ε; continuum search (n==0) matches by κ and ε within
// matchTol.
func (s *Store) Exists(n, kappa int, energy float64) int {
	for i, o := range s.orbitals {
		if n == 0 {
			if o.Kappa == kappa && o.Energy > 0 && math.Abs(o.Energy-energy) < matchTol {
				return i
			}
		} else if o.N == n && o.Kappa == kappa {
			return i
		}
	}
	return -1
}

// AddNew appends a freshly allocated, unsolved orbital with the given
// (n, κ, ε) and returns its index. If n==0 (continuum), it is assigned a
// dense negative ordinal n = -nContinua.
func (s *Store) AddNew(n, kappa int, energy float64) (int, *Orbital) {
	o := &Orbital{N: n, Kappa: kappa, Energy: energy, Phase: -1}
	if n == 0 {
		s.nContinua++
		o.N = -s.nContinua
	}
	i := len(s.orbitals)
	s.orbitals = append(s.orbitals, o)
	if len(s.orbitals) != i+1 {
		chk.Panic("orbital: append failed (out of memory?)")
	}
	return i, o
}

// Index is the canonical entry point (spec.md §4.8 `OrbitalIndex`):
// searches the store for an orbital matching (n, κ, ε); if found and its
// wavefunction has been evicted, attempts to restore it via Persist; on a
// genuine miss, allocates a new orbital and invokes solve to fill it in.
// solve is expected to set o.Energy for continuum orbitals before
// returning. Unlike the original C (spec.md §9's documented bug), this
// always returns the index of the orbital actually found or created —
// never a stale length.
func (s *Store) Index(n, kappa int, energy float64, solve func(o *Orbital) error) (int, error) {
	for i, o := range s.orbitals {
		matched := false
		if n == 0 {
			matched = o.Kappa == kappa && o.Energy > 0 && math.Abs(o.Energy-energy) < matchTol
		} else {
			matched = o.N == n && o.Kappa == kappa
		}
		if !matched {
			continue
		}
		if o.Wfun == nil {
			if s.Persist != nil {
				if err := s.Persist.Restore(i, o); err == nil {
					return i, nil
				}
			}
			if err := solve(o); err != nil {
				return -1, err
			}
			return i, nil
		}
		return i, nil
	}

	i, o := s.AddNew(n, kappa, energy)
	if err := solve(o); err != nil {
		return -1, err
	}
	return i, nil
}

// Free evicts the wavefunction of orbital i, matching spec.md §7's
// persistence lifecycle (`FreeOrbital`).
func (s *Store) Free(i int) {
	o := s.Get(i)
	if o != nil {
		o.Wfun = nil
	}
}

// FreeAllContinua evicts every continuum orbital's wavefunction.
func (s *Store) FreeAllContinua() {
	for _, o := range s.orbitals {
		if !o.Bound() && o.Wfun != nil {
			o.Wfun = nil
		}
	}
}

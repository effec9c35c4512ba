// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package avgcfg builds a weighted average configuration across a set of
// configuration groups, the input that drives the self-consistent
// potential (spec.md §4.4).
package avgcfg

import (
	"github.com/cpmech/goatom/group"
	"github.com/cpmech/goatom/qnum"
	"github.com/cpmech/gosl/utl"
)

// Shell is one entry of an average configuration: a fractional occupation
// nq̄ for the (n, κ) pair.
type Shell struct {
	N     int
	Kappa int
	Nq    float64
}

// AverageConfig is the flat, deduplicated list of (n, κ, nq̄) that drives
// Potential.Set, aggregated across groups with weights plus any injected
// screening shells.
type AverageConfig struct {
	Shells []Shell
}

// TotalCharge returns Σ nq̄ over every shell.
func (a *AverageConfig) TotalCharge() float64 {
	t := 0.0
	for _, s := range a.Shells {
		t += s.Nq
	}
	return t
}

// ScreeningSpec statically screens a fractional charge over a set of
// outer shells at a given ℓ, mirroring the `screened_n[]`,
// `screened_charge`, `screened_kl`, `n_screen` knobs of spec.md §6.
type ScreeningSpec struct {
	N      []int   // principal quantum numbers to inject as screening shells
	Charge float64 // total fractional charge to distribute across them
	Kl     int      // orbital angular momentum ℓ of the screening shells
}

// Empty reports whether the screening spec has no shells to inject.
func (s ScreeningSpec) Empty() bool { return len(s.N) == 0 }

// Build aggregates the (n, κ) occupations of the named groups, weighted
// by w, into a single deduplicated average configuration, then injects
// any requested screening shells. Weights need not be normalised; Build
// divides by their sum. Total charge is preserved up to the injected
// screening charge (spec.md §4.4).
func Build(idx *group.Index, groupIdx []int, weight []float64, screen ScreeningSpec) (*AverageConfig, error) {
	if len(groupIdx) != len(weight) {
		return nil, utl.Err("avgcfg: groupIdx and weight must have the same length (%d != %d)\n", len(groupIdx), len(weight))
	}
	wsum := 0.0
	for _, w := range weight {
		wsum += w
	}
	if wsum == 0 {
		return nil, utl.Err("avgcfg: sum of weights is zero\n")
	}

	type key struct{ n, kappa int }
	acc := map[key]float64{}
	order := []key{}

	for gi, w := range weight {
		g := idx.Group(groupIdx[gi])
		if len(g.Configs) == 0 {
			continue
		}
		// occupation of (n,kappa) in this group: unweighted mean over the
		// group's own configurations (a group may itself hold several
		// reference configurations for a multi-reference average). groupOrder
		// records first-seen order from the configurations' own shell lists
		// (deterministic) rather than ranging groupAcc (a Go map, whose
		// iteration order is randomized and would make the summation order —
		// and so the float64 result — nondeterministic across runs; spec.md
		// §9 requires bitwise-reproducible traversal).
		groupAcc := map[key]float64{}
		var groupOrder []key
		for _, cfg := range g.Configs {
			for _, sh := range cfg.Shells {
				k := key{sh.N, sh.Kappa}
				if _, seen := groupAcc[k]; !seen {
					groupOrder = append(groupOrder, k)
				}
				groupAcc[k] += float64(sh.Nq)
			}
		}
		nc := float64(len(g.Configs))
		for _, k := range groupOrder {
			v := groupAcc[k]
			if _, seen := acc[k]; !seen {
				order = append(order, k)
			}
			acc[k] += (w / wsum) * (v / nc)
		}
	}

	out := &AverageConfig{}
	for _, k := range order {
		out.Shells = append(out.Shells, Shell{N: k.n, Kappa: k.kappa, Nq: acc[k]})
	}

	if !screen.Empty() {
		per := screen.Charge / float64(len(screen.N))
		kappa := qnum.KappaFromJL(2*screen.Kl+1, screen.Kl) // the j=ℓ+1/2 sub-shell (κ=-ℓ-1)
		for _, n := range screen.N {
			out.Shells = append(out.Shells, Shell{N: n, Kappa: kappa, Nq: per})
		}
	}
	return out, nil
}

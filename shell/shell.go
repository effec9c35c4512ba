// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shell represents relativistic electron shells, the
// configurations built from them, and the coupled many-electron basis
// states (CSFs) a configuration expands into.
package shell

import (
	"github.com/cpmech/goatom/qnum"
	"github.com/cpmech/gosl/chk"
)

// Shell is a relativistic shell quantum triple (n, κ, occupation).
type Shell struct {
	N     int // principal quantum number
	Kappa int // relativistic angular quantum number
	Nq    int // occupation
}

// L returns the orbital angular momentum ℓ of the shell.
func (s Shell) L() int { return qnum.LFromKappa(s.Kappa) }

// J2 returns 2j for the shell.
func (s Shell) J2() int { return qnum.J2FromKappa(s.Kappa) }

// Degeneracy returns 2j+1, the maximum occupation of the shell.
func (s Shell) Degeneracy() int { return s.J2() + 1 }

// Closed reports whether the shell is fully occupied.
func (s Shell) Closed() bool { return s.Nq == s.Degeneracy() }

// ShellState is one coupled angular-momentum state of a shell within a
// configuration: its own coupled 2J, the running total 2J obtained by
// coupling with all inner shells processed so far, its seniority, and an
// auxiliary label resolving ambiguity among repeated (shellJ2, seniority)
// pairs.
type ShellState struct {
	ShellJ2 int // shell's own coupled 2J
	TotalJ2 int // running total 2J when coupled with inner shells
	Nu      int // seniority
	Nr      int // disambiguation label
}

// CSF is one coupled many-electron basis vector for a configuration: one
// ShellState per shell, in the same order as Configuration.Shells.
type CSF []ShellState

// Configuration is an ordered sequence of shells (outer shells first —
// this ordering is a hard invariant because coupling proceeds from
// innermost outward in reversed traversal) together with the flat table
// of CSFs it expands into.
type Configuration struct {
	Shells []Shell      // outer-to-inner order
	CSFs   []ShellState // flat array, length == NCSFs()*NShells()
}

// NShells returns the number of shells in the configuration.
func (c *Configuration) NShells() int { return len(c.Shells) }

// NCSFs returns the number of CSFs the configuration expands into.
func (c *Configuration) NCSFs() int {
	if len(c.Shells) == 0 {
		return 0
	}
	return len(c.CSFs) / len(c.Shells)
}

// CSFAt returns the i'th CSF (one ShellState per shell).
func (c *Configuration) CSFAt(i int) CSF {
	n := c.NShells()
	return CSF(c.CSFs[i*n : (i+1)*n])
}

// Parity returns the parity (0 or 1) of the configuration: Σᵢ ℓᵢ·nqᵢ mod 2.
func (c *Configuration) Parity() int {
	sum := 0
	for _, s := range c.Shells {
		sum += s.L() * s.Nq
	}
	return sum % 2
}

// checkInvariant panics if the flat CSF table length is not a multiple of
// the shell count, matching spec.md §3's hard invariant.
func (c *Configuration) checkInvariant() {
	if c.NShells() == 0 {
		return
	}
	if len(c.CSFs)%c.NShells() != 0 {
		chk.Panic("shell: CSF table length %d is not a multiple of shell count %d", len(c.CSFs), c.NShells())
	}
}

// appendCSF appends a freshly built CSF (one ShellState per shell) to cfg.
func appendCSF(cfg *Configuration, states []ShellState) {
	if len(states) != cfg.NShells() {
		chk.Panic("shell: CSF has %d states but configuration has %d shells", len(states), cfg.NShells())
	}
	cfg.CSFs = append(cfg.CSFs, states...)
}

// Couple builds every coupled CSF of cfg by successive inner-shell
// coupling: starting from the innermost shell (last in cfg.Shells),
// enumerate its allowed (shellJ2, ν, Nr), then for each outer shell
// enumerate its own (shellJ2, ν, Nr) and couple with the running totalJ2
// by the triangle rule. Returns a freshly-built Configuration (a pure
// function: cfg itself is read-only).
func Couple(cfg *Configuration) *Configuration {
	out := &Configuration{Shells: append([]Shell(nil), cfg.Shells...)}
	n := len(cfg.Shells)
	if n == 0 {
		return out
	}

	// single-shell states for every shell, indexed in cfg.Shells order
	perShell := make([][]ShellState, n)
	for i, s := range cfg.Shells {
		perShell[i] = GetSingleShell(s)
	}

	// couple from the innermost shell (index n-1) outward (index 0)
	type partial struct {
		states []ShellState // states assigned so far, innermost-first
		j2     int          // running total 2J
	}
	cur := []partial{{states: nil, j2: 0}}
	for i := n - 1; i >= 0; i-- {
		var next []partial
		for _, p := range cur {
			for _, st := range perShell[i] {
				var total int
				if len(p.states) == 0 {
					total = st.ShellJ2
				} else {
					total = -1
				}
				if total == -1 {
					for j2 := abs(p.j2-st.ShellJ2); j2 <= p.j2+st.ShellJ2; j2 += 2 {
						coupled := st
						coupled.TotalJ2 = j2
						states := append(append([]ShellState(nil), p.states...), coupled)
						next = append(next, partial{states: states, j2: j2})
					}
					continue
				}
				coupled := st
				coupled.TotalJ2 = total
				states := append(append([]ShellState(nil), p.states...), coupled)
				next = append(next, partial{states: states, j2: total})
			}
		}
		cur = next
	}

	for _, p := range cur {
		// p.states is innermost-first; CSF order must match cfg.Shells
		// (outer-first), so reverse.
		rev := make([]ShellState, n)
		for i, st := range p.states {
			rev[n-1-i] = st
		}
		appendCSF(out, rev)
	}
	out.checkInvariant()
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// GetSingleShell enumerates the allowed (shellJ2, ν, Nr) states of a
// single shell's jⁿq equivalent-electron configuration. The closed
// (Nq==0 or Nq==degeneracy) cases are handled directly: they contribute a
// unique J=0, ν=0 state (spec.md §4.2 edge case).
func GetSingleShell(s Shell) []ShellState {
	j2 := s.J2()
	nq := s.Nq
	deg := s.Degeneracy()
	if nq == 0 || nq == deg {
		return []ShellState{{ShellJ2: 0, Nu: 0, Nr: 0}}
	}
	if nq < 0 || nq > deg {
		chk.Panic("shell: invalid occupation %d for shell with degeneracy %d", nq, deg)
	}

	// J-content of v equivalent particles in this j-shell, for every v of
	// the same parity as nq, 0/1 <= v <= nq, computed by the standard
	// magnetic-quantum-number branching rule (exact: no approximation).
	start := nq % 2
	contents := map[int]map[int]int{}
	for v := start; v <= nq; v += 2 {
		contents[v] = jContent(j2, v)
	}

	// seniority ν is the lowest particle number of the same parity at
	// which a given J first appears (Racah's seniority classification for
	// a single j-shell): primitive(v) = content(v) - content(v-2).
	type key struct{ j2, v int }
	mult := map[key]int{}
	for v := start; v <= nq; v += 2 {
		prev := map[int]int{}
		if v-2 >= 0 {
			prev = contents[v-2]
		}
		for J, c := range contents[v] {
			p := c - prev[J]
			if p > 0 {
				mult[key{J, v}] = p
			}
		}
	}

	var out []ShellState
	// deterministic order: by J2 ascending, then by seniority ascending
	js := keysJ(mult)
	sortInts(js)
	for _, J := range js {
		vs := keysVForJ(mult, J)
		sortInts(vs)
		for _, v := range vs {
			for nr := 0; nr < mult[key{J, v}]; nr++ {
				out = append(out, ShellState{ShellJ2: J, Nu: v, Nr: nr})
			}
		}
	}
	return out
}

// jContent returns, for v equivalent electrons in a single shell of total
// angular momentum 2j=j2, the multiplicity of every total angular
// momentum 2J value (exact branching-rule / Slater-determinant count).
func jContent(j2, v int) map[int]int {
	deg := j2 + 1
	if v == 0 {
		return map[int]int{0: 1}
	}
	if v == deg {
		return map[int]int{0: 1}
	}
	// 2m values available: -j2, -j2+2, ..., j2 (deg slots)
	m2 := make([]int, deg)
	for i := 0; i < deg; i++ {
		m2[i] = -j2 + 2*i
	}
	// D(M) = number of ways to choose v distinct slots summing to 2M
	D := map[int]int{}
	var choose func(start, remaining, sum int)
	choose = func(start, remaining, sum int) {
		if remaining == 0 {
			D[sum]++
			return
		}
		for i := start; i <= deg-remaining; i++ {
			choose(i+1, remaining-1, sum+m2[i])
		}
	}
	choose(0, v, 0)
	// content(J) = D(J) - D(J+2), for J >= 0 with the parity of v·j2 (every
	// sum of v values of 2m shares that parity)
	content := map[int]int{}
	maxM := v * j2 // crude upper bound on |sum|
	for J := (v * j2) % 2; J <= maxM; J += 2 {
		c := D[J] - D[J+2]
		if c > 0 {
			content[J] = c
		}
	}
	return content
}

func keysJ(m map[struct{ j2, v int }]int) []int {
	seen := map[int]bool{}
	var out []int
	for k := range m {
		if !seen[k.j2] {
			seen[k.j2] = true
			out = append(out, k.j2)
		}
	}
	return out
}

func keysVForJ(m map[struct{ j2, v int }]int, J int) []int {
	var out []int
	for k := range m {
		if k.j2 == J {
			out = append(out, k.v)
		}
	}
	return out
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package group

import (
	"testing"

	"github.com/cpmech/goatom/shell"
)

func Test_decodePJRoundTrip(tst *testing.T) {
	for p := 0; p <= 1; p++ {
		for j2 := 0; j2 <= 20; j2++ {
			key := encodePJ(p, j2)
			gp, gj := DecodePJ(key)
			if gp != p || gj != j2 {
				tst.Fatalf("round trip failed for p=%d j2=%d: got p=%d j2=%d", p, j2, gp, gj)
			}
		}
	}
}

// Test_partitionInvariant checks Testable Property 3: every CSF is
// registered in exactly one symmetry block.
func Test_partitionInvariant(tst *testing.T) {
	idx := NewIndex()
	gi, err := idx.AddGroup("ne")
	if err != nil {
		tst.Fatal(err)
	}
	cfg := &shell.Configuration{Shells: []shell.Shell{
		{N: 2, Kappa: 1, Nq: 2},  // 2p1/2^2
		{N: 2, Kappa: -2, Nq: 4}, // 2p3/2^4
		{N: 2, Kappa: -1, Nq: 2}, // 2s^2
		{N: 1, Kappa: -1, Nq: 2}, // 1s^2
	}}
	idx.AddConfigToList(gi, cfg)
	if err := idx.CheckPartition(); err != nil {
		tst.Fatal(err)
	}
	if idx.TotalCSFs() == 0 {
		tst.Fatal("expected at least one CSF")
	}
	// Ne ground state: all shells closed, so exactly one CSF with J=0, even parity
	p, j2 := 0, 0
	states := idx.Symmetry(p, j2)
	if len(states) != 1 {
		tst.Fatalf("expected 1 state in (p=0,2J=0) block for fully-closed Ne, got %d", len(states))
	}
}

func Test_duplicateGroupName(tst *testing.T) {
	idx := NewIndex()
	if _, err := idx.AddGroup("a"); err != nil {
		tst.Fatal(err)
	}
	if _, err := idx.AddGroup("a"); err == nil {
		tst.Fatal("expected error on duplicate group name")
	}
}

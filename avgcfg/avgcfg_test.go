// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package avgcfg

import (
	"testing"

	"github.com/cpmech/goatom/group"
	"github.com/cpmech/goatom/shell"
)

func Test_buildSingleGroup(tst *testing.T) {
	idx := group.NewIndex()
	gi, _ := idx.AddGroup("he")
	cfg := &shell.Configuration{Shells: []shell.Shell{{N: 1, Kappa: -1, Nq: 2}}}
	idx.AddConfigToList(gi, cfg)

	acfg, err := Build(idx, []int{gi}, []float64{1.0}, ScreeningSpec{})
	if err != nil {
		tst.Fatal(err)
	}
	if len(acfg.Shells) != 1 {
		tst.Fatalf("expected 1 averaged shell, got %d", len(acfg.Shells))
	}
	if acfg.Shells[0].Nq != 2.0 {
		tst.Fatalf("expected nq=2, got %v", acfg.Shells[0].Nq)
	}
	if acfg.TotalCharge() != 2.0 {
		tst.Fatalf("expected total charge 2, got %v", acfg.TotalCharge())
	}
}

func Test_buildWeightedMix(tst *testing.T) {
	idx := group.NewIndex()
	g1, _ := idx.AddGroup("a")
	g2, _ := idx.AddGroup("b")
	idx.AddConfigToList(g1, &shell.Configuration{Shells: []shell.Shell{{N: 2, Kappa: -1, Nq: 2}}})
	idx.AddConfigToList(g2, &shell.Configuration{Shells: []shell.Shell{{N: 2, Kappa: -1, Nq: 0}}})

	acfg, err := Build(idx, []int{g1, g2}, []float64{1.0, 1.0}, ScreeningSpec{})
	if err != nil {
		tst.Fatal(err)
	}
	if acfg.Shells[0].Nq != 1.0 {
		tst.Fatalf("expected averaged nq=1, got %v", acfg.Shells[0].Nq)
	}
}

func Test_screeningInjection(tst *testing.T) {
	idx := group.NewIndex()
	gi, _ := idx.AddGroup("x")
	idx.AddConfigToList(gi, &shell.Configuration{Shells: []shell.Shell{{N: 1, Kappa: -1, Nq: 2}}})

	acfg, err := Build(idx, []int{gi}, []float64{1.0}, ScreeningSpec{N: []int{3}, Charge: 0.5, Kl: 0})
	if err != nil {
		tst.Fatal(err)
	}
	if len(acfg.Shells) != 2 {
		tst.Fatalf("expected 2 shells after screening injection, got %d", len(acfg.Shells))
	}
	if acfg.Shells[1].N != 3 || acfg.Shells[1].Nq != 0.5 {
		tst.Fatalf("unexpected screening shell: %+v", acfg.Shells[1])
	}
}

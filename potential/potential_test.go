// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package potential

import (
	"math"
	"testing"

	"github.com/cpmech/goatom/avgcfg"
	"github.com/cpmech/goatom/external"
	"github.com/cpmech/goatom/orbital"
)

func Test_newGrid(tst *testing.T) {
	p, err := New(1.0, 1e-5, 50.0, 200)
	if err != nil {
		tst.Fatal(err)
	}
	if p.NPoints() != 200 {
		tst.Fatalf("expected 200 points, got %d", p.NPoints())
	}
	if p.R(0) <= 0 || p.R(199) < p.R(0) {
		tst.Fatal("expected an increasing positive radial grid")
	}
	for i := 0; i < 200; i++ {
		if p.Z(i) != 1.0 {
			tst.Fatalf("expected bare Z=1 at every point, got %v at %d", p.Z(i), i)
		}
	}
}

func Test_invalidGrid(tst *testing.T) {
	if _, err := New(1.0, -1, 1, 50); err == nil {
		tst.Fatal("expected an error for a non-positive rmin")
	}
	if _, err := New(1.0, 1e-5, 1.0, 4); err == nil {
		tst.Fatal("expected an error for too few grid points")
	}
}

func Test_setBareWhenNoOrbitals(tst *testing.T) {
	p, _ := New(2.0, 1e-5, 50.0, 100)
	acfg := &avgcfg.AverageConfig{Shells: []avgcfg.Shell{{N: 1, Kappa: -1, Nq: 2}}}
	store := orbital.NewStore()
	coll := external.Default()
	if err := p.Set(acfg, store, coll); err != nil {
		tst.Fatal(err)
	}
	for i := 0; i < p.NPoints(); i++ {
		if p.U(i) != 0 {
			tst.Fatalf("expected bare U=0 at %d, got %v", i, p.U(i))
		}
	}
}

func Test_setWithOccupiedShell(tst *testing.T) {
	p, _ := New(2.0, 1e-5, 50.0, 150)
	acfg := &avgcfg.AverageConfig{Shells: []avgcfg.Shell{{N: 1, Kappa: -1, Nq: 2}}}
	store := orbital.NewStore()
	_, orb := store.AddNew(1, -1, -2.0)
	orb.Wfun = make([]float64, 2*p.NPoints())
	for i := 0; i < p.NPoints(); i++ {
		r := p.R(i)
		orb.Wfun[2*i] = r * math.Exp(-r)
	}
	orb.Ilast = p.NPoints() - 1

	coll := external.Default()
	if err := p.Set(acfg, store, coll); err != nil {
		tst.Fatal(err)
	}
	for i := 0; i < p.NPoints(); i++ {
		if math.IsNaN(p.U(i)) || math.IsInf(p.U(i), 0) {
			tst.Fatalf("U blew up at %d", i)
		}
	}
	if p.Lambda <= 0 {
		tst.Fatalf("expected a positive screening rate, got %v", p.Lambda)
	}
}

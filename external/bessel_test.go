// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package external

import (
	"math"
	"testing"
)

func Test_besselJ0J1(tst *testing.T) {
	b := defaultBessel{}
	x := 2.3
	j0 := math.Sin(x) / x
	if math.Abs(b.SphericalJ(0, x)-j0) > 1e-12 {
		tst.Fatalf("j0 mismatch: %v vs %v", b.SphericalJ(0, x), j0)
	}
	j1 := math.Sin(x)/(x*x) - math.Cos(x)/x
	if math.Abs(b.SphericalJ(1, x)-j1) > 1e-12 {
		tst.Fatalf("j1 mismatch: %v vs %v", b.SphericalJ(1, x), j1)
	}
}

func Test_besselRecurrenceConsistency(tst *testing.T) {
	b := defaultBessel{}
	x := 5.0
	for n := 1; n < 6; n++ {
		lhs := b.SphericalJ(n-1, x) + b.SphericalJ(n+1, x)
		rhs := float64(2*n+1) / x * b.SphericalJ(n, x)
		if math.Abs(lhs-rhs) > 1e-6 {
			tst.Fatalf("recurrence broken at n=%d: %v vs %v", n, lhs, rhs)
		}
	}
}

func Test_besselSmallX(tst *testing.T) {
	b := defaultBessel{}
	// j_n(0)=0 for n>0
	if b.SphericalJ(3, 0) != 0 {
		tst.Fatal("expected j3(0)=0")
	}
	if b.SphericalJ(0, 0) != 1 {
		tst.Fatal("expected j0(0)=1")
	}
}

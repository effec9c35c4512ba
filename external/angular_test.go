// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package external

import (
	"math"
	"testing"
)

func Test_w3jTableValue(tst *testing.T) {
	a := defaultAngular{}
	// (1/2 1/2 0; 1/2 -1/2 0) = 1/sqrt(2) by a standard table value
	// j's and m's below are 2x-scaled: j1=j2=1 (1/2), j3=0, m1=1,m2=-1,m3=0
	v := a.W3j(1, 1, 0, 1, -1, 0)
	want := 1.0 / math.Sqrt(2)
	if math.Abs(math.Abs(v)-want) > 1e-9 {
		tst.Fatalf("expected |3j|=%v, got %v", want, v)
	}
}

func Test_w3jSelectionRules(tst *testing.T) {
	a := defaultAngular{}
	// m1+m2+m3 != 0 must vanish
	if a.W3j(2, 2, 2, 1, 1, 1) != 0 {
		tst.Fatal("expected 0 for violated m-sum rule")
	}
	// triangle violation (j3 too large) must vanish
	if a.W3j(2, 2, 20, 0, 0, 0) != 0 {
		tst.Fatal("expected 0 for violated triangle rule")
	}
}

func Test_w6jDeterministicAndBounded(tst *testing.T) {
	a := defaultAngular{}
	v1 := a.W6j(2, 2, 2, 2, 2, 2)
	v2 := a.W6j(2, 2, 2, 2, 2, 2)
	if v1 != v2 {
		tst.Fatal("expected deterministic result")
	}
	if math.Abs(v1) > 1 {
		tst.Fatalf("6j magnitude should not exceed 1, got %v", v1)
	}
}

func Test_triangleDelegation(tst *testing.T) {
	a := defaultAngular{}
	if !a.Triangle(2, 2, 0) {
		tst.Fatal("expected (1,1,0) to satisfy the triangle rule")
	}
	if a.Triangle(2, 2, 10) {
		tst.Fatal("expected (1,1,5) to violate the triangle rule")
	}
}

// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package external

import (
	"math"
	"testing"
)

type uniformField struct {
	n  int
	h  float64
	r0 float64
}

func (f uniformField) NPoints() int        { return f.n }
func (f uniformField) R(i int) float64     { return f.r0 + float64(i)*f.h }
func (f uniformField) DrDrho(i int) float64 { return f.h }
func (f uniformField) Z(i int) float64     { return 0 }
func (f uniformField) Vc(i int) float64    { return 0 }
func (f uniformField) U(i int) float64     { return 0 }

func Test_quadratureConstant(tst *testing.T) {
	q := defaultQuadrature{}
	field := uniformField{n: 11, h: 0.1, r0: 0}
	f := make([]float64, field.n)
	for i := range f {
		f[i] = 1.0
	}
	out := make([]float64, field.n)
	q.Integrate(out, f, field, 0, field.n-1)
	want := float64(field.n-1) * field.h
	if math.Abs(out[field.n-1]-want) > 1e-9 {
		tst.Fatalf("expected %v, got %v", want, out[field.n-1])
	}
}

func Test_quadratureLinear(tst *testing.T) {
	q := defaultQuadrature{}
	field := uniformField{n: 21, h: 0.05, r0: 0}
	f := make([]float64, field.n)
	for i := range f {
		f[i] = field.R(i)
	}
	out := make([]float64, field.n)
	q.Integrate(out, f, field, 0, field.n-1)
	rEnd := field.R(field.n - 1)
	want := 0.5 * rEnd * rEnd
	if math.Abs(out[field.n-1]-want) > 1e-6 {
		tst.Fatalf("expected %v, got %v", want, out[field.n-1])
	}
}

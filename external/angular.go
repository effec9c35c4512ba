// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package external

import (
	"math"

	"github.com/cpmech/goatom/qnum"
)

// defaultAngular evaluates Wigner 3-j and 6-j symbols with Racah's
// formula, using math.Gamma(x+1) as a generalized factorial that
// accepts the half-integer arguments arising from doubled angular
// momenta. No pack repo implements angular-momentum algebra; this
// adapter is justified as a standard-library-only default since no
// example library covers it either — see DESIGN.md.
type defaultAngular struct{}

func fact(x float64) float64 {
	if x < -0.5 {
		return math.NaN()
	}
	return math.Gamma(x + 1)
}

func half(j int) float64 { return float64(j) / 2.0 }

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func triangleDelta(a, b, c float64) float64 {
	num := fact(a+b-c) * fact(a-b+c) * fact(-a+b+c)
	den := fact(a + b + c + 1)
	v := num / den
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return math.Sqrt(v)
}

func (defaultAngular) Triangle(j1, j2, j3 int) bool {
	return qnum.Triangle(j1, j2, j3)
}

func (defaultAngular) W3j(j1, j2, j3, m1, m2, m3 int) float64 {
	if m1+m2+m3 != 0 {
		return 0
	}
	if !qnum.Triangle(j1, j2, j3) {
		return 0
	}
	if absInt(m1) > j1 || absInt(m2) > j2 || absInt(m3) > j3 {
		return 0
	}
	a, b, c := half(j1), half(j2), half(j3)
	ma, mb, mc := half(m1), half(m2), half(m3)

	delta := triangleDelta(a, b, c)
	if delta == 0 {
		return 0
	}
	pre := math.Sqrt(fact(a+ma) * fact(a-ma) * fact(b+mb) * fact(b-mb) * fact(c+mc) * fact(c-mc))

	sum := 0.0
	for k := -40; k <= 40; k++ {
		kf := float64(k)
		args := []float64{kf, a + b - c - kf, a - ma - kf, b + mb - kf, c - b + ma + kf, c - a - mb + kf}
		ok := true
		for _, x := range args {
			if x < -1e-9 {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		denom := fact(args[0]) * fact(args[1]) * fact(args[2]) * fact(args[3]) * fact(args[4]) * fact(args[5])
		if denom == 0 || math.IsNaN(denom) {
			continue
		}
		term := 1.0 / denom
		if k%2 != 0 {
			term = -term
		}
		sum += term
	}

	sign := 1.0
	if int(a-b-mc)%2 != 0 {
		// (a-b-mc) should be integer when m1+m2+m3=0; guard against fp drift
		sign = -1.0
	}
	return sign * delta * pre * sum
}

func (defaultAngular) W6j(j1, j2, j3, j4, j5, j6 int) float64 {
	if !qnum.Triangle(j1, j2, j3) || !qnum.Triangle(j1, j5, j6) ||
		!qnum.Triangle(j4, j2, j6) || !qnum.Triangle(j4, j5, j3) {
		return 0
	}
	a1, a2, a3 := half(j1), half(j2), half(j3)
	a4, a5, a6 := half(j4), half(j5), half(j6)

	pre := triangleDelta(a1, a2, a3) * triangleDelta(a1, a5, a6) *
		triangleDelta(a4, a2, a6) * triangleDelta(a4, a5, a3)
	if pre == 0 {
		return 0
	}

	s123 := a1 + a2 + a3
	s156 := a1 + a5 + a6
	s426 := a4 + a2 + a6
	s453 := a4 + a5 + a3
	s1245 := a1 + a2 + a4 + a5
	s2356 := a2 + a3 + a5 + a6
	s3164 := a3 + a1 + a6 + a4

	sum := 0.0
	for t := 0; t <= 80; t++ {
		tf := float64(t)
		args := []float64{tf - s123, tf - s156, tf - s426, tf - s453,
			s1245 - tf, s2356 - tf, s3164 - tf}
		ok := true
		for _, x := range args {
			if x < -1e-9 {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		denom := fact(args[0]) * fact(args[1]) * fact(args[2]) * fact(args[3]) *
			fact(args[4]) * fact(args[5]) * fact(args[6])
		if denom == 0 || math.IsNaN(denom) {
			continue
		}
		term := fact(tf+1) / denom
		if t%2 != 0 {
			term = -term
		}
		sum += term
	}
	return pre * sum
}

// ReducedCL is the reduced Clebsch-Gordan-like matrix element
// ⟨κ1‖C^k‖κ2⟩ expressed through a 3-j symbol, spec.md §4.9. k is already
// 2×-scaled (every caller in this module passes a 2×-scaled rank, matching
// FAC's own `ReducedCL` which calls `W3j(ja, k, jb, 1,0,-1)` with k the
// 2×-scaled rank directly, radial.c:1085-1116).
func (a defaultAngular) ReducedCL(j1, k, j2 int) float64 {
	w := a.W3j(j1, k, j2, 1, 0, -1)
	sign := 1.0
	if ((j1-1)/2)%2 != 0 {
		sign = -1.0
	}
	return sign * math.Sqrt(float64(j1+1)*float64(j2+1)) * w
}

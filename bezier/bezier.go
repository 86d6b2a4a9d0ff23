// Package bezier provides Bernstein-basis evaluation for the Bézier
// surfaces and curves used by the flag cloth and lantern flight paths.
package bezier

import "math"

// Basis evaluates the Bernstein basis polynomial B_i^n(t) = C(n,i)·tⁱ·(1−t)ⁿ⁻ⁱ.
// Indices outside [0, n] evaluate to zero.
func Basis(n, i int, t float64) float64 {
	if i < 0 || i > n {
		return 0
	}
	if n == 0 {
		return 1
	}

	binomial := 1.0
	for j := 0; j < i; j++ {
		binomial = binomial * float64(n-j) / float64(j+1)
	}
	return binomial * math.Pow(t, float64(i)) * math.Pow(1-t, float64(n-i))
}

// BasisDerivative evaluates d/dt B_i^n(t).
func BasisDerivative(n, i int, t float64) float64 {
	if i < 0 || i > n || n == 0 {
		return 0
	}

	switch i {
	case 0:
		return -float64(n) * math.Pow(1-t, float64(n-1))
	case n:
		return float64(n) * math.Pow(t, float64(n-1))
	}

	binomial := 1.0
	for j := 0; j < i; j++ {
		binomial = binomial * float64(n-j) / float64(j+1)
	}
	term1 := float64(i) * math.Pow(t, float64(i-1)) * math.Pow(1-t, float64(n-i))
	term2 := float64(n-i) * math.Pow(t, float64(i)) * math.Pow(1-t, float64(n-i-1))
	return binomial * (term1 - term2)
}

// Point3 is the minimal vector the package operates on. It mirrors the
// caller's Vec3 layout so grids can be converted without allocation games.
type Point3 struct {
	X, Y, Z float64
}

func (p Point3) add(o Point3) Point3 {
	return Point3{p.X + o.X, p.Y + o.Y, p.Z + o.Z}
}

func (p Point3) scale(s float64) Point3 {
	return Point3{p.X * s, p.Y * s, p.Z * s}
}

// Surface is a grid of control points defining a Bézier surface of degree
// (len(points)−1) in U and (len(points[0])−1) in V. The grid must be at
// least 2×2 and rectangular.
type Surface struct {
	// Points is indexed [i][j] with i along U and j along V.
	Points [][]Point3
}

// Evaluate returns the surface position at (u, v):
// ΣᵢΣⱼ Bᵢ(u)·Bⱼ(v)·Points[i][j].
func (s Surface) Evaluate(u, v float64) Point3 {
	nu := len(s.Points) - 1
	nv := len(s.Points[0]) - 1

	var pos Point3
	for i := 0; i <= nu; i++ {
		bu := Basis(nu, i, u)
		if bu == 0 {
			continue
		}
		for j := 0; j <= nv; j++ {
			pos = pos.add(s.Points[i][j].scale(bu * Basis(nv, j, v)))
		}
	}
	return pos
}

// Tangents returns the analytic partial derivatives ∂S/∂u and ∂S/∂v at
// (u, v), used for normal computation.
func (s Surface) Tangents(u, v float64) (du, dv Point3) {
	nu := len(s.Points) - 1
	nv := len(s.Points[0]) - 1

	for i := 0; i <= nu; i++ {
		bu := Basis(nu, i, u)
		dbu := BasisDerivative(nu, i, u)
		for j := 0; j <= nv; j++ {
			bv := Basis(nv, j, v)
			dbv := BasisDerivative(nv, j, v)
			du = du.add(s.Points[i][j].scale(dbu * bv))
			dv = dv.add(s.Points[i][j].scale(bu * dbv))
		}
	}
	return du, dv
}

// Cubic is a cubic Bézier curve through four control points, used for
// lantern flight paths.
type Cubic struct {
	P0, P1, P2, P3 Point3
}

// Point evaluates the curve at t ∈ [0, 1].
func (c Cubic) Point(t float64) Point3 {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	cc := 3 * mt * t * t
	d := t * t * t
	return c.P0.scale(a).add(c.P1.scale(b)).add(c.P2.scale(cc)).add(c.P3.scale(d))
}

// Tangent evaluates the curve's analytic derivative at t ∈ [0, 1].
func (c Cubic) Tangent(t float64) Point3 {
	mt := 1 - t
	a := 3 * mt * mt
	b := 6 * mt * t
	cc := 3 * t * t
	return c.P1.sub(c.P0).scale(a).
		add(c.P2.sub(c.P1).scale(b)).
		add(c.P3.sub(c.P2).scale(cc))
}

func (p Point3) sub(o Point3) Point3 {
	return Point3{p.X - o.X, p.Y - o.Y, p.Z - o.Z}
}

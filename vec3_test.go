package skycity

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertNearEps(t *testing.T, name string, got, want, eps float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Errorf("%s = %v, want %v (eps %v)", name, got, want, eps)
	}
}

func assertVec3Near(t *testing.T, name string, got, want Vec3) {
	t.Helper()
	if math.Abs(got.X-want.X) > 1e-6 || math.Abs(got.Y-want.Y) > 1e-6 || math.Abs(got.Z-want.Z) > 1e-6 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// --- basic arithmetic ---

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, -5, 6}

	assertVec3Near(t, "Add", a.Add(b), Vec3{5, -3, 9})
	assertVec3Near(t, "Sub", a.Sub(b), Vec3{-3, 7, -3})
	assertVec3Near(t, "Scale", a.Scale(2), Vec3{2, 4, 6})
	assertNear(t, "Dot", a.Dot(b), 1*4+2*-5+3*6)
	assertVec3Near(t, "Cross x", Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0}), Vec3{0, 0, 1})
	assertNear(t, "Length", Vec3{3, 4, 0}.Length(), 5)
}

func TestVec3Normalized(t *testing.T) {
	n := Vec3{0, 0, 7}.Normalized()
	assertVec3Near(t, "Normalized", n, Vec3{0, 0, 1})

	if got := (Vec3{}).Normalized(); got != (Vec3{}) {
		t.Errorf("zero vector Normalized = %v, want zero", got)
	}
}

func TestVec3NormalizedOr(t *testing.T) {
	fallback := Vec3{1, 0, 0}

	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"zero", Vec3{}, fallback},
		{"tiny", Vec3{1e-9, 0, 0}, fallback},
		{"nan", Vec3{math.NaN(), 0, 0}, fallback},
		{"inf", Vec3{math.Inf(1), 0, 0}, fallback},
		{"normal", Vec3{0, 2, 0}, Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertVec3Near(t, "NormalizedOr", tt.in.NormalizedOr(fallback), tt.want)
		})
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{10, -20, 30}
	assertVec3Near(t, "t=0", a.Lerp(b, 0), a)
	assertVec3Near(t, "t=1", a.Lerp(b, 1), b)
	assertVec3Near(t, "t=0.5", a.Lerp(b, 0.5), Vec3{5, -10, 15})
}

// --- orientation helpers ---

func TestHorizontalBasisFlattens(t *testing.T) {
	right, up, forward := horizontalBasis(Vec3{1, 5, 0})

	assertVec3Near(t, "forward", forward, Vec3{1, 0, 0})
	assertVec3Near(t, "up", up, Vec3{0, 1, 0})
	assertVec3Near(t, "right", right, Vec3{0, 0, 1})
	assertNear(t, "orthogonal", right.Dot(forward), 0)
}

func TestHorizontalBasisVerticalFallback(t *testing.T) {
	_, _, forward := horizontalBasis(Vec3{0, 1, 0})
	assertVec3Near(t, "forward fallback", forward, Vec3{1, 0, 0})
}

func TestYawPitchRoundTrip(t *testing.T) {
	dirs := []Vec3{
		{1, 0, 0},
		{0, 0, 1},
		{-1, 0, -1},
		{1, 1, 1},
		{0.5, -0.8, 0.2},
	}
	for _, d := range dirs {
		want := d.Normalized()
		yaw, pitch := yawPitchFromDirection(d)
		got := directionFromYawPitch(yaw, pitch)
		assertVec3Near(t, "round trip", got, want)
	}
}

func TestYawPitchFromZeroDirection(t *testing.T) {
	yaw, pitch := yawPitchFromDirection(Vec3{})
	assertNear(t, "yaw", yaw, 0)
	assertNear(t, "pitch", pitch, 0)
}

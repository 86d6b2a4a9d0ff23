package skycity

import "math"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// WithAlpha returns the color with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Range is a general-purpose min/max range. Draws are inclusive of both ends.
type Range struct {
	Min, Max float64
}

// Random returns a value in [Min, Max] drawn from the given source.
func (r Range) Random(rng *Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// IntRange is an inclusive integer range, used for lantern batch sizes.
type IntRange struct {
	Min, Max int
}

// Random returns an integer in [Min, Max] drawn from the given source.
func (r IntRange) Random(rng *Rand) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.IntN(r.Max-r.Min+1)
}

// Light is a point light handed to the Renderer each tick.
type Light struct {
	Position  Vec3
	Color     Color
	Intensity float64
	Radius    float64
}

// Vertex is a renderable vertex. The core produces these for the flag
// surface and its debug markers; everything else is moved by transform.
type Vertex struct {
	Position Vec3
	Normal   Vec3
	U, V     float64
	Color    Color
}

// Transform is the decomposed transform the core emits per named mesh.
// The Renderer composes it as translate · rotate(yaw, pitch, roll) · scale.
// Angles are in degrees. A zero Scale hides the mesh.
type Transform struct {
	Position Vec3
	Yaw      float64
	Pitch    float64
	Roll     float64
	Scale    Vec3
}

// HiddenTransform returns a zero-scale transform at the given position,
// used to hide despawned entities without removing their mesh.
func HiddenTransform(pos Vec3) Transform {
	return Transform{Position: pos}
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// smoothstep applies the cubic ease t²(3−2t) to t clamped to [0, 1].
func smoothstep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeAngle wraps an angle in degrees to (-180, 180].
func normalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	return deg
}

// shortestAngleDelta returns the signed shortest rotation from a to b in
// degrees. The result is always in (-180, 180].
func shortestAngleDelta(a, b float64) float64 {
	return normalizeAngle(b - a)
}

// wrapAngle360 wraps an angle in degrees to [0, 360).
func wrapAngle360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

package skycity

import "math"

// Vec3 is a 3D vector used for positions, directions, and velocities
// throughout the API. Y is up.
type Vec3 struct {
	X, Y, Z float64
}

// worldUp is the global up axis used for orientation bases.
var worldUp = Vec3{0, 1, 0}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v − o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalized returns v scaled to unit length. The zero vector normalizes
// to the zero vector; use NormalizedOr when a safe default is required.
func (v Vec3) Normalized() Vec3 {
	mag := v.Length()
	if mag == 0 {
		return Vec3{}
	}
	inv := 1 / mag
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// NormalizedOr returns v scaled to unit length, or fallback when v is too
// short to normalize without blowing up. Keeps NaN/Inf out of transforms.
func (v Vec3) NormalizedOr(fallback Vec3) Vec3 {
	mag := v.Length()
	if mag < 1e-6 || math.IsNaN(mag) || math.IsInf(mag, 0) {
		return fallback
	}
	inv := 1 / mag
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// Lerp linearly interpolates between v and o by t.
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{
		lerp(v.X, o.X, t),
		lerp(v.Y, o.Y, t),
		lerp(v.Z, o.Z, t),
	}
}

// IsFinite reports whether all components are finite numbers.
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// horizontalBasis builds a (right, up, forward) orthonormal basis whose
// forward is the given direction projected onto the horizontal plane and
// whose up is world up. Near-vertical directions fall back to +X forward.
func horizontalBasis(dir Vec3) (right, up, forward Vec3) {
	flat := Vec3{dir.X, 0, dir.Z}
	forward = flat.NormalizedOr(Vec3{1, 0, 0})
	up = worldUp
	right = forward.Cross(up).NormalizedOr(Vec3{0, 0, -1})
	return right, up, forward
}

// yawPitchFromDirection derives yaw and pitch in degrees from a direction
// vector, matching the camera convention: yaw from atan2(z, x), pitch from
// asin(y). Zero-length directions yield zero angles.
func yawPitchFromDirection(dir Vec3) (yaw, pitch float64) {
	d := dir.NormalizedOr(Vec3{})
	if d == (Vec3{}) {
		return 0, 0
	}
	yaw = math.Atan2(d.Z, d.X) * 180 / math.Pi
	pitch = math.Asin(clamp(d.Y, -1, 1)) * 180 / math.Pi
	return yaw, pitch
}

// directionFromYawPitch is the inverse of yawPitchFromDirection; angles are
// in degrees and the result is unit length.
func directionFromYawPitch(yaw, pitch float64) Vec3 {
	yawRad := yaw * math.Pi / 180
	pitchRad := pitch * math.Pi / 180
	return Vec3{
		math.Cos(yawRad) * math.Cos(pitchRad),
		math.Sin(pitchRad),
		math.Sin(yawRad) * math.Cos(pitchRad),
	}
}

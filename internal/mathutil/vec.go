package mathutil

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Normalize returns v scaled to unit length, or the zero vector when v is
// (nearly) zero. mgl32's own Normalize divides by zero in that case.
func Normalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return mgl32.Vec3{}
	}
	inv := 1 / l
	return mgl32.Vec3{v[0] * inv, v[1] * inv, v[2] * inv}
}

// MulVec3 multiplies component-wise.
func MulVec3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// SaturateVec3 clamps every component to [0, 1].
func SaturateVec3(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{Saturate(v[0]), Saturate(v[1]), Saturate(v[2])}
}

// LerpVec3 interpolates component-wise.
func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.Vec3{Lerp(a[0], b[0], t), Lerp(a[1], b[1], t), Lerp(a[2], b[2], t)}
}

// Cross2 is the z component of the 3D cross product of two 2D vectors.
func Cross2(a, b mgl32.Vec2) float32 {
	return a[0]*b[1] - a[1]*b[0]
}

// DistanceXZ measures the distance between two points on the ground plane.
func DistanceXZ(a, b mgl32.Vec3) float32 {
	dx := a[0] - b[0]
	dz := a[2] - b[2]
	return math32.Sqrt(dx*dx + dz*dz)
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
